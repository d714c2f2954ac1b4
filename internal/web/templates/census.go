package templates

import (
	"github.com/a-h/templ"

	"github.com/JonMunkholm/familytree/internal/census"
	"github.com/JonMunkholm/familytree/internal/core"
)

// CensusForm lets an editor pick a census and the head of a household.
func CensusForm(tree core.Tree, places []string, place string, censuses []*census.Census) templ.Component {
	return view(func(hw *htmlWriter) {
		action := "/tree/" + tree.Name + "/census"
		hw.tag("form", "method", "get", "action", action, "class", "census-place")
		hw.raw(`<label for="place">Country</label>`)
		hw.tag("select", "id", "place", "name", "place", "onchange", "this.form.submit()")
		for _, p := range places {
			if p == place {
				hw.tag("option", "value", p, "selected", "selected")
			} else {
				hw.tag("option", "value", p)
			}
			hw.text(p)
			hw.end("option")
		}
		hw.raw(`</select></form>`)

		if len(censuses) == 0 {
			hw.elem("p", "There are no censuses for this country.", "class", "empty")
			return
		}

		hw.tag("form", "method", "get", "action", action+"/report", "class", "census-report",
			"hx-get", action+"/report", "hx-target", "#census-result")
		hw.raw(`<label for="census">Census</label>`)
		hw.raw(`<select id="census" name="census">`)
		for _, c := range censuses {
			hw.tag("option", "value", c.Key())
			hw.text(c.Title())
			hw.end("option")
		}
		hw.raw(`</select>`)
		hw.raw(`<label for="xref">Head of household</label>`)
		hw.raw(`<input id="xref" name="xref" required placeholder="I1">`)
		hw.raw(`<button type="submit">Create</button></form>`)
		hw.raw(`<div id="census-result"></div>`)
	})
}

// CensusReport renders a filled-in census form.
func CensusReport(tree core.Tree, report *core.CensusReport) templ.Component {
	return view(func(hw *htmlWriter) {
		hw.tag("section", "class", "census", "data-census", report.Key)
		hw.elem("h2", report.Title)
		hw.elem("p", report.Place+", "+report.Date.Format("2 January 2006"), "class", "census-date")
		hw.raw(`<table class="census-table"><thead><tr>`)
		for _, h := range report.Headings {
			hw.elem("th", h.Abbreviation, "title", h.Title, "scope", "col")
		}
		hw.raw(`</tr></thead><tbody>`)
		for _, row := range report.Rows {
			hw.tag("tr", "data-xref", row.Xref)
			for _, cell := range row.Cells {
				hw.elem("td", cell)
			}
			hw.end("tr")
		}
		hw.raw(`</tbody></table>`)
		hw.tag("a", "href", "/tree/"+tree.Name+"/census", "class", "back")
		hw.text("Another household")
		hw.end("a")
		hw.end("section")
	})
}
