package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/familytree/internal/core"
)

// TopGivenNames renders a top given names block. configURL is empty when
// the viewer may not configure the block.
func TopGivenNames(block *core.TopGivenNamesBlock, configURL string) templ.Component {
	return view(func(hw *htmlWriter) {
		hw.tag("div", "class", "block block-top-given-names", "id", "block-"+strconv.Itoa(int(block.BlockID)))
		hw.raw(`<div class="block-header">`)
		hw.elem("h3", block.Title)
		if configURL != "" {
			hw.tag("a", "href", configURL, "class", "block-config", "title", "Preferences")
			hw.text("Preferences")
			hw.end("a")
		}
		hw.raw(`</div>`)

		if len(block.Males) == 0 && len(block.Females) == 0 {
			hw.elem("p", "No given names found.", "class", "empty")
			hw.end("div")
			return
		}

		switch block.Style {
		case core.StyleList:
			givenNameList(hw, "Males", block.Males)
			givenNameList(hw, "Females", block.Females)
		default:
			hw.raw(`<div class="given-names-tables">`)
			givenNameTable(hw, "Males", block.Males)
			givenNameTable(hw, "Females", block.Females)
			hw.raw(`</div>`)
		}
		hw.end("div")
	})
}

func givenNameList(hw *htmlWriter, heading string, names []core.GivenNameCount) {
	hw.raw(`<p class="given-names">`)
	hw.elem("b", heading+": ")
	for i, n := range names {
		if i > 0 {
			hw.raw(", ")
		}
		hw.tag("span", "title", strconv.FormatInt(n.Count, 10))
		hw.text(n.Name)
		hw.end("span")
	}
	hw.raw(`</p>`)
}

func givenNameTable(hw *htmlWriter, heading string, names []core.GivenNameCount) {
	hw.raw(`<table class="given-names"><caption>`)
	hw.text(heading)
	hw.raw(`</caption><thead><tr><th scope="col">Name</th><th scope="col">Individuals</th></tr></thead><tbody>`)
	for _, n := range names {
		hw.raw(`<tr>`)
		hw.elem("td", n.Name)
		hw.raw(`<td class="count">`)
		hw.int(n.Count)
		hw.raw(`</td></tr>`)
	}
	hw.raw(`</tbody></table>`)
}

// TopGivenNamesConfig is the preferences form of a top given names block.
func TopGivenNamesConfig(action string, cfg core.TopGivenNamesConfig) templ.Component {
	return view(func(hw *htmlWriter) {
		hw.tag("form", "method", "post", "action", action, "class", "block-config-form")
		hw.raw(`<label for="num">Number of given names</label>`)
		hw.tag("input", "id", "num", "name", "num", "type", "number", "min", "1",
			"max", strconv.Itoa(core.MaxTopGivenNamesNum), "value", strconv.Itoa(cfg.Num))
		hw.raw(`<fieldset><legend>Presentation style</legend>`)
		for _, style := range []core.InfoStyle{core.StyleTable, core.StyleList} {
			attrs := []string{"type", "radio", "name", "infoStyle", "value", string(style), "id", "style-" + string(style)}
			if style == cfg.Style {
				attrs = append(attrs, "checked", "checked")
			}
			hw.tag("input", attrs...)
			hw.elem("label", string(style), "for", "style-"+string(style))
		}
		hw.raw(`</fieldset><button type="submit">Save</button></form>`)
	})
}
