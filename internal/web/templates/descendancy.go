package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/familytree/internal/core"
)

func descendancyBase(tree core.Tree) string {
	return "/tree/" + tree.Name + "/descendancy/"
}

// DescendancyList renders search results, one item per person. An empty
// slice renders nothing.
func DescendancyList(tree core.Tree, people []core.DescendancyPerson) templ.Component {
	if len(people) == 0 {
		return Empty()
	}
	return view(func(hw *htmlWriter) {
		hw.raw(`<ul class="descendancy">`)
		for _, p := range people {
			descendancyPerson(hw, tree, p)
		}
		hw.raw(`</ul>`)
	})
}

// DescendancySidebar renders the sidebar for one person and their families.
func DescendancySidebar(tree core.Tree, person *core.DescendancyPerson) templ.Component {
	if person == nil {
		return Empty()
	}
	return view(func(hw *htmlWriter) {
		hw.tag("div", "class", "sidebar sidebar-descendancy")
		hw.tag("input", "type", "search", "name", "q", "placeholder", "Search",
			"hx-get", descendancyBase(tree)+"search", "hx-trigger", "keyup changed delay:300ms",
			"hx-target", "#descendancy-results")
		hw.raw(`<div id="descendancy-results">`)
		hw.raw(`<ul class="descendancy">`)
		descendancyPerson(hw, tree, *person)
		hw.raw(`</ul></div>`)
		hw.end("div")
	})
}

// DescendancyFamilies renders the spouse families of one person. A family
// without children says so.
func DescendancyFamilies(tree core.Tree, families []core.DescendancyFamily) templ.Component {
	if len(families) == 0 {
		return Empty()
	}
	return view(func(hw *htmlWriter) {
		descendancyFamilies(hw, tree, families)
	})
}

func descendancyPerson(hw *htmlWriter, tree core.Tree, p core.DescendancyPerson) {
	hw.tag("li", "class", "descendancy-person sex-"+string(p.Sex), "data-xref", p.Xref)
	if !p.Visible {
		hw.elem("span", p.Name, "class", "private")
		hw.end("li")
		return
	}

	if p.Expanded {
		hw.elem("span", p.Name, "class", "name")
	} else {
		hw.tag("a", "href", descendancyBase(tree)+p.Xref,
			"hx-get", descendancyBase(tree)+p.Xref+"/descendants",
			"hx-target", "next .descendancy-families",
			"class", "name")
		hw.text(p.Name)
		hw.end("a")
	}
	if p.Lifespan != "" {
		hw.elem("span", "("+p.Lifespan+")", "class", "lifespan")
	}

	hw.raw(`<div class="descendancy-families">`)
	if p.Expanded {
		descendancyFamilies(hw, tree, p.Families)
	}
	hw.raw(`</div>`)
	hw.end("li")
}

func descendancyFamilies(hw *htmlWriter, tree core.Tree, families []core.DescendancyFamily) {
	for _, fam := range families {
		hw.tag("div", "class", "descendancy-family", "data-xref", fam.Xref)
		hw.raw(`<div class="spouse">`)
		if fam.Spouse != nil {
			hw.raw(`<ul class="descendancy">`)
			descendancyPerson(hw, tree, *fam.Spouse)
			hw.raw(`</ul>`)
		}
		if fam.MarriageYear > 0 {
			hw.elem("span", "m. "+strconv.Itoa(fam.MarriageYear), "class", "marriage")
		}
		hw.raw(`</div>`)

		if len(fam.Children) == 0 {
			hw.elem("p", "No children", "class", "no-children")
		} else {
			hw.raw(`<ul class="descendancy children">`)
			for _, child := range fam.Children {
				descendancyPerson(hw, tree, child)
			}
			hw.raw(`</ul>`)
		}
		hw.end("div")
	}
}
