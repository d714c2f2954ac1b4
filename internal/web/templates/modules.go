package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/familytree/internal/core"
)

// ModuleAccess is the access level of one module in a tree.
type ModuleAccess struct {
	Module core.ModuleInfo
	Level  core.Privilege
}

var privilegeChoices = []core.Privilege{core.PrivPrivate, core.PrivUser, core.PrivNone, core.PrivHide}

// ModuleAccessList lets a manager choose who may see each module.
func ModuleAccessList(tree core.Tree, modules []ModuleAccess) templ.Component {
	return view(func(hw *htmlWriter) {
		hw.raw(`<table class="modules"><thead><tr><th scope="col">Module</th><th scope="col">Component</th><th scope="col">Access level</th></tr></thead><tbody>`)
		for _, m := range modules {
			action := "/tree/" + tree.Name + "/modules/" + m.Module.Name
			hw.tag("tr", "data-module", m.Module.Name)
			hw.raw(`<td>`)
			hw.elem("b", m.Module.Title)
			hw.elem("p", m.Module.Description, "class", "description")
			hw.raw(`</td>`)
			hw.elem("td", string(m.Module.Component))
			hw.raw(`<td>`)
			hw.tag("form", "method", "post", "action", action, "hx-post", action, "hx-swap", "none")
			hw.tag("select", "name", "access_level", "onchange", "this.form.requestSubmit()")
			for _, p := range privilegeChoices {
				attrs := []string{"value", strconv.Itoa(int(p))}
				if p == m.Level {
					attrs = append(attrs, "selected", "selected")
				}
				hw.tag("option", attrs...)
				hw.text(p.String())
				hw.end("option")
			}
			hw.raw(`</select></form></td></tr>`)
		}
		hw.raw(`</tbody></table>`)
	})
}

// TreeHome is the tree page: its title and links to its tools.
func TreeHome(tree core.Tree, viewer core.Viewer, blocks []templ.Component) templ.Component {
	return view(func(hw *htmlWriter) {
		hw.raw(`<p class="tree-links">`)
		if viewer.Role.IsEditor() {
			hw.tag("a", "href", "/tree/"+tree.Name+"/census")
			hw.text("Census assistant")
			hw.end("a")
			hw.raw(` `)
		}
		if viewer.Role.IsManager() {
			hw.tag("a", "href", "/tree/"+tree.Name+"/modules")
			hw.text("Modules")
			hw.end("a")
		}
		hw.raw(`</p><div class="blocks">`)
		for _, b := range blocks {
			hw.component(b)
		}
		hw.raw(`</div>`)
	})
}
