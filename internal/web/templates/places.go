package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/familytree/internal/core"
)

func placeURL(id int32) string {
	return "/admin/places/" + strconv.Itoa(int(id))
}

func coordinates(p core.PlaceLocation) string {
	if !p.HasCoordinates {
		return ""
	}
	return core.FormatLatitude(p.Latitude) + " " + core.FormatLongitude(p.Longitude)
}

// PlaceList shows the places below parent (nil at the top level).
func PlaceList(parent *core.PlaceLocation, children []core.PlaceLocation) templ.Component {
	return view(func(hw *htmlWriter) {
		var parentID int32
		if parent != nil {
			parentID = parent.ID
			hw.raw(`<p class="breadcrumb">`)
			hw.tag("a", "href", "/admin/places?parent="+strconv.Itoa(int(parent.ParentID)))
			hw.text("Up")
			hw.end("a")
			hw.raw(` `)
			hw.elem("b", parent.Place)
			hw.raw(`</p>`)
		}

		if len(children) == 0 {
			hw.elem("p", "No places found.", "class", "empty")
		} else {
			hw.raw(`<table class="places"><thead><tr><th scope="col">Place</th><th scope="col">Coordinates</th><th scope="col">Zoom</th><th></th></tr></thead><tbody>`)
			for _, p := range children {
				hw.tag("tr", "data-place-id", strconv.Itoa(int(p.ID)))
				hw.raw(`<td>`)
				hw.tag("a", "href", "/admin/places?parent="+strconv.Itoa(int(p.ID)))
				hw.text(p.Place)
				hw.end("a")
				hw.raw(`</td>`)
				hw.elem("td", coordinates(p))
				hw.elem("td", strconv.Itoa(p.Zoom))
				hw.raw(`<td>`)
				hw.tag("a", "href", placeURL(p.ID))
				hw.text("Edit")
				hw.end("a")
				hw.raw(`</td></tr>`)
			}
			hw.raw(`</tbody></table>`)
		}

		hw.elem("h2", "Add a place")
		hw.component(PlaceForm(core.PlaceLocation{ParentID: parentID, Zoom: core.DefaultZoom}))
	})
}

// PlaceForm edits a place location. A zero ID adds a new place.
func PlaceForm(p core.PlaceLocation) templ.Component {
	return view(func(hw *htmlWriter) {
		lat, lon := "", ""
		if p.HasCoordinates {
			lat = core.FormatLatitude(p.Latitude)
			lon = core.FormatLongitude(p.Longitude)
		}
		hw.raw(`<form method="post" action="/admin/places" class="place-form">`)
		hw.tag("input", "type", "hidden", "name", "id", "value", strconv.Itoa(int(p.ID)))
		hw.tag("input", "type", "hidden", "name", "parent_id", "value", strconv.Itoa(int(p.ParentID)))
		input(hw, "place", "Place", "text", p.Place, true)
		input(hw, "latitude", "Latitude", "text", lat, false)
		input(hw, "longitude", "Longitude", "text", lon, false)
		input(hw, "zoom", "Zoom level", "number", strconv.Itoa(p.Zoom), false)
		input(hw, "icon", "Flag", "text", p.Icon, false)
		hw.raw(`<button type="submit">Save</button></form>`)

		if p.ID != 0 {
			hw.tag("form", "method", "post", "action", placeURL(p.ID)+"/delete", "class", "delete",
				"onsubmit", "return confirm('Delete this place and every place within it?')")
			hw.raw(`<button type="submit" class="danger">Delete</button></form>`)
		}
	})
}
