package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/web/templates"
)

// handlePlaces lists the places below ?parent= (the top level by default).
func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parentID := parseInt32(r.URL.Query().Get("parent"))

	var parent *core.PlaceLocation
	if parentID > 0 {
		p, err := s.service.PlaceLocation(ctx, parentID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		parent = p
	}

	children, err := s.service.PlaceChildren(ctx, parentID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, r, children)
		return
	}

	title := "Geographic data"
	if parent != nil {
		title = parent.Place
	}
	s.page(w, r, title, templates.PlaceList(parent, children))
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	p, err := s.service.PlaceLocation(r.Context(), parseID(r, "placeID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, r, p)
		return
	}
	s.page(w, r, p.Place, templates.PlaceForm(*p))
}

// formCoordinate reads a gazetteer or decimal coordinate. A blank field
// is zero.
func formCoordinate(r *http.Request, name string) (float64, error) {
	v := strings.TrimSpace(r.PostFormValue(name))
	if v == "" {
		return 0, nil
	}
	c, ok := core.ParseCoordinate(v)
	if !ok {
		return 0, fmt.Errorf("%s %q: %w", name, v, core.ErrInvalidCoordinates)
	}
	return c, nil
}

// handleSavePlace creates (id 0) or updates a place.
func (s *Server) handleSavePlace(w http.ResponseWriter, r *http.Request) {
	lat, err := formCoordinate(r, "latitude")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lon, err := formCoordinate(r, "longitude")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	zoom, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("zoom")))
	if err != nil {
		zoom = core.DefaultZoom
	}

	p, err := s.service.SavePlaceLocation(r.Context(), core.PlaceEdit{
		ID:        parseInt32(r.PostFormValue("id")),
		ParentID:  parseInt32(r.PostFormValue("parent_id")),
		Place:     r.PostFormValue("place"),
		Latitude:  lat,
		Longitude: lon,
		Zoom:      zoom,
		Icon:      strings.TrimSpace(r.PostFormValue("icon")),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, r, p)
		return
	}
	redirect(w, r, "/admin/places?parent="+strconv.Itoa(int(p.ParentID)))
}

// handleDeletePlace removes a place and everything within it.
func (s *Server) handleDeletePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := parseID(r, "placeID")

	p, err := s.service.PlaceLocation(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.service.DeletePlaceLocation(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, "/admin/places?parent="+strconv.Itoa(int(p.ParentID)))
}
