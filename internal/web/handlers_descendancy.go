package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/web/templates"
)

// sidebarVisible reports whether the viewer may see the descendancy sidebar.
// A hidden sidebar renders as an empty response.
func (s *Server) sidebarVisible(w http.ResponseWriter, r *http.Request) bool {
	tree, viewer := treeFromContext(r.Context())
	module, _ := core.GetModule(core.ModuleDescendancy)
	visible, err := s.service.CanViewModule(r.Context(), tree, viewer, module)
	if err != nil {
		s.fail(w, r, err)
		return false
	}
	if !visible {
		render(w, r, templates.Empty())
	}
	return visible
}

// handleDescendancySearch lists individuals matching ?q=. Short queries and
// empty results render nothing.
func (s *Server) handleDescendancySearch(w http.ResponseWriter, r *http.Request) {
	if !s.sidebarVisible(w, r) {
		return
	}
	tree, viewer := treeFromContext(r.Context())

	people, err := s.service.SearchDescendancy(r.Context(), tree, viewer, r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render(w, r, templates.DescendancyList(tree, people))
}

// handleDescendancySidebar shows {xref} with one generation of descendants.
// Unknown and hidden individuals render nothing.
func (s *Server) handleDescendancySidebar(w http.ResponseWriter, r *http.Request) {
	if !s.sidebarVisible(w, r) {
		return
	}
	tree, viewer := treeFromContext(r.Context())

	person, err := s.service.DescendancySidebar(r.Context(), tree, viewer, chi.URLParam(r, "xref"))
	if errors.Is(err, core.ErrIndividualNotFound) {
		render(w, r, templates.Empty())
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render(w, r, templates.DescendancySidebar(tree, person))
}

// handleDescendants expands the families of {xref} by ?generations= levels.
func (s *Server) handleDescendants(w http.ResponseWriter, r *http.Request) {
	if !s.sidebarVisible(w, r) {
		return
	}
	tree, viewer := treeFromContext(r.Context())
	generations := parseIntParam(r, "generations", 1)

	families, err := s.service.Descendants(r.Context(), tree, viewer, chi.URLParam(r, "xref"), generations)
	if errors.Is(err, core.ErrIndividualNotFound) {
		render(w, r, templates.Empty())
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render(w, r, templates.DescendancyFamilies(tree, families))
}
