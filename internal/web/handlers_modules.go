package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/web/templates"
)

// handleModules lists every module with its access level in the tree.
func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tree, _ := treeFromContext(ctx)

	var rows []templates.ModuleAccess
	for _, m := range core.Modules() {
		level, err := s.service.ModuleAccessLevel(ctx, tree, m)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		rows = append(rows, templates.ModuleAccess{Module: m, Level: level})
	}
	s.page(w, r, "Modules", templates.ModuleAccessList(tree, rows))
}

// handleModuleAccess sets the access level of {module} in the tree.
func (s *Server) handleModuleAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tree, _ := treeFromContext(ctx)

	module, ok := core.GetModule(chi.URLParam(r, "module"))
	if !ok {
		s.fail(w, r, fmt.Errorf("module %q: %w", chi.URLParam(r, "module"), core.ErrInvalidSetting))
		return
	}
	n, err := strconv.Atoi(r.PostFormValue("access_level"))
	if err != nil {
		s.fail(w, r, fmt.Errorf("access level %q: %w", r.PostFormValue("access_level"), core.ErrInvalidSetting))
		return
	}

	if err := s.service.SetModuleAccessLevel(ctx, tree, module, core.Privilege(n)); err != nil {
		s.fail(w, r, err)
		return
	}
	if isHTMX(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	redirect(w, r, "/tree/"+tree.Name+"/modules")
}
