package web

// This file contains shared utilities used across handlers: parameter
// parsing, the page wrapper and the tree and role guards.

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/web/templates"
)

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseID parses a positive integer route parameter. It returns 0 when the
// parameter is missing or malformed.
func parseID(r *http.Request, name string) int32 {
	return parseInt32(chi.URLParam(r, name))
}

func parseInt32(s string) int32 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil || n < 0 {
		return 0
	}
	return int32(n)
}

// page renders body inside the layout, or alone for HTMX requests.
func (s *Server) page(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	if isHTMX(r) {
		render(w, r, body)
		return
	}
	nav := templates.Nav{}
	if u := core.UserFromContext(r.Context()); u != nil {
		nav.UserName = u.UserName
		nav.SiteAdmin = u.SiteAdmin
	}
	render(w, r, templates.Layout(title, nav, body))
}

// redirect sends the browser to target. HTMX requests get HX-Redirect.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// localPath keeps only same-site absolute paths, so a login form cannot
// redirect elsewhere.
func localPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// denied sends visitors to the login page and rejects signed-in users.
func (s *Server) denied(w http.ResponseWriter, r *http.Request) {
	if core.UserFromContext(r.Context()) == nil && r.Method == http.MethodGet && !wantsJSON(r) {
		redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()))
		return
	}
	s.fail(w, r, core.ErrForbidden)
}

// treeContext resolves the {tree} parameter and the viewer's role in it.
func (s *Server) treeContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tree, err := s.service.Tree(ctx, chi.URLParam(r, "tree"))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		viewer, err := s.service.Viewer(ctx, core.UserFromContext(ctx), tree)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withTree(ctx, tree, viewer)))
	})
}

func (s *Server) requireRole(allowed func(core.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, viewer := treeFromContext(r.Context()); !allowed(viewer.Role) {
				s.denied(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) requireEditor(next http.Handler) http.Handler {
	return s.requireRole(core.Role.IsEditor)(next)
}

func (s *Server) requireManager(next http.Handler) http.Handler {
	return s.requireRole(core.Role.IsManager)(next)
}

func (s *Server) requireSiteAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := core.UserFromContext(r.Context()); u == nil || !u.SiteAdmin {
			s.denied(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
