package web

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/logging"
	"github.com/JonMunkholm/familytree/internal/web/middleware"
	"github.com/JonMunkholm/familytree/internal/web/templates"
)

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		logging.FromContext(r.Context()).Error("health check failed", "error", err)
		writeError(w, r, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// handleHome lists the family trees.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	trees, err := s.service.Trees(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.page(w, r, "Family trees", templates.Trees(trees))
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, "Sign in", templates.Login("", localPath(r.URL.Query().Get("next"))))
}

// handleLogin checks the credentials and starts a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	next := localPath(r.PostFormValue("next"))

	user, err := s.service.Authenticate(ctx, r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.fail(w, r, err)
			return
		}
		logging.FromContext(ctx).Info("login failed", "error", err, "ip", clientIP(r))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		s.page(w, r, "Sign in", templates.Login(core.MapError(err).Message, next))
		return
	}

	sid, err := s.service.StartSession(ctx, user.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Security.SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Security.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	redirect(w, r, next)
}

// handleLogout ends the session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(s.cfg.Security.SessionCookie); err == nil && c.Value != "" {
		if err := s.service.EndSession(r.Context(), c.Value); err != nil {
			logging.FromContext(r.Context()).Warn("end session", "error", err)
		}
	}
	middleware.ClearCookie(w, s.cfg.Security.SessionCookie)
	redirect(w, r, "/")
}

// handleTreeHome renders the tree page with its visible blocks.
func (s *Server) handleTreeHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tree, viewer := treeFromContext(ctx)

	blocks, err := s.service.TreeBlocks(ctx, tree)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var components []templ.Component
	for _, b := range blocks {
		module, ok := core.GetModule(b.ModuleName)
		if !ok || b.ModuleName != core.ModuleTopGivenNames {
			continue
		}
		visible, err := s.service.CanViewModule(ctx, tree, viewer, module)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if !visible {
			continue
		}

		bctx := core.BlockContext{Tree: tree, Viewer: viewer, Location: core.TreePage}
		block, err := s.service.TopGivenNames(ctx, bctx, b.BlockID, nil)
		if err != nil {
			// A failing block renders as an alert in its place.
			logging.FromContext(ctx).Error("render block", "block_id", b.BlockID, "error", err)
			msg := core.MapError(err)
			components = append(components, templates.ErrorAlert(msg.Message, msg.Action, msg.Code))
			continue
		}
		components = append(components, templates.TopGivenNames(block, s.blockConfigURL(tree, bctx, b.BlockID)))
	}

	s.page(w, r, tree.Title, templates.TreeHome(tree, viewer, components))
}
