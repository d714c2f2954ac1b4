package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/logging"
)

// SessionStore resolves a session cookie to its user.
type SessionStore interface {
	SessionUser(ctx context.Context, sessionID string) (*core.User, error)
}

// Session loads the signed-in user from the session cookie into the request
// context. Requests without a valid session continue as visitors; a stale
// cookie is cleared.
func Session(cookieName string, store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := store.SessionUser(r.Context(), c.Value)
			switch {
			case errors.Is(err, core.ErrSessionNotFound), errors.Is(err, core.ErrUserNotFound):
				ClearCookie(w, cookieName)
				next.ServeHTTP(w, r)
				return
			case err != nil:
				logging.FromContext(r.Context()).Warn("session lookup failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			setLogUser(r.Context(), user.UserName)
			next.ServeHTTP(w, r.WithContext(core.ContextWithUser(r.Context(), user)))
		})
	}
}

// ClearCookie expires a cookie in the browser.
func ClearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
