package middleware

import "net/http"

// Housekeeper runs an occasional background cleanup pass.
type Housekeeper interface {
	MaybeHousekeeping() bool
}

// Housekeeping gives the housekeeper a chance to run after each response
// has been served. The pass itself runs in the background.
func Housekeeping(h Housekeeper) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			h.MaybeHousekeeping()
		})
	}
}
