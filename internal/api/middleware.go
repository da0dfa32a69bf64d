package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/fastprodman/novabank/internal/config"
)

// adminOnly gates the admin console routes behind the shared static
// credential pair, read from request headers and compared in constant time.
func adminOnly(cfg config.AdminConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := r.Header.Get("X-Admin-Username")
			pass := r.Header.Get("X-Admin-Password")

			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(cfg.Username)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(cfg.Password)) == 1

			if !userOK || !passOK {
				writeError(w, http.StatusForbidden, "invalid admin credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
