package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/crownhub/crowns-be/internal/http/respond"
)

// AdminKeyHeader carries the shared administrator key.
const AdminKeyHeader = "X-Admin-Key"

// AdminKey admits only requests presenting the configured key.
func AdminKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get(AdminKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
				respond.Error(w, http.StatusForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
