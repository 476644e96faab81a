package httpapi

import (
	"net/http"

	"github.com/huykn/cache-admin/auth"
	"github.com/huykn/cache-admin/cache"
)

// Authenticated wraps a handler with bearer token authentication. The
// resolved identity is placed on the request context; missing or invalid
// credentials end the request with 401.
func Authenticated(authenticator *auth.BearerAuthenticator, logger cache.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := authenticator.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			logger.Debug("auth: rejected request", "path", r.URL.Path, "error", err)
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}
