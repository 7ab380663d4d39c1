package auth

import (
	"net/http"
	"strings"

	"survey-service/internal/log"
)

// Middleware rejects requests without a valid bearer token and stores the
// token subject in the request context.
func Middleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			sub, err := v.Verify(raw)
			if err != nil {
				log.WithField("path", r.URL.Path).Infof("auth.verify: %v", err)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
		})
	}
}

// BearerToken extracts the token from the Authorization header, falling back
// to the "token" query parameter used by websocket clients.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[len("bearer "):])
	}
	return r.URL.Query().Get("token")
}
