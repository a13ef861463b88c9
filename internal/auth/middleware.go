package auth

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/segyhp/rental-manager/pkg/response"
)

// Headers carrying the refreshed token of a sliding session.
const (
	SessionTokenHeader   = "X-Session-Token"
	SessionExpiresHeader = "X-Session-Expires-At"
)

// Middleware requires a Bearer session token, puts the Session in the
// request context and returns a refreshed token in X-Session-Token.
func Middleware(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// allow OPTIONS (CORS preflight) to pass through
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Unauthorized(w, "missing bearer token")
				return
			}

			session, err := s.VerifyToken(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
			if err != nil {
				log.Printf("[AUTH] %s %s rejected: %v", r.Method, r.URL.Path, err)
				response.Unauthorized(w, "invalid or expired session")
				return
			}

			token, expiresAt, err := s.IssueToken(session.Email)
			if err != nil {
				response.InternalServerError(w, "could not refresh session", err)
				return
			}
			session.ExpiresAt = expiresAt
			w.Header().Set(SessionTokenHeader, token)
			w.Header().Set(SessionExpiresHeader, expiresAt.UTC().Format(time.RFC3339))

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}
