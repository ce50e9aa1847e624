package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey string

const identityContextKey contextKey = "identity"

const bearerPrefix = "Bearer "

// Middleware enforces bearer-token auth: a missing or malformed Authorization
// header is 401, a token that fails signature or expiry checks is 403. On
// success the decoded identity is attached to the request context.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			writeAuthError(w, http.StatusUnauthorized, "Acesso negado")
			return
		}

		identity, err := s.ParseToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			slog.WarnContext(r.Context(), "Token verification failed",
				"error", err,
				"path", r.URL.Path)
			writeAuthError(w, http.StatusForbidden, "Token inválido ou expirado")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}

// WithIdentity attaches an identity to a context. Used by tests that exercise
// handlers without going through the middleware.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
