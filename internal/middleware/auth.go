package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"tablekart/internal/auth"
	"tablekart/internal/model"

	"github.com/rs/zerolog"
)

// BearerAuth verifies the session token and stores the caller's principal
// in the request context. EventSource clients cannot set headers, so the
// token may also arrive as the access_token query parameter.
func BearerAuth(verifier *auth.Verifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Missing bearer token")
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				message := "Invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					message = "Token has expired"
				}
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("token rejected")
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(logger zerolog.Logger, roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Authentication required")
				return
			}
			if !slices.Contains(roles, principal.Role) {
				logger.Warn().
					Str("user_id", principal.UserID.String()).
					Str("role", string(principal.Role)).
					Str("path", r.URL.Path).
					Msg("role not allowed")
				writeError(w, http.StatusForbidden, model.ErrCodeForbidden, "Not allowed to access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
