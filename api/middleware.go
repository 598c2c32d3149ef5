/*
middleware.go - Bearer-token authentication middleware

PURPOSE:
  Validates the Authorization header on protected routes and puts the
  authenticated user's ID and email on the request context. Handlers
  read them back with GetUserID / GetEmail.

TOKEN FORMAT:
  Authorization: Bearer <jwt>

FAILURE MODE:
  Any missing, malformed, expired, or tampered token gets the same 401
  response. The middleware never says which check failed.

SEE ALSO:
  - auth/jwt.go: Token issuing and validation
  - server.go: Which route groups this protects
*/
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/warp/wage-engine/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	userIDKey contextKey = "user_id"
	emailKey  contextKey = "email"
)

// GetUserID extracts the authenticated user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// GetEmail extracts the authenticated user's email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

// RequireAuth validates JWT bearer tokens and rejects unauthenticated
// requests with 401.
func RequireAuth(tokens *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "Authentication required", nil)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "Authentication required", nil)
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Authentication required", nil)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, emailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
