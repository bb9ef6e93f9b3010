package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/kawa-mspr/auth-service/internal/httputil"
)

// ContextKey is a dedicated type for context keys to avoid collisions.
type ContextKey string

const (
	UserIDContextKey    ContextKey = "user_id"
	UserEmailContextKey ContextKey = "user_email"
)

// Middleware guards routes behind bearer-token authentication. It performs
// no authorization: any valid token grants access.
type Middleware struct {
	tokens TokenService
}

func NewMiddleware(tokens TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireAuth validates the bearer token and places the subject into the
// request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httputil.RespondError(w, "Missing authentication", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.VerifyToken(token)
		if err != nil {
			httputil.RespondError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			httputil.RespondError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		ctx = context.WithValue(ctx, UserEmailContextKey, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the authenticated user ID from the context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	return userID, ok
}

// GetUserEmailFromContext extracts the authenticated email from the context.
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailContextKey).(string)
	return email, ok
}
