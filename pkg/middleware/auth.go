package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/shoplist/pkg/auth"
	"github.com/shashiranjanraj/shoplist/pkg/response"
)

type userIDKey struct{}

// UserID returns the authenticated user id stored by Auth, or 0.
func UserID(ctx context.Context) uint {
	if id, ok := ctx.Value(userIDKey{}).(uint); ok {
		return id
	}
	return 0
}

// Auth requires a valid Bearer JWT and stores the user id in the request
// context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
