package middlewares

import (
	"context"
	"net/http"
	"strings"

	"playapp/internal/utils"
)

type contextKey string

// ClaimsContextKey carries the parsed token claims for downstream handlers.
const ClaimsContextKey contextKey = "claims"

// AuthMiddleware validates the Bearer token and injects its claims into the
// request context.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				http.Error(w, "Missing token", http.StatusUnauthorized)
				return
			}

			if !strings.HasPrefix(tokenString, "Bearer ") {
				http.Error(w, "Invalid token format", http.StatusUnauthorized)
				return
			}
			tokenString = tokenString[len("Bearer "):]

			claims, err := utils.ParseJWT(tokenString, secret)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
