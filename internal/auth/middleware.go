package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	// ReviewerContextKey is the key used to store reviewer claims in context
	ReviewerContextKey contextKey = "reviewer"
)

// Middleware creates an authentication middleware requiring a valid
// reviewer token.
func Middleware(service Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := service.ValidateToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ReviewerContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalMiddleware sets reviewer context when a valid token is present
// but does not require one.
func OptionalMiddleware(service Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token != "" {
				claims, err := service.ValidateToken(token)
				if err == nil {
					ctx := context.WithValue(r.Context(), ReviewerContextKey, claims)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetReviewerFromContext retrieves reviewer claims from the request context.
func GetReviewerFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ReviewerContextKey).(*Claims)
	return claims, ok
}

// MustGetReviewerFromContext retrieves reviewer claims from context, panics if not found.
func MustGetReviewerFromContext(ctx context.Context) *Claims {
	claims, ok := GetReviewerFromContext(ctx)
	if !ok {
		panic("reviewer not found in context")
	}
	return claims
}

// extractToken extracts the JWT token from the Authorization header.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}
