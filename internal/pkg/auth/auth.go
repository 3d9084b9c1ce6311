package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"classquest/internal/models"
)

// contextKey is a custom type used for storing values in a context without
// risking collisions.
type contextKey string

// ContextUserID is the key used to store and retrieve the user ID from the
// request context.
const ContextUserID contextKey = "contextUserID"

// ContextRole is the key used to store and retrieve the user role from the
// request context.
const ContextRole contextKey = "contextRole"

// CheckJWTMiddleware validates the Authorization header of incoming requests.
// It checks for the presence of a Bearer token, parses it, and stores the
// user ID and role in the request context. If validation fails, it returns
// an error response with the appropriate HTTP status code.
func CheckJWTMiddleware() func(h http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			if authHeader == "" {
				writeErrorResponse(w, "missing auth header", http.StatusUnauthorized)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeErrorResponse(w, "invalid auth header", http.StatusUnauthorized)
				return
			}

			claims, err := ParseToken(parts[1])
			if err != nil {
				writeErrorResponse(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextRole, claims.Role)
			h.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// RequireRole restricts a route subtree to users carrying the given role.
// It must be applied after CheckJWTMiddleware.
func RequireRole(role string) func(h http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			got, ok := r.Context().Value(ContextRole).(string)
			if !ok || got != role {
				writeErrorResponse(w, "forbidden", http.StatusForbidden)
				return
			}
			h.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func writeErrorResponse(res http.ResponseWriter, errorInfo string, statusCode int) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	json.NewEncoder(res).Encode(models.ErrorResponse{Errors: errorInfo})
}
