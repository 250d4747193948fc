package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type key string

const (
	UserIDKey   key = "user_id"
	UsernameKey key = "username"
	IsAdminKey  key = "is_admin"
)

// GetUserID returns the authenticated user's id, if any.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

// GetUsername returns the authenticated user's username, if any.
func GetUsername(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(UsernameKey).(string)
	return name, ok
}

// IsAdmin reports whether the authenticated user carries the admin claim.
func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(IsAdminKey).(bool)
	return admin
}

func parseToken(r *http.Request, secret []byte) (jwt.MapClaims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}

func withClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	if id, ok := claims["user_id"].(float64); ok {
		ctx = context.WithValue(ctx, UserIDKey, int(id))
	}
	if name, ok := claims["username"].(string); ok {
		ctx = context.WithValue(ctx, UsernameKey, name)
	}
	if admin, ok := claims["is_admin"].(bool); ok {
		ctx = context.WithValue(ctx, IsAdminKey, admin)
	}
	return ctx
}

// JWT requires a valid bearer token and stores its claims on the context.
func JWT(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := parseToken(r, secret)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid or missing token"})
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalJWT stores claims on the context when a valid bearer token is
// present but lets unauthenticated requests through untouched. The leaky
// endpoints require no auth yet still attribute the access to a viewer when
// one happens to be logged in.
func OptionalJWT(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := parseToken(r, secret); ok {
				r = r.WithContext(withClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests whose token lacks the admin claim. Apply
// after JWT. This is an explicit capability check, not handler wrapping: the
// gate runs before dispatch and non-admins get a 403 denial.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
