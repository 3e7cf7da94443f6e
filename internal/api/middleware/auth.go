// Package middleware provides HTTP middleware for the canistorage API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/toshio/canistorage/pkg/identity"
)

// extractBearerToken extracts the token from a Bearer Authorization header.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// Identity authenticates the request's Bearer token, if present, and
// attaches the resulting identity.Principal to the request context. A
// missing or invalid token is not an error here: the caller is left as
// identity.Anonymous, and authorization is enforced downstream by the
// Service's own permission checks (an anonymous caller simply holds no
// capability anywhere but the paths it was explicitly granted).
func Identity(signingKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractBearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
				return signingKey, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			subject, err := token.Claims.GetSubject()
			if err != nil || subject == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := identity.WithPrincipal(r.Context(), identity.Principal(subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
