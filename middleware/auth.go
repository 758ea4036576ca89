package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"summarist/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// UserKey holds the authenticated username in the request context.
const UserKey contextKey = "user"

// SessionCookie is the name of the HttpOnly cookie carrying the JWT.
const SessionCookie = "session"

// Auth returns a middleware that authenticates the request before any other
// component runs. The token is read from the session cookie, with an
// Authorization header fallback for non-browser clients. Failures redirect
// to the login page.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string
			if c, err := r.Cookie(SessionCookie); err == nil {
				tokenString = c.Value
			}
			if tokenString == "" {
				authHeader := r.Header.Get("Authorization")
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			}
			if tokenString == "" {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				logger.Sugar.Infof("Rejected session token: %v", err)
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			username, ok := claims["sub"].(string)
			if !ok || username == "" {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Username extracts the authenticated username from a request context.
// Returns "" when the request did not pass through Auth.
func Username(ctx context.Context) string {
	u, _ := ctx.Value(UserKey).(string)
	return u
}
