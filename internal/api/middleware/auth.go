package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/rajkumar/portfolio-site/internal/service"
)

// AuthCookie carries the session token. HttpOnly and SameSite=Lax always,
// Secure in production.
const AuthCookie = "auth-token"

type contextKey string

const identityKey contextKey = "identity"

// SetAuthCookie binds a freshly issued token to the response.
func SetAuthCookie(w http.ResponseWriter, token string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the cookie immediately. Tokens already issued stay
// valid until they expire; there is no server-side revocation.
func ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithIdentity resolves the session cookie into verified claims on the
// request context. Any failure (no cookie, bad signature, expired token)
// collapses to anonymous; it never rejects the request.
func WithIdentity(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AuthCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.ValidateToken(cookie.Value)
			if err != nil {
				log.Printf("ERROR [middleware.WithIdentity] token validation failed: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentIdentity returns the verified claims, or nil for an anonymous caller.
func CurrentIdentity(ctx context.Context) *service.Claims {
	claims, _ := ctx.Value(identityKey).(*service.Claims)
	return claims
}

// RequireAdminAPI gates admin API routes. Handlers behind it still call
// service.RequireAdmin themselves; the route gate alone is never trusted.
// Missing and invalid tokens get the same response.
func RequireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CurrentIdentity(r.Context()).IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdminPages gates the /admin page prefix: anonymous or invalid
// sessions go to the login page, valid non-admin sessions go home.
func RequireAdminPages(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := CurrentIdentity(r.Context())
		if claims == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !claims.IsAdmin() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
