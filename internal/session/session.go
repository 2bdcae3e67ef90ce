// Package session gates pages on the backend access token and carries the
// signed-in user through the request context.
package session

import (
	"context"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/model"
	"golang.org/x/crypto/blake2b"
)

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)

// GatedPrefixes are the path prefixes that require a session cookie.
var GatedPrefixes = []string{"/dashboard", "/profile", "/onboarding"}

// RememberFor is the cookie lifetime when the user asked to be remembered.
const RememberFor = 30 * 24 * time.Hour

// Gated reports whether path requires a session.
func Gated(path string) bool {
	for _, p := range GatedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Token returns the access token cookie value, or "".
func Token(r *http.Request) string {
	cookie, err := r.Cookie(backend.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Fingerprint derives a stable key for a session from its access token so
// local state can be bound to the session without storing the token.
func Fingerprint(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Gate redirects requests for gated paths without an access token to the
// login page. It checks presence only; the backend decides validity.
func Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Gated(r.URL.Path) && Token(r) == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoadIdentity fetches the current user once per gated request and stores
// it in the context. A rejected token clears the cookie and redirects to the
// login page; any other failure is passed to onError.
func LoadIdentity(client *backend.Client, secure bool, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := Token(r)
			if !Gated(r.URL.Path) || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := client.Session(token).GetUser(r.Context())
			if backend.IsUnauthorized(err) {
				ClearCookie(w, secure)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if err != nil {
				slog.Error("failed to load session user", "path", r.URL.Path, "error", err)
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), user, token)))
		})
	}
}

// RequireRole redirects users whose role differs from role to the
// dashboard, which routes them to their own screens.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := User(r.Context())
			if user == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if user.EffectiveRole() != role {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity returns a context carrying user and token.
func WithIdentity(ctx context.Context, user *model.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// User returns the signed-in user, or nil outside gated requests.
func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}

// AccessToken returns the access token stored by LoadIdentity.
func AccessToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// SetCookie stores the backend access token on this origin.
func SetCookie(w http.ResponseWriter, token string, remember, secure bool) {
	cookie := &http.Cookie{
		Name:     backend.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = int(RememberFor.Seconds())
	}
	http.SetCookie(w, cookie)
}

// ClearCookie removes the access token cookie with consistent attributes.
func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     backend.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
