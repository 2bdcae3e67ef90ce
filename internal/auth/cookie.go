package auth

import (
	"errors"
	"net/http"
)

// ErrNoDraftCookie is returned when the request carries no draft cookie.
var ErrNoDraftCookie = errors.New("no booking draft cookie")

// SetDraftCookie stores a signed draft reference.
func SetDraftCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     DraftCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(DraftTokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearDraftCookie removes the draft cookie with consistent attributes.
func ClearDraftCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     DraftCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// DraftID returns the draft id referenced by r's draft cookie, provided it
// was issued to the session identified by fingerprint.
func DraftID(r *http.Request, secret, fingerprint string) (string, error) {
	cookie, err := r.Cookie(DraftCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoDraftCookie
	}
	claims, err := ValidateDraftToken(secret, cookie.Value, fingerprint)
	if err != nil {
		return "", err
	}
	return claims.DraftID, nil
}
