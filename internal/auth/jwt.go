// Package auth signs the cookies this process issues itself. Backend session
// tokens are opaque here and never validated locally.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DraftCookieName is the cookie carrying the signed booking draft reference.
const DraftCookieName = "booking_draft"

// DraftTokenExpiry matches the lifetime of stored drafts.
const DraftTokenExpiry = 24 * time.Hour

// ErrSessionMismatch is returned when a draft token was issued to another
// session.
var ErrSessionMismatch = errors.New("draft token belongs to another session")

// DraftClaims binds a booking draft to the session that created it.
type DraftClaims struct {
	DraftID     string `json:"draft_id"`
	Fingerprint string `json:"sfp"`
	jwt.RegisteredClaims
}

// GenerateDraftToken creates a signed reference to a draft for the session
// identified by fingerprint.
func GenerateDraftToken(secret, draftID, fingerprint string) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", fmt.Errorf("generating JTI: %w", err)
	}

	claims := DraftClaims{
		DraftID:     draftID,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(DraftTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateDraftToken parses a draft token and checks it was issued to the
// session identified by fingerprint.
func ValidateDraftToken(secret, tokenStr, fingerprint string) (*DraftClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &DraftClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*DraftClaims)
	if !ok || !token.Valid || claims.DraftID == "" {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Fingerprint != fingerprint {
		return nil, ErrSessionMismatch
	}

	return claims, nil
}

// generateJTI creates a random token ID.
func generateJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
