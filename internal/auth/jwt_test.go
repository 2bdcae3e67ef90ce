package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateDraftToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateDraftToken(secret, "draft-1", "fp-a")
	if err != nil {
		t.Fatalf("GenerateDraftToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateDraftToken(secret, token, "fp-a")
	if err != nil {
		t.Fatalf("ValidateDraftToken: %v", err)
	}
	if claims.DraftID != "draft-1" {
		t.Errorf("expected draft_id 'draft-1', got %q", claims.DraftID)
	}
}

func TestValidateDraftTokenOtherSession(t *testing.T) {
	token, _ := GenerateDraftToken("secret", "draft-1", "fp-a")

	_, err := ValidateDraftToken("secret", token, "fp-b")
	if !errors.Is(err, ErrSessionMismatch) {
		t.Errorf("expected ErrSessionMismatch, got %v", err)
	}
}

func TestValidateDraftTokenWrongSecret(t *testing.T) {
	token, _ := GenerateDraftToken("secret1", "draft-1", "fp")

	_, err := ValidateDraftToken("secret2", token, "fp")
	if err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateDraftTokenInvalid(t *testing.T) {
	_, err := ValidateDraftToken("secret", "not-a-token", "fp")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestValidateDraftTokenExpired(t *testing.T) {
	claims := DraftClaims{
		DraftID:     "draft-1",
		Fingerprint: "fp",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateDraftToken("secret", token, "fp"); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestDraftTokenExpiry(t *testing.T) {
	secret := "test"
	token, _ := GenerateDraftToken(secret, "d", "fp")
	claims, _ := ValidateDraftToken(secret, token, "fp")

	expiresAt := claims.ExpiresAt.Time
	expectedExpiry := time.Now().Add(DraftTokenExpiry)

	// Should be within a few seconds.
	diff := expectedExpiry.Sub(expiresAt)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
}
