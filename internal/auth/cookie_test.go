package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDraftCookieRoundTrip(t *testing.T) {
	token, err := GenerateDraftToken("secret", "draft-9", "fp-a")
	if err != nil {
		t.Fatalf("GenerateDraftToken: %v", err)
	}

	rec := httptest.NewRecorder()
	SetDraftCookie(rec, token, false)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly {
		t.Fatalf("expected one HttpOnly cookie, got %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	id, err := DraftID(req, "secret", "fp-a")
	if err != nil {
		t.Fatalf("DraftID: %v", err)
	}
	if id != "draft-9" {
		t.Errorf("expected draft-9, got %q", id)
	}

	if _, err := DraftID(req, "secret", "fp-b"); !errors.Is(err, ErrSessionMismatch) {
		t.Errorf("expected ErrSessionMismatch, got %v", err)
	}
}

func TestDraftIDWithoutCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := DraftID(req, "secret", "fp"); !errors.Is(err, ErrNoDraftCookie) {
		t.Errorf("expected ErrNoDraftCookie, got %v", err)
	}
}

func TestClearDraftCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearDraftCookie(rec, true)
	c := rec.Result().Cookies()[0]
	if c.MaxAge >= 0 || !c.Secure {
		t.Errorf("expected expired secure cookie, got %+v", c)
	}
}
