package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrNoToken is returned when a login succeeded but carried no token.
var ErrNoToken = errors.New("backend issued no access token")

type messageResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string, remember bool) (string, error) {
	return c.tokenCall(ctx, "/auth/login", map[string]any{
		"email":    email,
		"password": password,
		"remember": remember,
	})
}

// ErrInvalidOTP is returned for codes that are not six digits.
var ErrInvalidOTP = errors.New("verification code must be 6 digits")

// VerifyOTP confirms a signup and returns the access token it issues.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	otp = strings.TrimSpace(otp)
	code, err := strconv.Atoi(otp)
	if err != nil || len(otp) != 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidOTP, otp)
	}
	return c.tokenCall(ctx, "/auth/verify-otp", map[string]any{
		"email": email,
		"otp":   code,
	})
}

// Signup registers an account; the backend emails a one-time code.
func (c *Client) Signup(ctx context.Context, name, email, password string) (string, error) {
	return c.messageCall(ctx, "/auth/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

// ResendOTP asks the backend to email a fresh one-time code.
func (c *Client) ResendOTP(ctx context.Context, email string) (string, error) {
	return c.messageCall(ctx, "/auth/resend-otp", map[string]string{"email": email})
}

// ForgotPassword asks the backend to email a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.messageCall(ctx, "/auth/forgot-password", map[string]string{"email": email})
}

// ResetPassword sets a new password using the emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) (string, error) {
	return c.messageCall(ctx, "/auth/reset-password", map[string]string{
		"reset_token":  resetToken,
		"new_password": newPassword,
	})
}

// Logout revokes the session token on the backend.
func (s *Session) Logout(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) messageCall(ctx context.Context, path string, body any) (string, error) {
	var resp messageResponse
	if _, err := c.do(ctx, "", http.MethodPost, path, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// tokenCall posts body and extracts the access token from the response
// cookie, falling back to the JSON body.
func (c *Client) tokenCall(ctx context.Context, path string, body any) (string, error) {
	var resp messageResponse
	httpResp, err := c.do(ctx, "", http.MethodPost, path, body, &resp)
	if err != nil {
		return "", err
	}
	for _, cookie := range httpResp.Cookies() {
		if cookie.Name == CookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	if resp.AccessToken != "" {
		return resp.AccessToken, nil
	}
	return "", ErrNoToken
}
