package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/erazemk/hamanasi/internal/auth"
	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/model"
	"github.com/erazemk/hamanasi/internal/session"
)

type authForm struct {
	PageData
	Name  string
	Email string
	Token string
}

// authMessage turns a failed auth call into the text shown on the form.
func authMessage(err error, fallback string) string {
	if backend.StatusOf(err) == 0 {
		return unreachable
	}
	return backend.MessageOf(err, fallback)
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	pd := s.page(r, "Log in")
	if r.URL.Query().Get("reset") == "1" {
		pd.Success = "Your password has been updated. Please log in."
	}
	s.Templates.Render(w, "login.html", &authForm{PageData: pd, Email: r.URL.Query().Get("email")})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	remember := r.FormValue("remember") != ""

	form := &authForm{PageData: s.page(r, "Log in"), Email: email}
	if email == "" || password == "" {
		form.Error = "Please enter your email and password."
		s.Templates.Render(w, "login.html", form)
		return
	}

	token, err := s.Backend.Login(r.Context(), email, password, remember)
	if err != nil {
		slog.Warn("login failed", "email", email, "remote", r.RemoteAddr, "error", err)
		form.Error = authMessage(err, "Invalid email or password.")
		s.Templates.Render(w, "login.html", form)
		return
	}

	session.SetCookie(w, token, remember, s.SecureCookies)
	slog.Info("user logged in", "email", email)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "signup.html", &authForm{PageData: s.page(r, "Create an account")})
}

// SignupSubmit handles POST /signup.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	form := &authForm{PageData: s.page(r, "Create an account"), Name: name, Email: email}
	if name == "" || email == "" {
		form.Error = "Please enter your name and email."
		s.Templates.Render(w, "signup.html", form)
		return
	}
	if err := model.ValidatePasswordPair(password, r.FormValue("confirm_password")); err != nil {
		form.Error = passwordMessage(err)
		s.Templates.Render(w, "signup.html", form)
		return
	}

	if _, err := s.Backend.Signup(r.Context(), name, email, password); err != nil {
		slog.Warn("signup failed", "email", email, "error", err)
		form.Error = authMessage(err, "We could not create your account. Please try again.")
		s.Templates.Render(w, "signup.html", form)
		return
	}

	slog.Info("account created", "email", email)
	http.Redirect(w, r, "/verify?sent=1&email="+url.QueryEscape(email), http.StatusSeeOther)
}

// VerifyPage handles GET /verify.
func (s *Server) VerifyPage(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	pd := s.page(r, "Verify your email")
	if r.URL.Query().Get("sent") == "1" && email != "" {
		pd.Success = "We sent a 6-digit code to " + email + "."
	}
	s.Templates.Render(w, "verify.html", &authForm{PageData: pd, Email: email})
}

// VerifySubmit handles POST /verify.
func (s *Server) VerifySubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	form := &authForm{PageData: s.page(r, "Verify your email"), Email: email}

	token, err := s.Backend.VerifyOTP(r.Context(), email, r.FormValue("otp"))
	if errors.Is(err, backend.ErrInvalidOTP) {
		form.Error = "Enter the 6-digit code from your email."
		s.Templates.Render(w, "verify.html", form)
		return
	}
	if err != nil {
		slog.Warn("verification failed", "email", email, "error", err)
		form.Error = authMessage(err, "That code is invalid or has expired.")
		s.Templates.Render(w, "verify.html", form)
		return
	}

	session.SetCookie(w, token, false, s.SecureCookies)
	slog.Info("account verified", "email", email)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ResendSubmit handles POST /verify/resend.
func (s *Server) ResendSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	form := &authForm{PageData: s.page(r, "Verify your email"), Email: email}
	if email == "" {
		form.Error = "Please enter your email."
		s.Templates.Render(w, "verify.html", form)
		return
	}

	msg, err := s.Backend.ResendOTP(r.Context(), email)
	if err != nil {
		form.Error = authMessage(err, "We could not send a new code. Please try again.")
	} else {
		form.Success = msg
		if form.Success == "" {
			form.Success = "A new code is on its way."
		}
	}
	s.Templates.Render(w, "verify.html", form)
}

// ForgotPasswordPage handles GET /forgot-password.
func (s *Server) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "forgot_password.html", &authForm{PageData: s.page(r, "Reset your password")})
}

// ForgotPasswordSubmit handles POST /forgot-password.
func (s *Server) ForgotPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	form := &authForm{PageData: s.page(r, "Reset your password"), Email: email}
	if email == "" {
		form.Error = "Please enter your email."
		s.Templates.Render(w, "forgot_password.html", form)
		return
	}

	msg, err := s.Backend.ForgotPassword(r.Context(), email)
	if err != nil {
		form.Error = authMessage(err, "We could not send a reset link. Please try again.")
	} else {
		form.Success = msg
		if form.Success == "" {
			form.Success = "If that account exists, a reset link is on its way."
		}
	}
	s.Templates.Render(w, "forgot_password.html", form)
}

// NewPasswordPage handles GET /new-password.
func (s *Server) NewPasswordPage(w http.ResponseWriter, r *http.Request) {
	form := &authForm{PageData: s.page(r, "Choose a new password"), Token: r.URL.Query().Get("token")}
	if form.Token == "" {
		form.Error = "This reset link is incomplete. Please request a new one."
	}
	s.Templates.Render(w, "new_password.html", form)
}

// NewPasswordSubmit handles POST /new-password.
func (s *Server) NewPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	password := r.FormValue("password")

	form := &authForm{PageData: s.page(r, "Choose a new password"), Token: token}
	if token == "" {
		form.Error = "This reset link is incomplete. Please request a new one."
		s.Templates.Render(w, "new_password.html", form)
		return
	}
	if err := model.ValidatePasswordPair(password, r.FormValue("confirm_password")); err != nil {
		form.Error = passwordMessage(err)
		s.Templates.Render(w, "new_password.html", form)
		return
	}

	if _, err := s.Backend.ResetPassword(r.Context(), token, password); err != nil {
		slog.Warn("password reset failed", "error", err)
		form.Error = authMessage(err, "This reset link is invalid or has expired.")
		s.Templates.Render(w, "new_password.html", form)
		return
	}

	slog.Info("password reset")
	http.Redirect(w, r, "/login?reset=1", http.StatusSeeOther)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if token := session.Token(r); token != "" {
		if err := s.Backend.Session(token).Logout(r.Context()); err != nil {
			slog.Warn("backend logout failed", "error", err)
		}
	}
	session.ClearCookie(w, s.SecureCookies)
	auth.ClearDraftCookie(w, s.SecureCookies)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func passwordMessage(err error) string {
	if errors.Is(err, model.ErrPasswordMismatch) {
		return "Passwords do not match."
	}
	return fmt.Sprintf("Password must be at least %d characters.", model.MinPasswordLength)
}
