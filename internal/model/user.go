package model

import (
	"errors"
	"fmt"
	"strings"
)

// User is the signed-in account as returned by GET /api/user.
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Image      string `json:"image,omitempty"`
	Location   string `json:"location,omitempty"`
	Role       string `json:"role"`
	MoverID    *int64 `json:"mover_id,omitempty"`
	HouseType  string `json:"house_type,omitempty"`
	IsVerified bool   `json:"is_verified"`
}

// Roles.
const (
	RoleUnset   = ""
	RoleMover   = "Mover"
	RoleCompany = "Moving Company"
)

// NormalizeRole maps the backend's placeholder roles to RoleUnset.
func NormalizeRole(role string) string {
	switch strings.TrimSpace(role) {
	case RoleMover:
		return RoleMover
	case RoleCompany:
		return RoleCompany
	default:
		// "User" and "None" are what a fresh signup carries.
		return RoleUnset
	}
}

// ValidRole reports whether role is one a user can pick during onboarding.
func ValidRole(role string) bool {
	return role == RoleMover || role == RoleCompany
}

// EffectiveRole returns the user's role with placeholders collapsed.
func (u *User) EffectiveRole() string {
	return NormalizeRole(u.Role)
}

// DisplayName returns the name to greet the user with.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return "there"
}

// Validate checks the fields the frontend relies on.
func (u *User) Validate() error {
	if u.ID <= 0 {
		return fmt.Errorf("user: invalid id %d", u.ID)
	}
	if u.MoverID != nil && *u.MoverID <= 0 {
		return fmt.Errorf("user: invalid mover_id %d", *u.MoverID)
	}
	return nil
}

// MinPasswordLength is the shortest password the reset form accepts.
const MinPasswordLength = 8

// ValidatePassword checks password strength requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ErrPasswordMismatch is returned when the confirmation does not match.
var ErrPasswordMismatch = errors.New("passwords do not match")

// ValidatePasswordPair validates a new password and its confirmation.
func ValidatePasswordPair(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	return ValidatePassword(password)
}
