// Package onboarding completes a fresh account: picking a role and filling
// in the profile (or company) details that role needs.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/model"
	"github.com/erazemk/hamanasi/internal/pricing"
)

// Validation errors.
var (
	ErrInvalidRole  = errors.New("role must be Mover or Moving Company")
	ErrMissingField = errors.New("required field missing")
)

// Backend is the slice of the API onboarding uses.
type Backend interface {
	PatchUser(ctx context.Context, patch backend.UserPatch) (*model.User, error)
	CreateMover(ctx context.Context, req backend.CreateMoverRequest) (*model.Mover, error)
	DeleteMover(ctx context.Context, id int64) error
}

// PartialFailureError means the company record was created but could not be
// linked to the user nor removed again.
type PartialFailureError struct {
	MoverID    int64
	LinkErr    error
	CleanupErr error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("mover %d created but not linked (%v) and not removed (%v)", e.MoverID, e.LinkErr, e.CleanupErr)
}

func (e *PartialFailureError) Unwrap() []error {
	return []error{e.LinkErr, e.CleanupErr}
}

// NextPath is the step-2 form for role.
func NextPath(role string) string {
	if role == model.RoleCompany {
		return "/onboarding/company"
	}
	return "/onboarding/mover"
}

// SelectRole stores the chosen role.
func SelectRole(ctx context.Context, b Backend, role string) error {
	role = strings.TrimSpace(role)
	if !model.ValidRole(role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if _, err := b.PatchUser(ctx, backend.UserPatch{Role: &role}); err != nil {
		return fmt.Errorf("saving role: %w", err)
	}
	slog.Info("role selected", "role", role)
	return nil
}

// RequesterDetails is the step-2 form for someone relocating.
type RequesterDetails struct {
	Location  string
	Phone     string
	HouseType string
}

// Validate checks every field is present.
func (d *RequesterDetails) Validate() error {
	return required(map[string]string{
		"location":   d.Location,
		"phone":      d.Phone,
		"house type": d.HouseType,
	}, d.HouseType)
}

// CompanyDetails is the step-2 form for a moving company.
type CompanyDetails struct {
	CompanyName string
	Phone       string
	HouseType   string
}

// Validate checks every field is present.
func (d *CompanyDetails) Validate() error {
	return required(map[string]string{
		"company name": d.CompanyName,
		"phone":        d.Phone,
		"house type":   d.HouseType,
	}, d.HouseType)
}

func required(fields map[string]string, houseType string) error {
	var missing []string
	for _, name := range []string{"company name", "location", "phone", "house type"} {
		v, ok := fields[name]
		if ok && strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	if _, ok := pricing.Lookup(houseType); !ok {
		return fmt.Errorf("%w: house type", ErrMissingField)
	}
	return nil
}

// CompleteRequester saves the requester's details.
func CompleteRequester(ctx context.Context, b Backend, d RequesterDetails) error {
	if err := d.Validate(); err != nil {
		return err
	}
	location, phone, houseType := strings.TrimSpace(d.Location), strings.TrimSpace(d.Phone), d.HouseType
	_, err := b.PatchUser(ctx, backend.UserPatch{
		Location:  &location,
		Phone:     &phone,
		HouseType: &houseType,
	})
	if err != nil {
		return fmt.Errorf("saving details: %w", err)
	}
	return nil
}

// CompleteCompany creates the company record and links it to the user. If
// linking fails the record is deleted again; if that fails too the result is
// a *PartialFailureError.
func CompleteCompany(ctx context.Context, b Backend, d CompanyDetails) (*model.Mover, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	mover, err := b.CreateMover(ctx, backend.CreateMoverRequest{
		CompanyName: strings.TrimSpace(d.CompanyName),
		Phone:       strings.TrimSpace(d.Phone),
		HouseType:   d.HouseType,
	})
	if err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}

	id := mover.ID
	if _, linkErr := b.PatchUser(ctx, backend.UserPatch{MoverID: &id}); linkErr != nil {
		// The request context may be the thing that failed.
		cleanupCtx := context.WithoutCancel(ctx)
		if cleanupErr := b.DeleteMover(cleanupCtx, id); cleanupErr != nil {
			slog.Error("orphaned mover record", "mover", id, "link_error", linkErr, "cleanup_error", cleanupErr)
			return nil, &PartialFailureError{MoverID: id, LinkErr: linkErr, CleanupErr: cleanupErr}
		}
		slog.Warn("removed unlinked mover record", "mover", id, "error", linkErr)
		return nil, fmt.Errorf("linking company: %w", linkErr)
	}

	slog.Info("company registered", "mover", id, "company", mover.CompanyName)
	return mover, nil
}

// Message returns the user-facing text for an onboarding error.
func Message(err error) string {
	var partial *PartialFailureError
	switch {
	case errors.As(err, &partial):
		return fmt.Sprintf("Your company was created (reference %d) but could not be linked to your account. Please contact support.", partial.MoverID)
	case errors.Is(err, ErrInvalidRole):
		return "Please choose how you will use Hama Nasi."
	case errors.Is(err, ErrMissingField):
		return "Please fill in all fields."
	}
	return backend.MessageOf(err, "We could not save your details. Please try again.")
}
