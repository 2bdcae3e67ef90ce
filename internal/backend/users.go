package backend

import (
	"context"
	"net/http"

	"github.com/erazemk/hamanasi/internal/model"
)

// UserPatch is a partial update of the current user. Nil fields are omitted.
type UserPatch struct {
	Role      *string `json:"role,omitempty"`
	Location  *string `json:"location,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	HouseType *string `json:"house_type,omitempty"`
	MoverID   *int64  `json:"mover_id,omitempty"`
}

// GetUser returns the signed-in user.
func (s *Session) GetUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := s.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return nil, err
	}
	if err := validateOne(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PatchUser updates the signed-in user and returns the stored record.
func (s *Session) PatchUser(ctx context.Context, patch UserPatch) (*model.User, error) {
	var user model.User
	if err := s.do(ctx, http.MethodPatch, "/user", patch, &user); err != nil {
		return nil, err
	}
	if err := validateOne(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
