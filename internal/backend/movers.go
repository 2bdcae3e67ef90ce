package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erazemk/hamanasi/internal/model"
)

// CreateMoverRequest is the body of POST /movers.
type CreateMoverRequest struct {
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	HouseType   string `json:"house_type"`
}

// ListMovers returns every moving company.
func (s *Session) ListMovers(ctx context.Context) ([]model.Mover, error) {
	var resp struct {
		Movers []model.Mover `json:"movers"`
	}
	if err := s.do(ctx, http.MethodGet, "/movers", nil, &resp); err != nil {
		return nil, err
	}
	if err := validateEach(resp.Movers); err != nil {
		return nil, err
	}
	return resp.Movers, nil
}

// GetMover returns one moving company by id.
func (s *Session) GetMover(ctx context.Context, id int64) (*model.Mover, error) {
	var mover model.Mover
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/movers/%d", id), nil, &mover); err != nil {
		return nil, err
	}
	if err := validateOne(&mover); err != nil {
		return nil, err
	}
	return &mover, nil
}

// GetMyMover returns the company linked to the signed-in user.
func (s *Session) GetMyMover(ctx context.Context) (*model.Mover, error) {
	var mover model.Mover
	if err := s.do(ctx, http.MethodGet, "/mover", nil, &mover); err != nil {
		return nil, err
	}
	if err := validateOne(&mover); err != nil {
		return nil, err
	}
	return &mover, nil
}

// CreateMover registers a moving company. The backend returns the bare record.
func (s *Session) CreateMover(ctx context.Context, req CreateMoverRequest) (*model.Mover, error) {
	var mover model.Mover
	if err := s.do(ctx, http.MethodPost, "/movers", req, &mover); err != nil {
		return nil, err
	}
	if err := validateOne(&mover); err != nil {
		return nil, err
	}
	return &mover, nil
}

// DeleteMover removes a moving company record.
func (s *Session) DeleteMover(ctx context.Context, id int64) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/movers/%d", id), nil, nil)
}
