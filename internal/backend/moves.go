package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erazemk/hamanasi/internal/model"
)

// CreateMoveRequest is the body of POST /moves.
type CreateMoveRequest struct {
	FromAddress    string  `json:"from_address"`
	ToAddress      string  `json:"to_address"`
	MoveDate       string  `json:"move_date"`
	MoveTime       string  `json:"move_time"`
	EstimatedPrice float64 `json:"estimated_price"`
	Distance       float64 `json:"distance"`
}

// MovePatch is a partial update of a move.
type MovePatch struct {
	ApprovedPrice *float64 `json:"approved_price,omitempty"`
	MoveStatus    *string  `json:"move_status,omitempty"`
}

type movesResponse struct {
	Moves []model.Move `json:"moves"`
}

type moveResponse struct {
	Move *model.Move `json:"move"`
}

// ListMoves returns every open move request (provider view).
func (s *Session) ListMoves(ctx context.Context) ([]model.Move, error) {
	return s.listMoves(ctx, "/moves")
}

// ListMyMoves returns the signed-in user's own moves.
func (s *Session) ListMyMoves(ctx context.Context) ([]model.Move, error) {
	return s.listMoves(ctx, "/move")
}

func (s *Session) listMoves(ctx context.Context, path string) ([]model.Move, error) {
	var resp movesResponse
	if err := s.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if err := validateEach(resp.Moves); err != nil {
		return nil, err
	}
	return resp.Moves, nil
}

// GetMove returns a single move by id.
func (s *Session) GetMove(ctx context.Context, id int64) (*model.Move, error) {
	var resp moveResponse
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/moves/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	if err := validateOne(resp.Move); err != nil {
		return nil, err
	}
	return resp.Move, nil
}

// CreateMove books a new move.
func (s *Session) CreateMove(ctx context.Context, req CreateMoveRequest) (*model.Move, error) {
	var resp moveResponse
	if err := s.do(ctx, http.MethodPost, "/moves", req, &resp); err != nil {
		return nil, err
	}
	if err := validateOne(resp.Move); err != nil {
		return nil, err
	}
	return resp.Move, nil
}

// PatchMove updates a move and returns the stored record.
func (s *Session) PatchMove(ctx context.Context, id int64, patch MovePatch) (*model.Move, error) {
	var resp moveResponse
	if err := s.do(ctx, http.MethodPatch, fmt.Sprintf("/moves/%d", id), patch, &resp); err != nil {
		return nil, err
	}
	if err := validateOne(resp.Move); err != nil {
		return nil, err
	}
	return resp.Move, nil
}
