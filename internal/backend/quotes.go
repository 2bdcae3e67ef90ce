package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erazemk/hamanasi/internal/model"
)

// CreateQuoteRequest is the body of POST /quote.
type CreateQuoteRequest struct {
	MoveID      int64   `json:"move_id"`
	QuoteAmount float64 `json:"quote_amount"`
	Details     string  `json:"details"`
}

type quotesResponse struct {
	Quotes []model.Quote `json:"quotes"`
}

// CreateQuote submits a bid as the signed-in company.
func (s *Session) CreateQuote(ctx context.Context, req CreateQuoteRequest) (*model.Quote, error) {
	var resp struct {
		Quote *model.Quote `json:"quote"`
	}
	if err := s.do(ctx, http.MethodPost, "/quote", req, &resp); err != nil {
		return nil, err
	}
	if err := validateOne(resp.Quote); err != nil {
		return nil, err
	}
	return resp.Quote, nil
}

// ListMyQuotes returns the bids issued by the signed-in company.
func (s *Session) ListMyQuotes(ctx context.Context) ([]model.Quote, error) {
	var resp quotesResponse
	if err := s.do(ctx, http.MethodGet, "/quote", nil, &resp); err != nil {
		return nil, err
	}
	if err := validateEach(resp.Quotes); err != nil {
		return nil, err
	}
	return resp.Quotes, nil
}

// ListMoveQuotes returns the bids placed on a move.
func (s *Session) ListMoveQuotes(ctx context.Context, moveID int64) ([]model.Quote, error) {
	var resp quotesResponse
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/moves/%d/quotes", moveID), nil, &resp); err != nil {
		return nil, err
	}
	if err := validateEach(resp.Quotes); err != nil {
		return nil, err
	}
	return resp.Quotes, nil
}
