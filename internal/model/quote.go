package model

import (
	"fmt"
	"math"
)

// Quote is a moving company's bid on a move.
type Quote struct {
	ID          int64     `json:"id"`
	MoveID      int64     `json:"move_id"`
	MoverID     int64     `json:"mover_id"`
	QuoteAmount float64   `json:"quote_amount"`
	Details     string    `json:"details"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Validate checks the fields the frontend relies on.
func (q *Quote) Validate() error {
	if q.ID <= 0 {
		return fmt.Errorf("quote: invalid id %d", q.ID)
	}
	if q.MoveID <= 0 || q.MoverID <= 0 {
		return fmt.Errorf("quote %d: missing move or mover reference", q.ID)
	}
	if q.QuoteAmount < 0 || math.IsNaN(q.QuoteAmount) || math.IsInf(q.QuoteAmount, 0) {
		return fmt.Errorf("quote %d: invalid amount", q.ID)
	}
	return nil
}
