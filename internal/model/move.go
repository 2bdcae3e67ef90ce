package model

import (
	"fmt"
	"strings"
)

// Move is one relocation request.
type Move struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	FromAddress    string    `json:"from_address"`
	ToAddress      string    `json:"to_address"`
	MoveDate       Timestamp `json:"move_date"`
	MoveTime       string    `json:"move_time"`
	MoveStatus     string    `json:"move_status"`
	EstimatedPrice *float64  `json:"estimated_price"`
	ApprovedPrice  *float64  `json:"approved_price"`
	Distance       *float64  `json:"distance"`
	CreatedAt      Timestamp `json:"created_at"`
	UpdatedAt      Timestamp `json:"updated_at"`
}

// Move statuses. The backend stores free text, so compare with HasStatus.
const (
	MoveStatusPending    = "pending"
	MoveStatusInProgress = "in progress"
	MoveStatusCompleted  = "completed"
)

// HasStatus compares the move status case-insensitively.
func (m *Move) HasStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(m.MoveStatus), status)
}

// IsCompleted reports whether the move no longer accepts bids.
func (m *Move) IsCompleted() bool {
	return m.HasStatus(MoveStatusCompleted)
}

// IsAccepted reports whether a quote has been accepted for the move.
func (m *Move) IsAccepted() bool {
	return m.ApprovedPrice != nil
}

// DisplayPrice is the approved price when set, otherwise the estimate.
func (m *Move) DisplayPrice() float64 {
	if m.ApprovedPrice != nil {
		return *m.ApprovedPrice
	}
	if m.EstimatedPrice != nil {
		return *m.EstimatedPrice
	}
	return 0
}

// DistanceKm returns the route distance or 0 when unknown.
func (m *Move) DistanceKm() float64 {
	if m.Distance == nil {
		return 0
	}
	return *m.Distance
}

// Validate checks the fields the frontend relies on.
func (m *Move) Validate() error {
	if m.ID <= 0 {
		return fmt.Errorf("move: invalid id %d", m.ID)
	}
	for name, v := range map[string]*float64{
		"estimated_price": m.EstimatedPrice,
		"approved_price":  m.ApprovedPrice,
		"distance":        m.Distance,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("move %d: negative %s", m.ID, name)
		}
	}
	return nil
}
