// Package bids covers both sides of quoting: companies finding moves and
// bidding on them, and requesters reviewing and accepting those bids.
package bids

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/model"
)

// Errors returned by the quoting operations.
var (
	ErrMoveCompleted   = errors.New("move is completed and no longer takes bids")
	ErrAlreadyAccepted = errors.New("a quote has already been accepted for this move")
	ErrQuoteNotForMove = errors.New("quote does not belong to this move")
	ErrInvalidAmount   = errors.New("bid amount must be a non-negative number")
	ErrNoMoves         = errors.New("no moves booked yet")
)

// StatusAll disables status filtering.
const StatusAll = "all"

// Statuses lists the filter options in display order.
var Statuses = []string{StatusAll, model.MoveStatusPending, model.MoveStatusInProgress, model.MoveStatusCompleted}

// BookingSuccessPath is where an accepted quote lands.
const BookingSuccessPath = "/dashboard/bids/booking-success"

// Backend is the slice of the API the quoting flows use.
type Backend interface {
	ListMoves(ctx context.Context) ([]model.Move, error)
	ListMyMoves(ctx context.Context) ([]model.Move, error)
	GetMove(ctx context.Context, id int64) (*model.Move, error)
	ListMoveQuotes(ctx context.Context, moveID int64) ([]model.Quote, error)
	GetMover(ctx context.Context, id int64) (*model.Mover, error)
	CreateQuote(ctx context.Context, req backend.CreateQuoteRequest) (*model.Quote, error)
	PatchMove(ctx context.Context, id int64, patch backend.MovePatch) (*model.Move, error)
}

// FilterMoves keeps moves whose from or to address contains search
// (case-insensitive) and whose status equals status, unless it is "all".
func FilterMoves(moves []model.Move, search, status string) []model.Move {
	search = strings.ToLower(strings.TrimSpace(search))
	status = strings.TrimSpace(status)

	out := make([]model.Move, 0, len(moves))
	for _, m := range moves {
		if search != "" &&
			!strings.Contains(strings.ToLower(m.FromAddress), search) &&
			!strings.Contains(strings.ToLower(m.ToAddress), search) {
			continue
		}
		if status != "" && !strings.EqualFold(status, StatusAll) && !m.HasStatus(status) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// LatestMove returns the most recently created move, or nil.
func LatestMove(moves []model.Move) *model.Move {
	if len(moves) == 0 {
		return nil
	}
	latest := slices.MaxFunc(moves, func(a, b model.Move) int {
		return a.CreatedAt.Compare(b.CreatedAt.Time)
	})
	return &latest
}

// NewestFirst returns moves ordered by creation time, newest first.
func NewestFirst(moves []model.Move) []model.Move {
	out := slices.Clone(moves)
	slices.SortStableFunc(out, func(a, b model.Move) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out
}

// ParseAmount reads a bid amount from a form value.
func ParseAmount(value string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	return amount, nil
}

// SubmitQuote places a bid on move. Completed moves are refused before any
// request is made.
func SubmitQuote(ctx context.Context, b Backend, move *model.Move, amount, details string) (*model.Quote, error) {
	if move.IsCompleted() {
		return nil, ErrMoveCompleted
	}
	value, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	quote, err := b.CreateQuote(ctx, backend.CreateQuoteRequest{
		MoveID:      move.ID,
		QuoteAmount: value,
		Details:     strings.TrimSpace(details),
	})
	if err != nil {
		return nil, fmt.Errorf("submitting quote: %w", err)
	}
	return quote, nil
}

// CanAccept reports whether quote may still be accepted for move.
func CanAccept(move *model.Move, quote *model.Quote) error {
	if move.IsAccepted() {
		return ErrAlreadyAccepted
	}
	if quote.MoveID != move.ID {
		return ErrQuoteNotForMove
	}
	return nil
}

// AcceptedQuote picks the quote to highlight on an accepted move: the
// locally recorded one when present, otherwise the first whose amount equals
// the approved price. It returns 0 when nothing matches.
func AcceptedQuote(move *model.Move, quotes []model.Quote, recorded int64) int64 {
	if !move.IsAccepted() {
		return 0
	}
	if recorded != 0 && slices.ContainsFunc(quotes, func(q model.Quote) bool { return q.ID == recorded }) {
		return recorded
	}
	for _, q := range quotes {
		if q.QuoteAmount == *move.ApprovedPrice {
			return q.ID
		}
	}
	return 0
}

// BookingSuccessURL is the confirmation page after accepting quote.
func BookingSuccessURL(move *model.Move, quote *model.Quote) string {
	q := url.Values{}
	q.Set("fromLocation", move.FromAddress)
	q.Set("toLocation", move.ToAddress)
	if !move.MoveDate.IsZero() {
		q.Set("moveDate", move.MoveDate.Format("2006-01-02"))
	}
	q.Set("price", strconv.FormatFloat(quote.QuoteAmount, 'f', -1, 64))
	q.Set("distance", strconv.FormatFloat(move.DistanceKm(), 'f', -1, 64))
	return BookingSuccessPath + "?" + q.Encode()
}
