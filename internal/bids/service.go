package bids

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/model"
	"github.com/erazemk/hamanasi/internal/store"
)

// Service runs the quoting flows that need local state.
type Service struct {
	db    *sql.DB
	names *Resolver
}

// NewService creates a bids service.
func NewService(db *sql.DB, names *Resolver) *Service {
	return &Service{db: db, names: names}
}

// QuoteView is a quote as shown to the requester.
type QuoteView struct {
	model.Quote
	CompanyName string
	Accepted    bool
}

// Review is the requester's view of bids on their latest move.
type Review struct {
	Move     *model.Move
	Quotes   []QuoteView
	NamesErr error
}

// AcceptDisabled reports whether accept controls must be disabled.
func (r *Review) AcceptDisabled() bool {
	return r.Move == nil || r.Move.IsAccepted()
}

// Review loads the requester's most recent move with its quotes and the
// names of the companies that placed them. A failure to resolve names is
// reported on the review rather than failing it.
func (s *Service) Review(ctx context.Context, b Backend) (*Review, error) {
	moves, err := b.ListMyMoves(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing moves: %w", err)
	}
	move := LatestMove(moves)
	if move == nil {
		return nil, ErrNoMoves
	}

	quotes, err := b.ListMoveQuotes(ctx, move.ID)
	if err != nil {
		return nil, fmt.Errorf("listing quotes for move %d: %w", move.ID, err)
	}

	review := &Review{Move: move}
	names, err := s.names.Names(ctx, b, quotes)
	if err != nil {
		slog.Error("failed to resolve mover names", "move", move.ID, "error", err)
		review.NamesErr = err
	}

	recorded, err := store.AcceptedQuoteID(ctx, s.db, move.ID)
	if err != nil {
		slog.Error("failed to read accepted quote", "move", move.ID, "error", err)
	}
	accepted := AcceptedQuote(move, quotes, recorded)

	for _, q := range quotes {
		name, ok := names[q.MoverID]
		if !ok {
			name = UnknownMover
		}
		review.Quotes = append(review.Quotes, QuoteView{
			Quote:       q,
			CompanyName: name,
			Accepted:    q.ID == accepted,
		})
	}
	return review, nil
}

// Accept approves quoteID on moveID and returns the confirmation URL. Both
// records are re-read from the backend so a stale page cannot accept twice.
func (s *Service) Accept(ctx context.Context, b Backend, moveID, quoteID int64) (string, error) {
	move, err := b.GetMove(ctx, moveID)
	if err != nil {
		return "", fmt.Errorf("loading move %d: %w", moveID, err)
	}
	quotes, err := b.ListMoveQuotes(ctx, moveID)
	if err != nil {
		return "", fmt.Errorf("listing quotes for move %d: %w", moveID, err)
	}
	i := slices.IndexFunc(quotes, func(q model.Quote) bool { return q.ID == quoteID })
	if i < 0 {
		return "", ErrQuoteNotForMove
	}
	quote := &quotes[i]

	if err := CanAccept(move, quote); err != nil {
		return "", err
	}

	amount := quote.QuoteAmount
	if _, err := b.PatchMove(ctx, move.ID, backend.MovePatch{ApprovedPrice: &amount}); err != nil {
		return "", fmt.Errorf("accepting quote %d: %w", quote.ID, err)
	}
	if err := store.RecordAcceptedQuote(ctx, s.db, move.ID, quote.ID); err != nil {
		slog.Error("failed to record accepted quote", "move", move.ID, "quote", quote.ID, "error", err)
	}
	slog.Info("quote accepted", "move", move.ID, "quote", quote.ID, "amount", amount)

	return BookingSuccessURL(move, quote), nil
}

// SubmitQuote loads the move and places a bid on it.
func (s *Service) SubmitQuote(ctx context.Context, b Backend, moveID int64, amount, details string) (*model.Move, *model.Quote, error) {
	move, err := b.GetMove(ctx, moveID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading move %d: %w", moveID, err)
	}
	quote, err := SubmitQuote(ctx, b, move, amount, details)
	if err != nil {
		return move, nil, err
	}
	slog.Info("quote submitted", "move", move.ID, "quote", quote.ID, "amount", quote.QuoteAmount)
	return move, quote, nil
}

// Message returns the user-facing text for a quoting error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMoveCompleted):
		return "This move is completed and no longer accepts bids."
	case errors.Is(err, ErrAlreadyAccepted):
		return "A quote has already been accepted for this move."
	case errors.Is(err, ErrQuoteNotForMove):
		return "That quote is not for this move."
	case errors.Is(err, ErrInvalidAmount):
		return "Enter a valid, non-negative bid amount."
	case errors.Is(err, ErrNoMoves):
		return "You have not booked a move yet."
	}
	return backend.MessageOf(err, "Something went wrong. Please try again.")
}
