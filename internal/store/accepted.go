package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RecordAcceptedQuote remembers which quote was accepted for a move. The
// backend only stores the approved price, so this is what lets the bids page
// highlight the exact quote. The first recorded quote wins.
func RecordAcceptedQuote(ctx context.Context, db *sql.DB, moveID, quoteID int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO accepted_quotes (move_id, quote_id, accepted_at) VALUES (?, ?, ?)`,
		moveID, quoteID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording accepted quote: %w", err)
	}
	return nil
}

// AcceptedQuoteID returns the quote recorded as accepted for a move, or 0.
func AcceptedQuoteID(ctx context.Context, db *sql.DB, moveID int64) (int64, error) {
	var quoteID int64
	err := db.QueryRowContext(ctx,
		`SELECT quote_id FROM accepted_quotes WHERE move_id = ?`, moveID,
	).Scan(&quoteID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting accepted quote: %w", err)
	}
	return quoteID, nil
}
