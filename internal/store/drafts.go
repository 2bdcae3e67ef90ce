package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/hamanasi/internal/model"
	"github.com/google/uuid"
)

// DraftTTL is how long an untouched booking draft is kept.
const DraftTTL = 24 * time.Hour

const draftColumns = `id, session_key, step, from_address, to_address, distance_km,
	move_at, house_type, notes, generation, created_at, updated_at`

// CreateDraft starts a new booking draft for a session.
func CreateDraft(ctx context.Context, db *sql.DB, sessionKey string) (*model.BookingDraft, error) {
	now := time.Now().UTC().Truncate(time.Second)
	id := uuid.NewString()

	_, err := db.ExecContext(ctx,
		`INSERT INTO booking_drafts (id, session_key, step, created_at, updated_at)
		 VALUES (?, ?, 1, ?, ?)`,
		id, sessionKey, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating draft: %w", err)
	}

	// Opportunistically clean up abandoned drafts.
	_, _ = db.ExecContext(ctx,
		`DELETE FROM booking_drafts WHERE updated_at < ?`, now.Add(-DraftTTL),
	)

	return GetDraft(ctx, db, id, sessionKey)
}

// GetDraft returns a draft owned by sessionKey, or nil if it does not exist,
// belongs to another session or has expired.
func GetDraft(ctx context.Context, db *sql.DB, id, sessionKey string) (*model.BookingDraft, error) {
	d := &model.BookingDraft{}
	var distance sql.NullFloat64
	err := db.QueryRowContext(ctx,
		`SELECT `+draftColumns+` FROM booking_drafts
		 WHERE id = ? AND session_key = ? AND updated_at >= ?`,
		id, sessionKey, time.Now().UTC().Add(-DraftTTL),
	).Scan(&d.ID, &d.SessionKey, &d.Step, &d.FromAddress, &d.ToAddress, &distance,
		&d.MoveAt, &d.HouseType, &d.Notes, &d.Generation, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting draft: %w", err)
	}
	if distance.Valid {
		d.DistanceKm = &distance.Float64
	}
	return d, nil
}

// SaveDraft writes the mutable fields of d. The write only lands if the
// stored generation still equals expectGeneration; it reports whether it
// did. Distance is only written by ApplyDistance; saving a new generation
// clears it.
func SaveDraft(ctx context.Context, db *sql.DB, d *model.BookingDraft, expectGeneration int64) (bool, error) {
	now := time.Now().UTC().Truncate(time.Second)

	result, err := db.ExecContext(ctx,
		`UPDATE booking_drafts
		 SET step = ?, from_address = ?, to_address = ?, move_at = ?, house_type = ?, notes = ?,
		     distance_km = CASE WHEN generation = ? THEN distance_km ELSE NULL END,
		     generation = ?, updated_at = ?
		 WHERE id = ? AND session_key = ? AND generation = ?`,
		d.Step, d.FromAddress, d.ToAddress, d.MoveAt, d.HouseType, d.Notes,
		d.Generation, d.Generation, now,
		d.ID, d.SessionKey, expectGeneration,
	)
	if err != nil {
		return false, fmt.Errorf("saving draft: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking draft update: %w", err)
	}
	if n != 1 {
		return false, nil
	}
	d.UpdatedAt = now
	if d.Generation != expectGeneration {
		d.DistanceKm = nil
	}
	return true, nil
}

// ApplyDistance sets the route distance on a draft, provided its addresses
// have not changed since generation was read.
func ApplyDistance(ctx context.Context, db *sql.DB, id string, generation int64, km float64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE booking_drafts SET distance_km = ?, updated_at = ?
		 WHERE id = ? AND generation = ?`,
		km, time.Now().UTC().Truncate(time.Second), id, generation,
	)
	if err != nil {
		return false, fmt.Errorf("applying distance: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking distance update: %w", err)
	}
	return n == 1, nil
}

// DeleteDraft removes a draft.
func DeleteDraft(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM booking_drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	return nil
}
