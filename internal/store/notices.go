package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/hamanasi/internal/model"
)

// NoticeTTL bounds how long an unread notice waits for its next page view.
const NoticeTTL = 10 * time.Minute

// PushNotice queues a notice for the session's next page render.
func PushNotice(ctx context.Context, db *sql.DB, sessionKey, kind, message string) error {
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx,
		`INSERT INTO notices (session_key, kind, message, expires_at) VALUES (?, ?, ?, ?)`,
		sessionKey, kind, message, now.Add(NoticeTTL),
	)
	if err != nil {
		return fmt.Errorf("pushing notice: %w", err)
	}

	// Opportunistically clean up notices nobody came back for.
	_, _ = db.ExecContext(ctx,
		`DELETE FROM notices WHERE expires_at < ?`, now,
	)

	return nil
}

// PopNotices returns and removes the session's pending notices, oldest first.
func PopNotices(ctx context.Context, db *sql.DB, sessionKey string) ([]model.Notice, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT kind, message FROM notices
		 WHERE session_key = ? AND expires_at >= ? ORDER BY id`,
		sessionKey, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing notices: %w", err)
	}

	var notices []model.Notice
	for rows.Next() {
		var n model.Notice
		if err := rows.Scan(&n.Kind, &n.Message); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning notice: %w", err)
		}
		notices = append(notices, n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("listing notices: %w", err)
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notices WHERE session_key = ?`, sessionKey); err != nil {
		return nil, fmt.Errorf("clearing notices: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing notices: %w", err)
	}
	return notices, nil
}
