package store

import (
	"context"
	"testing"

	"github.com/erazemk/hamanasi/internal/db"
)

func TestAcceptedQuoteFirstWins(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	id, err := AcceptedQuoteID(ctx, database, 7)
	if err != nil || id != 0 {
		t.Fatalf("expected no accepted quote, got %d err=%v", id, err)
	}

	RecordAcceptedQuote(ctx, database, 7, 21)
	RecordAcceptedQuote(ctx, database, 7, 22)

	id, err = AcceptedQuoteID(ctx, database, 7)
	if err != nil {
		t.Fatalf("AcceptedQuoteID: %v", err)
	}
	if id != 21 {
		t.Errorf("expected quote 21, got %d", id)
	}
}
