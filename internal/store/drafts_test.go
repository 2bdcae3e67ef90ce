package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/hamanasi/internal/db"
)

func TestCreateAndGetDraft(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	draft, err := CreateDraft(ctx, database, "session-a")
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if draft.Step != 1 {
		t.Errorf("expected step 1, got %d", draft.Step)
	}
	if draft.DistanceKm != nil {
		t.Error("expected no distance on a new draft")
	}

	got, err := GetDraft(ctx, database, draft.ID, "session-a")
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got == nil || got.ID != draft.ID {
		t.Fatalf("expected draft %s, got %+v", draft.ID, got)
	}

	// Another session cannot read it.
	other, err := GetDraft(ctx, database, draft.ID, "session-b")
	if err != nil {
		t.Fatalf("GetDraft other session: %v", err)
	}
	if other != nil {
		t.Error("expected nil draft for a different session")
	}
}

func TestSaveDraftCompareAndSet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	draft, _ := CreateDraft(ctx, database, "s")
	draft.FromAddress = "Westlands"
	draft.ToAddress = "Kilimani"
	draft.Generation = 1

	ok, err := SaveDraft(ctx, database, draft, 0)
	if err != nil || !ok {
		t.Fatalf("SaveDraft: ok=%v err=%v", ok, err)
	}

	// A writer still holding generation 0 loses.
	stale := *draft
	stale.FromAddress = "Karen"
	ok, err = SaveDraft(ctx, database, &stale, 0)
	if err != nil {
		t.Fatalf("SaveDraft stale: %v", err)
	}
	if ok {
		t.Error("expected stale save to be rejected")
	}

	got, _ := GetDraft(ctx, database, draft.ID, "s")
	if got.FromAddress != "Westlands" {
		t.Errorf("expected Westlands, got %q", got.FromAddress)
	}
}

func TestApplyDistanceStaleGeneration(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	draft, _ := CreateDraft(ctx, database, "s")

	ok, err := ApplyDistance(ctx, database, draft.ID, 0, 12.3)
	if err != nil || !ok {
		t.Fatalf("ApplyDistance: ok=%v err=%v", ok, err)
	}
	got, _ := GetDraft(ctx, database, draft.ID, "s")
	if got.DistanceKm == nil || *got.DistanceKm != 12.3 {
		t.Fatalf("expected distance 12.3, got %v", got.DistanceKm)
	}

	ok, err = ApplyDistance(ctx, database, draft.ID, 5, 99)
	if err != nil {
		t.Fatalf("ApplyDistance stale: %v", err)
	}
	if ok {
		t.Error("expected distance for an old generation to be discarded")
	}
}

func TestExpiredDraftIsHidden(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	draft, _ := CreateDraft(ctx, database, "s")
	old := time.Now().UTC().Add(-DraftTTL - time.Hour)
	if _, err := database.Exec(`UPDATE booking_drafts SET updated_at = ? WHERE id = ?`, old, draft.ID); err != nil {
		t.Fatal(err)
	}

	got, err := GetDraft(ctx, database, draft.ID, "s")
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got != nil {
		t.Error("expected expired draft to be hidden")
	}
}

func TestDeleteDraft(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	draft, _ := CreateDraft(ctx, database, "s")
	if err := DeleteDraft(ctx, database, draft.ID); err != nil {
		t.Fatalf("DeleteDraft: %v", err)
	}
	got, _ := GetDraft(ctx, database, draft.ID, "s")
	if got != nil {
		t.Error("expected draft to be gone")
	}
}

func TestSaveDraftKeepsDistanceWithinGeneration(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	draft, _ := CreateDraft(ctx, database, "s")
	ApplyDistance(ctx, database, draft.ID, 0, 8.5)

	// A schedule edit holding a copy read before the route landed.
	draft.HouseType = "studio"
	draft.Step = 2
	if ok, err := SaveDraft(ctx, database, draft, 0); err != nil || !ok {
		t.Fatalf("SaveDraft: ok=%v err=%v", ok, err)
	}
	got, _ := GetDraft(ctx, database, draft.ID, "s")
	if got.DistanceKm == nil || *got.DistanceKm != 8.5 {
		t.Fatalf("expected distance to survive, got %v", got.DistanceKm)
	}

	// New addresses clear it.
	got.FromAddress = "Karen"
	got.Generation++
	if ok, err := SaveDraft(ctx, database, got, 0); err != nil || !ok {
		t.Fatalf("SaveDraft: ok=%v err=%v", ok, err)
	}
	got, _ = GetDraft(ctx, database, draft.ID, "s")
	if got.DistanceKm != nil {
		t.Errorf("expected distance cleared, got %v", *got.DistanceKm)
	}
}
