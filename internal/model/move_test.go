package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMoveDecodeBackendPayload(t *testing.T) {
	payload := `{
		"id": 7,
		"user_id": 3,
		"from_address": "Kilimani, Nairobi",
		"to_address": "Westlands, Nairobi",
		"move_date": "2026-11-02T00:00:00",
		"move_time": "10:30:00",
		"move_status": "Pending",
		"estimated_price": 54600.0,
		"approved_price": null,
		"distance": 12.3,
		"created_at": "2026-10-17T08:15:42.123456",
		"updated_at": null
	}`

	var m Move
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !m.HasStatus(MoveStatusPending) {
		t.Errorf("expected pending status, got %q", m.MoveStatus)
	}
	if m.IsAccepted() {
		t.Error("expected move without approved price not to be accepted")
	}
	if m.DistanceKm() != 12.3 {
		t.Errorf("expected distance 12.3, got %v", m.DistanceKm())
	}
	want := time.Date(2026, 10, 17, 8, 15, 42, 123456000, time.UTC)
	if !m.CreatedAt.Equal(want) {
		t.Errorf("expected created_at %v, got %v", want, m.CreatedAt.Time)
	}
	if !m.UpdatedAt.IsZero() {
		t.Errorf("expected zero updated_at, got %v", m.UpdatedAt.Time)
	}
}

func TestMoveDisplayPrice(t *testing.T) {
	estimate, approved := 54600.0, 50000.0
	m := Move{ID: 1, EstimatedPrice: &estimate}
	if m.DisplayPrice() != estimate {
		t.Errorf("expected estimate, got %v", m.DisplayPrice())
	}
	m.ApprovedPrice = &approved
	if m.DisplayPrice() != approved {
		t.Errorf("expected approved price, got %v", m.DisplayPrice())
	}
	if !m.IsAccepted() {
		t.Error("expected move with approved price to be accepted")
	}
}

func TestMoveValidateRejectsNegative(t *testing.T) {
	neg := -1.0
	m := Move{ID: 1, Distance: &neg}
	if err := m.Validate(); err == nil {
		t.Error("expected error for negative distance")
	}
	if err := (&Move{}).Validate(); err == nil {
		t.Error("expected error for missing id")
	}
}

func TestMoveIsCompleted(t *testing.T) {
	for _, status := range []string{"completed", "Completed", " COMPLETED "} {
		m := Move{ID: 1, MoveStatus: status}
		if !m.IsCompleted() {
			t.Errorf("expected %q to count as completed", status)
		}
	}
	m := Move{ID: 1, MoveStatus: "In Progress"}
	if m.IsCompleted() {
		t.Error("expected in-progress move not to be completed")
	}
}

func TestQuoteValidate(t *testing.T) {
	tests := []struct {
		quote   Quote
		wantErr bool
	}{
		{Quote{ID: 1, MoveID: 2, MoverID: 3, QuoteAmount: 45000}, false},
		{Quote{ID: 1, MoveID: 2, MoverID: 3, QuoteAmount: 0}, false},
		{Quote{ID: 1, MoveID: 2, MoverID: 3, QuoteAmount: -1}, true},
		{Quote{ID: 1, MoverID: 3}, true},
		{Quote{MoveID: 2, MoverID: 3}, true},
	}

	for _, tt := range tests {
		err := tt.quote.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%+v) error = %v, wantErr %v", tt.quote, err, tt.wantErr)
		}
	}
}

func TestTimestampLayouts(t *testing.T) {
	for _, s := range []string{
		"2026-10-17T08:15:42Z",
		"2026-10-17T08:15:42",
		"2026-10-17 08:15:42",
		"2026-10-17",
	} {
		if _, err := ParseTimestamp(s); err != nil {
			t.Errorf("ParseTimestamp(%q): %v", s, err)
		}
	}
	if _, err := ParseTimestamp("17/10/2026"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}
