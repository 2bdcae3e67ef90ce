package bids

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/erazemk/hamanasi/internal/backend/backendtest"
	"github.com/erazemk/hamanasi/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func at(day int) model.Timestamp {
	return model.Timestamp{Time: time.Date(2026, 10, day, 12, 0, 0, 0, time.UTC)}
}

func TestFilterMoves(t *testing.T) {
	moves := []model.Move{
		{ID: 1, FromAddress: "Westlands, Nairobi", ToAddress: "Kilimani", MoveStatus: "pending"},
		{ID: 2, FromAddress: "Karen", ToAddress: "Nairobi CBD", MoveStatus: "Completed"},
		{ID: 3, FromAddress: "Mombasa", ToAddress: "Nyali", MoveStatus: "in progress"},
	}
	ids := func(ms []model.Move) []int64 {
		out := []int64{}
		for _, m := range ms {
			out = append(out, m.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		search string
		status string
		want   []int64
	}{
		{"all", "", StatusAll, []int64{1, 2, 3}},
		{"empty status", "", "", []int64{1, 2, 3}},
		{"search either address", "nairobi", StatusAll, []int64{1, 2}},
		{"search case", "KAREN", "all", []int64{2}},
		{"status case-insensitive", "", "completed", []int64{2}},
		{"status and search", "nairobi", "pending", []int64{1}},
		{"in progress", "", "In Progress", []int64{3}},
		{"no match", "eldoret", StatusAll, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterMoves(moves, tt.search, tt.status)))
		})
	}
}

func TestLatestMove(t *testing.T) {
	assert.Nil(t, LatestMove(nil))

	moves := []model.Move{
		{ID: 1, CreatedAt: at(3)},
		{ID: 2, CreatedAt: at(9)},
		{ID: 3, CreatedAt: at(5)},
	}
	assert.Equal(t, int64(2), LatestMove(moves).ID)

	ordered := NewestFirst(moves)
	assert.Equal(t, []int64{2, 3, 1}, []int64{ordered[0].ID, ordered[1].ID, ordered[2].ID})
}

func TestParseAmount(t *testing.T) {
	for _, ok := range []string{"0", "15000", " 2500.50 "} {
		_, err := ParseAmount(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "-1", "abc", "NaN", "Inf"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}
}

func TestSubmitQuoteCompletedMoveMakesNoCall(t *testing.T) {
	fake := backendtest.New(t)
	move := &model.Move{ID: 4, MoveStatus: "completed"}

	_, err := SubmitQuote(context.Background(), fake.Session(), move, "1000", "")
	assert.ErrorIs(t, err, ErrMoveCompleted)
	assert.Empty(t, fake.Calls())
}

func TestSubmitQuoteInvalidAmountMakesNoCall(t *testing.T) {
	fake := backendtest.New(t)
	move := &model.Move{ID: 4, MoveStatus: "pending"}

	_, err := SubmitQuote(context.Background(), fake.Session(), move, "-5", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, fake.Calls())
}

func TestServiceSubmitQuote(t *testing.T) {
	fake := backendtest.New(t)
	fake.Moves = []model.Move{
		{ID: 4, UserID: 2, FromAddress: "A", ToAddress: "B", MoveStatus: "pending"},
		{ID: 5, UserID: 2, FromAddress: "C", ToAddress: "D", MoveStatus: "Completed"},
	}
	svc := NewService(nil, NewResolver(nil))
	ctx := context.Background()

	_, quote, err := svc.SubmitQuote(ctx, fake.Session(), 4, "18000", " careful with the piano ")
	require.NoError(t, err)
	assert.Equal(t, 18000.0, quote.QuoteAmount)

	calls := fake.CallsTo(http.MethodPost, "/quote")
	require.Len(t, calls, 1)
	assert.Equal(t, float64(4), calls[0].Body["move_id"])
	assert.Equal(t, "careful with the piano", calls[0].Body["details"])

	_, _, err = svc.SubmitQuote(ctx, fake.Session(), 5, "18000", "")
	assert.ErrorIs(t, err, ErrMoveCompleted)
	assert.Len(t, fake.CallsTo(http.MethodPost, "/quote"), 1)
}

func TestCanAccept(t *testing.T) {
	open := &model.Move{ID: 1}
	accepted := &model.Move{ID: 1, ApprovedPrice: price(100)}

	assert.NoError(t, CanAccept(open, &model.Quote{ID: 9, MoveID: 1}))
	assert.ErrorIs(t, CanAccept(open, &model.Quote{ID: 9, MoveID: 2}), ErrQuoteNotForMove)
	assert.ErrorIs(t, CanAccept(accepted, &model.Quote{ID: 9, MoveID: 1}), ErrAlreadyAccepted)
}

func TestAcceptedQuote(t *testing.T) {
	quotes := []model.Quote{
		{ID: 1, QuoteAmount: 500},
		{ID: 2, QuoteAmount: 700},
		{ID: 3, QuoteAmount: 700},
	}

	assert.Zero(t, AcceptedQuote(&model.Move{}, quotes, 3))
	assert.Equal(t, int64(3), AcceptedQuote(&model.Move{ApprovedPrice: price(700)}, quotes, 3))
	assert.Equal(t, int64(2), AcceptedQuote(&model.Move{ApprovedPrice: price(700)}, quotes, 0))
	assert.Equal(t, int64(2), AcceptedQuote(&model.Move{ApprovedPrice: price(700)}, quotes, 99))
	assert.Zero(t, AcceptedQuote(&model.Move{ApprovedPrice: price(1)}, quotes, 0))
}

func TestBookingSuccessURL(t *testing.T) {
	move := &model.Move{FromAddress: "A B", ToAddress: "C", MoveDate: at(20), Distance: price(12.3)}
	got := BookingSuccessURL(move, &model.Quote{QuoteAmount: 54600})
	assert.Equal(t, BookingSuccessPath+"?distance=12.3&fromLocation=A+B&moveDate=2026-10-20&price=54600&toLocation=C", got)
}
