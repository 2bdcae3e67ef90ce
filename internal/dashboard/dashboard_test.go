package dashboard

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

var eat = time.FixedZone("EAT", 3*60*60)

func ts(y int, m time.Month, d int) model.Timestamp {
	return model.Timestamp{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.Quote{{QuoteAmount: 100000}, {QuoteAmount: 50000.5}})
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, "150000.5", s.Total.String())
	assert.Equal(t, "75000.25", s.Average.String())
	assert.Equal(t, 15, s.Progress)

	assert.Equal(t, 100, Summarize([]model.Quote{{QuoteAmount: 2_500_000}}).Progress)

	empty := Summarize(nil)
	assert.Zero(t, empty.Count)
	assert.True(t, empty.Average.IsZero())
	assert.Zero(t, empty.Progress)
}

func TestTopMovers(t *testing.T) {
	movers := []model.Mover{
		{ID: 1, Rating: 3.1}, {ID: 2, Rating: 4.9}, {ID: 3, Rating: 4.2},
		{ID: 4, Rating: 2.0}, {ID: 5, Rating: 4.5},
	}
	top := TopMovers(movers, TopMoverCount)
	require.Len(t, top, 4)
	assert.Equal(t, []int64{2, 5, 3, 1}, []int64{top[0].ID, top[1].ID, top[2].ID, top[3].ID})
	assert.Equal(t, int64(1), movers[0].ID, "input must not be reordered")
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2026, 10, 17, 23, 30, 0, 0, eat)

	assert.Equal(t, 3, DaysLeft(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), now, eat))
	assert.Equal(t, 0, DaysLeft(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), now, eat))
	assert.Equal(t, 0, DaysLeft(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), now, eat))
	assert.Equal(t, 0, DaysLeft(time.Time{}, now, eat))
}

func TestRequesterDashboard(t *testing.T) {
	fake := backendtest.New(t)
	fake.Moves = []model.Move{
		{ID: 1, UserID: 1, CreatedAt: ts(2026, 9, 1), MoveDate: ts(2026, 9, 5)},
		{ID: 2, UserID: 1, CreatedAt: ts(2026, 10, 10), MoveDate: ts(2026, 10, 27)},
	}
	fake.Movers = []model.Mover{{ID: 7, CompanyName: "Swift", Rating: 4}}
	fake.Inventory = []model.InventoryItem{{ID: 3, ItemName: "Sofa"}}

	svc := NewService(eat)
	svc.now = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, eat) }
	user := &model.User{ID: 1, Name: "Amina"}

	d := svc.Requester(context.Background(), fake.Session(), user)
	require.NoError(t, d.LatestMove.Err)
	assert.Equal(t, int64(2), d.LatestMove.Value.ID)
	assert.Equal(t, 10, d.DaysLeft)
	assert.Len(t, d.Inventory.Value, 1)
	assert.Len(t, d.TopMovers.Value, 1)
}

func TestSectionsFailIndependently(t *testing.T) {
	fake := backendtest.New(t)
	fake.Inventory = []model.InventoryItem{{ID: 3, ItemName: "Sofa"}}
	fake.FailOn(http.MethodGet, "/movers", http.StatusInternalServerError)

	d := NewService(eat).Requester(context.Background(), fake.Session(), &model.User{ID: 1})
	assert.Error(t, d.TopMovers.Err)
	assert.NoError(t, d.Inventory.Err)
	assert.NoError(t, d.LatestMove.Err)
	assert.Nil(t, d.LatestMove.Value)
}

func TestProviderDashboard(t *testing.T) {
	fake := backendtest.New(t)
	moverID := int64(7)
	fake.User.MoverID = &moverID
	fake.Movers = []model.Mover{{ID: 7, CompanyName: "Swift", Rating: 4.4}}
	fake.Moves = []model.Move{
		{ID: 1, UserID: 2, CreatedAt: ts(2026, 9, 1)},
		{ID: 2, UserID: 3, CreatedAt: ts(2026, 10, 10)},
		{ID: 3, UserID: 4, CreatedAt: ts(2026, 10, 1)},
	}
	fake.Quotes = []model.Quote{
		{ID: 1, MoveID: 1, MoverID: 7, QuoteAmount: 200000},
		{ID: 2, MoveID: 2, MoverID: 9, QuoteAmount: 999},
	}

	d := NewService(eat).Provider(context.Background(), fake.Session(), &model.User{ID: 1})
	require.NoError(t, d.Moves.Err)
	assert.Equal(t, int64(2), d.LatestMove().ID)
	others := d.OtherMoves()
	require.Len(t, others, 2)
	assert.Equal(t, int64(3), others[0].ID)
	assert.Equal(t, 1, d.Quotes.Value.Count)
	assert.Equal(t, 20, d.Quotes.Value.Progress)
	require.NoError(t, d.Company.Err)
	assert.Equal(t, "Swift", d.Company.Value.CompanyName)
}
