package booking

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/erazemk/hamanasi/internal/backend/backendtest"
	"github.com/erazemk/hamanasi/internal/db"
	"github.com/erazemk/hamanasi/internal/pricing"
	"github.com/erazemk/hamanasi/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoutes struct {
	km     float64
	err    error
	during func()
	calls  int
}

func (f *fakeRoutes) Route(ctx context.Context, origin, destination string) (*routing.Route, error) {
	f.calls++
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &routing.Route{DistanceKm: f.km, Duration: 25 * time.Minute}, nil
}

func (f *fakeRoutes) Autocomplete(ctx context.Context, input string) ([]string, error) {
	return nil, nil
}

func newTestService(t *testing.T, routes routing.Service) *Service {
	t.Helper()
	svc := NewService(db.NewTestDB(t), routes, eat)
	svc.now = func() time.Time { return time.Date(2026, 10, 17, 8, 0, 0, 0, eat) }
	return svc
}

func TestCalculateRouteStoresDistance(t *testing.T) {
	routes := &fakeRoutes{km: 12.3}
	svc := newTestService(t, routes)
	ctx := context.Background()

	d, err := svc.Start(ctx, "s")
	require.NoError(t, err)
	require.NoError(t, svc.UpdateRoute(ctx, d, "A", "B"))

	route, err := svc.CalculateRoute(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, 12.3, route.DistanceKm)

	stored, err := svc.Load(ctx, d.ID, "s")
	require.NoError(t, err)
	require.NotNil(t, stored.DistanceKm)
	assert.Equal(t, 12.3, *stored.DistanceKm)
	assert.True(t, CanContinue(stored, eat, svc.Now()))
}

func TestCalculateRouteDiscardsStaleResult(t *testing.T) {
	routes := &fakeRoutes{km: 12.3}
	svc := newTestService(t, routes)
	ctx := context.Background()

	d, _ := svc.Start(ctx, "s")
	require.NoError(t, svc.UpdateRoute(ctx, d, "A", "B"))

	// Another tab changes the destination while the route is computed.
	routes.during = func() {
		other, err := svc.Load(ctx, d.ID, "s")
		require.NoError(t, err)
		require.NoError(t, svc.UpdateRoute(ctx, other, "A", "C"))
	}

	_, err := svc.CalculateRoute(ctx, d)
	assert.ErrorIs(t, err, ErrStaleDraft)

	stored, _ := svc.Load(ctx, d.ID, "s")
	assert.Nil(t, stored.DistanceKm)
	assert.Equal(t, "C", stored.ToAddress)
}

func TestCalculateRouteFailureSurfaces(t *testing.T) {
	svc := newTestService(t, &fakeRoutes{err: routing.ErrNoRoute})
	ctx := context.Background()

	d, _ := svc.Start(ctx, "s")
	svc.UpdateRoute(ctx, d, "A", "B")

	_, err := svc.CalculateRoute(ctx, d)
	assert.ErrorIs(t, err, routing.ErrNoRoute)
}

func TestCalculateRouteNeedsAddresses(t *testing.T) {
	routes := &fakeRoutes{km: 1}
	svc := newTestService(t, routes)
	d, _ := svc.Start(context.Background(), "s")

	_, err := svc.CalculateRoute(context.Background(), d)
	assert.ErrorIs(t, err, ErrAddressesMissing)
	assert.Zero(t, routes.calls)
}

func TestNavigation(t *testing.T) {
	svc := newTestService(t, &fakeRoutes{km: 12.3})
	ctx := context.Background()

	d, _ := svc.Start(ctx, "s")
	assert.ErrorIs(t, svc.Continue(ctx, d, StepRoute), ErrAddressesMissing)

	svc.UpdateRoute(ctx, d, "A", "B")
	assert.ErrorIs(t, svc.Continue(ctx, d, StepRoute), ErrDistanceMissing)

	_, err := svc.CalculateRoute(ctx, d)
	require.NoError(t, err)
	require.NoError(t, svc.Continue(ctx, d, StepRoute))
	assert.Equal(t, StepSchedule, d.Step)

	// A second tab still showing step 1.
	assert.ErrorIs(t, svc.Continue(ctx, d, StepRoute), ErrStepMismatch)

	require.NoError(t, svc.Back(ctx, d, StepSchedule))
	assert.Equal(t, StepRoute, d.Step)
}

func TestSubmitBooksMove(t *testing.T) {
	fake := backendtest.New(t)
	svc := newTestService(t, &fakeRoutes{km: 12.3})
	ctx := context.Background()

	d, _ := svc.Start(ctx, "s")
	require.NoError(t, svc.UpdateRoute(ctx, d, "A", "B"))
	_, err := svc.CalculateRoute(ctx, d)
	require.NoError(t, err)
	require.NoError(t, svc.Continue(ctx, d, StepRoute))
	require.NoError(t, svc.UpdateSchedule(ctx, d, "2026-10-20T10:30", pricing.OneBedroom, "fragile"))
	require.NoError(t, svc.Continue(ctx, d, StepSchedule))

	price, ok := Price(d)
	require.True(t, ok)
	assert.Equal(t, "54600", price.String())

	next, err := svc.Submit(ctx, fake.Session(), d, StepReview)
	require.NoError(t, err)

	calls := fake.CallsTo(http.MethodPost, "/moves")
	require.Len(t, calls, 1)
	body := calls[0].Body
	assert.Equal(t, 12.3, body["distance"])
	assert.Equal(t, float64(54600), body["estimated_price"])
	assert.Equal(t, "2026-10-20", body["move_date"])
	assert.Equal(t, "10:30:00", body["move_time"])
	assert.Equal(t, "A", body["from_address"])

	require.True(t, strings.HasPrefix(next, SuccessPath+"?"))
	u, err := url.Parse(next)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "A", q.Get("fromLocation"))
	assert.Equal(t, "B", q.Get("toLocation"))
	assert.Equal(t, "2026-10-20", q.Get("moveDate"))
	assert.Equal(t, "One Bedroom", q.Get("houseType"))
	assert.Equal(t, "54600", q.Get("price"))
	assert.Equal(t, "12.3", q.Get("distance"))

	_, err = svc.Load(ctx, d.ID, "s")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	fake := backendtest.New(t)
	fake.FailOn(http.MethodPost, "/moves", http.StatusInternalServerError)
	svc := newTestService(t, &fakeRoutes{km: 2})
	ctx := context.Background()

	d, _ := svc.Start(ctx, "s")
	svc.UpdateRoute(ctx, d, "A", "B")
	svc.CalculateRoute(ctx, d)
	svc.Continue(ctx, d, StepRoute)
	svc.UpdateSchedule(ctx, d, "2026-10-20T09:00", pricing.Studio, "")
	require.NoError(t, svc.Continue(ctx, d, StepSchedule))

	_, err := svc.Submit(ctx, fake.Session(), d, StepReview)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrStepMismatch))

	stored, err := svc.Load(ctx, d.ID, "s")
	require.NoError(t, err)
	assert.Equal(t, StepReview, stored.Step)
}

func TestSubmitRequiresReviewStep(t *testing.T) {
	fake := backendtest.New(t)
	svc := newTestService(t, &fakeRoutes{km: 2})
	d, _ := svc.Start(context.Background(), "s")

	_, err := svc.Submit(context.Background(), fake.Session(), d, StepRoute)
	assert.ErrorIs(t, err, ErrStepMismatch)
	assert.Empty(t, fake.Calls())
}
