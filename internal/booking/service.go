package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/model"
	"github.com/erazemk/hamanasi/internal/pricing"
	"github.com/erazemk/hamanasi/internal/routing"
	"github.com/erazemk/hamanasi/internal/store"
)

// Errors returned by Service.
var (
	ErrDraftNotFound = errors.New("booking draft not found")
	ErrStaleDraft    = errors.New("booking draft changed concurrently")
	ErrStepMismatch  = errors.New("posted step does not match the draft")
)

// SuccessPath is where a completed booking lands.
const SuccessPath = "/dashboard/book-move/success"

// MoveCreator books a move on the backend.
type MoveCreator interface {
	CreateMove(ctx context.Context, req backend.CreateMoveRequest) (*model.Move, error)
}

// Service persists wizard drafts and drives them through their steps.
type Service struct {
	db     *sql.DB
	routes routing.Service
	loc    *time.Location
	now    func() time.Time
}

// NewService creates a booking service. Move times are read in loc.
func NewService(db *sql.DB, routes routing.Service, loc *time.Location) *Service {
	return &Service{db: db, routes: routes, loc: loc, now: time.Now}
}

// Location returns the zone move times are interpreted in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now returns the current time in the service's zone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Start creates an empty draft for the session.
func (s *Service) Start(ctx context.Context, sessionKey string) (*model.BookingDraft, error) {
	return store.CreateDraft(ctx, s.db, sessionKey)
}

// Load returns the session's draft with id.
func (s *Service) Load(ctx context.Context, id, sessionKey string) (*model.BookingDraft, error) {
	d, err := store.GetDraft(ctx, s.db, id, sessionKey)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

// Discard deletes a draft.
func (s *Service) Discard(ctx context.Context, id string) error {
	return store.DeleteDraft(ctx, s.db, id)
}

// UpdateRoute stores new addresses. Changing them drops the distance.
func (s *Service) UpdateRoute(ctx context.Context, d *model.BookingDraft, from, to string) error {
	prev := d.Generation
	if !SetAddresses(d, from, to) {
		return nil
	}
	return s.save(ctx, d, prev)
}

// UpdateSchedule stores the move time, house type and notes.
func (s *Service) UpdateSchedule(ctx context.Context, d *model.BookingDraft, moveAt, houseType, notes string) error {
	d.MoveAt = moveAt
	d.HouseType = houseType
	d.Notes = notes
	return s.save(ctx, d, d.Generation)
}

// CalculateRoute asks the route service for the draft's distance and
// stores it, unless the addresses changed while the request was in flight.
func (s *Service) CalculateRoute(ctx context.Context, d *model.BookingDraft) (*routing.Route, error) {
	if strings.TrimSpace(d.FromAddress) == "" || strings.TrimSpace(d.ToAddress) == "" {
		return nil, ErrAddressesMissing
	}
	generation := d.Generation

	route, err := s.routes.Route(ctx, d.FromAddress, d.ToAddress)
	if err != nil {
		return nil, fmt.Errorf("calculating route: %w", err)
	}

	ok, err := store.ApplyDistance(ctx, s.db, d.ID, generation, route.DistanceKm)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Info("discarded route for superseded addresses", "draft", d.ID, "generation", generation)
		return nil, ErrStaleDraft
	}
	km := route.DistanceKm
	d.DistanceKm = &km
	return route, nil
}

// Back moves the draft one step back.
func (s *Service) Back(ctx context.Context, d *model.BookingDraft, postedStep int) error {
	if postedStep != d.Step {
		return ErrStepMismatch
	}
	if d.Step > StepRoute {
		d.Step--
	}
	return s.save(ctx, d, d.Generation)
}

// Continue advances the draft when its current step is complete.
func (s *Service) Continue(ctx context.Context, d *model.BookingDraft, postedStep int) error {
	if postedStep != d.Step {
		return ErrStepMismatch
	}
	if err := StepError(d, s.loc, s.Now()); err != nil {
		return err
	}
	if d.Step < StepReview {
		d.Step++
	}
	return s.save(ctx, d, d.Generation)
}

// BuildMoveRequest turns a complete draft into the backend booking body.
// Date and time are both taken in the service's zone.
func (s *Service) BuildMoveRequest(d *model.BookingDraft) (backend.CreateMoveRequest, error) {
	if err := RouteError(d); err != nil {
		return backend.CreateMoveRequest{}, err
	}
	if err := ScheduleError(d, s.loc, s.Now()); err != nil {
		return backend.CreateMoveRequest{}, err
	}
	moveAt, _ := ParseMoveAt(d.MoveAt, s.loc)
	price, _ := Price(d)

	return backend.CreateMoveRequest{
		FromAddress:    d.FromAddress,
		ToAddress:      d.ToAddress,
		MoveDate:       moveAt.Format("2006-01-02"),
		MoveTime:       moveAt.Format("15:04:05"),
		EstimatedPrice: price.InexactFloat64(),
		Distance:       *d.DistanceKm,
	}, nil
}

// Submit books the move and deletes the draft. It returns the URL of the
// confirmation page.
func (s *Service) Submit(ctx context.Context, mc MoveCreator, d *model.BookingDraft, postedStep int) (string, error) {
	if postedStep != d.Step || d.Step != StepReview {
		return "", ErrStepMismatch
	}
	req, err := s.BuildMoveRequest(d)
	if err != nil {
		return "", err
	}

	move, err := mc.CreateMove(ctx, req)
	if err != nil {
		return "", fmt.Errorf("booking move: %w", err)
	}
	slog.Info("move booked", "move", move.ID, "from", req.FromAddress, "to", req.ToAddress)

	if err := store.DeleteDraft(ctx, s.db, d.ID); err != nil {
		slog.Error("failed to delete booked draft", "draft", d.ID, "error", err)
	}
	return SuccessURL(req, d.HouseType), nil
}

// SuccessURL is the confirmation page for a booked move.
func SuccessURL(req backend.CreateMoveRequest, houseType string) string {
	q := url.Values{}
	q.Set("fromLocation", req.FromAddress)
	q.Set("toLocation", req.ToAddress)
	q.Set("moveDate", req.MoveDate)
	q.Set("houseType", pricing.Name(houseType))
	q.Set("price", strconv.FormatFloat(req.EstimatedPrice, 'f', -1, 64))
	q.Set("distance", strconv.FormatFloat(req.Distance, 'f', -1, 64))
	return SuccessPath + "?" + q.Encode()
}

func (s *Service) save(ctx context.Context, d *model.BookingDraft, expectGeneration int64) error {
	ok, err := store.SaveDraft(ctx, s.db, d, expectGeneration)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStaleDraft
	}
	return nil
}
