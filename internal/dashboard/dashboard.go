// Package dashboard assembles the landing pages for both roles. Sections are
// loaded concurrently and fail on their own.
package dashboard

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/erazemk/hamanasi/internal/bids"
	"github.com/erazemk/hamanasi/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// MonthlyTarget is the quote volume a company's progress bar measures
// against, in KES.
var MonthlyTarget = decimal.NewFromInt(1_000_000)

// TopMoverCount is how many companies the requester dashboard recommends.
const TopMoverCount = 4

// Backend is the slice of the API the dashboards read.
type Backend interface {
	ListMoves(ctx context.Context) ([]model.Move, error)
	ListMyMoves(ctx context.Context) ([]model.Move, error)
	ListInventory(ctx context.Context) ([]model.InventoryItem, error)
	ListMovers(ctx context.Context) ([]model.Mover, error)
	ListMyQuotes(ctx context.Context) ([]model.Quote, error)
	GetMyMover(ctx context.Context) (*model.Mover, error)
}

// Section is one independently loaded part of a dashboard.
type Section[T any] struct {
	Value T
	Err   error
}

// Requester is the dashboard of someone relocating.
type Requester struct {
	User       *model.User
	LatestMove Section[*model.Move]
	DaysLeft   int
	Inventory  Section[[]model.InventoryItem]
	TopMovers  Section[[]model.Mover]
}

// Provider is the dashboard of a moving company.
type Provider struct {
	User    *model.User
	Moves   Section[[]model.Move] // newest first
	Quotes  Section[QuoteSummary]
	Company Section[*model.Mover]
}

// LatestMove is the newest open request, or nil.
func (p *Provider) LatestMove() *model.Move {
	if len(p.Moves.Value) == 0 {
		return nil
	}
	return &p.Moves.Value[0]
}

// OtherMoves are the remaining requests after LatestMove.
func (p *Provider) OtherMoves() []model.Move {
	if len(p.Moves.Value) < 2 {
		return nil
	}
	return p.Moves.Value[1:]
}

// QuoteSummary totals a company's bids.
type QuoteSummary struct {
	Count    int
	Total    decimal.Decimal
	Average  decimal.Decimal
	Progress int // percent of MonthlyTarget, capped at 100
}

// Summarize totals quotes.
func Summarize(quotes []model.Quote) QuoteSummary {
	s := QuoteSummary{Count: len(quotes), Total: decimal.Zero, Average: decimal.Zero}
	for _, q := range quotes {
		s.Total = s.Total.Add(decimal.NewFromFloat(q.QuoteAmount))
	}
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
	}
	progress := s.Total.Mul(decimal.NewFromInt(100)).Div(MonthlyTarget).IntPart()
	s.Progress = int(min(progress, 100))
	return s
}

// TopMovers returns the n best-rated companies, highest first.
func TopMovers(movers []model.Mover, n int) []model.Mover {
	out := slices.Clone(movers)
	slices.SortStableFunc(out, func(a, b model.Mover) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// DaysLeft counts calendar days from now until date in loc, never below 0.
func DaysLeft(date, now time.Time, loc *time.Location) int {
	if date.IsZero() {
		return 0
	}
	y, m, d := date.Date()
	target := time.Date(y, m, d, 0, 0, 0, 0, loc)
	y, m, d = now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	days := int(target.Sub(today).Hours() / 24)
	return max(days, 0)
}

// Service builds dashboards.
type Service struct {
	loc *time.Location
	now func() time.Time
}

// NewService creates a dashboard service that counts days in loc.
func NewService(loc *time.Location) *Service {
	return &Service{loc: loc, now: time.Now}
}

// Requester loads the requester dashboard.
func (s *Service) Requester(ctx context.Context, b Backend, user *model.User) *Requester {
	d := &Requester{User: user}

	var g errgroup.Group
	g.Go(func() error {
		moves, err := b.ListMyMoves(ctx)
		d.LatestMove = Section[*model.Move]{Value: bids.LatestMove(moves), Err: err}
		return nil
	})
	g.Go(func() error {
		items, err := b.ListInventory(ctx)
		d.Inventory = Section[[]model.InventoryItem]{Value: items, Err: err}
		return nil
	})
	g.Go(func() error {
		movers, err := b.ListMovers(ctx)
		d.TopMovers = Section[[]model.Mover]{Value: TopMovers(movers, TopMoverCount), Err: err}
		return nil
	})
	g.Wait()

	if m := d.LatestMove.Value; m != nil {
		d.DaysLeft = DaysLeft(m.MoveDate.Time, s.now(), s.loc)
	}
	return d
}

// Provider loads the company dashboard.
func (s *Service) Provider(ctx context.Context, b Backend, user *model.User) *Provider {
	d := &Provider{User: user}

	var g errgroup.Group
	g.Go(func() error {
		moves, err := b.ListMoves(ctx)
		d.Moves = Section[[]model.Move]{Value: bids.NewestFirst(moves), Err: err}
		return nil
	})
	g.Go(func() error {
		quotes, err := b.ListMyQuotes(ctx)
		d.Quotes = Section[QuoteSummary]{Value: Summarize(quotes), Err: err}
		return nil
	})
	g.Go(func() error {
		mover, err := b.GetMyMover(ctx)
		d.Company = Section[*model.Mover]{Value: mover, Err: err}
		return nil
	})
	g.Wait()

	return d
}
