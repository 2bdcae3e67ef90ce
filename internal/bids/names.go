package bids

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/erazemk/hamanasi/internal/cache"
	"github.com/erazemk/hamanasi/internal/model"
	"golang.org/x/sync/errgroup"
)

// UnknownMover is shown when a company name could not be resolved.
const UnknownMover = "Unknown mover"

// maxNameFetches bounds concurrent mover lookups per page view.
const maxNameFetches = 8

// Resolver turns the mover ids on a set of quotes into company names.
type Resolver struct {
	cache cache.MoverNames
}

// NewResolver returns a Resolver. A nil cache disables caching.
func NewResolver(c cache.MoverNames) *Resolver {
	if c == nil {
		c = cache.Noop{}
	}
	return &Resolver{cache: c}
}

// MoverIDs returns the distinct mover ids on quotes in ascending order.
func MoverIDs(quotes []model.Quote) []int64 {
	ids := make([]int64, 0, len(quotes))
	for _, q := range quotes {
		ids = append(ids, q.MoverID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Names resolves every distinct mover on quotes. Uncached movers are
// fetched in parallel; if any fetch fails the whole resolution fails.
func (r *Resolver) Names(ctx context.Context, b Backend, quotes []model.Quote) (map[int64]string, error) {
	ids := MoverIDs(quotes)

	names, err := r.cache.Lookup(ctx, ids)
	if err != nil {
		slog.Warn("mover name cache unavailable", "error", err)
		names = map[int64]string{}
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return names, nil
	}

	fetched := make([]string, len(missing))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxNameFetches)
	for i, id := range missing {
		g.Go(func() error {
			mover, err := b.GetMover(gctx, id)
			if err != nil {
				return fmt.Errorf("fetching mover %d: %w", id, err)
			}
			fetched[i] = mover.CompanyName
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fresh := make(map[int64]string, len(missing))
	for i, id := range missing {
		names[id] = fetched[i]
		fresh[id] = fetched[i]
	}
	if err := r.cache.Store(ctx, fresh); err != nil {
		slog.Warn("failed to cache mover names", "error", err)
	}
	return names, nil
}
