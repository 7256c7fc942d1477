package matrix

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
	"github.com/zacharydestefano89/travel-route-planner/internal/platform/obs"
	"github.com/zacharydestefano89/travel-route-planner/internal/ports"
	"golang.org/x/sync/errgroup"
)

// CachedMatrixProvider implements CostMatrixProvider over layered cost stores.
//
// It coordinates:
//   - a fast, expiring cache (Redis) checked first
//   - a durable store (Postgres) for cache misses
//   - write-back of durable hits into the fast cache
//
// Rows are fetched per origin, concurrently. The provider is safe for concurrent use.
type CachedMatrixProvider struct {
	fast        ports.CostCache
	durable     ports.CostCache
	concurrency int
}

func NewCachedMatrixProvider(fast, durable ports.CostCache) (*CachedMatrixProvider, error) {
	if fast == nil && durable == nil {
		return nil, errors.New("cached matrix provider: at least one cost cache is required")
	}
	return &CachedMatrixProvider{fast: fast, durable: durable, concurrency: 5}, nil
}

// GetMatrix resolves every ordered pair among locations that either layer knows.
func (p *CachedMatrixProvider) GetMatrix(
	ctx context.Context,
	locations []domain.Location,
) (_ *domain.CostMatrix, err error) {
	defer obs.Time(ctx, "matrix.cached.GetMatrix")(&err)

	ids := make([]string, 0, len(locations))
	for _, l := range locations {
		if l.ID == "" {
			return nil, errors.New("cached matrix provider: location id must be non-empty")
		}
		ids = append(ids, l.ID)
	}

	out := domain.NewCostMatrix()
	if len(ids) < 2 {
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, origin := range ids {
		targets := make([]string, 0, len(ids)-1)
		for _, t := range ids {
			if t != origin {
				targets = append(targets, t)
			}
		}

		g.Go(func() error {
			row, err := p.getRow(gctx, origin, targets)
			if err != nil {
				return fmt.Errorf("cached matrix provider: row from %q: %w", origin, err)
			}

			mu.Lock()
			defer mu.Unlock()
			for dest, c := range row {
				if err := out.Set(origin, dest, c); err != nil {
					return fmt.Errorf("cached matrix provider: %w", err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (p *CachedMatrixProvider) getRow(
	ctx context.Context,
	origin string,
	targets []string,
) (map[string]domain.Cost, error) {
	hits := make(map[string]domain.Cost)

	// Check the fast cache before the durable store.
	if p.fast != nil {
		var err error
		hits, err = p.fast.GetMany(ctx, origin, targets)
		if err != nil {
			// A cache outage degrades to the durable store.
			log.Printf("fast cost cache read failed origin=%q: %v", origin, err)
			hits = make(map[string]domain.Cost)
		}
	}

	misses := make([]string, 0, len(targets))
	for _, t := range targets {
		if _, ok := hits[t]; !ok {
			misses = append(misses, t)
		}
	}

	if len(misses) == 0 || p.durable == nil {
		return hits, nil
	}

	fetched, err := p.durable.GetMany(ctx, origin, misses)
	if err != nil {
		return nil, fmt.Errorf("durable cost store: %w", err)
	}

	if p.fast != nil && len(fetched) > 0 {
		if err := p.fast.PutMany(ctx, origin, fetched); err != nil {
			log.Printf("fast cost cache write failed origin=%q: %v", origin, err)
		}
	}

	out := make(map[string]domain.Cost, len(hits)+len(fetched))
	for k, v := range hits {
		out[k] = v
	}
	for k, v := range fetched {
		out[k] = v
	}

	return out, nil
}

// PutCosts writes legs to the durable store and refreshes the fast cache.
func (p *CachedMatrixProvider) PutCosts(ctx context.Context, legs []domain.Leg) error {
	rows := make(map[string]map[string]domain.Cost)
	origins := make([]string, 0)
	for _, l := range legs {
		if l.From == "" || l.To == "" {
			return errors.New("put costs: from and to must be non-empty")
		}
		if l.From == l.To {
			return fmt.Errorf("put costs: self-pair %q is undefined", l.From)
		}
		if l.DurationSeconds < 0 || l.DistanceMeters < 0 {
			return fmt.Errorf("put costs: %q -> %q: negative cost", l.From, l.To)
		}
		if _, ok := rows[l.From]; !ok {
			rows[l.From] = make(map[string]domain.Cost)
			origins = append(origins, l.From)
		}
		rows[l.From][l.To] = l.Cost
	}

	for _, origin := range origins {
		if p.durable != nil {
			if err := p.durable.PutMany(ctx, origin, rows[origin]); err != nil {
				return fmt.Errorf("put costs: durable store origin %q: %w", origin, err)
			}
		}
		if p.fast != nil {
			if err := p.fast.PutMany(ctx, origin, rows[origin]); err != nil {
				if p.durable == nil {
					return fmt.Errorf("put costs: cache origin %q: %w", origin, err)
				}
				log.Printf("fast cost cache write failed origin=%q: %v", origin, err)
			}
		}
	}

	return nil
}
