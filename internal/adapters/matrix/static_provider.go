package matrix

import (
	"context"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
)

// Pair is one directed leg with its cost.
type Pair struct {
	From, To string
	Meters   int
	Seconds  int
}

// StaticMatrixProvider serves a fixed, in-memory set of legs.
type StaticMatrixProvider struct {
	m map[[2]string]domain.Cost
}

func NewStaticMatrixProvider(pairs []Pair) *StaticMatrixProvider {
	m := make(map[[2]string]domain.Cost, len(pairs))
	for _, p := range pairs {
		m[[2]string{p.From, p.To}] = domain.Cost{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &StaticMatrixProvider{m: m}
}

// GetMatrix returns every known leg among locations. Unknown legs are left out.
func (p *StaticMatrixProvider) GetMatrix(ctx context.Context, locations []domain.Location) (*domain.CostMatrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := domain.NewCostMatrix()
	for _, from := range locations {
		for _, to := range locations {
			if from.ID == to.ID {
				continue
			}
			c, ok := p.m[[2]string{from.ID, to.ID}]
			if !ok {
				continue
			}
			if err := out.Set(from.ID, to.ID, c); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// MatrixFromPairs builds a CostMatrix directly from pairs.
func MatrixFromPairs(pairs []Pair) (*domain.CostMatrix, error) {
	out := domain.NewCostMatrix()
	for _, p := range pairs {
		if err := out.Set(p.From, p.To, domain.Cost{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}); err != nil {
			return nil, err
		}
	}
	return out, nil
}
