package ports

import (
	"context"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
)

// Contract for retrieving a directed cost matrix over a list of locations.
//
// Implementations return a value for every ordered pair they know about;
// self-pairs are never included. Pairs they cannot resolve are left out so the
// optimizer can report exactly which one was needed.
type CostMatrixProvider interface {
	GetMatrix(ctx context.Context, locations []domain.Location) (*domain.CostMatrix, error)
}
