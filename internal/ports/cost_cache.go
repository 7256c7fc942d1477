package ports

import (
	"context"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
)

// Port: a keyed store of directed leg costs, one origin row at a time.
// Keys are location IDs.
type CostCache interface {
	// Fetch known costs from one origin to many destinations. Unknown pairs are absent.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]domain.Cost, error)
	// Store costs from one origin to many destinations.
	PutMany(ctx context.Context, origin string, results map[string]domain.Cost) error
}

// Port: accepts externally supplied leg costs for later matrix lookups.
type CostWriter interface {
	PutCosts(ctx context.Context, legs []domain.Leg) error
}
