package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
	"github.com/zacharydestefano89/travel-route-planner/internal/ports"
)

type PlanTripRequest struct {
	Trip    TripInput
	Options Options
	// Matrix, when set, is used as is and the provider is not consulted.
	Matrix *domain.CostMatrix
}

// PlanTrip validates the trip, resolves the cost matrix for its locations and
// ranks the optional-stop subsets.
//
// As with OptimizeUniverse, a non-nil Optimization may accompany an error when
// only some subsets could be evaluated.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	provider ports.CostMatrixProvider,
) (*Optimization, error) {
	u, err := BuildUniverse(req.Trip)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	matrix := req.Matrix
	if matrix == nil {
		if provider == nil {
			return nil, errors.New("plan trip: no cost matrix and no matrix provider")
		}
		matrix, err = provider.GetMatrix(ctx, u.Locations())
		if err != nil {
			return nil, fmt.Errorf("plan trip: get cost matrix for %d locations: %w", len(u.Stops), err)
		}
	}

	opt, err := OptimizeUniverse(ctx, u, matrix, req.Options)
	if err != nil {
		return opt, fmt.Errorf("plan trip: %w", err)
	}
	return opt, nil
}
