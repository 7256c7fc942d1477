package services

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
)

// DefaultEnumerationThreshold is the largest optional-stop count for which
// every combination is evaluated.
const DefaultEnumerationThreshold = 6

// SubsetPlan is the output of the enumeration policy.
//
// Masks hold bits over optional positions (bit i = i-th optional stop), in
// evaluation order: by size, then by ascending position. Masks[0] is always
// the empty subset.
type SubsetPlan struct {
	Masks     []uint32
	Mode      domain.EnumerationMode
	Threshold int
	Notice    *domain.PolicyDegradationNotice
}

// EnumerateSubsets decides which optional-stop subsets to evaluate.
//
// Up to threshold optional stops the full power set is returned. Above it only
// the empty subset and each single stop are returned, and the plan carries a
// PolicyDegradationNotice so callers never mistake it for an exhaustive ranking.
func EnumerateSubsets(optionalCount, threshold int) (SubsetPlan, error) {
	if optionalCount < 0 {
		return SubsetPlan{}, &domain.ValidationError{Field: "optional", Reason: "optional stop count must be non-negative"}
	}
	if threshold < 0 {
		return SubsetPlan{}, &domain.ValidationError{Field: "threshold", Reason: fmt.Sprintf("threshold must be non-negative, got %d", threshold)}
	}
	if optionalCount > MaxLocations {
		return SubsetPlan{}, &domain.ValidationError{
			Field:  "optional",
			Reason: fmt.Sprintf("%d optional stops exceed the limit of %d", optionalCount, MaxLocations),
		}
	}

	if optionalCount <= threshold {
		masks := make([]uint32, 0, 1<<optionalCount)
		for m := uint32(0); m < 1<<optionalCount; m++ {
			masks = append(masks, m)
		}
		// Size first, then lowest positions first (bit-reversed compare).
		slices.SortStableFunc(masks, func(a, b uint32) int {
			if ca, cb := bits.OnesCount32(a), bits.OnesCount32(b); ca != cb {
				return ca - cb
			}
			ra, rb := bits.Reverse32(a), bits.Reverse32(b)
			switch {
			case ra > rb:
				return -1
			case ra < rb:
				return 1
			}
			return 0
		})
		return SubsetPlan{Masks: masks, Mode: domain.ModeExhaustive, Threshold: threshold}, nil
	}

	masks := make([]uint32, 0, optionalCount+1)
	masks = append(masks, 0)
	for i := 0; i < optionalCount; i++ {
		masks = append(masks, 1<<i)
	}

	return SubsetPlan{
		Masks:     masks,
		Mode:      domain.ModeSingleStop,
		Threshold: threshold,
		Notice: &domain.PolicyDegradationNotice{
			OptionalStops: optionalCount,
			Threshold:     threshold,
			Mode:          domain.ModeSingleStop,
		},
	}, nil
}

// MaxSubsetSize returns the number of optional stops in the largest planned subset.
func (p SubsetPlan) MaxSubsetSize() int {
	largest := 0
	for _, m := range p.Masks {
		largest = max(largest, bits.OnesCount32(m))
	}
	return largest
}
