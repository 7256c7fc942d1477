package services

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
	"github.com/zacharydestefano89/travel-route-planner/internal/platform/obs"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxRequiredStops bounds how many stops a single Held-Karp run may
// have to order (mandatory stops plus the largest evaluated optional subset).
const DefaultMaxRequiredStops = 16

// Options tune one optimization run. Start from DefaultOptions: a zero
// Threshold is meaningful (single-stop evaluation for any optional stop).
type Options struct {
	// Threshold is the largest optional-stop count evaluated exhaustively.
	Threshold int
	// Workers evaluating subsets in parallel. 1 or less runs sequentially.
	Workers int
	// MaxRequiredStops rejects inputs whose exact search would be too large.
	MaxRequiredStops int
}

func DefaultOptions() Options {
	return Options{
		Threshold:        DefaultEnumerationThreshold,
		Workers:          1,
		MaxRequiredStops: DefaultMaxRequiredStops,
	}
}

// SubsetFailure records a subset whose evaluation was aborted.
type SubsetFailure struct {
	StopSet domain.StopSet
	Err     error
}

// Optimization is the ranked outcome of one run.
//
// Rankings are ordered by ascending duration, then distance, then subset
// size, then subset IDs, and always include the baseline. When Partial is set
// some planned subsets are missing: see Failures, or the run was canceled.
type Optimization struct {
	Baseline  domain.RankedResult
	Rankings  []domain.RankedResult
	Mode      domain.EnumerationMode
	Threshold int
	Notice    *domain.PolicyDegradationNotice
	Planned   int
	Failures  []SubsetFailure
	Partial   bool
	Summary   Summary

	MemoEntries int
}

// Optimize validates the trip, then ranks every admissible optional-stop subset.
func Optimize(ctx context.Context, in TripInput, matrix *domain.CostMatrix, opts Options) (*Optimization, error) {
	u, err := BuildUniverse(in)
	if err != nil {
		obs.RecordOptimization("invalid", 0, 0)
		return nil, fmt.Errorf("optimize: %w", err)
	}
	return OptimizeUniverse(ctx, u, matrix, opts)
}

// OptimizeUniverse ranks the subsets chosen by the enumeration policy for an
// already validated universe.
//
// The mandatory-only rows are computed once and shared by every subset.
// With Workers > 1 subsets are fanned out and each worker extends its own
// copy-free overlay of that table, so no optional-stop mask is shared across
// workers.
//
// A MissingEdgeCostError aborts only the subset that hit it: the returned
// Optimization holds every other result and the error names the first failing
// subset. Cancellation is checked between subsets; results computed before it
// are returned together with the context error.
func OptimizeUniverse(ctx context.Context, u *Universe, matrix *domain.CostMatrix, opts Options) (_ *Optimization, err error) {
	defer obs.Time(ctx, "services.OptimizeUniverse")(&err)
	start := time.Now()

	if matrix == nil {
		obs.RecordOptimization("invalid", 0, 0)
		return nil, &domain.ValidationError{Field: "matrix", Reason: "cost matrix is required"}
	}

	maxRequired := opts.MaxRequiredStops
	if maxRequired <= 0 {
		maxRequired = DefaultMaxRequiredStops
	}

	plan, err := EnumerateSubsets(u.OptionalCount, opts.Threshold)
	if err != nil {
		obs.RecordOptimization("invalid", 0, 0)
		return nil, fmt.Errorf("optimize: %w", err)
	}
	if required := u.MandatoryCount + plan.MaxSubsetSize(); required > maxRequired {
		obs.RecordOptimization("invalid", 0, 0)
		return nil, fmt.Errorf("optimize: %w", &domain.ValidationError{
			Field: "stops",
			Reason: fmt.Sprintf(
				"%d stops would have to be ordered in one route (%d mandatory + %d optional); the limit is %d",
				required, u.MandatoryCount, plan.MaxSubsetSize(), maxRequired,
			),
		})
	}

	legs := newLegTable(u, matrix)
	table := newMemoTable(nil)

	// Baseline first, single-threaded: its rows are reused by every subset.
	baseline, err := evaluateSubset(table, legs, u, 0)
	if err != nil {
		obs.RecordSubset("missing_edge")
		obs.RecordOptimization("failed", time.Since(start), table.computed)
		return nil, fmt.Errorf("optimize: baseline route: %w", err)
	}
	obs.RecordSubset("ok")

	results := make([]*domain.RouteResult, len(plan.Masks))
	errs := make([]error, len(plan.Masks))
	results[0] = baseline

	memoEntries, runErr := evaluateRemaining(ctx, table, legs, u, plan.Masks, results, errs, opts.Workers)

	opt := &Optimization{
		Mode:        plan.Mode,
		Threshold:   plan.Threshold,
		Notice:      plan.Notice,
		Planned:     len(plan.Masks),
		MemoEntries: memoEntries,
	}

	ranked := make([]domain.RankedResult, 0, len(results))
	for i, r := range results {
		if r != nil {
			ranked = append(ranked, domain.RankedResult{
				RouteResult:          *r,
				Name:                 routeName(u, r),
				ExtraDurationSeconds: r.DurationSeconds - baseline.DurationSeconds,
				ExtraDistanceMeters:  r.DistanceMeters - baseline.DistanceMeters,
			})
			continue
		}
		if errs[i] != nil {
			opt.Failures = append(opt.Failures, SubsetFailure{
				StopSet: stopSetOf(u, plan.Masks[i]),
				Err:     errs[i],
			})
		}
	}
	rankResults(ranked)

	for _, r := range ranked {
		if r.StopSet.Len() == 0 {
			opt.Baseline = r
			break
		}
	}
	opt.Rankings = ranked
	opt.Partial = len(ranked) < len(plan.Masks)
	opt.Summary = Summarize(ranked, opt.Baseline, len(plan.Masks))

	switch {
	case runErr != nil:
		obs.RecordOptimization("canceled", time.Since(start), memoEntries)
		return opt, fmt.Errorf("optimize: %w", runErr)
	case len(opt.Failures) > 0:
		obs.RecordOptimization("partial", time.Since(start), memoEntries)
		first := opt.Failures[0]
		return opt, fmt.Errorf("optimize: subset %s: %w", first.StopSet, first.Err)
	}

	obs.RecordOptimization("ok", time.Since(start), memoEntries)
	return opt, nil
}

// evaluateRemaining fills results[1:] and errs[1:]. It returns the number of
// memo entries computed overall and the context error if the run was cut short.
func evaluateRemaining(
	ctx context.Context,
	table *memoTable,
	legs *legTable,
	u *Universe,
	masks []uint32,
	results []*domain.RouteResult,
	errs []error,
	workers int,
) (int, error) {
	rest := len(masks) - 1
	if workers <= 1 || rest < 2 {
		for i := 1; i < len(masks); i++ {
			if err := ctx.Err(); err != nil {
				return table.computed, err
			}
			results[i], errs[i] = evaluateSubset(table, legs, u, masks[i])
			recordSubset(errs[i])
		}
		return table.computed, nil
	}

	workers = min(workers, rest)
	base := table.freeze()
	computed := make([]int, workers)

	var next atomic.Int64
	next.Store(1)

	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			local := newMemoTable(base)
			defer func() { computed[w] = local.computed }()

			for {
				i := int(next.Add(1) - 1)
				if i >= len(masks) {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i], errs[i] = evaluateSubset(local, legs, u, masks[i])
				recordSubset(errs[i])
			}
		})
	}
	err := g.Wait()

	total := table.computed
	for _, c := range computed {
		total += c
	}
	return total, err
}

func recordSubset(err error) {
	if err != nil {
		obs.RecordSubset("missing_edge")
		return
	}
	obs.RecordSubset("ok")
}

// evaluateSubset solves the route for mandatory stops plus the optional
// stops selected by optMask (bit i = i-th optional stop).
func evaluateSubset(table *memoTable, legs *legTable, u *Universe, optMask uint32) (*domain.RouteResult, error) {
	required := u.MandatoryMask()
	for rest := optMask; rest != 0; rest &= rest - 1 {
		required |= 1 << u.OptionalIndex(bits.TrailingZeros32(rest))
	}

	order, cost, err := heldKarp(table, legs, required)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(order))
	for i, idx := range order {
		ids[i] = u.Stops[idx].ID
	}

	return &domain.RouteResult{
		StopSet:         stopSetOf(u, optMask),
		Order:           ids,
		DurationSeconds: cost.DurationSeconds,
		DistanceMeters:  cost.DistanceMeters,
	}, nil
}

func stopSetOf(u *Universe, optMask uint32) domain.StopSet {
	ids := make([]string, 0, bits.OnesCount32(optMask))
	for rest := optMask; rest != 0; rest &= rest - 1 {
		ids = append(ids, u.Stops[u.OptionalIndex(bits.TrailingZeros32(rest))].ID)
	}
	return domain.NewStopSet(ids...)
}

// rankResults orders results and assigns 1-based ranks.
func rankResults(rs []domain.RankedResult) {
	slices.SortStableFunc(rs, func(a, b domain.RankedResult) int {
		if a.DurationSeconds != b.DurationSeconds {
			return a.DurationSeconds - b.DurationSeconds
		}
		if a.DistanceMeters != b.DistanceMeters {
			return a.DistanceMeters - b.DistanceMeters
		}
		if a.StopSet.Len() != b.StopSet.Len() {
			return a.StopSet.Len() - b.StopSet.Len()
		}
		return slices.Compare(a.StopSet.IDs, b.StopSet.IDs)
	})
	for i := range rs {
		rs[i].Rank = i + 1
	}
}

func routeName(u *Universe, r *domain.RouteResult) string {
	labels := make(map[string]string, len(u.Stops))
	for _, s := range u.Stops {
		labels[s.ID] = s.Label()
	}

	if r.StopSet.Len() == 0 {
		if u.MandatoryCount == 0 {
			return fmt.Sprintf("Direct Route (%s → %s)", u.Origin().Label(), u.Destination().Label())
		}
		return fmt.Sprintf("Baseline Route (%d mandatory stop(s))", u.MandatoryCount)
	}

	visited := make([]string, 0, r.StopSet.Len())
	for _, id := range r.Order {
		if r.StopSet.Contains(id) {
			visited = append(visited, labels[id])
		}
	}
	return fmt.Sprintf("Route with %d stop(s): %s", r.StopSet.Len(), strings.Join(visited, " → "))
}

// IsMissingEdge reports whether err carries a MissingEdgeCostError.
func IsMissingEdge(err error) (*domain.MissingEdgeCostError, bool) {
	var me *domain.MissingEdgeCostError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}
