package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
)

func TestOptimizeErrandRanking(t *testing.T) {
	opt, err := Optimize(context.Background(), errandTrip(), matrixOf(t, errandLegs()), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, domain.ModeExhaustive, opt.Mode)
	assert.Nil(t, opt.Notice)
	assert.False(t, opt.Partial)
	assert.Equal(t, 4, opt.Planned)
	require.Len(t, opt.Rankings, 4)

	want := []struct {
		set        []string
		order      []string
		seconds    int
		meters     int
		extraSecs  int
		extraMeter int
		name       string
	}{
		{[]string{"P"}, []string{"P", "M"}, 19, 200, -1, 0, "Route with 1 stop(s): P"},
		{nil, []string{"M"}, 20, 200, 0, 0, "Baseline Route (1 mandatory stop(s))"},
		{[]string{"P", "Q"}, []string{"M", "P", "Q"}, 22, 230, 2, 30, "Route with 2 stop(s): P → Q"},
		{[]string{"Q"}, []string{"Q", "M"}, 23, 245, 3, 45, "Route with 1 stop(s): Q"},
	}
	for i, w := range want {
		got := opt.Rankings[i]
		assert.Equal(t, i+1, got.Rank)
		assert.True(t, got.StopSet.Equal(domain.NewStopSet(w.set...)), "rank %d set = %s", i+1, got.StopSet)
		assert.Equal(t, w.order, got.Order, "rank %d", i+1)
		assert.Equal(t, w.seconds, got.DurationSeconds, "rank %d", i+1)
		assert.Equal(t, w.meters, got.DistanceMeters, "rank %d", i+1)
		assert.Equal(t, w.extraSecs, got.ExtraDurationSeconds, "rank %d", i+1)
		assert.Equal(t, w.extraMeter, got.ExtraDistanceMeters, "rank %d", i+1)
		assert.Equal(t, w.name, got.Name, "rank %d", i+1)
	}

	assert.Equal(t, 0, opt.Baseline.StopSet.Len())
	assert.Equal(t, 2, opt.Baseline.Rank)
	assert.Equal(t, 20, opt.Baseline.DurationSeconds)
}

func TestOptimizeDirectRouteName(t *testing.T) {
	in := TripInput{
		Origin:      ptr(loc("O", 0, 0)),
		Destination: ptr(loc("D", 1, 1)),
	}
	m := matrixOf(t, []leg{{"O", "D", 12, 150}})

	opt, err := Optimize(context.Background(), in, m, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, opt.Rankings, 1)
	assert.Equal(t, "Direct Route (O → D)", opt.Rankings[0].Name)
	assert.Empty(t, opt.Rankings[0].Order)
	assert.Equal(t, 12, opt.Baseline.DurationSeconds)
}

func TestOptimizeIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	in, m := gridTrip(t, rng, 2, 5)

	first, err := Optimize(context.Background(), in, m, DefaultOptions())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Optimize(context.Background(), in, m, DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, first.Rankings, again.Rankings, "run %d", i)
	}
}

func TestOptimizeParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 5; trial++ {
		in, m := gridTrip(t, rng, 1+rng.Intn(3), 3+rng.Intn(4))

		seq, err := Optimize(context.Background(), in, m, DefaultOptions())
		require.NoError(t, err)

		opts := DefaultOptions()
		opts.Workers = 4
		par, err := Optimize(context.Background(), in, m, opts)
		require.NoError(t, err)

		require.Equal(t, seq.Rankings, par.Rankings, "trial %d", trial)
		assert.Equal(t, seq.Summary, par.Summary, "trial %d", trial)
	}
}

func TestOptimizeSupersetNeverFaster(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for trial := 0; trial < 10; trial++ {
		in, m := gridTrip(t, rng, rng.Intn(3), 1+rng.Intn(5))

		opt, err := Optimize(context.Background(), in, m, DefaultOptions())
		require.NoError(t, err)

		for _, small := range opt.Rankings {
			for _, big := range opt.Rankings {
				subset := true
				for _, id := range small.StopSet.IDs {
					if !big.StopSet.Contains(id) {
						subset = false
						break
					}
				}
				if subset {
					assert.GreaterOrEqual(t, big.DurationSeconds, small.DurationSeconds,
						"trial %d: %s faster than its subset %s", trial, big.StopSet, small.StopSet)
				}
			}
		}
	}
}

func TestOptimizeEvaluatesPowerSet(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	in, m := gridTrip(t, rng, 1, 4)

	opt, err := Optimize(context.Background(), in, m, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 16, opt.Planned)
	assert.Len(t, opt.Rankings, 16)
	assert.Equal(t, 16, opt.Summary.Combinations)
	assert.Equal(t, 16, opt.Summary.Evaluated)

	seen := map[string]bool{}
	for _, r := range opt.Rankings {
		seen[r.StopSet.String()] = true
	}
	assert.Len(t, seen, 16)
}

func TestOptimizeDegradesAboveThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	in, m := gridTrip(t, rng, 1, 8)

	opt, err := Optimize(context.Background(), in, m, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, domain.ModeSingleStop, opt.Mode)
	require.NotNil(t, opt.Notice)
	assert.Equal(t, 8, opt.Notice.OptionalStops)
	assert.Equal(t, 6, opt.Notice.Threshold)
	assert.Contains(t, opt.Notice.Message(), "single-stop marginal costs only")
	require.Len(t, opt.Rankings, 9)
	for _, r := range opt.Rankings {
		assert.LessOrEqual(t, r.StopSet.Len(), 1)
	}
}

func TestOptimizeMissingEdgeKeepsOtherSubsets(t *testing.T) {
	m := matrixOf(t, withoutLeg(errandLegs(), "M", "Q"))

	opt, err := Optimize(context.Background(), errandTrip(), m, DefaultOptions())
	require.Error(t, err)
	require.NotNil(t, opt)
	assert.Contains(t, err.Error(), "subset {Q}")

	me, ok := IsMissingEdge(err)
	require.True(t, ok)
	assert.Equal(t, "M", me.From)
	assert.Equal(t, "Q", me.To)

	assert.True(t, opt.Partial)
	require.Len(t, opt.Rankings, 2)
	assert.Equal(t, []string{"P"}, opt.Rankings[0].StopSet.IDs)
	assert.Equal(t, 0, opt.Rankings[1].StopSet.Len())

	require.Len(t, opt.Failures, 2)
	assert.Equal(t, "{Q}", opt.Failures[0].StopSet.String())
	assert.Equal(t, "{P,Q}", opt.Failures[1].StopSet.String())
}

func TestOptimizeBaselineFailure(t *testing.T) {
	m := matrixOf(t, withoutLeg(errandLegs(), "O", "M"))

	opt, err := Optimize(context.Background(), errandTrip(), m, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, opt)
	assert.Contains(t, err.Error(), "baseline route")
	_, ok := IsMissingEdge(err)
	assert.True(t, ok)
}

func TestOptimizeCanceledReturnsBaselineOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		opts := DefaultOptions()
		opts.Workers = workers

		opt, err := Optimize(ctx, errandTrip(), matrixOf(t, errandLegs()), opts)
		require.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
		require.NotNil(t, opt)
		assert.True(t, opt.Partial)
		require.Len(t, opt.Rankings, 1)
		assert.Equal(t, 0, opt.Rankings[0].StopSet.Len())
		assert.Empty(t, opt.Failures)
	}
}

func TestOptimizeRejectsLargeRequiredSet(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxRequiredStops = 2

	_, err := Optimize(context.Background(), errandTrip(), matrixOf(t, errandLegs()), opts)
	require.ErrorIs(t, err, domain.ErrValidation)

	// Single-stop mode bounds the required set by mandatory + 1.
	opts.Threshold = 0
	opt, err := Optimize(context.Background(), errandTrip(), matrixOf(t, errandLegs()), opts)
	require.NoError(t, err)
	assert.Len(t, opt.Rankings, 3)
}

func TestOptimizeRejectsBadInput(t *testing.T) {
	_, err := Optimize(context.Background(), errandTrip(), nil, DefaultOptions())
	require.ErrorIs(t, err, domain.ErrValidation)

	in := errandTrip()
	in.Destination = nil
	_, err = Optimize(context.Background(), in, matrixOf(t, errandLegs()), DefaultOptions())
	require.ErrorIs(t, err, domain.ErrValidation)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "destination", ve.Field)
}

func TestOptimizeSharesMandatoryRows(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	in, m := gridTrip(t, rng, 3, 3)

	opt, err := Optimize(context.Background(), in, m, DefaultOptions())
	require.NoError(t, err)

	// Six stops in total: one full table over every mask has 6 * 2^5 entries.
	assert.LessOrEqual(t, opt.MemoEntries, 6*(1<<5))
	assert.Positive(t, opt.MemoEntries)
}
