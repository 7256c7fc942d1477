package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zacharydestefano89/travel-route-planner/internal/adapters/matrix"
	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
)

func errandPairs() []matrix.Pair {
	var pairs []matrix.Pair
	for _, l := range errandLegs() {
		pairs = append(pairs, matrix.Pair{From: l.from, To: l.to, Seconds: l.seconds, Meters: l.meters})
	}
	return pairs
}

type failingProvider struct{ err error }

func (p failingProvider) GetMatrix(context.Context, []domain.Location) (*domain.CostMatrix, error) {
	return nil, p.err
}

func TestPlanTripUsesProvider(t *testing.T) {
	provider := matrix.NewStaticMatrixProvider(errandPairs())

	opt, err := PlanTrip(context.Background(), PlanTripRequest{Trip: errandTrip(), Options: DefaultOptions()}, provider)
	require.NoError(t, err)
	require.Len(t, opt.Rankings, 4)
	assert.Equal(t, []string{"P"}, opt.Rankings[0].StopSet.IDs)
}

func TestPlanTripPrefersInlineMatrix(t *testing.T) {
	m, err := matrix.MatrixFromPairs(errandPairs())
	require.NoError(t, err)

	boom := errors.New("provider must not be called")
	opt, err := PlanTrip(context.Background(), PlanTripRequest{
		Trip:    errandTrip(),
		Options: DefaultOptions(),
		Matrix:  m,
	}, failingProvider{err: boom})
	require.NoError(t, err)
	assert.Len(t, opt.Rankings, 4)
}

func TestPlanTripErrors(t *testing.T) {
	boom := errors.New("matrix backend down")

	_, err := PlanTrip(context.Background(), PlanTripRequest{Trip: errandTrip(), Options: DefaultOptions()}, failingProvider{err: boom})
	require.ErrorIs(t, err, boom)

	_, err = PlanTrip(context.Background(), PlanTripRequest{Trip: errandTrip(), Options: DefaultOptions()}, nil)
	require.Error(t, err)

	bad := errandTrip()
	bad.Origin = nil
	_, err = PlanTrip(context.Background(), PlanTripRequest{Trip: bad, Options: DefaultOptions()}, nil)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestPlanTripReportsMissingLegs(t *testing.T) {
	var pairs []matrix.Pair
	for _, p := range errandPairs() {
		if p.From == "Q" && p.To == "D" {
			continue
		}
		pairs = append(pairs, p)
	}

	opt, err := PlanTrip(context.Background(), PlanTripRequest{Trip: errandTrip(), Options: DefaultOptions()}, matrix.NewStaticMatrixProvider(pairs))
	require.Error(t, err)
	require.NotNil(t, opt)
	assert.True(t, opt.Partial)

	me, ok := IsMissingEdge(err)
	require.True(t, ok)
	assert.Equal(t, "Q", me.From)
	assert.Equal(t, "D", me.To)
}
