package services

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
)

func TestEnumerateSubsetsCounts(t *testing.T) {
	for o := 0; o <= 10; o++ {
		plan, err := EnumerateSubsets(o, DefaultEnumerationThreshold)
		require.NoError(t, err)

		if o <= DefaultEnumerationThreshold {
			assert.Len(t, plan.Masks, 1<<o, "o=%d", o)
			assert.Equal(t, domain.ModeExhaustive, plan.Mode)
			assert.Nil(t, plan.Notice)
			continue
		}
		assert.Len(t, plan.Masks, o+1, "o=%d", o)
		assert.Equal(t, domain.ModeSingleStop, plan.Mode)
		require.NotNil(t, plan.Notice)
		assert.Equal(t, o, plan.Notice.OptionalStops)
		assert.Contains(t, plan.Notice.Message(), "single-stop marginal costs only")
	}
}

func TestEnumerateSubsetsOrder(t *testing.T) {
	plan, err := EnumerateSubsets(3, 6)
	require.NoError(t, err)

	want := []uint32{0b000, 0b001, 0b010, 0b100, 0b011, 0b101, 0b110, 0b111}
	require.Equal(t, want, plan.Masks)
	assert.Equal(t, 3, plan.MaxSubsetSize())

	seen := map[uint32]bool{}
	for _, m := range plan.Masks {
		require.False(t, seen[m], "duplicate mask %b", m)
		seen[m] = true
	}
}

func TestEnumerateSubsetsSingleStop(t *testing.T) {
	plan, err := EnumerateSubsets(8, 6)
	require.NoError(t, err)

	require.Equal(t, uint32(0), plan.Masks[0])
	for i, m := range plan.Masks[1:] {
		assert.Equal(t, 1, bits.OnesCount32(m))
		assert.Equal(t, uint32(1)<<i, m)
	}
	assert.Equal(t, 1, plan.MaxSubsetSize())
}

func TestEnumerateSubsetsZeroThreshold(t *testing.T) {
	plan, err := EnumerateSubsets(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, plan.Masks)
	assert.Nil(t, plan.Notice)

	plan, err = EnumerateSubsets(2, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, plan.Masks)
	assert.NotNil(t, plan.Notice)
}

func TestEnumerateSubsetsRejectsNegative(t *testing.T) {
	_, err := EnumerateSubsets(3, -1)
	require.ErrorIs(t, err, domain.ErrValidation)
}
