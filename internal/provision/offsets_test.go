package provision

import (
	"math/rand/v2"
	"sort"
	"testing"

	"worker-fleet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func occupancy(offsets []int, window int) []int {
	counts := make([]int, window)
	for _, o := range offsets {
		counts[o]++
	}
	return counts
}

func TestScheduleOffsetsFewerWorkersThanSlots(t *testing.T) {
	offsets, err := ScheduleOffsets(seeded(1), 5, 12)
	require.NoError(t, err)
	require.Len(t, offsets, 5)

	sorted := append([]int(nil), offsets...)
	sort.Ints(sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sorted)
}

func TestScheduleOffsetsExactMultiple(t *testing.T) {
	offsets, err := ScheduleOffsets(seeded(2), 24, 12)
	require.NoError(t, err)
	require.Len(t, offsets, 24)

	for slot, n := range occupancy(offsets, 12) {
		assert.Equal(t, 2, n, "slot %d", slot)
	}
}

func TestScheduleOffsetsBalancedWithinOne(t *testing.T) {
	cases := []struct{ workers, window int }{
		{13, 12}, {25, 12}, {61, 60}, {100, 24}, {7, 3}, {1000, 60},
	}
	for _, tc := range cases {
		offsets, err := ScheduleOffsets(seeded(3), tc.workers, tc.window)
		require.NoError(t, err)
		require.Len(t, offsets, tc.workers)

		counts := occupancy(offsets, tc.window)
		lo, hi := counts[0], counts[0]
		for _, c := range counts {
			lo = min(lo, c)
			hi = max(hi, c)
		}
		assert.LessOrEqual(t, hi-lo, 1, "workers=%d window=%d counts=%v", tc.workers, tc.window, counts)
	}
}

func TestScheduleOffsetsShuffles(t *testing.T) {
	// With 24 workers the unshuffled sequence is 0,0,1,1,...; some seed
	// must produce a different order.
	ordered := make([]int, 24)
	for i := range ordered {
		ordered[i] = i / 2
	}
	differs := false
	for seed := uint64(0); seed < 5 && !differs; seed++ {
		offsets, err := ScheduleOffsets(seeded(seed), 24, 12)
		require.NoError(t, err)
		differs = !assert.ObjectsAreEqual(ordered, offsets)
	}
	assert.True(t, differs)
}

func TestScheduleOffsetsEdgeCases(t *testing.T) {
	offsets, err := ScheduleOffsets(nil, 0, 12)
	require.NoError(t, err)
	assert.Empty(t, offsets)

	_, err = ScheduleOffsets(nil, 5, 0)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = ScheduleOffsets(nil, -1, 12)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
