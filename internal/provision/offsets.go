package provision

import (
	"math/rand/v2"

	"worker-fleet/internal/domain"
)

// ScheduleOffsets returns numWorkers polling-slot offsets in [0, window).
//
// When there are no more workers than slots every worker gets a distinct
// slot. Otherwise worker i gets slot floor(i*window/numWorkers), which keeps
// slot occupancy within one of each other. Either way the sequence is
// shuffled so the slot is not correlated with worker order.
func ScheduleOffsets(rng *rand.Rand, numWorkers, window int) ([]int, error) {
	if window <= 0 {
		return nil, domain.ConfigErrorf("window must be positive, got %d", window)
	}
	if numWorkers < 0 {
		return nil, domain.ConfigErrorf("worker count must be >= 0, got %d", numWorkers)
	}
	if rng == nil {
		rng = newUnseededRand()
	}

	offsets := make([]int, numWorkers)
	if numWorkers <= window {
		for i := range offsets {
			offsets[i] = i
		}
	} else {
		for i := range offsets {
			offsets[i] = (i * window / numWorkers) % window
		}
	}

	rng.Shuffle(len(offsets), func(i, j int) {
		offsets[i], offsets[j] = offsets[j], offsets[i]
	})
	return offsets, nil
}

func newUnseededRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
