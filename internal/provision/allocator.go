package provision

import (
	"fmt"

	"worker-fleet/internal/catalog"
	"worker-fleet/internal/domain"
)

// Allocate splits total workers across topics by catalog weight. Each
// weighted topic gets floor(total*weight/100); the rounding remainder is
// handed out one worker at a time, round robin, over the catalog's priority
// topics.
func Allocate(total int, cat *catalog.Catalog) (map[int]int, error) {
	if total < 0 {
		return nil, domain.ConfigErrorf("total worker count must be >= 0, got %d", total)
	}
	priority := cat.Priority()
	if len(priority) == 0 {
		return nil, fmt.Errorf("%w: empty priority subset", domain.ErrAllocationInvariant)
	}
	if w := cat.TotalWeight(); w > 100 {
		return nil, fmt.Errorf("%w: weights sum to %d%%", domain.ErrAllocationInvariant, w)
	}

	allocation := make(map[int]int)
	assigned := 0
	for _, t := range cat.Topics() {
		if t.WeightPercent <= 0 {
			continue
		}
		n := total * t.WeightPercent / 100
		allocation[t.ID] = n
		assigned += n
	}

	leftover := total - assigned
	for leftover > 0 {
		before := leftover
		for _, id := range priority {
			if leftover == 0 {
				break
			}
			allocation[id]++
			leftover--
		}
		if leftover >= before {
			return nil, fmt.Errorf("%w: remainder %d did not shrink", domain.ErrAllocationInvariant, leftover)
		}
	}

	return allocation, nil
}
