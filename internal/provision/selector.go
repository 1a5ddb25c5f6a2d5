package provision

import "math/rand/v2"

// SelectTopics picks one topic uniformly at random from every group.
// Workers choose independently, so fleet-wide balance across a group only
// holds in expectation.
func SelectTopics(rng *rand.Rand, groups [][]int) []int {
	if rng == nil {
		rng = newUnseededRand()
	}
	picked := make([]int, 0, len(groups))
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		picked = append(picked, g[rng.IntN(len(g))])
	}
	return picked
}
