// Package catalog holds the static topic registry: topic windows, polling
// intervals, allocation weights, asset/timeframe mapping, per-asset cache
// TTLs and timeframe sampling ranges. Tables are built once and never mutated.
package catalog

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"worker-fleet/internal/domain"
)

// Topic is an immutable registered forecasting task.
type Topic struct {
	ID            int    `json:"id"`
	Window        int    `json:"window"`
	MinInterval   int    `json:"min_interval_secs"`
	MaxInterval   int    `json:"max_interval_secs"`
	WeightPercent int    `json:"weight_percent"`
	Symbol        string `json:"symbol"`
	Timeframe     string `json:"timeframe"`
}

// TimeframeRange is the sampling distribution for a forecast horizon.
// For long-horizon timeframes MinChange is the dead zone half-width.
type TimeframeRange struct {
	Min         float64
	Max         float64
	MinChange   float64
	LongHorizon bool
}

// Catalog is a read-only lookup over topics, groups and per-asset settings.
type Catalog struct {
	topics     map[int]Topic
	groups     [][]int
	priority   []int
	ttls       map[string]time.Duration
	timeframes map[string]TimeframeRange
}

// Config is the raw table set used to build a Catalog.
type Config struct {
	Topics     []Topic
	Groups     [][]int
	Priority   []int
	TTLs       map[string]time.Duration
	Timeframes map[string]TimeframeRange
}

// New validates cfg and returns an immutable Catalog.
func New(cfg Config) (*Catalog, error) {
	c := &Catalog{
		topics:     make(map[int]Topic, len(cfg.Topics)),
		ttls:       make(map[string]time.Duration, len(cfg.TTLs)),
		timeframes: make(map[string]TimeframeRange, len(cfg.Timeframes)),
	}

	for _, t := range cfg.Topics {
		if _, dup := c.topics[t.ID]; dup {
			return nil, domain.ConfigErrorf("duplicate topic %d", t.ID)
		}
		if t.Window <= 0 {
			return nil, domain.ConfigErrorf("topic %d: window must be positive", t.ID)
		}
		if t.MinInterval <= 0 || t.MaxInterval < t.MinInterval {
			return nil, domain.ConfigErrorf("topic %d: invalid interval [%d, %d]", t.ID, t.MinInterval, t.MaxInterval)
		}
		if t.WeightPercent < 0 {
			return nil, domain.ConfigErrorf("topic %d: negative weight", t.ID)
		}
		c.topics[t.ID] = t
	}

	for sym, ttl := range cfg.TTLs {
		if ttl <= 0 {
			return nil, domain.ConfigErrorf("symbol %s: ttl must be positive", sym)
		}
		c.ttls[sym] = ttl
	}
	for tf, r := range cfg.Timeframes {
		if r.Min > r.Max {
			return nil, domain.ConfigErrorf("timeframe %s: min > max", tf)
		}
		if r.LongHorizon && (r.MinChange < 0 || r.MinChange > r.Max || -r.MinChange < r.Min) {
			return nil, domain.ConfigErrorf("timeframe %s: dead zone outside range", tf)
		}
		c.timeframes[tf] = r
	}

	for _, t := range c.topics {
		if _, ok := c.ttls[t.Symbol]; !ok {
			return nil, domain.ConfigErrorf("topic %d: no ttl for symbol %s", t.ID, t.Symbol)
		}
		if _, ok := c.timeframes[t.Timeframe]; !ok {
			return nil, domain.ConfigErrorf("topic %d: unknown timeframe %s", t.ID, t.Timeframe)
		}
	}

	seen := make(map[int]bool, len(c.topics))
	for i, g := range cfg.Groups {
		if len(g) == 0 {
			return nil, domain.ConfigErrorf("group %d is empty", i)
		}
		for _, id := range g {
			if _, ok := c.topics[id]; !ok {
				return nil, domain.ConfigErrorf("group %d: unknown topic %d", i, id)
			}
			if seen[id] {
				return nil, domain.ConfigErrorf("topic %d appears in more than one group", id)
			}
			seen[id] = true
		}
		c.groups = append(c.groups, slices.Clone(g))
	}
	if len(seen) != len(c.topics) {
		return nil, domain.ConfigErrorf("groups cover %d of %d topics", len(seen), len(c.topics))
	}

	for _, id := range cfg.Priority {
		if _, ok := c.topics[id]; !ok {
			return nil, domain.ConfigErrorf("priority topic %d is not registered", id)
		}
	}
	c.priority = slices.Clone(cfg.Priority)

	return c, nil
}

// Topic resolves a topic id.
func (c *Catalog) Topic(id int) (Topic, error) {
	t, ok := c.topics[id]
	if !ok {
		return Topic{}, domain.ConfigErrorf("unsupported topic id %d", id)
	}
	return t, nil
}

// Topics returns all topics ordered by id.
func (c *Catalog) Topics() []Topic {
	out := make([]Topic, 0, len(c.topics))
	for _, t := range c.topics {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Groups returns a copy of the group partition.
func (c *Catalog) Groups() [][]int {
	out := make([][]int, len(c.groups))
	for i, g := range c.groups {
		out[i] = slices.Clone(g)
	}
	return out
}

// Priority returns the topics that absorb the allocation remainder.
func (c *Catalog) Priority() []int {
	return slices.Clone(c.priority)
}

// TotalWeight is the sum of all topic weights in percent.
func (c *Catalog) TotalWeight() int {
	sum := 0
	for _, t := range c.topics {
		sum += t.WeightPercent
	}
	return sum
}

// TTL returns the cache lifetime configured for symbol.
func (c *Catalog) TTL(symbol string) (time.Duration, error) {
	ttl, ok := c.ttls[symbol]
	if !ok {
		return 0, domain.ConfigErrorf("unsupported symbol %s", symbol)
	}
	return ttl, nil
}

// Symbols returns every asset with a configured TTL, sorted.
func (c *Catalog) Symbols() []string {
	out := make([]string, 0, len(c.ttls))
	for s := range c.ttls {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Timeframe returns the sampling range for a timeframe label.
func (c *Catalog) Timeframe(label string) (TimeframeRange, error) {
	r, ok := c.timeframes[label]
	if !ok {
		return TimeframeRange{}, domain.ConfigErrorf("unsupported timeframe %q", label)
	}
	return r, nil
}

func (t Topic) String() string {
	return fmt.Sprintf("topic %d (%s %s, window %d)", t.ID, t.Symbol, t.Timeframe, t.Window)
}
