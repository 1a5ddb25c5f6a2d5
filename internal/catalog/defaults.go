package catalog

import "time"

// Timeframe labels.
const (
	Timeframe10m = "10m"
	Timeframe20m = "20m"
	Timeframe1d  = "1d"
)

var defaultConfig = Config{
	Topics: []Topic{
		{ID: 1, Window: 12, MinInterval: 15, MaxInterval: 25, WeightPercent: 12, Symbol: "ETH", Timeframe: Timeframe10m},
		{ID: 3, Window: 12, MinInterval: 15, MaxInterval: 25, WeightPercent: 11, Symbol: "BTC", Timeframe: Timeframe10m},
		{ID: 5, Window: 12, MinInterval: 15, MaxInterval: 25, WeightPercent: 11, Symbol: "SOL", Timeframe: Timeframe10m},
		{ID: 7, Window: 24, MinInterval: 50, MaxInterval: 70, WeightPercent: 11, Symbol: "ETH", Timeframe: Timeframe20m},
		{ID: 8, Window: 24, MinInterval: 50, MaxInterval: 70, WeightPercent: 11, Symbol: "BNB", Timeframe: Timeframe20m},
		{ID: 9, Window: 24, MinInterval: 50, MaxInterval: 70, WeightPercent: 11, Symbol: "ARB", Timeframe: Timeframe20m},
		{ID: 2, Window: 60, MinInterval: 90, MaxInterval: 120, WeightPercent: 11, Symbol: "ETH", Timeframe: Timeframe1d},
		{ID: 4, Window: 60, MinInterval: 90, MaxInterval: 120, WeightPercent: 11, Symbol: "BTC", Timeframe: Timeframe1d},
		{ID: 6, Window: 60, MinInterval: 90, MaxInterval: 120, WeightPercent: 11, Symbol: "SOL", Timeframe: Timeframe1d},
	},
	Groups: [][]int{
		{1, 3, 5}, // 12-slot window
		{7, 8, 9}, // 24-slot window
		{2, 4, 6}, // 60-slot window
	},
	Priority: []int{1, 3, 5},
	TTLs: map[string]time.Duration{
		"ETH": 54 * time.Second,
		"BTC": 60 * time.Second,
		"SOL": 66 * time.Second,
		"BNB": 70 * time.Second,
		"ARB": 75 * time.Second,
	},
	Timeframes: map[string]TimeframeRange{
		Timeframe10m: {Min: -0.15, Max: 0.15},
		Timeframe20m: {Min: -0.3, Max: 0.3},
		Timeframe1d:  {Min: -2, Max: 2, MinChange: 0.2, LongHorizon: true},
	},
}

var defaultCatalog = mustNew(defaultConfig)

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

func mustNew(cfg Config) *Catalog {
	c, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return c
}
