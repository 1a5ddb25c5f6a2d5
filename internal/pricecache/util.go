package pricecache

import "sort"

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type nopRecorder struct{}

func (nopRecorder) CacheHit(string)              {}
func (nopRecorder) CacheMiss(string)             {}
func (nopRecorder) StaleServed(string)           {}
func (nopRecorder) FetchFailed(string)           {}
func (nopRecorder) PriceFetched(string, float64) {}
