// Package rank holds the small ordering and deduplication helpers shared
// by every query: deterministic multi-key sorts, top-K truncation, and
// distinct-label merging. Ties are always broken by an explicit secondary
// key, never by map iteration order.
package rank

import "sort"

// Key is one sort criterion. Less reports strict ordering between the
// elements at i and j; when neither is less the next key decides.
type Key[T any] func(a, b T) (less, greater bool)

// ByInt sorts on an int projection. desc reverses the order.
func ByInt[T any](f func(T) int, desc bool) Key[T] {
	return func(a, b T) (bool, bool) {
		x, y := f(a), f(b)
		if desc {
			return x > y, x < y
		}
		return x < y, x > y
	}
}

// ByFloat sorts on a float64 projection. desc reverses the order.
func ByFloat[T any](f func(T) float64, desc bool) Key[T] {
	return func(a, b T) (bool, bool) {
		x, y := f(a), f(b)
		if desc {
			return x > y, x < y
		}
		return x < y, x > y
	}
}

// ByString sorts on a string projection, ascending.
func ByString[T any](f func(T) string) Key[T] {
	return func(a, b T) (bool, bool) {
		x, y := f(a), f(b)
		return x < y, x > y
	}
}

// Sort stable-sorts items by the given keys in priority order.
func Sort[T any](items []T, keys ...Key[T]) {
	sort.SliceStable(items, func(i, j int) bool {
		for _, k := range keys {
			less, greater := k(items[i], items[j])
			if less {
				return true
			}
			if greater {
				return false
			}
		}
		return false
	})
}

// TopK truncates a sorted slice to at most k elements. k <= 0 leaves the
// slice untouched.
func TopK[T any](items []T, k int) []T {
	if k > 0 && len(items) > k {
		return items[:k]
	}
	return items
}

// DistinctUnion merges label collections into one sorted set of distinct
// non-empty values.
func DistinctUnion(collections ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range collections {
		for _, v := range c {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
