package scenetree

import "slices"

// removeItem removes the first occurrence of v from s, keeping the order of
// the remaining elements. The vacated tail slot is zeroed so the removed
// value can be collected.
func removeItem[T comparable](s []T, v T) ([]T, bool) {
	i := slices.Index(s, v)
	if i < 0 {
		return s, false
	}
	return slices.Delete(s, i, i+1), true
}
