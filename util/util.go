package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// SortedKeys returns a map's keys in ascending order, for stable
// iteration over conversion results.
func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func Min[A constraints.Ordered](a, b A) A {
	if a > b {
		return b
	}
	return a
}

func Max[A constraints.Ordered](a, b A) A {
	if a < b {
		return b
	}
	return a
}

// Sum totals a slice of integers into a wide accumulator.
func Sum[A constraints.Integer](nums []A) int64 {
	var total int64
	for _, v := range nums {
		total += int64(v)
	}
	return total
}
