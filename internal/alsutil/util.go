// Package alsutil collects the handful of small generic helpers the codec
// reuses across the dictionary builder, serializer, and pattern engine.
// Adapted from the teacher repo's own util package.
package alsutil

import (
	"iter"
	"sort"
)

// TransformSlice applies converter to each element of in and returns a new
// slice of the results.
func TransformSlice[T any, R any](in []T, converter func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = converter(v)
	}
	return out
}

// CanonicalMapIter yields map entries in sorted key order, so that anything
// built from it — dictionary candidate lists, serialized headers — is
// reproducible regardless of Go's randomized map iteration.
func CanonicalMapIter[T any](m map[string]T) iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}
