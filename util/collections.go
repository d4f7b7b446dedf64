package util

import (
	"cmp"
	"sort"
)

// Unique returns a slice with duplicate values removed, keeping first occurrences.
func Unique[T comparable](slice []T) []T {
	return UniqueBy(slice, func(v T) T { return v })
}

// UniqueBy removes elements whose key was already seen, keeping first occurrences.
func UniqueBy[T any, K comparable](slice []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(slice))
	result := make([]T, 0, len(slice))
	for _, item := range slice {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, item)
	}
	return result
}

// SortedKeys returns the keys of a map in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
