package store

import (
	"slices"

	"tableflip.dev/fastlog/pkg/entry"
)

func prepend[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}

// updateAt returns a copy of list with fn applied to the element at index.
func updateAt[T any](list []T, index int, fn func(*T)) ([]T, error) {
	if index < 0 || index >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	out := slices.Clone(list)
	if fn != nil {
		fn(&out[index])
	}
	return out, nil
}

func removeWhere[T any](list []T, match func(T) bool) ([]T, bool) {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if !match(v) {
			out = append(out, v)
		}
	}
	return out, len(out) != len(list)
}

// uniqueID returns the first id at or after want not already used in list.
func uniqueID[T any](want int64, list []T, id func(T) int64) int64 {
	used := make(map[int64]struct{}, len(list))
	for _, v := range list {
		used[id(v)] = struct{}{}
	}
	for {
		if _, taken := used[want]; !taken {
			return want
		}
		want++
	}
}

func normalizePresets(in []int) []int {
	out := slices.Clone(entry.DefaultWaterPresets)
	for _, v := range in {
		if v > 0 && v <= entry.MaxWaterPreset && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
