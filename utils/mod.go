package utils

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Normalize scores value relative to otherValue between -1 and 1.
func Normalize[T Number](value, otherValue T) float64 {
	total := float64(value) + float64(otherValue)
	if total == 0 {
		return 0
	}
	return (float64(value) - float64(otherValue)) / total
}

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Abs[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
