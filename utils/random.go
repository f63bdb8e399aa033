package utils

import "math/rand"

// Shuffled returns a shuffled copy of items. The input is left untouched.
func Shuffled[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// PickIndex returns a uniformly random index in [0, n). n must be positive.
func PickIndex(n int) int {
	return rand.Intn(n)
}

// Pick returns a random element of items. items must not be empty.
func Pick[T any](items []T) T {
	return items[PickIndex(len(items))]
}
