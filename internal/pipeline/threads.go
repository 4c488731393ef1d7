package pipeline

import "math"

// DeriveThreadCount implements spec.md §4.6's "Thread-count derivation":
// if the user requested multi-threading without a specific count, N is
// derived from available parallelism P as max(1, floor(2*log2(P))), then
// clamped to MaxThreads. A user-supplied count (userCount > 0) takes
// precedence after clamping.
func DeriveThreadCount(userCount int, availableParallelism int) int {
	if userCount > 0 {
		return clamp(userCount)
	}
	if availableParallelism < 1 {
		availableParallelism = 1
	}
	n := int(math.Floor(2 * math.Log2(float64(availableParallelism))))
	if n < 1 {
		n = 1
	}
	return clamp(n)
}

func clamp(n int) int {
	if n > MaxThreads {
		return MaxThreads
	}
	if n < 1 {
		return 1
	}
	return n
}
