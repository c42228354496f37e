package mathnorm

import "runtime"

// Worker sizing constants.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps batch parallelism; normalization is CPU-bound and
	// file I/O saturates well before this.
	MaxWorkers = 32
)

// ResolvePoolSize determines the worker count for batch normalization.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return min(workers, MaxWorkers)
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0)
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
