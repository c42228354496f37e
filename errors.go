package mathnorm

import "errors"

// Sentinel errors reported in Result.Err. Normalize itself never fails.
var (
	ErrStructured = errors.New("structured normalization failed")
	ErrFallback   = errors.New("fallback normalization failed")
	ErrPanic      = errors.New("normalization panicked")
)
