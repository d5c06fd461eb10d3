package pipeline

import (
	"math/rand"
	"time"
)

// DelayPolicy decides the pause inserted between profiles. Injectable so
// tests can substitute a zero-delay policy.
type DelayPolicy interface {
	Next() time.Duration
}

// UniformDelay draws from a bounded uniform range.
type UniformDelay struct {
	Min time.Duration
	Max time.Duration
}

// Next returns a random duration in [Min, Max).
func (u UniformDelay) Next() time.Duration {
	if u.Max <= u.Min {
		return u.Min
	}
	return u.Min + time.Duration(rand.Int63n(int64(u.Max-u.Min)))
}

// NoDelay disables pacing entirely.
type NoDelay struct{}

// Next always returns zero.
func (NoDelay) Next() time.Duration { return 0 }
