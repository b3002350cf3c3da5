package source

import (
	"math"
	"math/rand"
	"time"
)

// Backoff computes exponentially growing delays between retries.
type Backoff struct {
	base   time.Duration
	factor uint8
	jitter float64
	cap    time.Duration
}

// NewBackoff creates a Backoff with the given parameters.
func NewBackoff(base time.Duration, factor uint8, jitter float64, cap time.Duration) *Backoff {
	return &Backoff{base, factor, jitter, cap}
}

// DefaultBackoff creates a Backoff with the following defaults:
//
//	base: 100 milliseconds
//	factor: 2
//	jitter: 0
//	cap: 10 seconds
func DefaultBackoff() *Backoff {
	return NewBackoff(time.Millisecond*100, 2, 0, time.Second*10)
}

// Duration returns the backoff interval for the given attempt.
func (b *Backoff) Duration(attempt int) time.Duration {
	duration := float64(b.base) * math.Pow(float64(b.factor), float64(attempt))

	if b.jitter != 0 {
		random := rand.Float64()
		deviation := math.Floor(random * b.jitter * duration)
		if (int(math.Floor(random*10)) & 1) == 0 {
			duration = duration - deviation
		} else {
			duration = duration + deviation
		}
	}

	duration = math.Min(float64(duration), float64(b.cap))
	return time.Duration(duration)
}
