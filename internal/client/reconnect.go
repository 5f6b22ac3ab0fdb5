package client

import (
	"math"
	"math/rand"
	"time"
)

const (
	minBackoff = 1 * time.Second
	maxBackoff = 60 * time.Second
	jitter     = 0.25
)

// Reconnector spaces out connection attempts with exponential backoff
// and jitter. It only governs reconnecting to the controller.
type Reconnector struct {
	Min    time.Duration
	Max    time.Duration
	Jitter float64

	attempt int
	rand    func() float64
}

// NewReconnector returns a Reconnector with the default 1s..60s window.
func NewReconnector() *Reconnector {
	return &Reconnector{
		Min:    minBackoff,
		Max:    maxBackoff,
		Jitter: jitter,
		rand:   rand.Float64,
	}
}

// Wait blocks for the next backoff delay. It returns false if stopCh
// closed first.
func (r *Reconnector) Wait(stopCh <-chan struct{}) bool {
	t := time.NewTimer(r.nextDelay())
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-stopCh:
		return false
	}
}

// Reset resets the backoff counter (call after a successful connection).
func (r *Reconnector) Reset() {
	r.attempt = 0
}

func (r *Reconnector) nextDelay() time.Duration {
	// min * 2^attempt, capped at max
	base := float64(r.Min) * math.Pow(2, float64(r.attempt))
	if base > float64(r.Max) {
		base = float64(r.Max)
	}

	j := base * r.Jitter * (2*r.rand() - 1)
	d := time.Duration(base + j)
	if d < r.Min {
		d = r.Min
	}
	if d > r.Max {
		d = r.Max
	}

	r.attempt++
	return d
}
