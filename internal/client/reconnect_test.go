package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextDelayDoubles(t *testing.T) {
	t.Parallel()

	r := NewReconnector()
	r.rand = func() float64 { return 0.5 } // zero jitter

	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, 32 * time.Second, 60 * time.Second, 60 * time.Second}
	for i, w := range want {
		require.Equal(t, w, r.nextDelay(), "attempt %d", i)
	}

	r.Reset()
	require.Equal(t, 1*time.Second, r.nextDelay())
}

func TestNextDelayJitterBounds(t *testing.T) {
	t.Parallel()

	r := NewReconnector()

	r.rand = func() float64 { return 0 }
	require.Equal(t, r.Min, r.nextDelay(), "negative jitter is clamped to Min")

	r.rand = func() float64 { return 1 }
	require.Equal(t, 2500*time.Millisecond, r.nextDelay())

	r.attempt = 10
	require.Equal(t, r.Max, r.nextDelay(), "positive jitter is clamped to Max")
}

func TestWaitStops(t *testing.T) {
	t.Parallel()

	r := NewReconnector()
	r.Min = time.Hour
	r.Max = time.Hour

	stop := make(chan struct{})
	close(stop)
	require.False(t, r.Wait(stop))

	r = NewReconnector()
	r.Min = time.Millisecond
	r.Max = time.Millisecond
	require.True(t, r.Wait(make(chan struct{})))
}
