package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cyberstack/hemu/internal/notify"
)

type chanSource struct {
	ch  chan notify.Event
	err error
}

func (s chanSource) Events(context.Context) (<-chan notify.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ch, nil
}

func TestRunDispatchesUntilCancelled(t *testing.T) {
	t.Parallel()

	hook := &fakeHook{}
	d, _ := newTestDispatcher(t, Options{
		Events: []string{"SYSTEM_SLEEP", "SYSTEM_WAKE"},
		Hook:   hook,
	})

	src := chanSource{ch: make(chan notify.Event)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, src, d) }()

	src.ch <- notify.SystemSleep
	src.ch <- notify.SystemWake
	// The unbuffered sends above return once Run has taken the event; a
	// third send waits for the second Handle to finish.
	src.ch <- notify.ScreenWake
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.Equal(t, []notify.Event{notify.SystemSleep, notify.SystemWake}, hook.events)
}

func TestRunSourceErrors(t *testing.T) {
	t.Parallel()

	d, _ := newTestDispatcher(t, Options{})

	err := Run(context.Background(), chanSource{err: ErrUnsupported}, d)
	require.ErrorIs(t, err, ErrUnsupported)

	closed := make(chan notify.Event)
	close(closed)
	err = Run(context.Background(), chanSource{ch: closed}, d)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrUnsupported))
}
