package watch

import (
	"context"
	"errors"

	"github.com/kataras/golog"

	"github.com/cyberstack/hemu/internal/notify"
)

// ErrUnsupported means this platform has no event source.
var ErrUnsupported = errors.New("event watching is not supported on this platform")

// Source delivers host events until ctx is cancelled, then closes the
// channel.
type Source interface {
	Events(ctx context.Context) (<-chan notify.Event, error)
}

// Run feeds every event from src to d until ctx is cancelled or the
// source closes.
func Run(ctx context.Context, src Source, d *Dispatcher) error {
	events, err := src.Events(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("event source closed")
			}
			golog.Infof("event %s", event)
			d.Handle(ctx, event)
		}
	}
}
