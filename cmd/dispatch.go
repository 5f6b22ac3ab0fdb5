package cmd

import (
	"os"

	"github.com/kataras/golog"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/history"
	"github.com/cyberstack/hemu/internal/notify"
	"github.com/cyberstack/hemu/internal/watch"
)

// newDispatcher wires the configured notifiers, and the history store
// when watch.record is set. The returned func closes what was opened.
func newDispatcher(cfg *config.Config) (*watch.Dispatcher, func(), error) {
	hook, err := notify.New(cfg.Webhook, version)
	if err != nil {
		return nil, nil, err
	}
	quiet, err := notify.NewQuiet(cfg.Quiet)
	if err != nil {
		return nil, nil, err
	}
	hostname, _ := os.Hostname()

	opts := watch.Options{
		Events:   cfg.Watch.Events,
		Push:     notify.NewPush(cfg.Notify, version),
		Hook:     hook,
		Quiet:    quiet,
		Script:   cfg.Watch.Script,
		Hostname: hostname,
	}

	closer := func() {}
	if cfg.Watch.Record {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		opts.Recorder = store
		closer = func() {
			if err := store.Close(); err != nil {
				golog.Warnf("close history: %v", err)
			}
		}
	}

	d, err := watch.New(opts)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return d, closer, nil
}
