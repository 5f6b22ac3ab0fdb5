// Package watch reacts to host power and session events: it records them,
// sends push notifications and webhooks, and runs the user's script.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/kataras/golog"

	"github.com/cyberstack/hemu/internal/history"
	"github.com/cyberstack/hemu/internal/notify"
)

const scriptTimeout = 30 * time.Second

// Pusher sends a push notification. *notify.Push satisfies it.
type Pusher interface {
	Enabled() bool
	Send(ctx context.Context, title, message string) (bool, error)
}

// Hook posts an event webhook. *notify.Webhook satisfies it.
type Hook interface {
	Send(ctx context.Context, event notify.Event) (bool, error)
}

// Recorder stores observed events. *history.Store satisfies it.
type Recorder interface {
	Add(ctx context.Context, event notify.Event, notified bool, at time.Time) (history.Record, error)
}

// Options configures a Dispatcher. Nil collaborators are skipped.
type Options struct {
	Events   []string
	Push     Pusher
	Hook     Hook
	Recorder Recorder
	Quiet    notify.Quiet
	Script   string
	Hostname string
}

// Outcome reports what Handle did for one event.
type Outcome struct {
	Active   bool
	Pushed   bool
	Hooked   bool
	Recorded bool
	Scripted bool
}

// Dispatcher runs the configured actions for each event.
type Dispatcher struct {
	events   map[notify.Event]bool
	push     Pusher
	hook     Hook
	recorder Recorder
	quiet    notify.Quiet
	script   string
	title    string

	now       func() time.Time
	runScript func(ctx context.Context, path string, event notify.Event) error
}

// New builds a Dispatcher. Unknown event names are errors.
func New(opts Options) (*Dispatcher, error) {
	events, err := notify.ParseEvents(opts.Events)
	if err != nil {
		return nil, fmt.Errorf("watch events: %w", err)
	}

	return &Dispatcher{
		events:    events,
		push:      opts.Push,
		hook:      opts.Hook,
		recorder:  opts.Recorder,
		quiet:     opts.Quiet,
		script:    opts.Script,
		title:     Title(opts.Hostname),
		now:       time.Now,
		runScript: execScript,
	}, nil
}

// Title is the push notification title for a host.
func Title(hostname string) string {
	if hostname == "" {
		return "hemu"
	}
	return "hemu on " + hostname
}

// Handle runs every action for event if it is one of the watched events.
// Failures are logged, never returned.
func (d *Dispatcher) Handle(ctx context.Context, event notify.Event) Outcome {
	if !d.events[event] {
		golog.Debugf("event %s is not watched", event)
		return Outcome{}
	}

	now := d.now()
	out := d.Notify(ctx, event)
	out.Active = true

	if d.recorder != nil {
		if _, err := d.recorder.Add(ctx, event, out.Pushed || out.Hooked, now); err != nil {
			golog.Errorf("record %s: %v", event, err)
		} else {
			out.Recorded = true
		}
	}

	if d.script != "" {
		if d.quiet.MutesScript(now) {
			golog.Debugf("quiet hours, script skipped for %s", event)
		} else if err := d.runScript(ctx, d.script, event); err != nil {
			golog.Errorf("script %s for %s: %v", d.script, event, err)
		} else {
			out.Scripted = true
		}
	}

	return out
}

// Notify sends the push notification and the webhook for event, without
// consulting the watched events. Quiet hours hold back the push only.
func (d *Dispatcher) Notify(ctx context.Context, event notify.Event) Outcome {
	var out Outcome

	if d.push != nil && d.push.Enabled() {
		if d.quiet.MutesNotify(d.now()) {
			golog.Debugf("quiet hours, notification skipped for %s", event)
		} else {
			sent, err := d.push.Send(ctx, d.title, event.String())
			if err != nil {
				golog.Errorf("notify %s: %v", event, err)
			}
			out.Pushed = sent && err == nil
		}
	}

	if d.hook != nil {
		sent, err := d.hook.Send(ctx, event)
		if err != nil {
			golog.Errorf("webhook %s: %v", event, err)
		}
		out.Hooked = sent && err == nil
	}

	return out
}

// execScript runs path with the event name as its only argument.
func execScript(ctx context.Context, path string, event notify.Event) error {
	ctx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, event.String())
	cmd.Env = append(os.Environ(),
		"HEMU_EVENT="+event.String(),
		"HEMU_EVENT_TAG="+strconv.Itoa(event.Tag()),
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, output)
	}
	golog.Debugf("script %s finished for %s", path, event)
	return nil
}
