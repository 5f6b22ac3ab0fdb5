package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/imroc/req/v3"
	jsoniter "github.com/json-iterator/go"
	"github.com/kataras/golog"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/device"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrInvalidConfig means the webhook URL or the push provider settings
// are missing or malformed.
var ErrInvalidConfig = errors.New("notification target is missing or invalid")

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Event     string       `json:"event"`
	Timestamp string       `json:"timestamp"`
	Device    *device.Info `json:"device,omitempty"`
}

// Webhook posts event notifications to a configured URL.
type Webhook struct {
	cfg     config.WebhookConfig
	events  map[Event]bool
	client  *req.Client
	version string

	// DeviceInfo is swappable for tests.
	DeviceInfo func() device.Info
	now        func() time.Time
}

// New validates cfg and builds a Webhook. Unknown event names are errors.
func New(cfg config.WebhookConfig, version string) (*Webhook, error) {
	events, err := ParseEvents(cfg.Events)
	if err != nil {
		return nil, fmt.Errorf("webhook events: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultWebhookTimeout
	}

	client := req.C().
		SetTimeout(timeout).
		SetUserAgent("hemu/"+version).
		SetCommonHeader("X-Hemu-Version", version)

	return &Webhook{
		cfg:        cfg,
		events:     events,
		client:     client,
		version:    version,
		DeviceInfo: device.Current,
		now:        time.Now,
	}, nil
}

// Send posts event if the webhook is enabled, has a URL and is subscribed
// to event. The bool reports whether a request was made.
func (w *Webhook) Send(ctx context.Context, event Event) (bool, error) {
	if !w.cfg.Enabled {
		golog.Debugf("webhook disabled, skipping %s", event)
		return false, nil
	}
	if !validURL(w.cfg.URL) {
		golog.Debugf("webhook URL invalid or empty, skipping %s", event)
		return false, nil
	}
	if !w.events[event] {
		golog.Debugf("event %s not enabled for webhook", event)
		return false, nil
	}

	return true, w.post(ctx, event)
}

// SendTest posts a sample SYSTEM_LOCK event regardless of the enabled flag
// and event filter.
func (w *Webhook) SendTest(ctx context.Context) error {
	if !validURL(w.cfg.URL) {
		return ErrInvalidConfig
	}
	return w.post(ctx, SystemLock)
}

func (w *Webhook) post(ctx context.Context, event Event) error {
	payload := Payload{
		Event:     event.String(),
		Timestamp: w.now().UTC().Format(time.RFC3339),
	}
	if w.cfg.SystemInfo() {
		info := w.DeviceInfo()
		payload.Device = &info
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	// The header goes on after the body so req does not add a charset.
	resp, err := w.client.R().
		SetContext(ctx).
		SetBodyBytes(body).
		SetHeader("Content-Type", "application/json").
		Post(w.cfg.URL)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	golog.Infof("webhook sent %s to %s, status: %d", event, w.cfg.URL, resp.StatusCode)
	return nil
}

func validURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
