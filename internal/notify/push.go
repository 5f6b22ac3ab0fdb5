package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/imroc/req/v3"
	"github.com/kataras/golog"

	"github.com/cyberstack/hemu/internal/config"
)

const (
	pushoverURL = "https://api.pushover.net/1/messages.json"
	barkGroup   = "hemu"
)

type pushoverMessage struct {
	Token   string `json:"token"`
	User    string `json:"user"`
	Device  string `json:"device,omitempty"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Push delivers short messages through Pushover or Bark.
type Push struct {
	cfg    config.NotifyConfig
	client *req.Client

	pushoverURL string
}

// NewPush builds a Push for cfg. A "none" provider is valid and never sends.
func NewPush(cfg config.NotifyConfig, version string) *Push {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultNotifyTimeout
	}

	client := req.C().
		SetTimeout(timeout).
		SetUserAgent("hemu/"+version).
		SetCommonHeader("X-Source", "hemu")

	return &Push{cfg: cfg, client: client, pushoverURL: pushoverURL}
}

// Enabled reports whether a provider is selected.
func (p *Push) Enabled() bool {
	return p.cfg.Type != "" && p.cfg.Type != config.NotifyNone
}

// Send delivers title and message. The bool reports whether a request was
// made. A selected provider with missing credentials is ErrInvalidConfig.
func (p *Push) Send(ctx context.Context, title, message string) (bool, error) {
	var err error
	switch p.cfg.Type {
	case config.NotifyPushover:
		err = p.pushover(ctx, title, message)
	case config.NotifyBark:
		err = p.bark(ctx, title, message)
	default:
		return false, nil
	}
	if errors.Is(err, ErrInvalidConfig) {
		return false, err
	}
	if err != nil {
		return true, err
	}

	golog.Infof("%s notification sent: %s", p.cfg.Type, message)
	return true, nil
}

func (p *Push) pushover(ctx context.Context, title, message string) error {
	po := p.cfg.Pushover
	if po.Token == "" || po.User == "" {
		return ErrInvalidConfig
	}

	body, err := json.Marshal(pushoverMessage{
		Token:   po.Token,
		User:    po.User,
		Device:  po.Device,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("encode pushover message: %w", err)
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBodyBytes(body).
		SetHeader("Content-Type", "application/json").
		Post(p.pushoverURL)
	return checkResponse("pushover", resp, err)
}

func (p *Push) bark(ctx context.Context, title, message string) error {
	b := p.cfg.Bark
	if b.Server == "" || b.Device == "" {
		return ErrInvalidConfig
	}

	r := p.client.R().
		SetContext(ctx).
		SetQueryParam("group", barkGroup)
	if b.Critical {
		r.SetQueryParam("level", "critical")
	}

	resp, err := r.Get(barkURL(b.Server, b.Device, title, message))
	return checkResponse("bark", resp, err)
}

// barkURL builds https://server/device/title/message. A server given with
// an explicit scheme keeps it.
func barkURL(server, device, title, message string) string {
	base := strings.TrimRight(server, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return base + "/" + url.PathEscape(device) + "/" + url.PathEscape(title) + "/" + url.PathEscape(message)
}

func checkResponse(provider string, resp *req.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s request failed: %w", provider, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%s returned status %d", provider, resp.StatusCode)
	}
	return nil
}
