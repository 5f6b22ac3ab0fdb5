package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kataras/golog"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel       = "info"
	DefaultListen         = "127.0.0.1:7390"
	DefaultWebhookTimeout = 10 * time.Second
	DefaultNotifyTimeout  = 10 * time.Second
	DefaultBarkServer     = "bark.day.app"
	DefaultQuietStart     = "00:00"
	DefaultQuietEnd       = "23:59"
)

// Push notification providers.
const (
	NotifyNone     = "none"
	NotifyPushover = "pushover"
	NotifyBark     = "bark"
)

var (
	// DefaultWebhookEvents is used when webhook.events is absent.
	DefaultWebhookEvents = []string{"SYSTEM_SLEEP"}
	// DefaultWatchEvents is used when watch.events is absent.
	DefaultWatchEvents = []string{"SYSTEM_LOCK", "SYSTEM_UNLOCK"}
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type Config struct {
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Agent struct {
		URL   string `yaml:"url"`
		Token string `yaml:"token"`
	} `yaml:"agent"`

	HTTP struct {
		Listen   string `yaml:"listen"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
	} `yaml:"http"`

	Webhook WebhookConfig `yaml:"webhook"`
	Notify  NotifyConfig  `yaml:"notify"`
	Quiet   QuietConfig   `yaml:"quiet"`

	Watch struct {
		Events []string `yaml:"events"`
		Record bool     `yaml:"record"`
		Script string   `yaml:"script"`
	} `yaml:"watch"`

	History struct {
		Path string `yaml:"path"`
	} `yaml:"history"`
}

// WebhookConfig controls the event webhook.
type WebhookConfig struct {
	Enabled           bool          `yaml:"enabled"`
	URL               string        `yaml:"url"`
	Events            []string      `yaml:"events"`
	Timeout           time.Duration `yaml:"timeout"`
	IncludeSystemInfo *bool         `yaml:"include_system_info"`
}

// SystemInfo reports whether device details go into webhook payloads.
// Unset means yes.
func (w WebhookConfig) SystemInfo() bool {
	return w.IncludeSystemInfo == nil || *w.IncludeSystemInfo
}

// NotifyConfig selects and configures the push notification provider.
type NotifyConfig struct {
	Type    string        `yaml:"type"`
	Timeout time.Duration `yaml:"timeout"`

	Pushover struct {
		Token  string `yaml:"token"`
		User   string `yaml:"user"`
		Device string `yaml:"device"`
	} `yaml:"pushover"`

	Bark struct {
		Server   string `yaml:"server"`
		Device   string `yaml:"device"`
		Critical bool   `yaml:"critical"`
	} `yaml:"bark"`
}

// QuietConfig is the do-not-disturb window. Start and End are "HH:MM" in
// local time and Days are lower-case weekday names.
type QuietConfig struct {
	Enabled bool     `yaml:"enabled"`
	Start   string   `yaml:"start"`
	End     string   `yaml:"end"`
	Days    []string `yaml:"days"`
	Notify  *bool    `yaml:"notify"`
	Script  *bool    `yaml:"script"`
}

// MutesNotify reports whether push notifications are held back inside the
// window. Unset means yes.
func (q QuietConfig) MutesNotify() bool {
	return q.Notify == nil || *q.Notify
}

// MutesScript reports whether the event script is held back inside the
// window. Unset means yes.
func (q QuietConfig) MutesScript() bool {
	return q.Script == nil || *q.Script
}

// Weekdays returns the configured days. Load has already rejected unknown
// names, so they are skipped here.
func (q QuietConfig) Weekdays() map[time.Weekday]bool {
	days := make(map[time.Weekday]bool, len(q.Days))
	for _, d := range q.Days {
		if wd, ok := weekdays[strings.ToLower(strings.TrimSpace(d))]; ok {
			days[wd] = true
		}
	}
	return days
}

// Flags holds command-line overrides. Empty fields are ignored.
type Flags struct {
	ConfigPath string
	LogLevel   string
	AgentURL   string
	AgentToken string
	Listen     string
}

// Load resolves configuration from flags > env > config file.
func Load(flags Flags) (*Config, error) {
	cfg := &Config{}

	// 1. Load config file as base
	cfgPath := flags.ConfigPath
	if cfgPath == "" {
		cfgPath = configFilePath()
	}
	if cfgPath != "" {
		data, err := os.ReadFile(cfgPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", cfgPath, err)
			}
		case flags.ConfigPath != "":
			// An explicitly requested file must exist.
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 2. Environment variables override config file
	envOverride(&cfg.Log.Level, "HEMU_LOG_LEVEL")
	envOverride(&cfg.Agent.URL, "HEMU_AGENT_URL")
	envOverride(&cfg.Agent.Token, "HEMU_AGENT_TOKEN")
	envOverride(&cfg.HTTP.Listen, "HEMU_HTTP_LISTEN")
	envOverride(&cfg.HTTP.User, "HEMU_HTTP_USER")
	envOverride(&cfg.HTTP.Password, "HEMU_HTTP_PASSWORD")
	envOverride(&cfg.Webhook.URL, "HEMU_WEBHOOK_URL")
	envOverride(&cfg.Notify.Type, "HEMU_NOTIFY_TYPE")
	envOverride(&cfg.Notify.Pushover.Token, "HEMU_PUSHOVER_TOKEN")
	envOverride(&cfg.Notify.Pushover.User, "HEMU_PUSHOVER_USER")
	envOverride(&cfg.Notify.Bark.Device, "HEMU_BARK_DEVICE")
	envOverride(&cfg.History.Path, "HEMU_HISTORY_PATH")

	// 3. CLI flags override everything
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.AgentURL != "" {
		cfg.Agent.URL = flags.AgentURL
	}
	if flags.AgentToken != "" {
		cfg.Agent.Token = flags.AgentToken
	}
	if flags.Listen != "" {
		cfg.HTTP.Listen = flags.Listen
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.HTTP.Listen == "" {
		c.HTTP.Listen = DefaultListen
	}
	if c.Webhook.Timeout <= 0 {
		c.Webhook.Timeout = DefaultWebhookTimeout
	}
	// An explicit empty list stays empty.
	if c.Webhook.Events == nil {
		c.Webhook.Events = append([]string(nil), DefaultWebhookEvents...)
	}
	if c.Watch.Events == nil {
		c.Watch.Events = append([]string(nil), DefaultWatchEvents...)
	}
	if c.Notify.Type == "" {
		c.Notify.Type = NotifyNone
	}
	c.Notify.Type = strings.ToLower(c.Notify.Type)
	if c.Notify.Timeout <= 0 {
		c.Notify.Timeout = DefaultNotifyTimeout
	}
	if c.Notify.Bark.Server == "" {
		c.Notify.Bark.Server = DefaultBarkServer
	}
	if c.Quiet.Start == "" {
		c.Quiet.Start = DefaultQuietStart
	}
	if c.Quiet.End == "" {
		c.Quiet.End = DefaultQuietEnd
	}
	if c.History.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.History.Path = filepath.Join(home, ".hemu", "history.db")
		}
	}
}

// validate checks the settings every command shares.
func (c *Config) validate() error {
	if !validLogLevel(c.Log.Level) {
		return fmt.Errorf("invalid log level %q (want debug, info, warn, error, fatal or disable)", c.Log.Level)
	}

	switch c.Notify.Type {
	case NotifyNone, NotifyPushover, NotifyBark:
	default:
		return fmt.Errorf("invalid notify type %q (want none, pushover or bark)", c.Notify.Type)
	}

	if _, err := time.Parse("15:04", c.Quiet.Start); err != nil {
		return fmt.Errorf("invalid quiet.start %q: want HH:MM", c.Quiet.Start)
	}
	if _, err := time.Parse("15:04", c.Quiet.End); err != nil {
		return fmt.Errorf("invalid quiet.end %q: want HH:MM", c.Quiet.End)
	}
	for _, d := range c.Quiet.Days {
		if _, ok := weekdays[strings.ToLower(strings.TrimSpace(d))]; !ok {
			return fmt.Errorf("invalid quiet day %q", d)
		}
	}
	return nil
}

// ValidateAgent checks the fields the agent command needs.
func (c *Config) ValidateAgent() error {
	if c.Agent.Token == "" {
		return fmt.Errorf("agent token is required (--token, HEMU_AGENT_TOKEN, or config file)")
	}
	if c.Agent.URL == "" {
		return fmt.Errorf("agent URL is required (--url, HEMU_AGENT_URL, or config file)")
	}
	if !strings.HasPrefix(c.Agent.URL, "ws://") && !strings.HasPrefix(c.Agent.URL, "wss://") {
		return fmt.Errorf("agent URL must use ws:// or wss://: %s", c.Agent.URL)
	}
	return nil
}

// ValidateServer checks the fields the serve command needs.
func (c *Config) ValidateServer() error {
	if c.HTTP.Listen == "" {
		return fmt.Errorf("listen address is required (--listen, HEMU_HTTP_LISTEN, or config file)")
	}
	if (c.HTTP.User == "") != (c.HTTP.Password == "") {
		return fmt.Errorf("http user and password must be set together")
	}
	return nil
}

// validLogLevel accepts the names golog knows. golog turns any other name
// into the disabled level.
func validLogLevel(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, meta := range golog.Levels {
		if strings.ToLower(meta.Name) == name {
			return true
		}
		for _, alt := range meta.AlternativeNames {
			if strings.ToLower(alt) == name {
				return true
			}
		}
	}
	return false
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func configFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".hemu", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
