package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds runtime settings for the medcli REPL.
//
// Fields:
//   - APIBaseURL: scheme://host[:port] of the backend; API paths are appended.
//   - RequestTimeout: overall deadline of one backend call.
//   - StorePath: SQLite file holding the session slots.
//   - OnlineCheckInterval: how often the client checks backend reachability.
//   - DashboardDays: length of the daily series on the dashboard.
type Config struct {
	APIBaseURL          string        `env:"MEDML_API_URL"`
	RequestTimeout      time.Duration `env:"MEDML_REQUEST_TIMEOUT"`
	StorePath           string        `env:"MEDML_STORE_PATH"`
	OnlineCheckInterval time.Duration `env:"MEDML_ONLINE_CHECK_INTERVAL"`
	LogLevel            string        `env:"MEDML_LOG_LEVEL"`
	LogFormat           string        `env:"MEDML_LOG_FORMAT"`
	ColorMode           string        `env:"MEDML_COLOR"`
	DashboardDays       int           `env:"MEDML_DASHBOARD_DAYS"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.RequestTimeout = 60 * time.Second
	c.StorePath = "medcli.db"
	c.OnlineCheckInterval = 10 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.ColorMode = ColorAuto
	c.DashboardDays = 14
}

// LoadConfig constructs a Config, applies defaults, then overlays the config
// file, the environment and the command-line flags found in args (without
// the program name). Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIBaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.StorePath, validation.Required),
		validation.Field(&c.OnlineCheckInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.LogLevel, validation.By(logLevel)),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
		validation.Field(&c.ColorMode, validation.In(ColorAuto, ColorAlways, ColorNever)),
		validation.Field(&c.DashboardDays, validation.Min(1), validation.Max(60)),
	)
}

// SlogLevel returns LogLevel as a slog.Level, or slog.LevelWarn when it does
// not parse.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}

func httpURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http(s) URL")
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
}

func logLevel(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return fmt.Errorf("unknown log level %q", s)
	}
	return nil
}
