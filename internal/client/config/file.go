package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/medml/medcli/internal/flagx"
	"github.com/medml/medcli/internal/timex"
)

// fileConfig is a DTO used exclusively for file unmarshalling. Zero values
// mean "not set" and leave the current Config value alone.
type fileConfig struct {
	APIBaseURL          string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	StorePath           string         `json:"store_path" yaml:"store_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	LogFormat           string         `json:"log_format" yaml:"log_format"`
	ColorMode           string         `json:"color" yaml:"color"`
	DashboardDays       int            `json:"dashboard_days" yaml:"dashboard_days"`
}

// parseFile overlays cfg with values from the file named by -c/-config.
// Without the flag it does nothing.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setDuration(&cfg.RequestTimeout, fc.RequestTimeout)
	setString(&cfg.StorePath, fc.StorePath)
	setDuration(&cfg.OnlineCheckInterval, fc.OnlineCheckInterval)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.ColorMode, fc.ColorMode)
	if fc.DashboardDays != 0 {
		cfg.DashboardDays = fc.DashboardDays
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
