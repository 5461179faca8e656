// Package config loads runtime configuration for the medcli terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Environment variables (MEDML_*), including those loaded from a .env
//     file by the binary.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the MedML backend
//	-t int      request timeout (seconds)
//	-s string   path of the local session store
//	-i int      online status check interval (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # File schema
//
// Intervals use timex.Duration, so values can be either strings like "10s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "request_timeout": "60s",
//	  "store_path": "medcli.db",
//	  "online_check_interval": "10s",
//	  "log_level": "warn",
//	  "log_format": "text",
//	  "color": "auto",
//	  "dashboard_days": 14
//	}
package config
