// Package config loads runtime configuration for the Duemate CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: DUEMATE_* variables, after an optional .env file.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so the value can be
// either a string like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000",
//	  "db_path": "~/.duemate/session.db",
//	  "request_timeout": "30s",
//	  "locale": "en_GB.UTF-8",
//	  "log_level": "info",
//	  "metrics_addr": "127.0.0.1:9091"
//	}
//
// The final Config is checked with go-playground/validator.
package config
