package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/duemate/internal/flagx"
	"github.com/dmitrijs2005/duemate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the running Config alone, so every field is a pointer.
// request_timeout uses timex.Duration: "30s" or integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	DBPath         *string         `json:"db_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	Locale         *string         `json:"locale"`
	LogLevel       *string         `json:"log_level"`
	MetricsAddr    *string         `json:"metrics_addr"`
}

// parseJson overlays cfg with the file named by -c or -config in args. No
// flag means no file and no change.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.APIBaseURL, jc.APIBaseURL)
	set(&cfg.DBPath, jc.DBPath)
	set(&cfg.Locale, jc.Locale)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.MetricsAddr, jc.MetricsAddr)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
