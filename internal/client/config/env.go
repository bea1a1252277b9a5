package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

const envPrefix = "DUEMATE_"

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// parseEnv overlays cfg with DUEMATE_* variables.
//
//	DUEMATE_API_BASE_URL     api base url
//	DUEMATE_DB_PATH          sqlite file
//	DUEMATE_REQUEST_TIMEOUT  "15s" or whole seconds
//	DUEMATE_LOCALE           locale for dates
//	DUEMATE_LOG_LEVEL        debug|info|warn|error
//	DUEMATE_METRICS_ADDR     host:port, empty disables
func parseEnv(cfg *Config, lookup LookupFunc) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"API_BASE_URL", &cfg.APIBaseURL},
		{"DB_PATH", &cfg.DBPath},
		{"LOCALE", &cfg.Locale},
		{"LOG_LEVEL", &cfg.LogLevel},
		{"METRICS_ADDR", &cfg.MetricsAddr},
	}
	for _, s := range strs {
		if v, ok := lookup(envPrefix + s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := lookup(envPrefix + "REQUEST_TIMEOUT"); ok && v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

func parseTimeout(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
