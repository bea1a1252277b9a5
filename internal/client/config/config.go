package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/duemate/internal/filex"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the Duemate CLI.
//
// Fields:
//   - APIBaseURL: scheme://host[:port] of the payments API.
//   - DBPath: SQLite file that persists the session.
//   - RequestTimeout: upper bound per HTTP request; 0 disables it.
//   - Locale: BCP 47 or POSIX locale used for date formatting.
//   - LogLevel: debug, info, warn or error.
//   - MetricsAddr: host:port for the Prometheus endpoint; empty disables it.
type Config struct {
	APIBaseURL     string        `validate:"required,url"`
	DBPath         string        `validate:"required"`
	RequestTimeout time.Duration `validate:"gte=0"`
	Locale         string
	LogLevel       string `validate:"oneof=debug info warn warning error"`
	MetricsAddr    string `validate:"omitempty,hostname_port"`
}

const (
	DefaultAPIBaseURL = "http://localhost:5000"
	DefaultDBPath     = "~/.duemate/session.db"
	DefaultLogLevel   = "info"
)

// DefaultRequestTimeout of 0 leaves requests bounded only by their context,
// which Ctrl-C cancels.
const DefaultRequestTimeout time.Duration = 0

// LoadDefaults populates c with sensible defaults. The locale comes from
// LC_ALL or LANG when lookup finds them.
func (c *Config) LoadDefaults(lookup LookupFunc) {
	c.APIBaseURL = DefaultAPIBaseURL
	c.DBPath = DefaultDBPath
	c.RequestTimeout = DefaultRequestTimeout
	c.LogLevel = DefaultLogLevel
	c.MetricsAddr = ""
	c.Locale = ""
	for _, k := range []string{"LC_ALL", "LANG"} {
		if v, ok := lookup(k); ok && v != "" {
			c.Locale = v
			break
		}
	}
}

// LoadConfig reads an optional .env file and then builds the Config from
// the process environment and os.Args.
func LoadConfig() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	return Load(os.Args[1:], os.LookupEnv)
}

// Load applies defaults, then environment, then the JSON file named by -c
// or -config, then flags. Later sources take precedence over earlier ones.
// The result is validated and DBPath has "~" expanded.
func Load(args []string, lookup LookupFunc) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults(lookup)

	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	path, err := filex.ExpandHome(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("db path: %w", err)
	}
	cfg.DBPath = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
