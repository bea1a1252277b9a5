package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/duemate/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-t", "-locale", "-log-level", "-metrics-addr"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string             api base url
//	-d string             sqlite file for the session
//	-t int                request timeout in seconds, 0 disables it
//	-locale string        locale for dates
//	-log-level string     debug|info|warn|error
//	-metrics-addr string  host:port for /metrics
//
// Note: args are filtered with flagx.FilterArgs first, so -c/-config and
// anything unknown do not trip the flag set.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("duemate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "api base url")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "sqlite file for the session")
	timeout := fs.Int("t", int(cfg.RequestTimeout/time.Second), "request timeout in seconds, 0 disables it")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for dates")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "host:port for /metrics, empty disables it")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
