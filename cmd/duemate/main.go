package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/duemate/internal/buildinfo"
	"github.com/dmitrijs2005/duemate/internal/client/cli"
	"github.com/dmitrijs2005/duemate/internal/client/client"
	"github.com/dmitrijs2005/duemate/internal/client/config"
	"github.com/dmitrijs2005/duemate/internal/client/dashboard"
	"github.com/dmitrijs2005/duemate/internal/client/services"
	"github.com/dmitrijs2005/duemate/internal/client/session"
	"github.com/dmitrijs2005/duemate/internal/client/storage"
	"github.com/dmitrijs2005/duemate/internal/logging"
	"github.com/dmitrijs2005/duemate/internal/metrics"
	"github.com/dmitrijs2005/duemate/internal/netx"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	// SIGINT stays with the REPL, where it cancels the running command.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Warn(ctx, "closing session db", "error", err)
		}
	}(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	apiMetrics := metrics.NewAPIMetrics("duemate", reg)

	if cfg.MetricsAddr != "" {
		ln, err := net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		go func() {
			if err := metrics.Serve(ctx, ln, reg); err != nil {
				logger.Error(ctx, "metrics server stopped", "error", err)
			}
		}()
		logger.Info(ctx, "serving metrics", "addr", ln.Addr().String())
	}

	transport := netx.NewTransport(nil, apiMetrics, logger)
	api, err := client.NewHTTPClient(cfg.APIBaseURL, transport, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	sess := session.New(db)
	auth := services.NewAuthService(api, sess, logger)
	payments := services.NewPaymentService(api, sess)
	dash := dashboard.NewController(payments, sess, dashboard.ParseLocale(cfg.Locale), logger)

	app := cli.NewApp(auth, dash, logger, os.Stdin, os.Stdout)
	app.InputFd = int(os.Stdin.Fd())
	app.Color = term.IsTerminal(int(os.Stdout.Fd())) && !color.NoColor

	app.Run(ctx)
	return nil
}
