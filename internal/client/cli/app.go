package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/duemate/internal/client/dashboard"
	"github.com/dmitrijs2005/duemate/internal/client/services"
	"github.com/dmitrijs2005/duemate/internal/common"
	"github.com/dmitrijs2005/duemate/internal/logging"
)

type View string

const (
	ViewLogin     View = "login"
	ViewVerify    View = "verify"
	ViewDashboard View = "dashboard"
)

func parseView(s string) (View, error) {
	switch v := View(strings.ToLower(s)); v {
	case ViewLogin, ViewVerify, ViewDashboard:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

type App struct {
	auth   services.AuthService
	dash   *dashboard.Controller
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	// InputFd is checked for a terminal before reading an OTP without echo.
	InputFd int
	// Color enables coloured status badges.
	Color bool

	view   View
	binder *dashboard.Binder
}

func NewApp(auth services.AuthService, dash *dashboard.Controller, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		auth:    auth,
		dash:    dash,
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
		InputFd: -1,
		view:    ViewLogin,
		binder:  dashboard.Bind(dashboard.View{}),
	}
}

// Run picks the starting view from the stored session and runs the REPL.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to Duemate (type 'help' for commands)")

	switch {
	case a.hasSession(ctx):
		a.openDashboard(ctx)
	case a.hasPending(ctx):
		a.view = ViewVerify
		a.println("A code was already sent. Enter it with: verify [code]")
	default:
		a.view = ViewLogin
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) currentView() View { return a.view }

// status is the prompt label; on the verify view it names the pending login.
func (a *App) status(ctx context.Context) string {
	if a.view == ViewVerify {
		if id, err := a.auth.Pending(ctx); err == nil {
			return fmt.Sprintf("%s %s", a.view, id.Identifier)
		}
	}
	return string(a.view)
}

func (a *App) hasSession(ctx context.Context) bool {
	_, err := a.auth.Whoami(ctx)
	if err != nil && !errors.Is(err, common.ErrNotAuthenticated) {
		a.log.Error(ctx, "read session", "error", err)
	}
	return err == nil
}

func (a *App) hasPending(ctx context.Context) bool {
	_, err := a.auth.Pending(ctx)
	return err == nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// Confirm implements dashboard.Confirmer. Only an explicit yes confirms.
func (a *App) Confirm(_ context.Context, prompt string) (bool, error) {
	answer, err := GetSimpleText(a.reader, prompt+" [y/N]", a.out)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Goto switches views. Entering the dashboard triggers its initial load.
func (a *App) Goto(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: goto login|verify|dashboard")
		return nil
	}
	v, err := parseView(args[0])
	if err != nil {
		a.println(err.Error())
		return err
	}
	if v == ViewDashboard {
		a.openDashboard(ctx)
		return nil
	}
	a.view = v
	return nil
}

func (a *App) openDashboard(ctx context.Context) {
	a.view = ViewDashboard
	a.dash.Open(ctx)
	a.render()
}
