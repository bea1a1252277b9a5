package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
)

// printlnFn and printFn are test seams for REPL output. In tests, replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// notifyContext is a test seam for signal.NotifyContext.
var notifyContext = signal.NotifyContext

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	currentView() View

	Goto(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error

	Email(ctx context.Context, args []string) error
	Phone(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error

	Verify(ctx context.Context, args []string) error

	Refresh(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	FilterStatus(ctx context.Context, args []string) error
	FilterCategory(ctx context.Context, args []string) error
	SortBy(ctx context.Context, args []string) error
	SortOrder(ctx context.Context, args []string) error
	ClearFilters(ctx context.Context, args []string) error
	NextPage(ctx context.Context, args []string) error
	PrevPage(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
}

type command struct {
	view View // "" means every view
	run  func(execIface, context.Context, []string) error
}

var commands = map[string]command{
	"goto":   {"", execIface.Goto},
	"whoami": {"", execIface.Whoami},
	"logout": {"", execIface.Logout},

	"email": {ViewLogin, execIface.Email},
	"phone": {ViewLogin, execIface.Phone},
	"login": {ViewLogin, execIface.Login},

	"verify": {ViewVerify, execIface.Verify},
	"otp":    {ViewVerify, execIface.Verify},

	"list":     {ViewDashboard, execIface.Refresh},
	"l":        {ViewDashboard, execIface.Refresh},
	"refresh":  {ViewDashboard, execIface.Refresh},
	"search":   {ViewDashboard, execIface.Search},
	"status":   {ViewDashboard, execIface.FilterStatus},
	"category": {ViewDashboard, execIface.FilterCategory},
	"sort":     {ViewDashboard, execIface.SortBy},
	"order":    {ViewDashboard, execIface.SortOrder},
	"clear":    {ViewDashboard, execIface.ClearFilters},
	"next":     {ViewDashboard, execIface.NextPage},
	"prev":     {ViewDashboard, execIface.PrevPage},
	"page":     {ViewDashboard, execIface.Page},
	"select":   {ViewDashboard, execIface.Select},
	"update":   {ViewDashboard, execIface.Update},
	"delete":   {ViewDashboard, execIface.Delete},
	"add":      {ViewDashboard, execIface.Add},
}

var helpText = map[View]string{
	ViewLogin:     "Available commands: email [address], phone [number], login <email-or-phone>, goto <view>, exit",
	ViewVerify:    "Available commands: verify [code], goto login, exit",
	ViewDashboard: "Available commands: (l)ist, search [text], status <s|all>, category <c|all>, sort <field>, order asc|desc, clear, next, prev, page <n>, select <id> <status>, update <id> [status], delete <id>, add, whoami, logout, exit",
}

// runREPL starts a simple read-eval-print loop for the Duemate CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' when the command belongs to the current
// view. Unknown commands are reported back to the user. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// Each command runs with a context that SIGINT cancels, so Ctrl-C abandons
// a hung request instead of the whole program.
//
// Any errors returned by command handlers are ignored here; handlers report
// to the user themselves. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("duemate (%s)> ", statusFn(ctx)))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			printlnFn()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn(helpText[a.currentView()])
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := commands[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if cmd.view != "" && cmd.view != a.currentView() {
			printlnFn(fmt.Sprintf("%q is not available in the %s view (try: goto %s)", name, a.currentView(), cmd.view))
			continue
		}

		cmdCtx, stop := notifyContext(ctx, os.Interrupt)
		_ = cmd.run(a, cmdCtx, args)
		stop()

		if ctx.Err() != nil {
			return
		}
	}
}
