// Package cli provides the interactive Duemate command-line client.
//
// The client has three views, mirroring the pages of the Duemate web app:
// login, verify and dashboard. Each view accepts its own
// commands; help lists them. A successful login switches to verify, and a
// successful verification switches to the dashboard.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends. See runREPL for the dispatch rules.
package cli
