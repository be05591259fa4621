// Command queuectl is the operator-facing control surface: enqueue,
// worker start/stop, status, list, dlq list/retry, and config get/set,
// all backed by the same persistent store used by the worker processes
// it spawns.
//
// queuectl re-executes its own binary to start workers (see package
// manager): "queuectl __worker-run --id <id> --db <path>" is the hidden
// entry point a spawned worker process runs; operators never invoke it
// directly.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"oss.nandlabs.io/golly/cli"
)

// version is reported by "queuectl --version" and each command's
// "--version" flag.
const version = "0.1.0"

func main() {
	app := cli.NewCLI()
	app.AddVersion(version)

	app.AddCommand(newEnqueueCommand())
	app.AddCommand(newWorkerCommand())
	app.AddCommand(newStatusCommand())
	app.AddCommand(newListCommand())
	app.AddCommand(newDLQCommand())
	app.AddCommand(newConfigCommand())
	app.AddCommand(newWorkerRunCommand())

	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// requestLogger returns the process-wide logger for a single CLI
// invocation, tagged with a correlation id so an operator can grep a
// single run's log lines out of a shared log stream.
func requestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With("request_id", uuid.NewString())
}

// dbPath resolves the store location: the QUEUECTL_DB environment
// variable if set, otherwise a fixed relative path in the current
// working directory.
func dbPath() string {
	if p := os.Getenv("QUEUECTL_DB"); p != "" {
		return p
	}
	return "queuectl.db"
}

// background is the context used for the short-lived store operations
// a control-surface command performs; there is nothing to cancel
// cooperatively here, unlike the long-running worker loop.
func background() context.Context {
	return context.Background()
}
