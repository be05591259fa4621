package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ad1ttyya/queuectl"
	"github.com/ad1ttyya/queuectl/store"
	"github.com/ad1ttyya/queuectl/worker"

	"oss.nandlabs.io/golly/cli"
)

// defaultBackoffBase is used only if the backoff_base config key is
// somehow unreadable at worker start; in the normal path GetConfig
// already returns its own default ("2") when the key is unset.
const defaultBackoffBase = 2.0

// newWorkerRunCommand builds the hidden "__worker-run" entry point a
// spawned worker OS process runs. Operators never invoke this
// directly; package manager invokes it via os.Executable() re-exec
// (see newManager).
func newWorkerRunCommand() *cli.Command {
	cmd := cli.NewCommand("__worker-run", "internal: run a single worker process", version, actionWorkerRun)
	cmd.Flags = []*cli.Flag{
		flag("id", "stable worker identifier", ""),
		flag("db", "path to the store this worker leases from", ""),
	}
	return cmd
}

func actionWorkerRun(ctx *cli.Context) error {
	id, _ := ctx.GetFlag("id")
	path, _ := ctx.GetFlag("db")
	if id == "" || path == "" {
		return fmt.Errorf("%w: __worker-run requires --id and --db", queuectl.ErrInvalidInput)
	}

	log := requestLogger().With("worker_id", id)

	db, err := store.Open(context.Background(), path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	st := store.New(db)

	// backoff_base is read once at worker start, per the conservative
	// reading of runtime config propagation: a running worker does not
	// reread config mid-life.
	base := defaultBackoffBase
	if raw, err := st.GetConfig(context.Background(), "backoff_base", "2"); err == nil {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			base = parsed
		}
	}

	// Shutdown is cooperative: the signal cancels runCtx, which the
	// worker loop observes only between jobs. An in-flight command is
	// never interrupted by this signal; commandTimeout bounds the
	// worst-case wait, as required of graceful stop.
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.New(st, worker.Config{ID: id, BackoffBase: base}, log)
	log.Info("worker starting")
	err = w.Run(runCtx)
	log.Info("worker exiting")
	return err
}
