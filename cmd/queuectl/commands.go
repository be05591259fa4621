package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ad1ttyya/queuectl"
	"github.com/ad1ttyya/queuectl/job"
	"github.com/ad1ttyya/queuectl/manager"

	"oss.nandlabs.io/golly/cli"
)

// newEnqueueCommand builds the "enqueue" command. It takes its job spec
// as flags rather than positional arguments: required id and command,
// optional max-retries, with duplicate-id enqueues rejected by the
// underlying store.
func newEnqueueCommand() *cli.Command {
	cmd := cli.NewCommand("enqueue", "Create a new job", version, actionEnqueue)
	cmd.Flags = []*cli.Flag{
		flag("id", "unique job id", ""),
		flag("command", "shell command to execute", ""),
		flag("max-retries", "retry budget (defaults to the max_retries config value)", ""),
	}
	return cmd
}

func actionEnqueue(ctx *cli.Context) error {
	id, _ := ctx.GetFlag("id")
	command, _ := ctx.GetFlag("command")
	if id == "" || command == "" {
		return fmt.Errorf("%w: enqueue requires --id and --command", queuectl.ErrInvalidInput)
	}

	var maxRetries *uint32
	if raw, _ := ctx.GetFlag("max-retries"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || n == 0 {
			return fmt.Errorf("%w: --max-retries must be a positive integer, got %q", queuectl.ErrInvalidInput, raw)
		}
		v := uint32(n)
		maxRetries = &v
	}

	s, closeStore, err := openStore(background())
	if err != nil {
		return err
	}
	defer closeStore()

	j, err := s.CreateJob(background(), id, command, maxRetries)
	if err != nil {
		return err
	}
	fmt.Printf("enqueued %s (max_retries=%d)\n", j.Id, j.MaxRetries)
	return nil
}

// requireSubcommand is the Action for command groups (worker, dlq,
// config) that do nothing on their own. golly/cli invokes a matched
// command's Action even when no deeper subcommand matched, so group
// commands need a non-nil Action of their own rather than relying on
// nil to mean "no-op".
func requireSubcommand(name string) func(*cli.Context) error {
	return func(*cli.Context) error {
		return fmt.Errorf("%w: %q requires a subcommand", queuectl.ErrInvalidInput, name)
	}
}

// newWorkerCommand builds the "worker" command group: start and stop.
func newWorkerCommand() *cli.Command {
	cmd := cli.NewCommand("worker", "Manage worker processes", version, requireSubcommand("worker"))

	start := cli.NewCommand("start", "Start N worker processes", version, actionWorkerStart)
	start.Flags = []*cli.Flag{
		flag("count", "number of worker processes to start", "1"),
	}
	cmd.AddSubCommand(start)

	cmd.AddSubCommand(cli.NewCommand("stop", "Stop all tracked worker processes", version, actionWorkerStop))
	return cmd
}

func actionWorkerStart(ctx *cli.Context) error {
	raw, _ := ctx.GetFlag("count")
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 {
		return fmt.Errorf("%w: --count must be an integer >= 1, got %q", queuectl.ErrInvalidInput, raw)
	}

	m, err := newManager()
	if err != nil {
		return err
	}
	if err := m.StartWorkers(count); err != nil {
		return err
	}
	fmt.Printf("started %d worker(s)\n", count)
	return nil
}

func actionWorkerStop(_ *cli.Context) error {
	m, err := newManager()
	if err != nil {
		return err
	}
	if err := m.StopWorkers(); err != nil {
		if errors.Is(err, queuectl.ErrNoWorkers) {
			fmt.Println("no workers tracked for this database")
			return nil
		}
		return err
	}
	fmt.Println("workers stopped")
	return nil
}

// newManager builds the Worker Manager for the current store, re-
// executing this same binary (via os.Executable) to spawn workers.
func newManager() (*manager.Manager, error) {
	bin, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve own executable path: %w", err)
	}
	return manager.New(bin, dbPath(), requestLogger()), nil
}

// newStatusCommand builds the "status" command: StatsByState plus
// ActiveCount.
func newStatusCommand() *cli.Command {
	return cli.NewCommand("status", "Show job counts by state and active worker count", version, actionStatus)
}

func actionStatus(_ *cli.Context) error {
	s, closeStore, err := openStore(background())
	if err != nil {
		return err
	}
	defer closeStore()

	stats, err := s.StatsByState(background())
	if err != nil {
		return err
	}

	m, err := newManager()
	if err != nil {
		return err
	}
	active, err := m.ActiveCount()
	if err != nil {
		return err
	}

	printStats(stats, active)
	return nil
}

// newListCommand builds the "list [--state S]" command.
func newListCommand() *cli.Command {
	cmd := cli.NewCommand("list", "List jobs, optionally filtered by state", version, actionList)
	cmd.Flags = []*cli.Flag{
		flag("state", "pending|processing|completed|failed|dead", ""),
	}
	return cmd
}

func actionList(ctx *cli.Context) error {
	raw, _ := ctx.GetFlag("state")
	status, err := job.ParseStatus(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", queuectl.ErrInvalidInput, err)
	}

	s, closeStore, err := openStore(background())
	if err != nil {
		return err
	}
	defer closeStore()

	jobs, err := s.ListJobs(background(), status)
	if err != nil {
		return err
	}
	printJobTable(jobs)
	return nil
}

// newDLQCommand builds the "dlq" command group: list and retry.
func newDLQCommand() *cli.Command {
	cmd := cli.NewCommand("dlq", "Inspect and retry dead-lettered jobs", version, requireSubcommand("dlq"))
	cmd.AddSubCommand(cli.NewCommand("list", "List jobs in the dead state", version, actionDLQList))

	retry := cli.NewCommand("retry", "Re-arm a dead job back to pending", version, actionDLQRetry)
	retry.Flags = []*cli.Flag{
		flag("id", "id of the dead job to retry", ""),
	}
	cmd.AddSubCommand(retry)
	return cmd
}

func actionDLQList(_ *cli.Context) error {
	s, closeStore, err := openStore(background())
	if err != nil {
		return err
	}
	defer closeStore()

	jobs, err := s.ListJobs(background(), job.Dead)
	if err != nil {
		return err
	}
	printJobTable(jobs)
	return nil
}

func actionDLQRetry(ctx *cli.Context) error {
	id, _ := ctx.GetFlag("id")
	if id == "" {
		return fmt.Errorf("%w: dlq retry requires --id", queuectl.ErrInvalidInput)
	}

	s, closeStore, err := openStore(background())
	if err != nil {
		return err
	}
	defer closeStore()

	j, err := s.GetJob(background(), id)
	if err != nil {
		return err
	}
	if j.Status != job.Dead {
		return fmt.Errorf("%w: job %s is %s, not dead", queuectl.ErrIllegalTransition, id, j.Status)
	}
	if err := s.ResetToPending(background(), id, time.Now().UTC()); err != nil {
		return err
	}
	fmt.Printf("requeued %s\n", id)
	return nil
}

// newConfigCommand builds the "config" command group: get and set.
func newConfigCommand() *cli.Command {
	cmd := cli.NewCommand("config", "Read or write queue configuration", version, requireSubcommand("config"))

	get := cli.NewCommand("get", "Print a config value, or all config values", version, actionConfigGet)
	get.Flags = []*cli.Flag{
		flag("key", "config key (max_retries, backoff_base, or any custom key)", ""),
	}
	cmd.AddSubCommand(get)

	set := cli.NewCommand("set", "Write a config value", version, actionConfigSet)
	set.Flags = []*cli.Flag{
		flag("key", "config key; dash and underscore spellings both accepted", ""),
		flag("value", "config value", ""),
	}
	cmd.AddSubCommand(set)
	return cmd
}

// defaultConfigKeys is the set of keys seeded on first store open (see
// store/migrations/00001_init.sql); "config get" with no --key prints
// these.
var defaultConfigKeys = []string{"max_retries", "backoff_base"}

func actionConfigGet(ctx *cli.Context) error {
	raw, _ := ctx.GetFlag("key")

	s, closeStore, err := openStore(background())
	if err != nil {
		return err
	}
	defer closeStore()

	if raw == "" {
		for _, key := range defaultConfigKeys {
			value, err := s.GetConfig(background(), key, "")
			if err != nil {
				return err
			}
			fmt.Printf("%s=%s\n", key, value)
		}
		return nil
	}

	key := canonicalConfigKey(raw)
	value, err := s.GetConfig(background(), key, "")
	if err != nil {
		return err
	}
	fmt.Printf("%s=%s\n", key, value)
	return nil
}

func actionConfigSet(ctx *cli.Context) error {
	rawKey, _ := ctx.GetFlag("key")
	value, _ := ctx.GetFlag("value")
	if rawKey == "" || value == "" {
		return fmt.Errorf("%w: config set requires --key and --value", queuectl.ErrInvalidInput)
	}

	key := canonicalConfigKey(rawKey)
	if err := validateConfigValue(key, value); err != nil {
		return err
	}

	s, closeStore, err := openStore(background())
	if err != nil {
		return err
	}
	defer closeStore()

	if err := s.SetConfig(background(), key, value); err != nil {
		return err
	}
	fmt.Printf("%s=%s\n", key, value)
	return nil
}
