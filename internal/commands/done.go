package commands

import (
	"context"
	"flag"
	"io"

	"taskboard/internal/app"
	"taskboard/internal/config"
	"taskboard/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&StartCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task done" }
func (c *DoneCmd) Usage() string     { return "taskboard done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, b *app.Board, args []string, out, errOut io.Writer) int {
	return runSetStatus(ctx, cfg, b, service.StatusDone, args, out, errOut)
}

// StartCmd moves a task to in progress.
type StartCmd struct{}

func (c *StartCmd) Name() string      { return "start" }
func (c *StartCmd) Aliases() []string { return nil }
func (c *StartCmd) Synopsis() string  { return "Mark a task in progress" }
func (c *StartCmd) Usage() string     { return "taskboard start <ref>" }
func (c *StartCmd) NeedsAuth() bool   { return true }

func (c *StartCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StartCmd) Run(ctx context.Context, cfg *config.Config, b *app.Board, args []string, out, errOut io.Writer) int {
	return runSetStatus(ctx, cfg, b, service.StatusInProgress, args, out, errOut)
}

// runSetStatus is the shared implementation for done and start.
func runSetStatus(ctx context.Context, cfg *config.Config, b *app.Board, status service.Status, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return userError(errOut, "%v", err)
	}

	task, err := ResolveTaskRef(ctx, b, ref)
	if err != nil {
		return reportError(errOut, err)
	}

	if _, err := b.Update(ctx, task.ID, service.Patch{Status: &status}); err != nil {
		return reportError(errOut, err)
	}
	return reportOK(out, cfg.Quiet)
}
