package commands

import (
	"context"
	"flag"
	"io"

	"taskboard/internal/app"
	"taskboard/internal/config"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskboard rm <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, b *app.Board, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return userError(errOut, "%v", err)
	}

	task, err := ResolveTaskRef(ctx, b, ref)
	if err != nil {
		return reportError(errOut, err)
	}

	if err := b.Delete(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}
	return reportOK(out, cfg.Quiet)
}
