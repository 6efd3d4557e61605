package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/app"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	desc     string
	status   string
	priority string
	due      string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskboard add [--desc <text>] [--status <s>] [--priority <p>] [--due <date>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.desc, "d", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, b *app.Board, args []string, out, errOut io.Writer) int {
	draft, err := c.draft(args)
	if err != nil {
		return reportError(errOut, err)
	}

	b.OpenCreate()
	task, err := b.Create(ctx, draft)
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", TaskRef{ID: task.ID})
	}
	return exitcode.Success
}

func (c *AddCmd) draft(args []string) (service.Draft, error) {
	d := service.Draft{
		Title:       strings.Join(args, " "),
		Description: c.desc,
	}
	if c.status != "" {
		st, err := parseStatusFlag(c.status)
		if err != nil {
			return d, err
		}
		d.Status = st
	}
	if c.priority != "" {
		p, err := parsePriorityFlag(c.priority)
		if err != nil {
			return d, err
		}
		d.Priority = p
	}
	if c.due != "" {
		due, err := parseDateFlag("due", c.due)
		if err != nil {
			return d, err
		}
		d.DueDate = &due
	}
	return d, nil
}
