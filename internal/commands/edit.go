package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/app"
	"taskboard/internal/config"
	"taskboard/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// Only flags that were given end up in the update.
type EditCmd struct {
	title    optional
	desc     optional
	status   optional
	priority optional
	due      optional
	noDue    bool
}

// optional is a string flag that remembers whether it was set.
type optional struct {
	value string
	set   bool
}

func (o *optional) String() string { return o.value }

func (o *optional) Set(v string) error {
	o.value, o.set = v, true
	return nil
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "taskboard edit [--title <t>] [--desc <text>] [--status <s>] [--priority <p>] [--due <date> | --no-due] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = EditCmd{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.desc, "d", "")
	fs.Var(&c.status, "status", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
	fs.Var(&c.due, "due", "")
	fs.BoolVar(&c.noDue, "no-due", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, b *app.Board, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return userError(errOut, "%v", err)
	}

	patch, err := c.patch()
	if err != nil {
		return reportError(errOut, err)
	}
	if patch.IsEmpty() {
		return userError(errOut, "nothing to change")
	}

	task, err := ResolveTaskRef(ctx, b, ref)
	if err != nil {
		return reportError(errOut, err)
	}

	b.BeginEdit(task)
	if _, err := b.SaveEdit(ctx, patch); err != nil {
		return reportError(errOut, err)
	}
	return reportOK(out, cfg.Quiet)
}

func (c *EditCmd) patch() (service.Patch, error) {
	var p service.Patch
	if c.title.set {
		p.Title = &c.title.value
	}
	if c.desc.set {
		p.Description = &c.desc.value
	}
	if c.status.set {
		st, err := parseStatusFlag(c.status.value)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	if c.priority.set {
		pr, err := parsePriorityFlag(c.priority.value)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}
	switch {
	case c.due.set && c.noDue:
		return p, fmt.Errorf("%w: cannot use both --due and --no-due", service.ErrValidation)
	case c.due.set:
		d, err := parseDateFlag("due", c.due.value)
		if err != nil {
			return p, err
		}
		p.DueDate = &d
	case c.noDue:
		p.DueDate = &service.Date{}
	}
	return p, nil
}
