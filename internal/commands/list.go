package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskboard/internal/app"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/filter"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskboard` (no args) and `taskboard list [filters] [search...]`.
type ListCmd struct {
	search   string
	status   string
	priority string
	due      string
	from     string
	to       string
	overdue  bool
	upcoming optional
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskboard list [--status <s>] [--priority <p>] [--due <date> | --from <date> --to <date> | --overdue | --upcoming <days>] [search...]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.from, "from", "", "")
	fs.StringVar(&c.to, "to", "", "")
	fs.BoolVar(&c.overdue, "overdue", false, "")
	fs.Var(&c.upcoming, "upcoming", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, b *app.Board, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		if c.search != "" {
			return userError(errOut, "cannot use both --search and a search argument")
		}
		c.search = strings.Join(args, " ")
	}

	patch, err := c.criteria()
	if err != nil {
		return reportError(errOut, err)
	}
	b.SetFilter(patch)

	if err := b.Refresh(ctx); err != nil {
		return reportError(errOut, err)
	}

	criteria := b.Tasks().State().Criteria
	filtered := criteria != filter.Criteria{}
	tasks := b.Visible()

	if filtered && !cfg.Quiet {
		output.FormatCriteria(errOut, criteria)
	}

	today := b.Today()
	for i, task := range tasks {
		// Numbers are only stable for the unfiltered listing.
		ref := strconv.Itoa(i + 1)
		if filtered {
			ref = TaskRef{ID: task.ID}.String()
		}
		output.FormatTask(out, ref, task, today)
	}

	if len(tasks) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

// criteria builds the filter patch from the parsed flags.
// The due-date flags select one mode and are mutually exclusive.
func (c *ListCmd) criteria() (filter.Patch, error) {
	var p filter.Patch

	if s := strings.TrimSpace(c.search); s != "" {
		p.Search = &s
	}
	if c.status != "" {
		st, err := parseStatusFlag(c.status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	if c.priority != "" {
		pr, err := parsePriorityFlag(c.priority)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}

	modes := 0
	due := filter.NoDue()
	if c.due != "" {
		modes++
		d, err := parseDateFlag("due", c.due)
		if err != nil {
			return p, err
		}
		due = filter.DueOn(d)
	}
	if c.from != "" || c.to != "" {
		modes++
		var from, to service.Date
		var err error
		if c.from != "" {
			if from, err = parseDateFlag("from", c.from); err != nil {
				return p, err
			}
		}
		if c.to != "" {
			if to, err = parseDateFlag("to", c.to); err != nil {
				return p, err
			}
		}
		if !from.IsZero() && !to.IsZero() && to.Before(from) {
			return p, fmt.Errorf("%w: --to %s is before --from %s", service.ErrValidation, to, from)
		}
		due = filter.DueBetween(from, to)
	}
	if c.overdue {
		modes++
		due = filter.DueOverdue()
	}
	if c.upcoming.set {
		modes++
		n, err := strconv.Atoi(strings.TrimSpace(c.upcoming.value))
		if err != nil || n < 0 {
			return p, fmt.Errorf("%w: invalid --upcoming %q (want days, zero or more)", service.ErrValidation, c.upcoming.value)
		}
		due = filter.DueWithin(n)
	}
	if modes > 1 {
		return p, fmt.Errorf("%w: --due, --from/--to, --overdue and --upcoming are mutually exclusive", service.ErrValidation)
	}
	p.Due = &due
	return p, nil
}
