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
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
// `taskboard help <command>` prints that command's usage only.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskboard help [command]" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, b *app.Board, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		cmd, ok := DefaultRegistry.Find(args[0])
		if !ok {
			return userError(errOut, "unknown command: %s", args[0])
		}
		fmt.Fprintf(out, "Usage:\n  %s\n\n%s\n", cmd.Usage(), cmd.Synopsis())
		return exitcode.Success
	}
	WriteHelp(out, DefaultRegistry)
	return exitcode.Success
}

// WriteHelp prints the full usage text for every command in r.
func WriteHelp(w io.Writer, r *Registry) {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  taskboard                    List tasks\n")
	for _, cmd := range r.All() {
		fmt.Fprintf(&b, "  %-28s %s", cmd.Name(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(&b, " (alias: %s)", strings.Join(aliases, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString(commonFlagsHelp)
	fmt.Fprint(w, b.String())
}

const commonFlagsHelp = `
Task refs:
  <n>              Position in the unfiltered "taskboard list" output
  id:<id>          Task ID, as shown by filtered listings

Common flags:
  --config <dir>   Override config directory
  --api-url <url>  Override the task API base URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
