package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help [command]" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(out, helpText)
		return exitcode.Success
	}

	cmd, ok := DefaultRegistry.Find(args[0])
	if !ok {
		return fail(cfg, errOut, "unknown command: %s (commands: %s)", args[0], strings.Join(DefaultRegistry.Names(), ", "))
	}
	fmt.Fprintf(out, "%s\n\nUsage:\n  %s\n", cmd.Synopsis(), cmd.Usage())
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(out, "\nAliases: %s\n", strings.Join(aliases, ", "))
	}
	return exitcode.Success
}

const helpText = `Usage:
  todo                                         List tasks in every list
  todo tasks [common flags] [--list <list-name>] [--format text|json|yaml]
  todo add [common flags] [--list <list-name>] <task...>
  todo rm [common flags] [--list <list-name>] [task...]
  todo check [common flags] [--list <list-name>] [task...]
  todo lists [common flags] [--format text|json|yaml]
  todo addlist [common flags] <list-name>
  todo rmlist [common flags] <list-name>
  todo change [common flags] <list-name>
  todo login [common flags] [--use-google]
  todo logout [common flags]
  todo help [command]
  todo version

Aliases:
  ls = tasks, remove = rm, done = check, createlist = addlist, removelist = rmlist

Without --list, add and rm use the default list; check toggles the first
list holding the task. rm and check without a task open a picker.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
