package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *RmCmd) SetListName(name string) {
	c.listName = name
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"remove"} }
func (c *RmCmd) Synopsis() string  { return "Remove a task" }
func (c *RmCmd) Usage() string     { return "todo rm [--list <list-name>] [task...]" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	var (
		changes []service.Change
		err     error
	)
	if task := joinArgs(args); task == "" {
		// No task given: pick interactively
		changes, err = svc.RemoveSelected(ctx)
	} else {
		changes, err = svc.RemoveTask(ctx, task, listOrDefault(cfg, c.listName))
	}
	if err != nil {
		return report(cfg, errOut, err)
	}

	printRemoved(cfg, out, changes)
	return exitcode.Success
}
