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
	Register(&CheckCmd{})
}

// CheckCmd implements the check command. Without --list the first list
// holding the task is used.
type CheckCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *CheckCmd) SetListName(name string) {
	c.listName = name
}

func (c *CheckCmd) Name() string      { return "check" }
func (c *CheckCmd) Aliases() []string { return []string{"done"} }
func (c *CheckCmd) Synopsis() string  { return "Toggle a task between done and not done" }
func (c *CheckCmd) Usage() string     { return "todo check [--list <list-name>] [task...]" }
func (c *CheckCmd) NeedsStore() bool  { return true }

func (c *CheckCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *CheckCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	var (
		changes []service.Change
		err     error
	)
	if task := joinArgs(args); task == "" {
		changes, err = svc.CheckSelected(ctx)
	} else {
		changes, err = svc.CheckTask(ctx, task, c.listName)
	}
	if err != nil {
		return report(cfg, errOut, err)
	}

	printToggled(cfg, out, changes)
	return exitcode.Success
}
