package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&TasksCmd{})
}

// TasksCmd implements the tasks command, which is also run when no command
// is given.
type TasksCmd struct {
	listName string
	format   string
}

// SetListName sets the list name (for testing).
func (c *TasksCmd) SetListName(name string) {
	c.listName = name
}

// SetFormat sets the output format (for testing).
func (c *TasksCmd) SetFormat(format string) {
	c.format = format
}

func (c *TasksCmd) Name() string      { return "tasks" }
func (c *TasksCmd) Aliases() []string { return []string{"ls"} }
func (c *TasksCmd) Synopsis() string  { return "Print tasks" }
func (c *TasksCmd) Usage() string {
	return "todo tasks [--list <list-name>] [--format text|json|yaml] [list-name]"
}
func (c *TasksCmd) NeedsStore() bool { return true }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.StringVar(&c.format, "format", output.FormatText, "")
	fs.StringVar(&c.format, "f", output.FormatText, "")
}

func (c *TasksCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	format := c.format
	if format == "" {
		format = output.FormatText
	}
	if !output.ValidFormat(format) {
		return fail(cfg, errOut, "unknown format: %s", format)
	}

	list := c.listName
	if name := joinArgs(args); name != "" {
		if list != "" && list != name {
			return fail(cfg, errOut, "list given twice: %s and %s", list, name)
		}
		list = name
	}

	lists, err := svc.ListTasks(ctx, list)
	if err != nil {
		return report(cfg, errOut, err)
	}

	if format != output.FormatText {
		if err := output.Encode(out, format, lists); err != nil {
			return report(cfg, errOut, err)
		}
		return exitcode.Success
	}

	st := styles(cfg, out)
	if list != "" {
		tasks := lists[0].Tasks
		if len(tasks) == 0 {
			if !cfg.Quiet {
				fmt.Fprintln(out, "no tasks")
			}
			return exitcode.Success
		}
		for i, t := range tasks {
			output.FormatTask(out, st, i+1, t)
		}
		return exitcode.Success
	}

	printed := 0
	for _, l := range lists {
		if len(l.Tasks) == 0 {
			continue
		}
		if printed > 0 {
			fmt.Fprintln(out)
		}
		output.FormatListHeader(out, st, l.Name, l.Name == cfg.Settings.DefaultList)
		for i, t := range l.Tasks {
			output.FormatTaskIndented(out, st, i+1, t)
		}
		printed++
	}
	if printed == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks")
	}
	return exitcode.Success
}
