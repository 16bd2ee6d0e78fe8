package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct {
	format string
}

// SetFormat sets the output format (for testing).
func (c *ListsCmd) SetFormat(format string) {
	c.format = format
}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print all lists" }
func (c *ListsCmd) Usage() string     { return "todo lists [--format text|json|yaml]" }
func (c *ListsCmd) NeedsStore() bool  { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", output.FormatText, "")
	fs.StringVar(&c.format, "f", output.FormatText, "")
}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	format := c.format
	if format == "" {
		format = output.FormatText
	}
	if !output.ValidFormat(format) {
		return fail(cfg, errOut, "unknown format: %s", format)
	}

	lists, err := svc.ListLists(ctx)
	if err != nil {
		return report(cfg, errOut, err)
	}

	if format != output.FormatText {
		if lists == nil {
			lists = []string{}
		}
		if err := output.Encode(out, format, lists); err != nil {
			return report(cfg, errOut, err)
		}
		return exitcode.Success
	}

	st := styles(cfg, out)
	for _, name := range lists {
		output.FormatListName(out, st, name, name == cfg.Settings.DefaultList)
	}
	return exitcode.Success
}
