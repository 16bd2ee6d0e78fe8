package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&AddListCmd{})
}

// AddListCmd implements the addlist command.
type AddListCmd struct{}

func (c *AddListCmd) Name() string      { return "addlist" }
func (c *AddListCmd) Aliases() []string { return []string{"createlist"} }
func (c *AddListCmd) Synopsis() string  { return "Create a list" }
func (c *AddListCmd) Usage() string     { return "todo addlist <list-name>" }
func (c *AddListCmd) NeedsStore() bool  { return true }

func (c *AddListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := joinArgs(args)
	if name == "" {
		return fail(cfg, errOut, "list name required")
	}

	if err := svc.CreateList(ctx, name); err != nil {
		return report(cfg, errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
