package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/store"
)

func init() {
	Register(&ChangeCmd{})
}

// ChangeCmd implements the change command, which sets the default list.
type ChangeCmd struct{}

func (c *ChangeCmd) Name() string      { return "change" }
func (c *ChangeCmd) Aliases() []string { return nil }
func (c *ChangeCmd) Synopsis() string  { return "Set the default list" }
func (c *ChangeCmd) Usage() string     { return "todo change <list-name>" }
func (c *ChangeCmd) NeedsStore() bool  { return true }

func (c *ChangeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ChangeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := joinArgs(args)
	if name == "" {
		return fail(cfg, errOut, "list name required")
	}

	lists, err := svc.ListLists(ctx)
	if err != nil {
		return report(cfg, errOut, err)
	}
	if !slices.Contains(lists, name) {
		return report(cfg, errOut, fmt.Errorf("%w: %s", store.ErrListNotFound, name))
	}

	cfg.SetDefaultList(name)
	if err := cfg.SaveSettings(); err != nil {
		return report(cfg, errOut, fmt.Errorf("saving %s: %w", config.SettingsFile, err))
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
