package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/resolver"
	"todo/internal/service"
	"todo/internal/store"
)

// styles returns the configured output styles for w.
func styles(cfg *config.Config, w io.Writer) output.Styles {
	return output.NewStyles(w, cfg.Settings.Output)
}

// fail prints a one-line error and returns exitcode.UserError.
func fail(cfg *config.Config, errOut io.Writer, format string, args ...any) int {
	output.Errorf(errOut, styles(cfg, errOut), format, args...)
	return exitcode.UserError
}

// report prints err and maps it to an exit code. A declined or abandoned
// prompt prints nothing and succeeds.
func report(cfg *config.Config, errOut io.Writer, err error) int {
	if errors.Is(err, resolver.ErrDeclined) || errors.Is(err, resolver.ErrAborted) {
		return exitcode.Success
	}

	code := exitcode.UserError
	var se *store.StorageError
	switch {
	case errors.Is(err, store.ErrAuth):
		code = exitcode.AuthError
	case errors.As(err, &se):
		code = exitcode.StorageError
	}
	output.Errorf(errOut, styles(cfg, errOut), "%v", err)
	return code
}

// printRemoved writes one line per removed task.
func printRemoved(cfg *config.Config, out io.Writer, changes []service.Change) {
	if cfg.Quiet {
		return
	}
	st := styles(cfg, out)
	for _, c := range changes {
		fmt.Fprintf(out, "removed %q from %s\n", c.Task, st.List.Render(c.List))
	}
}

// printToggled writes one line per toggled task with its new state.
func printToggled(cfg *config.Config, out io.Writer, changes []service.Change) {
	if cfg.Quiet {
		return
	}
	st := styles(cfg, out)
	for _, c := range changes {
		state := "unchecked"
		if c.Checked {
			state = "checked"
		}
		fmt.Fprintf(out, "%s %q in %s\n", state, c.Task, st.List.Render(c.List))
	}
}

// joinArgs joins positional arguments into one name.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// listOrDefault returns list, or the configured default list if it is empty.
func listOrDefault(cfg *config.Config, list string) string {
	if list != "" {
		return list
	}
	return cfg.Settings.DefaultList
}
