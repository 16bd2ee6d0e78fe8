package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// FzfSelector delegates selection to the fzf fuzzy finder.
type FzfSelector struct {
	// Path is the fzf binary; empty means look it up on PATH.
	Path string
}

// Select pipes options to fzf and returns the lines it prints. Exit status 1
// (no match) and 130 (cancelled) are an empty selection.
func (f *FzfSelector) Select(ctx context.Context, options []string, multi bool) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}
	bin := f.Path
	if bin == "" {
		bin = "fzf"
	}

	var args []string
	if multi {
		args = append(args, "-m")
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = strings.NewReader(strings.Join(options, "\n") + "\n")
	cmd.Stderr = os.Stderr
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			switch exitErr.ExitCode() {
			case 1, 130:
				return nil, nil
			}
		}
		return nil, fmt.Errorf("run %s: %w", bin, err)
	}

	var picked []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			picked = append(picked, line)
		}
	}
	if !multi && len(picked) > 1 {
		picked = picked[:1]
	}
	return picked, nil
}
