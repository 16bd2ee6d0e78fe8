package prompt

import (
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/resolver"
)

// NewSelector returns the selector named by kind, as configured in the
// settings file.
func NewSelector(kind string, in io.Reader, out io.Writer) (resolver.Selector, error) {
	switch kind {
	case "", config.SelectorBuiltin:
		return NewMenu(in, out), nil
	case config.SelectorFzf:
		return &FzfSelector{}, nil
	default:
		return nil, fmt.Errorf("unknown selector %q", kind)
	}
}
