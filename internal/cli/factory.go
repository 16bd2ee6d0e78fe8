package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"todo/internal/backend/googletasks"
	"todo/internal/config"
	"todo/internal/prompt"
	"todo/internal/resolver"
	"todo/internal/service"
	"todo/internal/store"
)

// NewServiceFactory returns the factory used by the real binary: it
// bootstraps the config directory, opens the configured backend and wires
// interactive prompts reading from in and writing to out.
func NewServiceFactory(in io.Reader, out io.Writer) ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
		gw, err := OpenGateway(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}

		sel, err := prompt.NewSelector(cfg.Settings.Selector, in, out)
		if err != nil {
			return nil, err
		}
		res := resolver.New(prompt.NewLineConfirmer(in, out), sel, out, resolver.WithLogger(logger))
		return service.NewManager(gw, res, sel, logger), nil
	}
}

// OpenGateway creates the config directory and default config.toml on first
// use and returns the gateway for the configured backend. The file backend
// gets a store file holding the default list.
func OpenGateway(ctx context.Context, cfg *config.Config, logger *log.Logger) (store.Gateway, error) {
	created, err := cfg.Bootstrap()
	if err != nil {
		return nil, &store.StorageError{Op: "init", Path: cfg.Dir, Err: err}
	}
	if created {
		logger.Debug("wrote default settings", "path", cfg.SettingsPath())
	}

	switch cfg.Settings.Backend {
	case config.BackendGoogle:
		return googletasks.New(ctx, cfg, logger)
	default:
		gw := store.NewFileGateway(cfg.StorePath(), logger)
		if err := gw.Init(ctx, cfg.Settings.DefaultList); err != nil {
			return nil, err
		}
		return gw, nil
	}
}
