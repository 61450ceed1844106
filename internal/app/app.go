package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/fluxfield/internal/config"
	"github.com/vk/fluxfield/internal/ctxlog"
	"github.com/vk/fluxfield/internal/hcl_adapter"
	"github.com/vk/fluxfield/internal/identity"
	"github.com/vk/fluxfield/internal/publish"
	"github.com/vk/fluxfield/internal/yaml_adapter"
)

// Publisher sends a processed document somewhere. *publish.Publisher
// implements it.
type Publisher interface {
	Publish(ctx context.Context, payload any) error
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	formats   *config.Formats
	ids       identity.Generator
	publisher Publisher
}

// Option customizes an App.
type Option func(*App)

// WithPublisher replaces the publisher built from Config.Publish.
func WithPublisher(p Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// WithIdentity replaces the identifier generator selected by Config.IDs.
func WithIdentity(g identity.Generator) Option {
	return func(a *App) { a.ids = g }
}

// DefaultFormats registers the YAML/JSON and HCL loaders and the yaml, json
// and hcl emitters.
func DefaultFormats() *config.Formats {
	f := config.NewFormats()
	f.RegisterLoader(yaml_adapter.NewLoader())
	f.RegisterLoader(hcl_adapter.NewLoader())
	f.RegisterEmitter("yaml", yaml_adapter.YAMLEmitter{})
	f.RegisterEmitter("json", yaml_adapter.JSONEmitter{})
	f.RegisterEmitter("hcl", hcl_adapter.NewEmitter())
	return f
}

// NewApp is the constructor for the main application. Emitted documents go
// to outW, logs go to logW.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	ids, err := identity.ByName(cfg.IDs)
	if err != nil {
		return nil, fmt.Errorf("failed to configure identifiers: %w", err)
	}

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		formats: DefaultFormats(),
		ids:     ids,
	}
	if cfg.Publish.URL != "" {
		p := &publish.Publisher{
			URL:                cfg.Publish.URL,
			Namespace:          cfg.Publish.Namespace,
			Event:              cfg.Publish.Event,
			AckEvent:           cfg.Publish.AckEvent,
			Timeout:            cfg.Publish.Timeout,
			InsecureSkipVerify: cfg.Publish.InsecureSkipVerify,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid publish settings: %w", err)
		}
		a.publisher = p
	}
	for _, opt := range opts {
		opt(a)
	}

	logger.Debug("App initialized.", "output", cfg.Output, "emit", cfg.Emit, "ids", cfg.IDs, "publish", a.publisher != nil)
	return a, nil
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
