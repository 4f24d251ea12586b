package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storefront-wizard/internal/generation"
	"storefront-wizard/internal/observability"
	"storefront-wizard/internal/preview"
	"storefront-wizard/internal/runstore"
	"storefront-wizard/internal/settings"
	"storefront-wizard/internal/storegen"
	"storefront-wizard/internal/validate"
)

type environment struct {
	configPath string
	settings   settings.Settings
	log        *zap.Logger
}

// loadEnvironment reads settings and builds the logger. Logs go to the
// configured file; headless commands also log to stderr when --log-level is
// given. The wizard never writes logs to the terminal it draws on.
func loadEnvironment(opts *globalOptions, interactive bool) (*environment, error) {
	configPath := settings.NormalizeConfigPath(opts.configPath)
	s, err := settings.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := s.Log.Level
	if lv := strings.TrimSpace(opts.logLevel); lv != "" {
		level = lv
	}
	logPath := s.Log.File
	if logPath == "" && !interactive && strings.TrimSpace(opts.logLevel) != "" {
		logPath = "stderr"
	}
	log, err := observability.NewLogger(observability.Options{Level: level, Path: logPath})
	if err != nil {
		return nil, err
	}
	return &environment{configPath: configPath, settings: s, log: log}, nil
}

func (e *environment) close() {
	_ = e.log.Sync()
}

func (e *environment) fieldConfig() validate.FieldConfig {
	return validate.FieldConfig{
		ValidateDelay: e.settings.Timing.ValidateDebounce,
		TrimDelay:     e.settings.Timing.AutoTrimDelay,
	}
}

func (e *environment) previewClient() *preview.Client {
	p := e.settings.Preview
	return preview.NewClient(preview.Config{
		Timeout:           p.Timeout,
		RequestsPerSecond: p.RequestsPerSecond,
		MaxRetries:        p.MaxRetries,
		UserAgent:         p.UserAgent,
		MaxMarkdownChars:  p.MaxMarkdownChars,
	}, preview.WithLogger(e.log))
}

func (e *environment) provider(ctx context.Context) (storegen.Provider, error) {
	g := e.settings.Generator
	provider, err := storegen.NewProvider(ctx, storegen.ProviderConfig{
		Name:        g.Provider,
		Model:       g.Model,
		MaxTokens:   g.MaxTokens,
		Temperature: g.Temperature,
		APIKey:      g.APIKey(),
	})
	if errors.Is(err, storegen.ErrMissingAPIKey) {
		return nil, fmt.Errorf("%w: export %s (see storefront-wizard doctor)", err, g.APIKeyEnv)
	}
	return provider, err
}

// orchestrator assembles the generation pipeline: the preview client serves
// both the fast preview and the page fetch behind the authoritative call, and
// every finished run is archived under the runs directory.
func (e *environment) orchestrator(ctx context.Context) (*generation.Orchestrator, error) {
	provider, err := e.provider(ctx)
	if err != nil {
		return nil, err
	}
	pages := e.previewClient()
	service := storegen.NewService(pages, provider, storegen.WithLogger(e.log))
	return generation.New(pages, service,
		generation.WithLogger(e.log),
		generation.WithArchiver(runstore.NewStore(e.settings.RunsDir)),
		generation.WithSampleInterval(e.settings.Timing.SampleInterval),
		generation.WithSettleDelay(e.settings.Timing.SettleDelay),
	), nil
}
