package main

import (
	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/logo"
	"github.com/flexprice/invoicer/internal/mapper"
	"github.com/flexprice/invoicer/internal/pdf"
	"github.com/flexprice/invoicer/internal/preview"
	"github.com/flexprice/invoicer/internal/render"
	"github.com/flexprice/invoicer/internal/s3"
	"github.com/flexprice/invoicer/internal/sentry"
	"github.com/flexprice/invoicer/internal/template"
	"github.com/flexprice/invoicer/internal/typst"
)

// app holds what the commands share. It is built once per invocation from
// config.yaml, falling back to the defaults when no config can be loaded.
type app struct {
	cfg      *config.Configuration
	log      *logger.Logger
	registry *template.Registry
	mapper   *mapper.Mapper
	render   *render.Service
	logos    logo.Resolver
	blob     s3.Service
}

func loadConfig() *config.Configuration {
	cfg, err := config.NewConfig()
	if err != nil {
		logger.L.Warnw("using default configuration", "error", err)
		return config.GetDefaultConfig()
	}
	return cfg
}

func newApp(cfg *config.Configuration) (*app, error) {
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	registry, err := template.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}

	blob, err := s3.NewService(cfg, log)
	if err != nil {
		return nil, err
	}

	compiler := typst.NewCompiler(log, cfg.Typst.BinaryPath, cfg.Typst.FontDir, cfg.Typst.TemplateDir, cfg.Typst.OutputDir)
	svc := render.NewService(
		registry,
		pdf.NewGenerator(cfg, compiler, log),
		preview.NewRenderer(log),
		sentry.NewSentryService(cfg, log),
		log,
		render.OptionsFromConfig(cfg),
	)

	return &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		mapper:   mapper.NewMapper(log),
		render:   svc,
		logos:    logo.NewResolver(cfg, logo.NewHTTPClient(cfg, log), blob, cache.NewInMemoryCache(cfg, log), log),
		blob:     blob,
	}, nil
}
