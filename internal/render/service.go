// Package render turns an invoice document into a PDF or a live preview.
// Both targets share validation, template resolution and layout.Compute, so
// they always agree on what is shown.
package render

import (
	"context"
	"time"

	"github.com/flexprice/invoicer/internal/branding"
	"github.com/flexprice/invoicer/internal/config"
	"github.com/flexprice/invoicer/internal/domain/document"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/layout"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/pdf"
	"github.com/flexprice/invoicer/internal/preview"
	"github.com/flexprice/invoicer/internal/sentry"
	"github.com/flexprice/invoicer/internal/template"
)

// Request is everything one render needs. The logo is resolved by the
// caller; LogoErr records why it could not be.
type Request struct {
	Document   *document.InvoiceDocument
	TemplateID string
	Branding   *branding.Branding
	Logo       *layout.Image
	LogoErr    error
}

// Degradation is an optional asset left out of a successful render
type Degradation struct {
	Asset  string `json:"asset"`
	Reason string `json:"reason"`
}

// Outcome is shared by both render targets
type Outcome struct {
	State      State  `json:"state"`
	TemplateID string `json:"template_id"`
	// TemplateFallback is set when the requested template was unknown
	TemplateFallback bool           `json:"template_fallback"`
	Degraded         []Degradation  `json:"degraded,omitempty"`
	Warnings         []string       `json:"warnings,omitempty"`
	Layout           *layout.Layout `json:"-"`
}

type PDFResult struct {
	Outcome
	Data        []byte
	ContentType string
	Filename    string
	Pages       int
}

type PreviewResult struct {
	Outcome
	Preview *preview.Preview
}

type Options struct {
	// StrictTemplates returns template.NotFoundError for unknown ids
	StrictTemplates bool
	// DefaultTemplate replaces the registry default when set and registered
	DefaultTemplate string
}

// OptionsFromConfig reads the render section of cfg
func OptionsFromConfig(cfg *config.Configuration) Options {
	return Options{
		StrictTemplates: cfg.Render.StrictTemplates,
		DefaultTemplate: cfg.Render.DefaultTemplate,
	}
}

type Service struct {
	registry  *template.Registry
	generator pdf.Generator
	previewer *preview.Renderer
	sentry    *sentry.Service
	logger    *logger.Logger
	opts      Options
	measure   layout.TextMeasure
	now       func() time.Time
}

func NewService(
	registry *template.Registry,
	generator pdf.Generator,
	previewer *preview.Renderer,
	sentry *sentry.Service,
	logger *logger.Logger,
	opts Options,
) *Service {
	return &Service{
		registry:  registry,
		generator: generator,
		previewer: previewer,
		sentry:    sentry,
		logger:    logger,
		opts:      opts,
		measure:   pdf.MeasureText,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for the filename date
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RenderPDF validates, lays out and encodes req as a PDF
func (s *Service) RenderPDF(ctx context.Context, req Request) (*PDFResult, error) {
	out, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	span, spanCtx := s.startSpan(ctx, "pdf", out)
	res, err := s.generator.Render(spanCtx, out.Layout)
	finish(span)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Errorw("pdf generation failed",
			"template_id", out.TemplateID,
			"engine", s.generator.Engine(),
			"error", err)
		if !ierr.IsRenderFailure(err) {
			err = ierr.WithError(err).
				WithHint("The document could not be generated, please retry").
				Mark(ierr.ErrRenderFailure)
		}
		if s.sentry != nil {
			s.sentry.CaptureException(err)
		}
		return nil, err
	}

	for _, skipped := range res.Skipped {
		s.degrade(out, skipped.Asset, skipped.Reason)
	}

	doc := req.Document
	return &PDFResult{
		Outcome:     *out,
		Data:        res.Data,
		ContentType: pdf.ContentType,
		Filename:    Filename(doc.Meta.Number, doc.Client.Name, s.now()),
		Pages:       res.Pages,
	}, nil
}

// RenderPreview validates and lays out req, then draws it at scale
func (s *Service) RenderPreview(ctx context.Context, req Request, scale float64) (*PreviewResult, error) {
	out, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	p, err := s.previewer.Render(out.Layout, scale)
	if err != nil {
		s.logger.Errorw("preview rendering failed", "template_id", out.TemplateID, "error", err)
		return nil, err
	}

	return &PreviewResult{Outcome: *out, Preview: p}, nil
}

// prepare runs the shared phases and returns an outcome in StateRendering
func (s *Service) prepare(ctx context.Context, req Request) (*Outcome, error) {
	m := newMachine()
	if err := m.to(StateValidating); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if violations := Validate(req.Document); len(violations) > 0 {
		if err := m.to(StateRejected); err != nil {
			return nil, err
		}
		s.logger.Debugw("invoice document rejected", "violations", len(violations))
		return nil, newValidationError(violations)
	}
	if err := m.to(StateRendering); err != nil {
		return nil, err
	}

	out := &Outcome{State: m.state}

	cfg, fallback, err := s.resolveTemplate(req)
	if err != nil {
		return nil, err
	}
	out.TemplateFallback = fallback

	if req.Branding != nil {
		cfg = s.applyBranding(out, cfg, *req.Branding)
	}
	out.TemplateID = cfg.ID

	if req.LogoErr != nil {
		s.degrade(out, "logo", req.LogoErr.Error())
	}

	if warnings := req.Document.Reconcile(); len(warnings) > 0 {
		s.logger.Warnw("invoice totals do not reconcile",
			"invoice_id", req.Document.Meta.ID,
			"warnings", warnings)
		out.Warnings = warnings
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l, err := layout.Compute(req.Document, cfg, layout.Options{Logo: req.Logo, Measure: s.measure})
	if err != nil {
		return nil, err
	}
	out.Layout = l
	return out, nil
}

// applyBranding merges b over cfg. A branding that fails validation, or
// whose merged template does, is dropped and cfg is rendered as is.
func (s *Service) applyBranding(out *Outcome, cfg template.Config, b branding.Branding) template.Config {
	if result := branding.Validate(b); !result.IsValid {
		s.degrade(out, "branding", result.Err().Error())
		return cfg
	}

	merged := branding.Apply(cfg, b)
	if err := merged.Validate(); err != nil {
		s.degrade(out, "branding", err.Error())
		return cfg
	}
	return merged
}

func (s *Service) resolveTemplate(req Request) (template.Config, bool, error) {
	id := req.TemplateID
	if id == "" && req.Branding != nil {
		id = req.Branding.TemplateID
	}
	if id == "" {
		return s.defaultTemplate(), false, nil
	}

	cfg, err := s.registry.Get(id)
	if err == nil {
		return cfg, false, nil
	}
	if s.opts.StrictTemplates {
		return template.Config{}, false, err
	}

	def := s.defaultTemplate()
	s.logger.Warnw("unknown template, falling back to default",
		"template_id", id,
		"fallback", def.ID)
	return def, true, nil
}

func (s *Service) defaultTemplate() template.Config {
	if s.opts.DefaultTemplate != "" {
		if cfg, err := s.registry.Get(s.opts.DefaultTemplate); err == nil {
			return cfg
		}
	}
	return s.registry.Default()
}

// degrade records an omitted asset. It is not an error for the caller.
func (s *Service) degrade(out *Outcome, asset, reason string) {
	out.Degraded = append(out.Degraded, Degradation{Asset: asset, Reason: reason})
	s.logger.Warnw("rendering without optional asset",
		"asset", asset,
		"reason", reason,
		"template_id", out.TemplateID)
	if s.sentry != nil {
		s.sentry.AddWarningBreadcrumb("render", "degraded render", map[string]interface{}{
			"asset":  asset,
			"reason": reason,
		})
	}
}
