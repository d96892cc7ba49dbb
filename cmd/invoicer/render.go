package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/flexprice/invoicer/internal/branding"
	"github.com/flexprice/invoicer/internal/domain/profile"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/layout"
	"github.com/flexprice/invoicer/internal/logo"
	"github.com/flexprice/invoicer/internal/mapper"
	"github.com/flexprice/invoicer/internal/render"
	"github.com/flexprice/invoicer/internal/types"
)

const (
	formatPDF  = "pdf"
	formatHTML = "html"
)

// fixture is the on-disk input of the render command: a form snapshot plus
// the business profile it is issued under
type fixture struct {
	Form       mapper.FormState `json:"form"`
	Profile    *profile.Profile `json:"profile,omitempty"`
	TemplateID string           `json:"template_id,omitempty"`
	// Logo is a local file path or a URL; the profile logo is used when empty
	Logo string `json:"logo,omitempty"`
}

type renderOptions struct {
	format     string
	templateID string
	outDir     string
	scale      float64
	workers    int
}

// rendered describes one written file
type rendered struct {
	Source     string
	Path       string
	TemplateID string
	Degraded   []render.Degradation
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Could not read %s", path).
			Mark(ierr.ErrNotFound)
	}

	var fx fixture
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &fx); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("%s is not a valid invoice fixture", path).
			Mark(ierr.ErrValidation)
	}
	return &fx, nil
}

func newRenderCmd() *cobra.Command {
	opts := renderOptions{}
	var dir string

	cmd := &cobra.Command{
		Use:   "render [fixture.json]",
		Short: "Render an invoice fixture to PDF or HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" && len(args) == 0 {
				return fmt.Errorf("pass a fixture file or --dir")
			}

			a, err := newApp(loadConfig())
			if err != nil {
				return err
			}

			var results []*rendered
			if dir != "" {
				results, err = a.renderDir(cmd.Context(), dir, opts)
			} else {
				var r *rendered
				if r, err = a.renderFile(cmd.Context(), args[0], opts); r != nil {
					results = append(results, r)
				}
			}

			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", r.Source, r.Path, r.TemplateID)
				for _, d := range r.Degraded {
					fmt.Fprintf(cmd.OutOrStdout(), "  without %s: %s\n", d.Asset, d.Reason)
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatPDF, "output format, pdf or html")
	cmd.Flags().StringVarP(&opts.templateID, "template", "t", "", "template id, overrides the fixture")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "preview scale for html output")
	cmd.Flags().StringVar(&dir, "dir", "", "render every *.json fixture in a directory")
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "concurrent renders with --dir")
	return cmd
}

// renderDir renders every fixture in dir on a bounded pool. One bad fixture
// does not stop the others; all failures are returned together.
func (a *app) renderDir(ctx context.Context, dir string, opts renderOptions) ([]*rendered, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrValidation)
	}
	if len(paths) == 0 {
		return nil, ierr.NewErrorf("no fixtures in %s", dir).
			WithHint("The directory has no *.json files").
			Mark(ierr.ErrNotFound)
	}
	sort.Strings(paths)

	runID := types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RUN)
	log := a.log.With("run_id", runID)
	log.Infow("rendering fixtures", "dir", dir, "count", len(paths), "workers", opts.workers)

	results := make([]*rendered, len(paths))
	p := pool.New().
		WithMaxGoroutines(lo.Max([]int{opts.workers, 1})).
		WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		p.Go(func(ctx context.Context) error {
			r, err := a.renderFile(ctx, path, opts)
			if err != nil {
				log.Errorw("fixture failed", "fixture", path, "error", err)
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			results[i] = r
			return nil
		})
	}
	err = p.Wait()

	done := lo.Compact(results)
	log.Infow("rendered fixtures", "ok", len(done), "failed", len(paths)-len(done))
	return done, err
}

func (a *app) renderFile(ctx context.Context, path string, opts renderOptions) (*rendered, error) {
	fx, err := loadFixture(path)
	if err != nil {
		return nil, err
	}

	req, err := a.fixtureRequest(ctx, fx)
	if err != nil {
		return nil, err
	}
	if opts.templateID != "" {
		req.TemplateID = opts.templateID
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	var (
		name    string
		data    []byte
		outcome render.Outcome
	)
	switch opts.format {
	case formatPDF:
		res, err := a.render.RenderPDF(ctx, *req)
		if err != nil {
			return nil, err
		}
		name, data, outcome = res.Filename, res.Data, res.Outcome
	case formatHTML:
		res, err := a.render.RenderPreview(ctx, *req, opts.scale)
		if err != nil {
			return nil, err
		}
		name = strings.TrimSuffix(render.Filename(req.Document.Meta.Number, req.Document.Client.Name, time.Now()), ".pdf") + ".html"
		data, outcome = []byte(res.Preview.HTML), res.Outcome
	default:
		return nil, ierr.NewErrorf("unknown format %q", opts.format).
			WithHint("Format must be pdf or html").
			Mark(ierr.ErrValidation)
	}

	out := filepath.Join(opts.outDir, name)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	a.log.Debugw("wrote invoice",
		"fixture", path,
		"path", out,
		"template_id", outcome.TemplateID,
		"degraded", len(outcome.Degraded))
	return &rendered{
		Source:     path,
		Path:       out,
		TemplateID: outcome.TemplateID,
		Degraded:   outcome.Degraded,
	}, nil
}

// fixtureRequest maps a fixture to a render request. Unreadable branding and
// logos are left for the render service to report as degradations.
func (a *app) fixtureRequest(ctx context.Context, fx *fixture) (*render.Request, error) {
	form := fx.Form
	form.Profile = fx.Profile

	doc, err := a.mapper.FromForm(form)
	if err != nil {
		return nil, err
	}

	req := &render.Request{
		Document:   doc,
		TemplateID: fx.TemplateID,
	}

	brand, err := branding.FromProfile(fx.Profile)
	if err != nil {
		a.log.Warnw("ignoring profile branding", "error", err)
	}
	req.Branding = brand

	source := fx.Logo
	if source == "" && fx.Profile != nil {
		source = lo.FromPtr(fx.Profile.LogoURL)
	}
	req.Logo, req.LogoErr = a.loadLogo(ctx, source)
	return req, nil
}

func (a *app) loadLogo(ctx context.Context, source string) (*layout.Image, error) {
	if source == "" {
		return nil, nil
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return a.logos.Resolve(ctx, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Could not read logo %s", source).
			Mark(ierr.ErrNotFound)
	}
	return logo.Decode(data, a.cfg.Logo.MaxBytes)
}
