package pdf

import (
	"context"
	"os"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/layout"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/flexprice/invoicer/internal/typst"
	jsoniter "github.com/json-iterator/go"
)

// TemplateName is the typst template that draws a layout
const TemplateName = "invoice.typ"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type typstGenerator struct {
	typst  typst.Compiler
	logger *logger.Logger
}

// typstPayload is the JSON document handed to the template
type typstPayload struct {
	*layout.Layout
	LogoPath string `json:"logo_path,omitempty"`
}

// NewTypstGenerator compiles layouts through the typst CLI
func NewTypstGenerator(compiler typst.Compiler, logger *logger.Logger) Generator {
	return &typstGenerator{typst: compiler, logger: logger}
}

func (g *typstGenerator) Engine() types.PDFEngine {
	return types.PDFEngineTypst
}

func (g *typstGenerator) Render(ctx context.Context, l *layout.Layout) (*Result, error) {
	result := &Result{Pages: len(l.Pages)}
	payload := typstPayload{Layout: l}

	if l.Header.Logo != nil {
		path, err := writeLogo(l.Header.Logo)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedAsset{Asset: "logo", Reason: err.Error()})
		} else {
			defer os.Remove(path)
			payload.LogoPath = path
		}
	}

	data, err := g.compile(ctx, payload)
	if err != nil && payload.LogoPath != "" && ctx.Err() == nil {
		// a logo typst cannot decode must not cost the document
		g.logger.Warnw("typst compilation failed with logo, retrying without it", "error", err)
		result.Skipped = append(result.Skipped, SkippedAsset{Asset: "logo", Reason: err.Error()})
		payload.LogoPath = ""
		data, err = g.compile(ctx, payload)
	}
	if err != nil {
		return nil, err
	}

	result.Data = data
	return result, nil
}

func (g *typstGenerator) compile(ctx context.Context, payload typstPayload) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to marshal invoice layout").
			Mark(ierr.ErrRenderFailure)
	}

	pdf, err := g.typst.CompileTemplate(ctx, TemplateName, jsonData)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to compile invoice template").
			Mark(ierr.ErrRenderFailure)
	}
	return pdf, nil
}

func writeLogo(img *layout.Image) (string, error) {
	f, err := os.CreateTemp("", "invoice-logo-*."+img.Format)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(img.Data); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
