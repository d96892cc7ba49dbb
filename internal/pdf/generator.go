package pdf

import (
	"context"

	"github.com/flexprice/invoicer/internal/config"
	"github.com/flexprice/invoicer/internal/layout"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/flexprice/invoicer/internal/typst"
)

// ContentType is the MIME type of every generated document
const ContentType = "application/pdf"

// Generator writes a computed layout as a paginated PDF. Implementations
// never touch persistence or the network.
type Generator interface {
	Render(ctx context.Context, l *layout.Layout) (*Result, error)
	Engine() types.PDFEngine
}

type Result struct {
	Data  []byte
	Pages int
	// Skipped lists optional assets the engine could not embed
	Skipped []SkippedAsset
}

type SkippedAsset struct {
	Asset  string
	Reason string
}

// NewGenerator picks the engine configured in cfg.Render.Engine
func NewGenerator(cfg *config.Configuration, compiler typst.Compiler, logger *logger.Logger) Generator {
	switch cfg.Render.Engine {
	case types.PDFEngineTypst:
		return NewTypstGenerator(compiler, logger)
	default:
		return NewFpdfGenerator(cfg.Render.Compress, logger)
	}
}
