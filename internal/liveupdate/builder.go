package liveupdate

import (
	"context"

	"github.com/flexprice/invoicer/internal/branding"
	"github.com/flexprice/invoicer/internal/layout"
	"github.com/flexprice/invoicer/internal/mapper"
	"github.com/flexprice/invoicer/internal/render"
)

// PreviewOptions are fixed for the lifetime of one form
type PreviewOptions struct {
	Branding *branding.Branding
	Logo     *layout.Image
	Scale    float64
}

// PreviewBuilder maps a form snapshot to a document and renders its preview
// through the same service the PDF download uses
func PreviewBuilder(m *mapper.Mapper, svc *render.Service, opts PreviewOptions) BuildFunc {
	return func(ctx context.Context, snapshot mapper.FormState, templateID string) (*Update, error) {
		doc, err := m.FromForm(snapshot)
		if err != nil {
			return nil, err
		}

		res, err := svc.RenderPreview(ctx, render.Request{
			Document:   doc,
			TemplateID: templateID,
			Branding:   opts.Branding,
			Logo:       opts.Logo,
		}, opts.Scale)
		if err != nil {
			return nil, err
		}
		return &Update{Document: doc, Preview: res.Preview}, nil
	}
}
