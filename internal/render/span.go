package render

import (
	"context"

	"github.com/getsentry/sentry-go"
)

func (s *Service) startSpan(ctx context.Context, phase string, out *Outcome) (*sentry.Span, context.Context) {
	if s.sentry == nil {
		return nil, ctx
	}
	return s.sentry.StartRenderSpan(ctx, phase, map[string]interface{}{
		"template_id": out.TemplateID,
		"pages":       len(out.Layout.Pages),
	})
}

func finish(span *sentry.Span) {
	if span != nil {
		span.Finish()
	}
}
