package postgres

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// StartSpan opens a sentry db span for a repository call. The returned
// span is nil when monitoring is off; pass it to FinishSpan regardless.
func (db *DB) StartSpan(ctx context.Context, operation string, params map[string]interface{}) (*sentry.Span, context.Context) {
	return db.startSpan(ctx, operation, params)
}

func (db *DB) startSpan(ctx context.Context, operation string, params map[string]interface{}) (*sentry.Span, context.Context) {
	if db.sentry == nil {
		return nil, ctx
	}
	return db.sentry.StartDBSpan(ctx, operation, params)
}

// FinishSpan finishes a span returned by StartSpan
func FinishSpan(span *sentry.Span) {
	finishSpan(span)
}

func finishSpan(span *sentry.Span) {
	if span != nil {
		span.Finish()
	}
}
