package postgres

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/flexprice/invoicer/internal/domain/invoice"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/postgres"
)

const (
	sequenceMaxRetries     = 5
	sequenceInitialBackoff = 20 * time.Millisecond
	sequenceMaxElapsed     = 2 * time.Second
)

type sequenceGenerator struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSequenceGenerator(db *postgres.DB, logger *logger.Logger) invoice.SequenceGenerator {
	return &sequenceGenerator{db: db, logger: logger}
}

// NextInvoiceNumber atomically bumps the owner's counter for year. When the
// caller already holds a stricter transaction, conflicts surface as 40001 or
// a unique violation and are retried with backoff.
func (s *sequenceGenerator) NextInvoiceNumber(ctx context.Context, ownerID string, year int) (string, error) {
	span, ctx := s.db.StartSpan(ctx, "invoice.next_number", map[string]interface{}{
		"owner_id": ownerID,
		"year":     year,
	})
	defer postgres.FinishSpan(span)

	query := `
		INSERT INTO invoice_sequences (owner_id, year, last_value, updated_at)
		VALUES ($1, $2, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (owner_id, year) DO UPDATE
		SET last_value = invoice_sequences.last_value + 1,
			updated_at = CURRENT_TIMESTAMP
		RETURNING last_value`

	var lastValue int64
	attempt := 0
	op := func() error {
		attempt++
		err := s.db.WithTx(ctx, func(ctx context.Context) error {
			return s.db.GetQuerier(ctx).GetContext(ctx, &lastValue, query, ownerID, year)
		})
		if err == nil {
			return nil
		}
		if postgres.IsRetryable(err) {
			s.logger.Debugw("retrying invoice number allocation",
				"owner_id", ownerID,
				"attempt", attempt,
				"error", err)
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = sequenceInitialBackoff
	policy.MaxElapsedTime = sequenceMaxElapsed
	b := backoff.WithContext(backoff.WithMaxRetries(policy, sequenceMaxRetries), ctx)

	if err := backoff.Retry(op, b); err != nil {
		return "", ierr.WithError(err).
			WithHint("Invoice number generation failed").
			WithReportableDetails(map[string]any{
				"owner_id": ownerID,
				"year":     year,
				"attempts": attempt,
			}).
			Mark(ierr.ErrDatabase)
	}

	s.logger.Infow("generated invoice number",
		"owner_id", ownerID,
		"year", year,
		"sequence", lastValue)

	return invoice.FormatInvoiceNumber(year, lastValue), nil
}
