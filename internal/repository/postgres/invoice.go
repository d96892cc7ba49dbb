package postgres

import (
	"context"
	"time"

	"github.com/flexprice/invoicer/internal/domain/invoice"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/postgres"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `id, owner_id, client_id, invoice_number, service_name, quantity, unit_price,
	tax_rate, subtotal, tax_amount, gross_total, discount_amount, discount_rate, currency, status,
	buyer_name, buyer_email, buyer_address, buyer_phone, issued_date, due_date, account_reference,
	payment_link, notes, terms, created_at, updated_at`

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	span, ctx := r.db.StartSpan(ctx, "invoice.create", map[string]interface{}{
		"invoice_id": inv.ID,
	})
	defer postgres.FinishSpan(span)

	now := time.Now().UTC()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	inv.UpdatedAt = now

	query := `
		INSERT INTO invoices (` + invoiceColumns + `) VALUES (
			:id, :owner_id, :client_id, :invoice_number, :service_name, :quantity, :unit_price,
			:tax_rate, :subtotal, :tax_amount, :gross_total, :discount_amount, :discount_rate, :currency, :status,
			:buyer_name, :buyer_email, :buyer_address, :buyer_phone, :issued_date, :due_date, :account_reference,
			:payment_link, :notes, :terms, :created_at, :updated_at
		)`

	r.logger.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"owner_id", inv.OwnerID,
		"invoice_number", inv.InvoiceNumber,
	)

	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, inv)
	return postgres.WrapError(err, "Invoice", map[string]any{"invoice_id": inv.ID})
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	span, ctx := r.db.StartSpan(ctx, "invoice.get", map[string]interface{}{"invoice_id": id})
	defer postgres.FinishSpan(span)

	var inv invoice.Invoice
	err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, "SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		return nil, postgres.WrapError(err, "Invoice", map[string]any{"invoice_id": id})
	}
	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *invoice.Filter) ([]*invoice.Invoice, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	span, ctx := r.db.StartSpan(ctx, "invoice.list", map[string]interface{}{"owner_id": filter.OwnerID})
	defer postgres.FinishSpan(span)

	query, args, err := invoiceQuery(filter).
		order(string(filter.SortField()), filter.GetOrder()).
		paginate(filter.QueryFilter).
		selectQuery()
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	invoices := make([]*invoice.Invoice, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, postgres.WrapError(err, "Invoice", map[string]any{"owner_id": filter.OwnerID})
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *invoice.Filter) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}

	query, args, err := invoiceQuery(filter).countQuery()
	if err != nil {
		return 0, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, postgres.WrapError(err, "Invoice", map[string]any{"owner_id": filter.OwnerID})
	}
	return count, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	span, ctx := r.db.StartSpan(ctx, "invoice.update", map[string]interface{}{"invoice_id": inv.ID})
	defer postgres.FinishSpan(span)

	inv.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE invoices SET
			client_id = :client_id,
			service_name = :service_name,
			quantity = :quantity,
			unit_price = :unit_price,
			tax_rate = :tax_rate,
			subtotal = :subtotal,
			tax_amount = :tax_amount,
			gross_total = :gross_total,
			discount_amount = :discount_amount,
			discount_rate = :discount_rate,
			currency = :currency,
			status = :status,
			buyer_name = :buyer_name,
			buyer_email = :buyer_email,
			buyer_address = :buyer_address,
			buyer_phone = :buyer_phone,
			issued_date = :issued_date,
			due_date = :due_date,
			account_reference = :account_reference,
			payment_link = :payment_link,
			notes = :notes,
			terms = :terms,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, inv)
	if err != nil {
		return postgres.WrapError(err, "Invoice", map[string]any{"invoice_id": inv.ID})
	}
	return requireAffected(result, "Invoice", inv.ID)
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	span, ctx := r.db.StartSpan(ctx, "invoice.delete", map[string]interface{}{"invoice_id": id})
	defer postgres.FinishSpan(span)

	r.logger.Debugw("deleting invoice", "invoice_id", id)

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return postgres.WrapError(err, "Invoice", map[string]any{"invoice_id": id})
	}
	return requireAffected(result, "Invoice", id)
}

func invoiceQuery(filter *invoice.Filter) *queryBuilder {
	qb := newQueryBuilder("invoices")
	if filter.OwnerID != "" {
		qb.where("owner_id = :owner_id", "owner_id", filter.OwnerID)
	}
	if filter.Status != nil {
		qb.where("status = :status", "status", string(*filter.Status))
	}
	return qb.search(filter.Search, "buyer_name", "service_name")
}
