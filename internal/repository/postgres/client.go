package postgres

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/flexprice/invoicer/internal/domain/client"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/postgres"
)

// clientSortColumns are the columns a client listing may be ordered by
var clientSortColumns = []string{"created_at", "name", "email"}

type clientRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewClientRepository(db *postgres.DB, logger *logger.Logger) client.Repository {
	return &clientRepository{db: db, logger: logger}
}

func (r *clientRepository) Create(ctx context.Context, c *client.Client) error {
	span, ctx := r.db.StartSpan(ctx, "client.create", map[string]interface{}{"client_id": c.ID})
	defer postgres.FinishSpan(span)

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	query := `
		INSERT INTO clients (
			id, owner_id, name, email, phone, address, created_at, updated_at
		) VALUES (
			:id, :owner_id, :name, :email, :phone, :address, :created_at, :updated_at
		)`

	r.logger.Debugw("creating client",
		"client_id", c.ID,
		"owner_id", c.OwnerID,
	)

	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c)
	return postgres.WrapError(err, "Client", map[string]any{"client_id": c.ID})
}

func (r *clientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	var c client.Client
	err := r.db.GetQuerier(ctx).GetContext(ctx, &c, "SELECT * FROM clients WHERE id = $1", id)
	if err != nil {
		return nil, postgres.WrapError(err, "Client", map[string]any{"client_id": id})
	}
	return &c, nil
}

func (r *clientRepository) List(ctx context.Context, filter *client.Filter) ([]*client.Client, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	sort := filter.GetSort()
	if !lo.Contains(clientSortColumns, sort) {
		sort = "created_at"
	}

	query, args, err := clientQuery(filter).
		order(sort, filter.GetOrder()).
		paginate(filter.QueryFilter).
		selectQuery()
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	clients := make([]*client.Client, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, postgres.WrapError(err, "Client", map[string]any{"owner_id": filter.OwnerID})
	}
	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context, filter *client.Filter) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}

	query, args, err := clientQuery(filter).countQuery()
	if err != nil {
		return 0, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, postgres.WrapError(err, "Client", map[string]any{"owner_id": filter.OwnerID})
	}
	return count, nil
}

func (r *clientRepository) Update(ctx context.Context, c *client.Client) error {
	c.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE clients SET
			name = :name,
			email = :email,
			phone = :phone,
			address = :address,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		return postgres.WrapError(err, "Client", map[string]any{"client_id": c.ID})
	}
	return requireAffected(result, "Client", c.ID)
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debugw("deleting client", "client_id", id)

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return postgres.WrapError(err, "Client", map[string]any{"client_id": id})
	}
	return requireAffected(result, "Client", id)
}

func clientQuery(filter *client.Filter) *queryBuilder {
	qb := newQueryBuilder("clients")
	if filter.OwnerID != "" {
		qb.where("owner_id = :owner_id", "owner_id", filter.OwnerID)
	}
	return qb.search(filter.Search, "name", "email")
}
