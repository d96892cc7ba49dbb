package testutil

import (
	"context"
	"strings"

	"github.com/flexprice/invoicer/internal/domain/client"
	"github.com/samber/lo"
)

// InMemoryClientStore implements client.Repository
type InMemoryClientStore struct {
	*InMemoryStore[*client.Client]
}

// NewInMemoryClientStore creates a new in-memory client store
func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*client.Client](),
	}
}

func copyClient(c *client.Client) *client.Client {
	if c == nil {
		return nil
	}
	out := *c
	out.Email = copyString(c.Email)
	out.Phone = copyString(c.Phone)
	out.Address = copyString(c.Address)
	return &out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	return lo.ToPtr(*s)
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *client.Client) error {
	return s.InMemoryStore.Create(ctx, c.ID, copyClient(c))
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyClient(c), nil
}

func (s *InMemoryClientStore) List(ctx context.Context, filter *client.Filter) ([]*client.Client, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	items, err := s.InMemoryStore.List(ctx, filter, clientFilterFn, clientSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(c *client.Client, _ int) *client.Client {
		return copyClient(c)
	}), nil
}

func (s *InMemoryClientStore) Count(ctx context.Context, filter *client.Filter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, clientFilterFn)
}

func (s *InMemoryClientStore) Update(ctx context.Context, c *client.Client) error {
	return s.InMemoryStore.Update(ctx, c.ID, copyClient(c))
}

func (s *InMemoryClientStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func clientFilterFn(ctx context.Context, c *client.Client, filter interface{}) bool {
	f, ok := filter.(*client.Filter)
	if !ok {
		return true
	}
	if !CheckOwnerFilter(f.OwnerID, c.OwnerID) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(lo.FromPtr(c.Email)), q)
	}
	return true
}

func clientSortFn(i, j *client.Client) bool {
	return i.CreatedAt.After(j.CreatedAt)
}
