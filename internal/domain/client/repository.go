package client

import "context"

// Repository defines the persistence of clients
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context, filter *Filter) ([]*Client, error)
	Count(ctx context.Context, filter *Filter) (int, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id string) error
}
