package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/flexprice/invoicer/internal/api/dto"
	"github.com/flexprice/invoicer/internal/auth"
	"github.com/flexprice/invoicer/internal/domain/client"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/types"
)

type ClientService interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error)
	GetClient(ctx context.Context, id string) (*dto.ClientResponse, error)
	ListClients(ctx context.Context, filter *client.Filter) (*dto.ListClientsResponse, error)
	UpdateClient(ctx context.Context, id string, req dto.UpdateClientRequest) (*dto.ClientResponse, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	ServiceParams
}

func NewClientService(params ServiceParams) ClientService {
	return &clientService{
		ServiceParams: params,
	}
}

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error) {
	ownerID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToClient(ctx, ownerID)
	if err := s.ClientRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.ClientResponse{Client: c}, nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ClientResponse{Client: c}, nil
}

func (s *clientService) ListClients(ctx context.Context, filter *client.Filter) (*dto.ListClientsResponse, error) {
	ownerID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = client.NewFilter(ownerID)
	}
	filter.OwnerID = ownerID

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	clients, err := s.ClientRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ClientRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(clients, func(c *client.Client, _ int) *dto.ClientResponse {
		return &dto.ClientResponse{Client: c}
	})
	resp := types.NewListResponse(items, total, filter)
	return &resp, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(c)
	if err := s.ClientRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return &dto.ClientResponse{Client: c}, nil
}

// DeleteClient removes the client. Invoices keep their buyer snapshot.
func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.owned(ctx, id); err != nil {
		return err
	}
	return s.ClientRepo.Delete(ctx, id)
}

func (s *clientService) owned(ctx context.Context, id string) (*client.Client, error) {
	ownerID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.ClientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, ierr.NewErrorf("client %s not found", id).
			WithHint("Client not found").
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}
