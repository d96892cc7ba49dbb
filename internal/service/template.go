package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/flexprice/invoicer/internal/api/dto"
	"github.com/flexprice/invoicer/internal/branding"
	"github.com/flexprice/invoicer/internal/template"
)

type TemplateService interface {
	ListTemplates(ctx context.Context, query dto.ListTemplatesQuery) (*dto.ListTemplatesResponse, error)
	GetTemplate(ctx context.Context, id string) (*dto.TemplateResponse, error)
	// ValidateBranding checks b and, when valid, layers it over its template
	ValidateBranding(ctx context.Context, b branding.Branding) (*dto.ValidateBrandingResponse, error)
}

type templateService struct {
	ServiceParams
}

func NewTemplateService(params ServiceParams) TemplateService {
	return &templateService{
		ServiceParams: params,
	}
}

func (s *templateService) ListTemplates(_ context.Context, query dto.ListTemplatesQuery) (*dto.ListTemplatesResponse, error) {
	configs := s.Templates.List()
	if query.Category != "" {
		if err := query.Category.Validate(); err != nil {
			return nil, err
		}
		configs = s.Templates.ListByCategory(query.Category)
	}

	return &dto.ListTemplatesResponse{
		Items: lo.Map(configs, func(c template.Config, _ int) *dto.TemplateResponse {
			return &dto.TemplateResponse{Config: c}
		}),
		DefaultID: s.Templates.Default().ID,
	}, nil
}

func (s *templateService) GetTemplate(_ context.Context, id string) (*dto.TemplateResponse, error) {
	cfg, err := s.Templates.Get(id)
	if err != nil {
		return nil, err
	}
	return &dto.TemplateResponse{Config: cfg}, nil
}

func (s *templateService) ValidateBranding(_ context.Context, b branding.Branding) (*dto.ValidateBrandingResponse, error) {
	resp := &dto.ValidateBrandingResponse{Result: branding.Validate(b)}
	if !resp.IsValid {
		return resp, nil
	}

	base := s.Templates.Default()
	if b.TemplateID != "" {
		cfg, err := s.Templates.Get(b.TemplateID)
		if err != nil {
			return nil, err
		}
		base = cfg
	}
	effective := branding.Apply(base, b)
	resp.Effective = &effective
	return resp, nil
}
