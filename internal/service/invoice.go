package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/flexprice/invoicer/internal/api/dto"
	"github.com/flexprice/invoicer/internal/auth"
	"github.com/flexprice/invoicer/internal/branding"
	"github.com/flexprice/invoicer/internal/domain/client"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	"github.com/flexprice/invoicer/internal/domain/profile"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/mapper"
	"github.com/flexprice/invoicer/internal/render"
	"github.com/flexprice/invoicer/internal/types"
)

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *invoice.Filter) (*dto.ListInvoicesResponse, error)
	DeleteInvoice(ctx context.Context, id string) error

	// RenderPDF renders a stored invoice; templateID may be empty
	RenderPDF(ctx context.Context, id, templateID string) (*render.PDFResult, error)
	// RenderPreview renders a stored invoice as HTML at scale
	RenderPreview(ctx context.Context, id, templateID string, scale float64) (*render.PreviewResult, error)
	// PreviewForm renders an unsaved form snapshot without persisting anything
	PreviewForm(ctx context.Context, req dto.PreviewFormRequest) (*render.PreviewResult, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	ownerID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	today := s.now()
	var inv *invoice.Invoice
	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		var c *client.Client
		if id := lo.FromPtr(req.ClientID); id != "" {
			owned, err := s.ownedClient(txCtx, ownerID, id)
			if err != nil {
				return err
			}
			c = owned
		}

		number, err := s.SequenceRepo.NextInvoiceNumber(txCtx, ownerID, req.IssuedYear(today))
		if err != nil {
			return err
		}

		inv = req.ToInvoice(txCtx, ownerID, number, c, today)
		return s.InvoiceRepo.Create(txCtx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"gross_total", inv.GrossTotal.String())

	return toInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.ownedInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *invoice.Filter) (*dto.ListInvoicesResponse, error) {
	ownerID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = invoice.NewFilter(ownerID)
	}
	filter.OwnerID = ownerID

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
		return toInvoiceResponse(inv)
	})
	resp := types.NewListResponse(items, total, filter)
	return &resp, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if _, err := s.ownedInvoice(ctx, id); err != nil {
		return err
	}
	return s.InvoiceRepo.Delete(ctx, id)
}

func (s *invoiceService) RenderPDF(ctx context.Context, id, templateID string) (*render.PDFResult, error) {
	req, degraded, err := s.renderRequest(ctx, id, templateID)
	if err != nil {
		return nil, err
	}

	result, err := s.Renderer.RenderPDF(ctx, *req)
	if err != nil {
		return nil, err
	}
	result.Degraded = append(result.Degraded, degraded...)
	return result, nil
}

func (s *invoiceService) RenderPreview(ctx context.Context, id, templateID string, scale float64) (*render.PreviewResult, error) {
	req, degraded, err := s.renderRequest(ctx, id, templateID)
	if err != nil {
		return nil, err
	}

	result, err := s.Renderer.RenderPreview(ctx, *req, scale)
	if err != nil {
		return nil, err
	}
	result.Degraded = append(result.Degraded, degraded...)
	return result, nil
}

func (s *invoiceService) PreviewForm(ctx context.Context, req dto.PreviewFormRequest) (*render.PreviewResult, error) {
	ownerID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.optionalProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	form := req.Form
	form.Profile = p

	doc, err := s.Mapper.FromForm(form)
	if err != nil {
		return nil, err
	}

	brand, degraded := s.profileBranding(p)
	if req.Branding != nil {
		brand = req.Branding
	}

	renderReq := s.withLogo(ctx, render.Request{
		Document:   doc,
		TemplateID: req.TemplateID,
		Branding:   brand,
	}, p)

	result, err := s.Renderer.RenderPreview(ctx, renderReq, req.Scale)
	if err != nil {
		return nil, err
	}
	result.Degraded = append(result.Degraded, degraded...)
	return result, nil
}

// renderRequest loads everything a stored invoice render needs. The record's
// buyer snapshot is authoritative; the linked client only fills gaps.
func (s *invoiceService) renderRequest(ctx context.Context, id, templateID string) (*render.Request, []render.Degradation, error) {
	inv, err := s.ownedInvoice(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	p, err := s.optionalProfile(ctx, inv.OwnerID)
	if err != nil {
		return nil, nil, err
	}

	var c *client.Client
	if cid := lo.FromPtr(inv.ClientID); cid != "" {
		c, err = s.ClientRepo.Get(ctx, cid)
		if err != nil && !ierr.IsNotFound(err) {
			return nil, nil, err
		}
		if c != nil && c.OwnerID != inv.OwnerID {
			c = nil
		}
	}

	doc, err := s.Mapper.BuildDocument(inv, p, c)
	if err != nil {
		return nil, nil, err
	}

	brand, degraded := s.profileBranding(p)
	req := s.withLogo(ctx, render.Request{
		Document:   doc,
		TemplateID: templateID,
		Branding:   brand,
	}, p)
	return &req, degraded, nil
}

// profileBranding derives branding from the stored profile. Unreadable
// customizations drop the stored brand rather than failing the render.
func (s *invoiceService) profileBranding(p *profile.Profile) (*branding.Branding, []render.Degradation) {
	brand, err := branding.FromProfile(p)
	if err != nil {
		s.Logger.Warnw("ignoring stored branding",
			"owner_id", p.OwnerID,
			"error", err)
		return nil, []render.Degradation{{Asset: "branding", Reason: err.Error()}}
	}
	return brand, nil
}

// withLogo resolves the branding logo, or the profile logo without branding
func (s *invoiceService) withLogo(ctx context.Context, req render.Request, p *profile.Profile) render.Request {
	url := ""
	if req.Branding != nil {
		url = req.Branding.LogoURL
	}
	if url == "" && p != nil {
		url = lo.FromPtr(p.LogoURL)
	}
	if url == "" || s.Logos == nil {
		return req
	}

	req.Logo, req.LogoErr = s.Logos.Resolve(ctx, url)
	return req
}

func (s *invoiceService) ownedInvoice(ctx context.Context, id string) (*invoice.Invoice, error) {
	ownerID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// other owners' invoices look missing rather than forbidden
	if inv.OwnerID != ownerID {
		return nil, ierr.NewErrorf("invoice %s not found", id).
			WithHint("Invoice not found").
			Mark(ierr.ErrNotFound)
	}
	return inv, nil
}

func (s *invoiceService) ownedClient(ctx context.Context, ownerID, id string) (*client.Client, error) {
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

func (s *invoiceService) optionalProfile(ctx context.Context, ownerID string) (*profile.Profile, error) {
	p, err := s.ProfileRepo.Get(ctx, ownerID)
	if ierr.IsNotFound(err) {
		return nil, nil
	}
	return p, err
}

func toInvoiceResponse(inv *invoice.Invoice) *dto.InvoiceResponse {
	_, description := mapper.ParseServiceName(inv.ServiceName)
	return &dto.InvoiceResponse{
		Invoice:     inv,
		Description: description,
	}
}
