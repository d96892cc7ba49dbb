package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/flexprice/invoicer/internal/api/dto"
	"github.com/flexprice/invoicer/internal/domain/invoice"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/render"
	"github.com/flexprice/invoicer/internal/service"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/flexprice/invoicer/internal/validator"
)

const (
	HeaderTemplateID = types.HeaderTemplateID
	HeaderDegraded   = types.HeaderRenderDegraded
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	logger         *logger.Logger
}

func NewInvoiceHandler(invoiceService service.InvoiceService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// CreateInvoice godoc
// @Summary Create a new invoice
// @Description Create an invoice; the number is assigned from the yearly sequence
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("Invalid request format").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetInvoice godoc
// @Summary Get an invoice by ID
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	resp, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListInvoices godoc
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Param filter query invoice.Filter false "Filter"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	filter := invoice.NewFilter("")
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteInvoice godoc
// @Summary Delete an invoice
// @Tags Invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetInvoicePDF godoc
// @Summary Download an invoice as PDF
// @Tags Invoices
// @Param id path string true "Invoice ID"
// @Param template_id query string false "Template ID"
// @Success 200 {file} application/pdf
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) GetInvoicePDF(c *gin.Context) {
	query, ok := bindRenderQuery(c)
	if !ok {
		return
	}

	id := c.Param("id")
	res, err := h.invoiceService.RenderPDF(c.Request.Context(), id, query.TemplateID)
	if err != nil {
		h.logger.Errorw("failed to render invoice pdf", "error", err, "invoice_id", id)
		c.Error(err)
		return
	}

	writeOutcomeHeaders(c, res.Outcome)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	c.Data(http.StatusOK, res.ContentType, res.Data)
}

// GetInvoicePreview godoc
// @Summary Preview an invoice
// @Description HTML preview of a stored invoice, or JSON with format=json
// @Tags Invoices
// @Param id path string true "Invoice ID"
// @Param template_id query string false "Template ID"
// @Param scale query number false "Scale factor"
// @Param format query string false "html or json"
// @Success 200 {object} dto.PreviewResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /invoices/{id}/preview [get]
func (h *InvoiceHandler) GetInvoicePreview(c *gin.Context) {
	query, ok := bindRenderQuery(c)
	if !ok {
		return
	}

	res, err := h.invoiceService.RenderPreview(c.Request.Context(), c.Param("id"), query.TemplateID, query.Scale)
	if err != nil {
		c.Error(err)
		return
	}

	writeOutcomeHeaders(c, res.Outcome)
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, toPreviewResponse(res))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(res.Preview.HTML))
}

// PreviewForm godoc
// @Summary Preview an unsaved invoice
// @Description Render the form state with the caller's profile; nothing is stored
// @Tags Invoices
// @Accept json
// @Produce json
// @Param preview body dto.PreviewFormRequest true "Form state"
// @Success 200 {object} dto.PreviewResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /previews [post]
func (h *InvoiceHandler) PreviewForm(c *gin.Context) {
	var req dto.PreviewFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("Invalid request format").Mark(ierr.ErrValidation))
		return
	}
	if err := validator.ValidateRequest(req); err != nil {
		c.Error(err)
		return
	}

	res, err := h.invoiceService.PreviewForm(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	writeOutcomeHeaders(c, res.Outcome)
	c.JSON(http.StatusOK, toPreviewResponse(res))
}

func bindRenderQuery(c *gin.Context) (dto.RenderQuery, bool) {
	var query dto.RenderQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid render parameters").
			Mark(ierr.ErrValidation))
		return query, false
	}
	if err := validator.ValidateRequest(query); err != nil {
		c.Error(err)
		return query, false
	}
	return query, true
}

func writeOutcomeHeaders(c *gin.Context, out render.Outcome) {
	c.Header(HeaderTemplateID, out.TemplateID)
	if len(out.Degraded) > 0 {
		assets := lo.Map(out.Degraded, func(d render.Degradation, _ int) string {
			return d.Asset
		})
		c.Header(HeaderDegraded, strings.Join(lo.Uniq(assets), ","))
	}
}

func toPreviewResponse(res *render.PreviewResult) *dto.PreviewResponse {
	return &dto.PreviewResponse{
		Outcome: res.Outcome,
		HTML:    res.Preview.HTML,
		Pages:   len(res.Preview.Pages),
	}
}
