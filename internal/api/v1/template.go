package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flexprice/invoicer/internal/api/dto"
	"github.com/flexprice/invoicer/internal/branding"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/service"
)

type TemplateHandler struct {
	service service.TemplateService
	log     *logger.Logger
}

func NewTemplateHandler(service service.TemplateService, log *logger.Logger) *TemplateHandler {
	return &TemplateHandler{
		service: service,
		log:     log,
	}
}

// @Summary List templates
// @Description List the template catalog, optionally by category
// @Tags Templates
// @Produce json
// @Param category query string false "Category"
// @Success 200 {object} dto.ListTemplatesResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	var query dto.ListTemplatesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListTemplates(c.Request.Context(), query)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a template
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	resp, err := h.service.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Validate a branding
// @Description Check colors and customizations and return the effective template
// @Tags Templates
// @Accept json
// @Produce json
// @Param branding body branding.Branding true "Branding"
// @Success 200 {object} dto.ValidateBrandingResponse
// @Router /branding/validate [post]
func (h *TemplateHandler) ValidateBranding(c *gin.Context) {
	var req branding.Branding
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ValidateBranding(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
