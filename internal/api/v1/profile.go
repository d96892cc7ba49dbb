package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flexprice/invoicer/internal/api/dto"
	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/s3"
	"github.com/flexprice/invoicer/internal/service"
)

// LogoFormField is the multipart field carrying the logo
const LogoFormField = "file"

type ProfileHandler struct {
	service service.ProfileService
	config  *config.Configuration
	log     *logger.Logger
}

func NewProfileHandler(service service.ProfileService, config *config.Configuration, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		config:  config,
		log:     log,
	}
}

// @Summary Get the business profile
// @Tags Profile
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	resp, err := h.service.GetProfile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Create or replace the business profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param profile body dto.UpsertProfileRequest true "Profile"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	var req dto.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpsertProfile(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Upload a logo
// @Description Multipart upload of a PNG, JPEG or GIF logo
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Logo"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /profile/logo [post]
func (h *ProfileHandler) UploadLogo(c *gin.Context) {
	header, err := c.FormFile(LogoFormField)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Please choose an image to upload").
			Mark(ierr.ErrValidation))
		return
	}

	limit := h.config.S3.MaxUploadBytes
	if limit <= 0 {
		limit = s3.MaxImageBytes
	}
	if header.Size > limit {
		c.Error(ierr.NewErrorf("upload is %d bytes, limit is %d", header.Size, limit).
			WithHintf("Images must be at most %d MB", limit>>20).
			Mark(ierr.ErrValidation))
		return
	}

	f, err := header.Open()
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Could not read the upload").
			Mark(ierr.ErrValidation))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Could not read the upload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UploadLogo(c.Request.Context(), &s3.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Remove the logo
// @Tags Profile
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Router /profile/logo [delete]
func (h *ProfileHandler) RemoveLogo(c *gin.Context) {
	resp, err := h.service.RemoveLogo(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
