package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/flexprice/invoicer/internal/api/dto"
	"github.com/flexprice/invoicer/internal/branding"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/types"
)

type TemplateServiceSuite struct {
	BaseServiceTestSuite
	service TemplateService
}

func TestTemplateService(t *testing.T) {
	suite.Run(t, new(TemplateServiceSuite))
}

func (s *TemplateServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTemplateService(s.params)
}

func (s *TemplateServiceSuite) TestList() {
	all, err := s.service.ListTemplates(s.ctx, dto.ListTemplatesQuery{})
	s.Require().NoError(err)
	s.Len(all.Items, 6)
	s.Equal("professional", all.DefaultID)

	pro, err := s.service.ListTemplates(s.ctx, dto.ListTemplatesQuery{Category: types.TemplateCategoryProfessional})
	s.Require().NoError(err)
	s.Len(pro.Items, 2)

	_, err = s.service.ListTemplates(s.ctx, dto.ListTemplatesQuery{Category: "baroque"})
	s.True(ierr.IsValidation(err))
}

func (s *TemplateServiceSuite) TestGet() {
	got, err := s.service.GetTemplate(s.ctx, "ledger")
	s.Require().NoError(err)
	s.Equal(types.OrientationLandscape, got.Layout.Orientation)

	_, err = s.service.GetTemplate(s.ctx, "baroque")
	s.True(ierr.IsNotFound(err))
}

func (s *TemplateServiceSuite) TestValidateBranding() {
	resp, err := s.service.ValidateBranding(s.ctx, branding.Branding{PrimaryColor: "#ff0000", TemplateID: "modern"})
	s.Require().NoError(err)
	s.True(resp.IsValid)
	s.Require().NotNil(resp.Effective)
	s.Equal("modern", resp.Effective.ID)
	s.Equal("#ff0000", resp.Effective.Colors.Primary)

	resp, err = s.service.ValidateBranding(s.ctx, branding.Branding{PrimaryColor: "red"})
	s.Require().NoError(err)
	s.False(resp.IsValid)
	s.NotEmpty(resp.Errors)
	s.Nil(resp.Effective)

	_, err = s.service.ValidateBranding(s.ctx, branding.Branding{PrimaryColor: "#fff", TemplateID: "baroque"})
	s.True(ierr.IsNotFound(err))
}
