package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/flexprice/invoicer/internal/branding"
	"github.com/flexprice/invoicer/internal/config"
	"github.com/flexprice/invoicer/internal/domain/document"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/layout"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/pdf"
	"github.com/flexprice/invoicer/internal/preview"
	"github.com/flexprice/invoicer/internal/sentry"
	"github.com/flexprice/invoicer/internal/template"
	"github.com/flexprice/invoicer/internal/testutil"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, gen pdf.Generator, opts Options) *Service {
	reg, err := template.NewDefaultRegistry()
	require.NoError(t, err)

	log := logger.NewNoopLogger()
	cfg := config.GetDefaultConfig()
	return NewService(reg, gen, preview.NewRenderer(log), sentry.NewSentryService(cfg, log), log, opts).
		WithClock(func() time.Time { return fixedNow })
}

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	service *Service
}

func TestService(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.service = newTestService(s.T(), pdf.NewFpdfGenerator(false, logger.NewNoopLogger()), Options{})
}

func (s *ServiceSuite) TestRenderPDF() {
	res, err := s.service.RenderPDF(s.ctx, Request{Document: testutil.Document()})
	s.Require().NoError(err)

	s.Equal(StateRendering, res.State)
	s.Equal(template.IDProfessional, res.TemplateID)
	s.False(res.TemplateFallback)
	s.Empty(res.Degraded)
	s.Empty(res.Warnings)
	s.Equal(pdf.ContentType, res.ContentType)
	s.Equal("invoice-INV-2024-0007-Globex-Corporation-2024-03-09.pdf", res.Filename)
	s.Equal(1, res.Pages)
	s.True(strings.HasPrefix(string(res.Data), "%PDF"))
	s.Contains(testutil.PDFText(res.Data), "$1,650.00")
}

func (s *ServiceSuite) TestRenderPreview() {
	res, err := s.service.RenderPreview(s.ctx, Request{Document: testutil.Document(), TemplateID: template.IDModern}, 0.5)
	s.Require().NoError(err)

	s.Equal(template.IDModern, res.TemplateID)
	s.Equal(0.5, res.Preview.Scale)
	s.Equal("$1,650.00", res.Preview.GrandTotal())
	s.Contains(res.Preview.HTML, "Globex Corporation")
}

func (s *ServiceSuite) TestValidationCollectsEveryViolation() {
	doc := &document.InvoiceDocument{
		Items: []document.LineItem{
			{Description: " ", Quantity: 0, UnitPrice: decimal.NewFromInt(-1)},
			{Description: "ok", Quantity: 1, UnitPrice: decimal.NewFromInt(1)},
		},
	}

	_, err := s.service.RenderPDF(s.ctx, Request{Document: doc})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	ve, ok := AsValidationError(err)
	s.Require().True(ok)
	fields := make([]string, 0, len(ve.Violations))
	for _, v := range ve.Violations {
		fields = append(fields, v.Field)
	}
	s.Equal([]string{
		"business.name",
		"client.name",
		"meta.number",
		"meta.issued_date",
		"meta.currency",
		"totals.grand_total",
		"items[0].description",
		"items[0].quantity",
		"items[0].unit_price",
	}, fields)
	s.Len(ve.Messages(), 9)
}

func (s *ServiceSuite) TestPreviewRejectsTheSameDocument() {
	doc := testutil.Document()
	doc.Items = nil

	_, err := s.service.RenderPreview(s.ctx, Request{Document: doc}, 1)
	ve, ok := AsValidationError(err)
	s.Require().True(ok)
	s.Equal([]Violation{{Field: "items", Message: "At least one line item is required"}}, ve.Violations)
}

func (s *ServiceSuite) TestNilDocument() {
	_, err := s.service.RenderPDF(s.ctx, Request{})
	s.True(ierr.IsValidation(err))
}

func (s *ServiceSuite) TestUnknownTemplateFallsBack() {
	res, err := s.service.RenderPDF(s.ctx, Request{Document: testutil.Document(), TemplateID: "neon"})
	s.Require().NoError(err)
	s.True(res.TemplateFallback)
	s.Equal(template.IDProfessional, res.TemplateID)
}

func (s *ServiceSuite) TestUnknownTemplateStrict() {
	svc := newTestService(s.T(), pdf.NewFpdfGenerator(false, logger.NewNoopLogger()), Options{StrictTemplates: true})

	_, err := svc.RenderPDF(s.ctx, Request{Document: testutil.Document(), TemplateID: "neon"})
	s.Require().Error(err)
	s.True(template.IsNotFound(err))
	s.True(ierr.IsNotFound(err))
}

func (s *ServiceSuite) TestConfiguredDefaultTemplate() {
	svc := newTestService(s.T(), pdf.NewFpdfGenerator(false, logger.NewNoopLogger()), Options{DefaultTemplate: template.IDMinimal})

	res, err := svc.RenderPreview(s.ctx, Request{Document: testutil.Document(), TemplateID: "neon"}, 1)
	s.Require().NoError(err)
	s.Equal(template.IDMinimal, res.TemplateID)
}

func (s *ServiceSuite) TestBrandingTemplatePreference() {
	b := &branding.Branding{PrimaryColor: "#112233", TemplateID: template.IDCreative}

	res, err := s.service.RenderPreview(s.ctx, Request{Document: testutil.Document(), Branding: b}, 1)
	s.Require().NoError(err)
	s.Equal(template.IDCreative, res.TemplateID)
	s.Equal("#112233", res.Layout.Colors.Primary)

	// an explicit template wins over the preference
	res, err = s.service.RenderPreview(s.ctx, Request{Document: testutil.Document(), Branding: b, TemplateID: template.IDLedger}, 1)
	s.Require().NoError(err)
	s.Equal(template.IDLedger, res.TemplateID)
}

func (s *ServiceSuite) TestInvalidBrandingDegrades() {
	b := &branding.Branding{PrimaryColor: "blue"}

	res, err := s.service.RenderPDF(s.ctx, Request{Document: testutil.Document(), Branding: b})
	s.Require().NoError(err)
	s.Require().Len(res.Degraded, 1)
	s.Equal("branding", res.Degraded[0].Asset)
	s.NotEqual("blue", res.Layout.Colors.Primary)
}

func (s *ServiceSuite) TestInvalidMergedTemplateDegrades() {
	base, err := s.service.registry.Get(template.IDProfessional)
	s.Require().NoError(err)

	tests := map[string]branding.Customizations{
		"unknown page format": {Layout: &branding.LayoutOverride{Format: lo.ToPtr(types.PageFormat("Tabloid"))}},
		"named color":         {Colors: &branding.ColorsOverride{Accent: lo.ToPtr("red")}},
		"centered totals": {Styles: &branding.StylesOverride{
			Totals: &branding.TotalsOverride{Alignment: lo.ToPtr(types.TextAlignCenter)},
		}},
		"zero body size": {Fonts: &branding.FontsOverride{Sizes: &branding.FontSizesOverride{Body: lo.ToPtr(0.0)}}},
	}
	for name, custom := range tests {
		s.Run(name, func() {
			b := &branding.Branding{PrimaryColor: "#112233", TemplateCustomizations: &custom}

			pdfRes, err := s.service.RenderPDF(s.ctx, Request{Document: testutil.Document(), Branding: b})
			s.Require().NoError(err)
			s.Require().Len(pdfRes.Degraded, 1)
			s.Equal("branding", pdfRes.Degraded[0].Asset)
			s.Equal(base.Layout.Format, pdfRes.Layout.Page.Format)
			s.Equal(base.Colors, pdfRes.Layout.Colors)

			previewRes, err := s.service.RenderPreview(s.ctx, Request{Document: testutil.Document(), Branding: b}, 1)
			s.Require().NoError(err)
			s.Equal(pdfRes.Degraded, previewRes.Degraded)
			s.NotContains(previewRes.Preview.HTML, ": red")
		})
	}
}

func (s *ServiceSuite) TestLogoFailureDegrades() {
	res, err := s.service.RenderPDF(s.ctx, Request{
		Document: testutil.Document(),
		LogoErr:  errors.New("logo fetch timed out"),
	})
	s.Require().NoError(err)
	s.Equal([]Degradation{{Asset: "logo", Reason: "logo fetch timed out"}}, res.Degraded)
	s.Nil(res.Layout.Header.Logo)
	s.Contains(testutil.PDFText(res.Data), "$1,650.00")
}

func (s *ServiceSuite) TestCorruptLogoDegrades() {
	logo := &layout.Image{Data: []byte("garbage"), Format: "png", Width: 10, Height: 10}

	res, err := s.service.RenderPDF(s.ctx, Request{Document: testutil.Document(), Logo: logo})
	s.Require().NoError(err)
	s.Require().Len(res.Degraded, 1)
	s.Equal("logo", res.Degraded[0].Asset)
}

func (s *ServiceSuite) TestReconcileWarnings() {
	doc := testutil.Document()
	doc.Totals.GrandTotal = decimal.NewNullDecimal(decimal.RequireFromString("1700.00"))

	res, err := s.service.RenderPreview(s.ctx, Request{Document: doc}, 1)
	s.Require().NoError(err)
	s.NotEmpty(res.Warnings)
	// stored totals are still what is shown
	s.Equal("$1,700.00", res.Preview.GrandTotal())
}

func (s *ServiceSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.service.RenderPDF(ctx, Request{Document: testutil.Document()})
	s.ErrorIs(err, context.Canceled)
}

func (s *ServiceSuite) TestGeneratorFailure() {
	gen := testutil.NewMockPDFGenerator()
	gen.On("Render", mock.Anything, mock.Anything).Return(nil, errors.New("font asset corrupt"))
	svc := newTestService(s.T(), gen, Options{})

	_, err := svc.RenderPDF(s.ctx, Request{Document: testutil.Document()})
	s.Require().Error(err)
	s.True(ierr.IsRenderFailure(err))
	gen.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestGeneratorSkippedAssets() {
	gen := testutil.NewMockPDFGenerator()
	gen.On("Render", mock.Anything, mock.Anything).Return(&pdf.Result{
		Data:    []byte("%PDF"),
		Pages:   1,
		Skipped: []pdf.SkippedAsset{{Asset: "logo", Reason: "unsupported format"}},
	}, nil)
	svc := newTestService(s.T(), gen, Options{})

	res, err := svc.RenderPDF(s.ctx, Request{Document: testutil.Document()})
	s.Require().NoError(err)
	s.Equal([]Degradation{{Asset: "logo", Reason: "unsupported format"}}, res.Degraded)
}

func TestMachine(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.to(StateValidating))
	require.NoError(t, m.to(StateRejected))
	assert.Error(t, m.to(StateRendering))

	m = newMachine()
	assert.Error(t, m.to(StateRendering))
	require.NoError(t, m.to(StateValidating))
	require.NoError(t, m.to(StateRendering))
	assert.Equal(t, StateRendering, m.state)
}

func TestFilename(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		number string
		client string
		want   string
	}{
		{"plain", "INV-2024-0007", "Globex", "invoice-INV-2024-0007-Globex-2024-01-15.pdf"},
		{"punctuation", "INV/2024#7", "O'Brien & Sons, Ltd.", "invoice-INV-2024-7-O-Brien---Sons--Ltd--2024-01-15.pdf"},
		{"unicode", "INV-1", "Müller", "invoice-INV-1-M-ller-2024-01-15.pdf"},
		{"empty client", "INV-1", "", "invoice-INV-1--2024-01-15.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.number, tt.client, date))
		})
	}
}

func TestFilenameTruncatesClientFirst(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	name := Filename("INV-2024-0007", strings.Repeat("Globex ", 30), date)
	assert.Less(t, len(name), MaxFilenameLength)
	assert.Equal(t, MaxFilenameLength-1, len(name))
	assert.True(t, strings.HasPrefix(name, "invoice-INV-2024-0007-Globex-"))
	assert.True(t, strings.HasSuffix(name, "-2024-01-15.pdf"))

	// a huge number only loses characters once the client is gone
	name = Filename(strings.Repeat("9", 120), "Globex", date)
	assert.Less(t, len(name), MaxFilenameLength)
	assert.Contains(t, name, "--2024-01-15.pdf")
}
