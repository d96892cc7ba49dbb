package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	v1 "github.com/flexprice/invoicer/internal/api/v1"
	"github.com/flexprice/invoicer/internal/auth"
	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/logo"
	"github.com/flexprice/invoicer/internal/mapper"
	"github.com/flexprice/invoicer/internal/pdf"
	"github.com/flexprice/invoicer/internal/preview"
	"github.com/flexprice/invoicer/internal/pyroscope"
	"github.com/flexprice/invoicer/internal/render"
	"github.com/flexprice/invoicer/internal/s3"
	"github.com/flexprice/invoicer/internal/sentry"
	"github.com/flexprice/invoicer/internal/service"
	"github.com/flexprice/invoicer/internal/template"
	"github.com/flexprice/invoicer/internal/testutil"
	"github.com/flexprice/invoicer/internal/types"
)

type RouterSuite struct {
	suite.Suite
	router  *gin.Engine
	token   string
	objects *testutil.InMemoryObjectStore
	seed    func()
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	cfg := config.GetDefaultConfig()
	cfg.Auth.Secret = "router-test-secret"
	cfg.S3.Bucket = "logos"
	cfg.S3.Region = "eu-west-1"
	log := logger.NewNoopLogger()
	now := func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }

	reg, err := template.NewDefaultRegistry()
	s.Require().NoError(err)

	invoices := testutil.NewInMemoryInvoiceStore()
	clients := testutil.NewInMemoryClientStore()
	profiles := testutil.NewInMemoryProfileStore()
	s.objects = testutil.NewInMemoryObjectStore()
	blob := s3.NewServiceWithClient(&cfg.S3, s.objects, log)

	params := service.ServiceParams{
		Logger:       log,
		Config:       cfg,
		DB:           &testutil.NoopTransactor{},
		InvoiceRepo:  invoices,
		ClientRepo:   clients,
		ProfileRepo:  profiles,
		SequenceRepo: testutil.NewInMemorySequence(),
		Templates:    reg,
		Mapper:       mapper.NewMapper(log).WithClock(now),
		Renderer: render.NewService(reg, pdf.NewFpdfGenerator(false, log), preview.NewRenderer(log),
			sentry.NewSentryService(cfg, log), log, render.OptionsFromConfig(cfg)).WithClock(now),
		Logos: logo.NewResolver(cfg, testutil.NewMockHTTPClient(), blob, cache.NewInMemoryCache(cfg, log), log),
		S3:    blob,
		Now:   now,
	}

	jwtAuth := auth.NewJWTAuth(cfg)
	s.token, err = jwtAuth.IssueToken(testutil.FixtureOwnerID, time.Hour)
	s.Require().NoError(err)

	s.router = NewRouter(Handlers{
		Health:   v1.NewHealthHandler(log),
		Template: v1.NewTemplateHandler(service.NewTemplateService(params), log),
		Invoice:  v1.NewInvoiceHandler(service.NewInvoiceService(params), log),
		Client:   v1.NewClientHandler(service.NewClientService(params), log),
		Profile:  v1.NewProfileHandler(service.NewProfileService(params), cfg, log),
	}, cfg, jwtAuth, cache.NewInMemoryCache(cfg, log), pyroscope.NewPyroscopeService(cfg, log), log)

	s.seed = func() {
		ctx := testutil.SetupContext()
		s.Require().NoError(clients.Create(ctx, testutil.Client()))
		s.Require().NoError(profiles.Upsert(ctx, testutil.Profile()))
		s.Require().NoError(invoices.Create(ctx, testutil.InvoiceRecord()))
	}
}

func (s *RouterSuite) do(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.token != "" {
		req.Header.Set(types.HeaderAuthorization, "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
	s.NotEmpty(w.Header().Get(types.HeaderRequestID))
}

func (s *RouterSuite) TestTemplatesArePublic() {
	s.token = ""
	w := s.do(http.MethodGet, "/v1/templates?category=professional", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		DefaultID string `json:"default_id"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Len(body.Items, 2)
	s.Equal("professional", body.DefaultID)

	w = s.do(http.MethodGet, "/v1/templates/baroque", nil, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestValidateBranding() {
	w := s.do(http.MethodPost, "/v1/branding/validate", []byte(`{"primary_color":"nope"}`), "application/json")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"is_valid":false`)
}

func (s *RouterSuite) TestRequiresToken() {
	s.token = ""
	w := s.do(http.MethodGet, "/v1/invoices", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "Unauthorized")

	s.token = "garbage"
	w = s.do(http.MethodGet, "/v1/invoices", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterSuite) TestCreateAndListInvoices() {
	s.seed()

	w := s.do(http.MethodPost, "/v1/invoices", []byte(`{
		"client_id": "client_fixture",
		"description": "Hosting",
		"quantity": 3,
		"unit_price": "20.00",
		"tax_rate": "0",
		"issued_date": "2024-03-01"
	}`), "application/json")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Contains(w.Body.String(), `"invoice_number":"INV-2024-0001"`)

	w = s.do(http.MethodGet, "/v1/invoices?search=globex", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var list struct {
		Items []json.RawMessage `json:"items"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Len(list.Items, 2)
}

func (s *RouterSuite) TestCreateInvoiceValidation() {
	w := s.do(http.MethodPost, "/v1/invoices", []byte(`{"description":"x","quantity":1,"unit_price":"-1","buyer_name":"A"}`), "application/json")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "Unit price must be zero or more")

	w = s.do(http.MethodPost, "/v1/invoices", []byte(`{`), "application/json")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestInvoicePDF() {
	s.seed()

	w := s.do(http.MethodGet, "/v1/invoices/"+testutil.FixtureInvoiceID+"/pdf?template_id=corporate", nil, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Equal(`attachment; filename="invoice-INV-2024-0007-Globex-Corporation-2024-03-09.pdf"`, w.Header().Get("Content-Disposition"))
	s.Equal("corporate", w.Header().Get(v1.HeaderTemplateID))
	s.True(strings.HasPrefix(w.Body.String(), "%PDF"))
}

func (s *RouterSuite) TestInvoicePreview() {
	s.seed()

	w := s.do(http.MethodGet, "/v1/invoices/"+testutil.FixtureInvoiceID+"/preview", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Type"), "text/html")
	s.Contains(w.Body.String(), "$1,650.00")

	w = s.do(http.MethodGet, "/v1/invoices/"+testutil.FixtureInvoiceID+"/preview?format=json&scale=2", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"template_id":"professional"`)

	w = s.do(http.MethodGet, "/v1/invoices/"+testutil.FixtureInvoiceID+"/preview?scale=9", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/v1/invoices/inv_missing/preview", nil, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestPreviewForm() {
	w := s.do(http.MethodPost, "/v1/previews", []byte(`{
		"form": {
			"description": "Consulting",
			"quantity": 4,
			"unit_price": "100",
			"tax_rate": "0",
			"issued_date": "2024-03-01",
			"buyer_name": "Initech"
		},
		"template_id": "minimal"
	}`), "application/json")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Contains(w.Body.String(), "$400.00")
	s.Equal("minimal", w.Header().Get(v1.HeaderTemplateID))
}

func (s *RouterSuite) TestClientLifecycle() {
	w := s.do(http.MethodPost, "/v1/clients", []byte(`{"name":"Initech"}`), "application/json")
	s.Require().Equal(http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	w = s.do(http.MethodPut, "/v1/clients/"+created.ID, []byte(`{"email":"ap@initech.test"}`), "application/json")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "ap@initech.test")

	w = s.do(http.MethodDelete, "/v1/clients/"+created.ID, nil, "")
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/v1/clients/"+created.ID, nil, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestProfileAndLogo() {
	w := s.do(http.MethodGet, "/v1/profile", nil, "")
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, "/v1/profile", []byte(`{"business_name":"Acme","brand_primary_color":"#123456"}`), "application/json")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(v1.LogoFormField, "logo.png")
	s.Require().NoError(err)
	_, err = part.Write(testutil.PNG(8, 8))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	w = s.do(http.MethodPost, "/v1/profile/logo", buf.Bytes(), mw.FormDataContentType())
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Contains(w.Body.String(), "https://logos.s3.eu-west-1.amazonaws.com/")
	s.Equal(1, s.objects.Len())

	w = s.do(http.MethodDelete, "/v1/profile/logo", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Zero(s.objects.Len())
}

func (s *RouterSuite) TestLogoUploadWithoutFile() {
	w := s.do(http.MethodPost, "/v1/profile/logo", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)
}
