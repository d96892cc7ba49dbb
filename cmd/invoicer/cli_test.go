package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/logo"
	"github.com/flexprice/invoicer/internal/mapper"
	"github.com/flexprice/invoicer/internal/pdf"
	"github.com/flexprice/invoicer/internal/preview"
	"github.com/flexprice/invoicer/internal/render"
	"github.com/flexprice/invoicer/internal/s3"
	"github.com/flexprice/invoicer/internal/sentry"
	"github.com/flexprice/invoicer/internal/template"
	"github.com/flexprice/invoicer/internal/testutil"
)

var testNow = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

const fixtureJSON = `{
  "form": {
    "invoice_number": "%s",
    "description": "Website redesign",
    "quantity": 1,
    "unit_price": "1500.00",
    "tax_rate": "10",
    "currency": "USD",
    "issued_date": "2024-03-01",
    "buyer_name": "Globex Corporation"
  },
  "profile": {"owner_id": "user_fixture", "business_name": "Acme Studio"},
  "template_id": "modern",
  "logo": "%s"
}`

type CLISuite struct {
	suite.Suite
	app     *app
	dir     string
	out     string
	objects *testutil.InMemoryObjectStore
	http    *testutil.MockHTTPClient
}

func TestCLI(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	cfg := config.GetDefaultConfig()
	cfg.S3.Bucket = "logos"
	cfg.S3.Region = "eu-west-1"
	cfg.Logo.AllowedHosts = []string{"cdn.test"}
	log := logger.NewNoopLogger()

	reg, err := template.NewDefaultRegistry()
	s.Require().NoError(err)

	s.objects = testutil.NewInMemoryObjectStore()
	s.http = testutil.NewMockHTTPClient()
	blob := s3.NewServiceWithClient(&cfg.S3, s.objects, log)

	s.app = &app{
		cfg:      cfg,
		log:      log,
		registry: reg,
		mapper:   mapper.NewMapper(log),
		render: render.NewService(
			reg,
			pdf.NewFpdfGenerator(false, log),
			preview.NewRenderer(log),
			sentry.NewSentryService(cfg, log),
			log,
			render.OptionsFromConfig(cfg),
		).WithClock(func() time.Time { return testNow }),
		logos: logo.NewResolver(cfg, s.http, blob, cache.NewInMemoryCache(cfg, log), log),
		blob:  blob,
	}

	s.dir = s.T().TempDir()
	s.out = s.T().TempDir()
}

func (s *CLISuite) writeFixture(name, number, logoPath string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(fmt.Sprintf(fixtureJSON, number, logoPath)), 0o644))
	return path
}

func (s *CLISuite) writePNG() string {
	path := filepath.Join(s.dir, "logo.png")
	s.Require().NoError(os.WriteFile(path, testutil.PNG(8, 4), 0o644))
	return path
}

func (s *CLISuite) opts(format string) renderOptions {
	return renderOptions{format: format, outDir: s.out, scale: 1, workers: 2}
}

func (s *CLISuite) TestRenderPDF() {
	path := s.writeFixture("one.json", "INV-2024-0007", s.writePNG())

	r, err := s.app.renderFile(context.Background(), path, s.opts(formatPDF))
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.out, "invoice-INV-2024-0007-Globex-Corporation-2024-03-09.pdf"), r.Path)
	s.Equal(template.IDModern, r.TemplateID)
	s.Empty(r.Degraded)

	data, err := os.ReadFile(r.Path)
	s.Require().NoError(err)
	s.True(bytes.HasPrefix(data, []byte("%PDF-")))
}

func (s *CLISuite) TestTemplateFlagOverridesFixture() {
	path := s.writeFixture("one.json", "INV-2024-0007", "")
	opts := s.opts(formatPDF)
	opts.templateID = template.IDLedger

	r, err := s.app.renderFile(context.Background(), path, opts)
	s.Require().NoError(err)
	s.Equal(template.IDLedger, r.TemplateID)
}

func (s *CLISuite) TestRenderHTML() {
	path := s.writeFixture("one.json", "INV-2024-0007", "")

	r, err := s.app.renderFile(context.Background(), path, s.opts(formatHTML))
	s.Require().NoError(err)
	s.True(strings.HasSuffix(r.Path, ".html"))

	data, err := os.ReadFile(r.Path)
	s.Require().NoError(err)
	s.Contains(string(data), "$1,650.00")
	s.Contains(string(data), "Acme Studio")
}

func (s *CLISuite) TestMissingLogoDegrades() {
	path := s.writeFixture("one.json", "INV-2024-0007", filepath.Join(s.dir, "missing.png"))

	r, err := s.app.renderFile(context.Background(), path, s.opts(formatPDF))
	s.Require().NoError(err)
	s.Require().Len(r.Degraded, 1)
	s.Equal("logo", r.Degraded[0].Asset)
}

func (s *CLISuite) TestRemoteLogoUsesResolver() {
	s.http.RegisterImageResponse("https://cdn.test/logo.png", "image/png", testutil.PNG(8, 4))
	path := s.writeFixture("one.json", "INV-2024-0007", "https://cdn.test/logo.png")

	r, err := s.app.renderFile(context.Background(), path, s.opts(formatPDF))
	s.Require().NoError(err)
	s.Empty(r.Degraded)
	s.Equal(1, s.http.Calls("https://cdn.test/logo.png"))
}

func (s *CLISuite) TestUnknownFormat() {
	path := s.writeFixture("one.json", "INV-2024-0007", "")

	_, err := s.app.renderFile(context.Background(), path, s.opts("docx"))
	s.True(ierr.IsValidation(err))
}

func (s *CLISuite) TestInvalidFixture() {
	path := filepath.Join(s.dir, "broken.json")
	s.Require().NoError(os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := s.app.renderFile(context.Background(), path, s.opts(formatPDF))
	s.True(ierr.IsValidation(err))

	_, err = s.app.renderFile(context.Background(), filepath.Join(s.dir, "absent.json"), s.opts(formatPDF))
	s.True(ierr.IsNotFound(err))
}

func (s *CLISuite) TestRenderDir() {
	s.writeFixture("a.json", "INV-2024-0001", "")
	s.writeFixture("b.json", "INV-2024-0002", "")
	s.writeFixture("c.json", "INV-2024-0003", "")

	results, err := s.app.renderDir(context.Background(), s.dir, s.opts(formatPDF))
	s.Require().NoError(err)
	s.Len(results, 3)

	written, err := filepath.Glob(filepath.Join(s.out, "*.pdf"))
	s.Require().NoError(err)
	s.Len(written, 3)
}

func (s *CLISuite) TestRenderDirKeepsGoingAfterFailure() {
	s.writeFixture("a.json", "INV-2024-0001", "")
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, "b.json"), []byte("{broken"), 0o644))
	s.writeFixture("c.json", "INV-2024-0003", "")

	results, err := s.app.renderDir(context.Background(), s.dir, s.opts(formatPDF))
	s.Require().Error(err)
	s.Contains(err.Error(), "b.json")
	s.Len(results, 2)
}

func (s *CLISuite) TestRenderEmptyDir() {
	_, err := s.app.renderDir(context.Background(), s.T().TempDir(), s.opts(formatPDF))
	s.True(ierr.IsNotFound(err))
}

func (s *CLISuite) TestUploadLogo() {
	url, err := s.app.uploadLogo(context.Background(), testutil.FixtureOwnerID, s.writePNG())
	s.Require().NoError(err)
	s.Contains(url, "logos")
	s.Equal(1, s.objects.Len())

	s.Require().NoError(s.app.blob.Delete(context.Background(), url))
	s.Equal(0, s.objects.Len())
}

func (s *CLISuite) TestUploadRejectsNonImage() {
	path := filepath.Join(s.dir, "notes.txt")
	s.Require().NoError(os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := s.app.uploadLogo(context.Background(), testutil.FixtureOwnerID, path)
	s.True(ierr.IsValidation(err))
	s.Equal(0, s.objects.Len())
}

func (s *CLISuite) TestUploadWithoutBlobStorage() {
	s.app.blob = nil
	_, err := s.app.uploadLogo(context.Background(), testutil.FixtureOwnerID, s.writePNG())
	s.True(ierr.IsInvalidOperation(err))
}

func TestTemplatesCommands(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"templates", "list", "--category", "professional"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "professional")
	assert.Contains(t, out.String(), "ledger")
	assert.NotContains(t, out.String(), "modern")

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"templates", "show", "ledger", "--json"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"id": "ledger"`)

	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"templates", "show", "nope"})
	assert.True(t, template.IsNotFound(cmd.Execute()))
}
