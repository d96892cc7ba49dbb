package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
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

const cdnLogo = "https://cdn.test/logo.png"

// BaseServiceTestSuite wires every service dependency to in-memory fakes
type BaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	params  ServiceParams
	http    *testutil.MockHTTPClient
	objects *testutil.InMemoryObjectStore
	stores  struct {
		invoices *testutil.InMemoryInvoiceStore
		clients  *testutil.InMemoryClientStore
		profiles *testutil.InMemoryProfileStore
		sequence *testutil.InMemorySequence
		tx       *testutil.NoopTransactor
	}
}

func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = testutil.SetupContext()

	cfg := config.GetDefaultConfig()
	cfg.S3.Bucket = "logos"
	cfg.S3.Region = "eu-west-1"
	cfg.Logo.AllowedHosts = []string{"cdn.test"}
	log := logger.NewNoopLogger()

	reg, err := template.NewDefaultRegistry()
	s.Require().NoError(err)

	s.stores.invoices = testutil.NewInMemoryInvoiceStore()
	s.stores.clients = testutil.NewInMemoryClientStore()
	s.stores.profiles = testutil.NewInMemoryProfileStore()
	s.stores.sequence = testutil.NewInMemorySequence()
	s.stores.tx = &testutil.NoopTransactor{}

	s.http = testutil.NewMockHTTPClient()
	s.objects = testutil.NewInMemoryObjectStore()
	blob := s3.NewServiceWithClient(&cfg.S3, s.objects, log)

	renderer := render.NewService(
		reg,
		pdf.NewFpdfGenerator(false, log),
		preview.NewRenderer(log),
		sentry.NewSentryService(cfg, log),
		log,
		render.OptionsFromConfig(cfg),
	).WithClock(func() time.Time { return testNow })

	s.params = ServiceParams{
		Logger:       log,
		Config:       cfg,
		DB:           s.stores.tx,
		InvoiceRepo:  s.stores.invoices,
		ClientRepo:   s.stores.clients,
		ProfileRepo:  s.stores.profiles,
		SequenceRepo: s.stores.sequence,
		Templates:    reg,
		Mapper:       mapper.NewMapper(log).WithClock(func() time.Time { return testNow }),
		Renderer:     renderer,
		Logos:        logo.NewResolver(cfg, s.http, blob, cache.NewInMemoryCache(cfg, log), log),
		S3:           blob,
		Now:          func() time.Time { return testNow },
	}
}

// seedFixture stores the fixture invoice with its profile and client
func (s *BaseServiceTestSuite) seedFixture() {
	s.Require().NoError(s.stores.clients.Create(s.ctx, testutil.Client()))
	s.Require().NoError(s.stores.profiles.Upsert(s.ctx, testutil.Profile()))
	s.Require().NoError(s.stores.invoices.Create(s.ctx, testutil.InvoiceRecord()))
}

// asOther returns a context for a different signed in user
func (s *BaseServiceTestSuite) asOther() context.Context {
	return testutil.ContextFor("user_other")
}
