package logo

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/s3"
	"github.com/flexprice/invoicer/internal/testutil"
)

type ResolverSuite struct {
	suite.Suite
	ctx      context.Context
	http     *testutil.MockHTTPClient
	resolver Resolver
}

func TestResolver(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctx = context.Background()
	s.http = testutil.NewMockHTTPClient()
	cfg := config.GetDefaultConfig()
	cfg.Logo.AllowedHosts = []string{"cdn.test", ".assets.test", "10.0.0.5"}
	log := logger.NewNoopLogger()
	s.resolver = NewResolver(cfg, s.http, nil, cache.NewInMemoryCache(cfg, log), log)
}

func (s *ResolverSuite) TestResolvePNG() {
	s.http.RegisterImageResponse("/logo.png", "image/png", testutil.PNG(120, 40))

	img, err := s.resolver.Resolve(s.ctx, "https://cdn.test/logo.png")
	s.Require().NoError(err)
	s.Equal("png", img.Format)
	s.Equal(120, img.Width)
	s.Equal(40, img.Height)
}

func (s *ResolverSuite) TestResolveIsCached() {
	s.http.RegisterImageResponse("/logo.png", "image/png", testutil.PNG(10, 10))

	for i := 0; i < 3; i++ {
		_, err := s.resolver.Resolve(s.ctx, "https://cdn.test/logo.png")
		s.Require().NoError(err)
	}
	s.Equal(1, s.http.Calls("/logo.png"))

	s.resolver.Forget(s.ctx, "https://cdn.test/logo.png")
	_, err := s.resolver.Resolve(s.ctx, "https://cdn.test/logo.png")
	s.Require().NoError(err)
	s.Equal(2, s.http.Calls("/logo.png"))
}

func (s *ResolverSuite) TestEmptyURL() {
	img, err := s.resolver.Resolve(s.ctx, "")
	s.NoError(err)
	s.Nil(img)
}

func (s *ResolverSuite) TestUnreachable() {
	s.http.RegisterResponse("/gone.png", testutil.MockResponse{StatusCode: http.StatusNotFound})

	_, err := s.resolver.Resolve(s.ctx, "https://cdn.test/gone.png")
	s.Require().Error(err)
	s.True(ierr.IsHTTPClient(err))
}

func (s *ResolverSuite) TestNotAnImage() {
	s.http.RegisterImageResponse("/logo.svg", "image/svg+xml", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))

	_, err := s.resolver.Resolve(s.ctx, "https://cdn.test/logo.svg")
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ResolverSuite) TestCorruptPNG() {
	data := testutil.PNG(10, 10)[:30]
	s.http.RegisterImageResponse("/broken.png", "image/png", data)

	_, err := s.resolver.Resolve(s.ctx, "https://cdn.test/broken.png")
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ResolverSuite) TestTooLarge() {
	_, err := Decode(testutil.PNG(10, 10), 16)
	s.True(ierr.IsValidation(err))
}

func (s *ResolverSuite) TestStoredLogoSkipsHTTP() {
	cfg := config.GetDefaultConfig()
	cfg.S3.Bucket = "logos"
	cfg.S3.Region = "eu-west-1"
	log := logger.NewNoopLogger()
	blob := s3.NewServiceWithClient(&cfg.S3, testutil.NewInMemoryObjectStore(), log)

	url, err := blob.Upload(s.ctx, testutil.FixtureOwnerID, &s3.File{
		Name:        "logo.png",
		ContentType: "image/png",
		Data:        testutil.PNG(20, 10),
	})
	s.Require().NoError(err)

	resolver := NewResolver(cfg, s.http, blob, cache.NewInMemoryCache(cfg, log), log)
	img, err := resolver.Resolve(s.ctx, url)
	s.Require().NoError(err)
	s.Equal(20, img.Width)
	s.Equal(10, img.Height)
	s.Empty(s.http.Calls(url))
}

func (s *ResolverSuite) TestSubdomainOfListedHost() {
	s.http.RegisterImageResponse("/brand.png", "image/png", testutil.PNG(10, 10))

	img, err := s.resolver.Resolve(s.ctx, "https://eu.assets.test/brand.png")
	s.Require().NoError(err)
	s.Equal(10, img.Width)
}

func (s *ResolverSuite) TestRejectsUnlistedOrInternalURLs() {
	urls := []string{
		"http://169.254.169.254/latest/meta-data/logo.png",
		"http://127.0.0.1:8080/logo.png",
		"http://[::1]/logo.png",
		"https://10.0.0.5/logo.png",
		"https://internal.corp/logo.png",
		"https://assets.test.evil.example/logo.png",
		"file:///etc/passwd",
		"gopher://cdn.test/logo.png",
		"cdn.test/logo.png",
	}
	for _, u := range urls {
		s.http.RegisterImageResponse("/logo.png", "image/png", testutil.PNG(10, 10))

		_, err := s.resolver.Resolve(s.ctx, u)
		s.Require().Error(err, u)
		s.True(ierr.IsValidation(err), u)
	}
	s.Zero(s.http.Calls("/logo.png"), "rejected urls are never requested")
}
