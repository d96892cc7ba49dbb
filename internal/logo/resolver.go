// Package logo turns a logo URL into image bytes the renderers can embed.
// Every failure is returned as an error; callers render without the logo.
package logo

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/h2non/filetype"

	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/httpclient"
	"github.com/flexprice/invoicer/internal/layout"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/s3"
)

// formats maps sniffed MIME types to the layout image format
var formats = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
}

type Resolver interface {
	// Resolve fetches and decodes url. An empty url resolves to nil.
	Resolve(ctx context.Context, url string) (*layout.Image, error)
	// Forget drops a cached logo, used after a logo is replaced
	Forget(ctx context.Context, url string)
}

type resolver struct {
	http   httpclient.Client
	blob   s3.Service
	cache  cache.Cache
	cfg    config.LogoConfig
	logger *logger.Logger
}

// NewResolver builds a resolver. blob may be nil when storage is disabled,
// in which case every URL is fetched over HTTP.
func NewResolver(cfg *config.Configuration, client httpclient.Client, blob s3.Service, c cache.Cache, logger *logger.Logger) Resolver {
	return &resolver{
		http:   client,
		blob:   blob,
		cache:  c,
		cfg:    cfg.Logo,
		logger: logger,
	}
}

// NewHTTPClient is the client logos are fetched with. Logo URLs come from
// callers, so it never connects to internal addresses.
func NewHTTPClient(cfg *config.Configuration, logger *logger.Logger) httpclient.Client {
	return httpclient.NewRetryableClient(httpclient.ClientConfig{
		Timeout:      cfg.Logo.Timeout,
		RetryMax:     cfg.Logo.RetryMax,
		MaxBodyBytes: cfg.Logo.MaxBytes,
		PublicOnly:   true,
	}, logger)
}

func (r *resolver) Resolve(ctx context.Context, url string) (*layout.Image, error) {
	if url == "" {
		return nil, nil
	}

	key := cache.GenerateKey(cache.PrefixLogo, url)
	if cached, ok := r.cache.Get(ctx, key); ok {
		if img, ok := cached.(*layout.Image); ok {
			return img, nil
		}
	}

	data, err := r.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	img, err := Decode(data, r.cfg.MaxBytes)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, img, r.cfg.CacheTTL)
	r.logger.Debugw("resolved logo",
		"url", url,
		"format", img.Format,
		"width", img.Width,
		"height", img.Height)
	return img, nil
}

func (r *resolver) Forget(ctx context.Context, url string) {
	r.cache.Delete(ctx, cache.GenerateKey(cache.PrefixLogo, url))
}

func (r *resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	if r.blob != nil && r.blob.Owns(url) {
		return r.blob.Get(ctx, url)
	}
	if err := r.allowed(url); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := r.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     url,
		Headers: map[string]string{"Accept": "image/png, image/jpeg, image/gif"},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The logo could not be downloaded").
			WithReportableDetails(map[string]any{
				"url":        url,
				"elapsed_ms": time.Since(start).Milliseconds(),
			}).
			Mark(ierr.ErrHTTPClient)
	}
	return resp.Body, nil
}

// allowed checks that a URL outside storage points at a listed public host
func (r *resolver) allowed(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Hostname() == "" {
		return ierr.NewErrorf("logo url %q is not an http(s) url", raw).
			WithHint("The logo URL must be an http or https address").
			Mark(ierr.ErrValidation)
	}

	host := strings.ToLower(u.Hostname())
	if addr, err := netip.ParseAddr(host); err == nil && !httpclient.IsPublicAddr(addr) {
		return ierr.NewErrorf("logo host %s is not a public address", host).
			WithHint("The logo URL must point at a public host").
			Mark(ierr.ErrValidation)
	}
	if !hostListed(host, r.cfg.AllowedHosts) {
		return ierr.NewErrorf("logo host %s is not allowed", host).
			WithHint("Upload the logo or host it on an allowed domain").
			WithReportableDetails(map[string]any{"host": host}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func hostListed(host string, allowed []string) bool {
	for _, a := range allowed {
		a = strings.ToLower(a)
		if host == a || (strings.HasPrefix(a, ".") && strings.HasSuffix(host, a)) {
			return true
		}
	}
	return false
}

// Decode sniffs and measures an embeddable image
func Decode(data []byte, maxBytes int64) (*layout.Image, error) {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ierr.NewErrorf("logo is %d bytes, limit is %d", len(data), maxBytes).
			WithHint("The logo is too large").
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(data)
	format, ok := formats[kind.MIME.Value]
	if err != nil || !ok {
		return nil, ierr.NewErrorf("unsupported logo type %q", kind.MIME.Value).
			WithHint("Logos must be PNG, JPEG or GIF images").
			Mark(ierr.ErrValidation)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The logo image is corrupt").
			Mark(ierr.ErrValidation)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, ierr.NewError("logo has no pixels").
			WithHint("The logo image is empty").
			Mark(ierr.ErrValidation)
	}

	return &layout.Image{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
