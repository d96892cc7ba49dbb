package s3_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/s3"
	"github.com/flexprice/invoicer/internal/testutil"
)

func TestUploadGetDelete(t *testing.T) {
	ctx := context.Background()
	objects := testutil.NewInMemoryObjectStore()
	svc := s3.NewServiceWithClient(&config.S3Config{
		Bucket:    "logos",
		Region:    "eu-west-1",
		KeyPrefix: "brand",
	}, objects, logger.NewNoopLogger())

	file := &s3.File{Name: "logo.png", Data: testutil.PNG(4, 4)}
	require.NoError(t, s3.ValidateImage(file, 0))
	assert.Equal(t, "image/png", file.ContentType)

	publicURL, err := svc.Upload(ctx, "user_1", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(publicURL, "https://logos.s3.eu-west-1.amazonaws.com/brand/user_1/logo_"))
	assert.True(t, strings.HasSuffix(publicURL, ".png"))
	assert.True(t, svc.Owns(publicURL))

	data, err := svc.Get(ctx, publicURL)
	require.NoError(t, err)
	assert.Equal(t, file.Data, data)

	require.NoError(t, svc.Delete(ctx, publicURL))
	_, err = svc.Get(ctx, publicURL)
	assert.True(t, ierr.IsNotFound(err))
}

func TestPublicBaseURL(t *testing.T) {
	svc := s3.NewServiceWithClient(&config.S3Config{
		Bucket:        "logos",
		PublicBaseURL: "https://cdn.invoicer.test/",
	}, testutil.NewInMemoryObjectStore(), logger.NewNoopLogger())

	assert.Equal(t, "https://cdn.invoicer.test/a/b%20c.png", svc.PublicURL("a/b c.png"))
	assert.True(t, svc.Owns("https://cdn.invoicer.test/a/b%20c.png"))
	assert.False(t, svc.Owns("https://elsewhere.test/a.png"))
	assert.False(t, svc.Owns("https://cdn.invoicer.test/"))

	err := svc.Delete(context.Background(), "https://elsewhere.test/a.png")
	assert.True(t, ierr.IsValidation(err))
}

func TestValidateImage(t *testing.T) {
	assert.True(t, ierr.IsValidation(s3.ValidateImage(nil, 0)))
	assert.True(t, ierr.IsValidation(s3.ValidateImage(&s3.File{}, 0)))

	pdf := &s3.File{Data: []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"), ContentType: "image/png"}
	assert.True(t, ierr.IsValidation(s3.ValidateImage(pdf, 0)))

	big := &s3.File{Data: append(testutil.PNG(4, 4), make([]byte, 64)...)}
	assert.True(t, ierr.IsValidation(s3.ValidateImage(big, 32)))

	ok := &s3.File{Data: testutil.PNG(4, 4), ContentType: "application/octet-stream"}
	require.NoError(t, s3.ValidateImage(ok, 0))
	assert.Equal(t, "image/png", ok.ContentType)
	assert.Equal(t, "png", ok.Extension())
}
