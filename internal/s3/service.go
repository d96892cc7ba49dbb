package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cockroachdb/errors"

	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	internalTypes "github.com/flexprice/invoicer/internal/types"
)

// Service is the blob storage used for business logos
type Service interface {
	// Upload stores file under the owner's prefix and returns its public URL
	Upload(ctx context.Context, ownerID string, file *File) (string, error)
	// Delete removes the object behind a public URL
	Delete(ctx context.Context, publicURL string) error
	// Get downloads the object behind a public URL
	Get(ctx context.Context, publicURL string) ([]byte, error)
	PublicURL(key string) string
	// Owns reports whether publicURL points into this bucket
	Owns(publicURL string) bool
}

// ObjectAPI is the subset of the S3 client the service uses
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3ServiceImpl struct {
	client ObjectAPI
	config *config.S3Config
	logger *logger.Logger
}

// NewService returns nil when blob storage is disabled
func NewService(config *config.Configuration, logger *logger.Logger) (Service, error) {
	if !config.S3.Enabled {
		return nil, nil
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(config.S3.Region),
	)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	return NewServiceWithClient(&config.S3, s3.NewFromConfig(awsCfg), logger), nil
}

// NewServiceWithClient builds the service over any ObjectAPI
func NewServiceWithClient(cfg *config.S3Config, client ObjectAPI, logger *logger.Logger) Service {
	return &s3ServiceImpl{client: client, config: cfg, logger: logger}
}

func (s *s3ServiceImpl) baseURL() string {
	if s.config.PublicBaseURL != "" {
		return strings.TrimRight(s.config.PublicBaseURL, "/")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.config.Bucket, s.config.Region)
}

func (s *s3ServiceImpl) objectKey(ownerID, ext string) string {
	name := fmt.Sprintf("%s/%s.%s", ownerID, internalTypes.GenerateUUIDWithPrefix(internalTypes.UUID_PREFIX_LOGO), ext)
	if s.config.KeyPrefix != "" {
		return s.config.KeyPrefix + "/" + name
	}
	return name
}

// PublicURL implements Service
func (s *s3ServiceImpl) PublicURL(key string) string {
	return s.baseURL() + "/" + (&url.URL{Path: key}).EscapedPath()
}

// Owns implements Service
func (s *s3ServiceImpl) Owns(publicURL string) bool {
	_, err := s.keyFromURL(publicURL)
	return err == nil
}

func (s *s3ServiceImpl) keyFromURL(publicURL string) (string, error) {
	prefix := s.baseURL() + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", ierr.NewErrorf("url %s is not in bucket %s", publicURL, s.config.Bucket).
			WithHint("The file is not stored by this service").
			Mark(ierr.ErrValidation)
	}
	key, err := url.PathUnescape(strings.TrimPrefix(publicURL, prefix))
	if err != nil || key == "" {
		return "", ierr.NewErrorf("url %s has no object key", publicURL).
			WithHint("The file is not stored by this service").
			Mark(ierr.ErrValidation)
	}
	return key, nil
}

// Upload implements Service
func (s *s3ServiceImpl) Upload(ctx context.Context, ownerID string, file *File) (string, error) {
	key := s.objectKey(ownerID, file.Extension())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.config.Bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(file.Data),
		ContentType:  aws.String(file.ContentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to upload file").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}

	s.logger.Infow("uploaded file", "owner_id", ownerID, "key", key, "size", len(file.Data))
	return s.PublicURL(key), nil
}

// Delete implements Service
func (s *s3ServiceImpl) Delete(ctx context.Context, publicURL string) error {
	key, err := s.keyFromURL(publicURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ierr.WithError(err).WithHint("failed to delete file").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}

// Get implements Service
func (s *s3ServiceImpl) Get(ctx context.Context, publicURL string) ([]byte, error) {
	key, err := s.keyFromURL(publicURL)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ierr.WithError(err).WithHint("file not found").
				WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).WithHint("failed to get file").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}
	defer result.Body.Close()

	return io.ReadAll(result.Body)
}
