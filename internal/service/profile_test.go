package service

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/flexprice/invoicer/internal/api/dto"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/s3"
	"github.com/flexprice/invoicer/internal/testutil"
)

type ProfileServiceSuite struct {
	BaseServiceTestSuite
	service ProfileService
}

func TestProfileService(t *testing.T) {
	suite.Run(t, new(ProfileServiceSuite))
}

func (s *ProfileServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewProfileService(s.params)
}

func pngFile() *s3.File {
	return &s3.File{Name: "logo.png", ContentType: "image/png", Data: testutil.PNG(16, 16)}
}

func (s *ProfileServiceSuite) TestGetMissing() {
	_, err := s.service.GetProfile(s.ctx)
	s.True(ierr.IsNotFound(err))
}

func (s *ProfileServiceSuite) TestUpsert() {
	resp, err := s.service.UpsertProfile(s.ctx, dto.UpsertProfileRequest{
		BusinessName:           lo.ToPtr("Acme Studio"),
		BrandPrimaryColor:      lo.ToPtr("#1f3a5f"),
		PreferredTemplateID:    lo.ToPtr("modern"),
		TemplateCustomizations: []byte(`{"styles":{"table":{"show_row_numbers":true}}}`),
	})
	s.Require().NoError(err)
	s.Equal(testutil.FixtureOwnerID, resp.OwnerID)
	s.NotEmpty(resp.ID)
	firstID := resp.ID

	got, err := s.service.GetProfile(s.ctx)
	s.Require().NoError(err)
	s.Equal("Acme Studio", lo.FromPtr(got.BusinessName))
	s.Equal("modern", lo.FromPtr(got.PreferredTemplateID))
	s.NotNil(got.TemplateCustomizations)

	// a second upsert keeps the identity
	resp, err = s.service.UpsertProfile(s.ctx, dto.UpsertProfileRequest{
		BusinessName: lo.ToPtr("Acme Studio GmbH"),
	})
	s.Require().NoError(err)
	s.Equal(firstID, resp.ID)
	s.Nil(resp.TemplateCustomizations)
}

func (s *ProfileServiceSuite) TestUpsertRejects() {
	tests := []struct {
		name  string
		ctx   context.Context
		req   dto.UpsertProfileRequest
		check func(error) bool
	}{
		{
			name:  "unauthenticated",
			ctx:   context.Background(),
			check: ierr.IsUnauthenticated,
		},
		{
			name:  "invalid color",
			req:   dto.UpsertProfileRequest{BrandPrimaryColor: lo.ToPtr("blue")},
			check: ierr.IsValidation,
		},
		{
			name:  "secondary without primary",
			req:   dto.UpsertProfileRequest{BrandSecondaryColor: lo.ToPtr("#ffffff")},
			check: ierr.IsValidation,
		},
		{
			name:  "unknown template",
			req:   dto.UpsertProfileRequest{PreferredTemplateID: lo.ToPtr("baroque")},
			check: ierr.IsValidation,
		},
		{
			name:  "invalid email",
			req:   dto.UpsertProfileRequest{Email: lo.ToPtr("nope")},
			check: ierr.IsValidation,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			ctx := s.ctx
			if tt.ctx != nil {
				ctx = tt.ctx
			}
			_, err := s.service.UpsertProfile(ctx, tt.req)
			s.Require().Error(err)
			s.True(tt.check(err), "unexpected error: %v", err)
		})
	}
}

func (s *ProfileServiceSuite) TestUploadLogoReplacesPrevious() {
	s.Require().NoError(s.stores.profiles.Upsert(s.ctx, testutil.Profile()))

	first, err := s.service.UploadLogo(s.ctx, pngFile())
	s.Require().NoError(err)
	firstURL := lo.FromPtr(first.LogoURL)
	s.True(s.params.S3.Owns(firstURL))
	s.Equal(1, s.objects.Len())
	// the rest of the profile is untouched
	s.Equal("Acme Studio", lo.FromPtr(first.BusinessName))

	second, err := s.service.UploadLogo(s.ctx, pngFile())
	s.Require().NoError(err)
	s.NotEqual(firstURL, lo.FromPtr(second.LogoURL))
	s.Equal(1, s.objects.Len())
}

func (s *ProfileServiceSuite) TestUploadLogoCreatesProfile() {
	resp, err := s.service.UploadLogo(s.ctx, pngFile())
	s.Require().NoError(err)
	s.NotEmpty(resp.ID)
	s.NotNil(resp.LogoURL)
}

func (s *ProfileServiceSuite) TestUploadLogoRejectsNonImage() {
	_, err := s.service.UploadLogo(s.ctx, &s3.File{Name: "notes.txt", Data: []byte("hello")})
	s.True(ierr.IsValidation(err))
	s.Zero(s.objects.Len())
}

func (s *ProfileServiceSuite) TestUploadLogoWithoutStorage() {
	s.params.S3 = nil
	svc := NewProfileService(s.params)

	_, err := svc.UploadLogo(s.ctx, pngFile())
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ProfileServiceSuite) TestRemoveLogo() {
	uploaded, err := s.service.UploadLogo(s.ctx, pngFile())
	s.Require().NoError(err)
	s.NotNil(uploaded.LogoURL)

	resp, err := s.service.RemoveLogo(s.ctx)
	s.Require().NoError(err)
	s.Nil(resp.LogoURL)
	s.Zero(s.objects.Len())

	// removing again is a no-op
	resp, err = s.service.RemoveLogo(s.ctx)
	s.Require().NoError(err)
	s.Nil(resp.LogoURL)
}

func (s *ProfileServiceSuite) TestRemoveExternalLogoKeepsObjects() {
	p := testutil.Profile()
	p.LogoURL = lo.ToPtr(cdnLogo)
	s.Require().NoError(s.stores.profiles.Upsert(s.ctx, p))

	resp, err := s.service.RemoveLogo(s.ctx)
	s.Require().NoError(err)
	s.Nil(resp.LogoURL)
	s.Zero(s.objects.Len())
}
