package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/flexprice/invoicer/internal/api/dto"
	"github.com/flexprice/invoicer/internal/auth"
	"github.com/flexprice/invoicer/internal/domain/profile"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/s3"
	"github.com/flexprice/invoicer/internal/types"
)

type ProfileService interface {
	GetProfile(ctx context.Context) (*dto.ProfileResponse, error)
	UpsertProfile(ctx context.Context, req dto.UpsertProfileRequest) (*dto.ProfileResponse, error)
	// UploadLogo stores file in blob storage and points the profile at it
	UploadLogo(ctx context.Context, file *s3.File) (*dto.ProfileResponse, error)
	RemoveLogo(ctx context.Context) (*dto.ProfileResponse, error)
}

type profileService struct {
	ServiceParams
}

func NewProfileService(params ServiceParams) ProfileService {
	return &profileService{
		ServiceParams: params,
	}
}

func (s *profileService) GetProfile(ctx context.Context) (*dto.ProfileResponse, error) {
	ownerID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.ProfileRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{Profile: p}, nil
}

func (s *profileService) UpsertProfile(ctx context.Context, req dto.UpsertProfileRequest) (*dto.ProfileResponse, error) {
	ownerID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if id := lo.FromPtr(req.PreferredTemplateID); id != "" && !s.Templates.Has(id) {
		return nil, ierr.NewErrorf("unknown template %q", id).
			WithHint("Preferred template does not exist").
			WithReportableDetails(map[string]any{
				"template_id": id,
			}).
			Mark(ierr.ErrValidation)
	}

	p, err := s.loadOrNew(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if err := s.ProfileRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{Profile: p}, nil
}

func (s *profileService) UploadLogo(ctx context.Context, file *s3.File) (*dto.ProfileResponse, error) {
	ownerID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if s.S3 == nil {
		return nil, ierr.NewError("blob storage is disabled").
			WithHint("Logo uploads are not available").
			Mark(ierr.ErrInvalidOperation)
	}
	if err := s3.ValidateImage(file, s.Config.S3.MaxUploadBytes); err != nil {
		return nil, err
	}

	p, err := s.loadOrNew(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	url, err := s.S3.Upload(ctx, ownerID, file)
	if err != nil {
		return nil, err
	}

	previous := lo.FromPtr(p.LogoURL)
	p.LogoURL = lo.ToPtr(url)
	if err := s.ProfileRepo.Upsert(ctx, p); err != nil {
		// the new object is orphaned otherwise
		s.deleteObject(ctx, url)
		return nil, err
	}

	s.discard(ctx, previous)
	s.Logger.Infow("uploaded logo",
		"owner_id", ownerID,
		"url", url,
		"bytes", len(file.Data))
	return &dto.ProfileResponse{Profile: p}, nil
}

func (s *profileService) RemoveLogo(ctx context.Context) (*dto.ProfileResponse, error) {
	ownerID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.ProfileRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	previous := lo.FromPtr(p.LogoURL)
	if previous == "" {
		return &dto.ProfileResponse{Profile: p}, nil
	}

	p.LogoURL = nil
	if err := s.ProfileRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	s.discard(ctx, previous)
	return &dto.ProfileResponse{Profile: p}, nil
}

func (s *profileService) loadOrNew(ctx context.Context, ownerID string) (*profile.Profile, error) {
	p, err := s.ProfileRepo.Get(ctx, ownerID)
	if err == nil {
		return p, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}
	return &profile.Profile{
		ID:      types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROFILE),
		OwnerID: ownerID,
	}, nil
}

// discard forgets a replaced logo and deletes it when we stored it
func (s *profileService) discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if s.Logos != nil {
		s.Logos.Forget(ctx, url)
	}
	if s.S3 != nil && s.S3.Owns(url) {
		s.deleteObject(ctx, url)
	}
}

func (s *profileService) deleteObject(ctx context.Context, url string) {
	if err := s.S3.Delete(ctx, url); err != nil {
		s.Logger.Warnw("failed to delete logo object", "url", url, "error", err)
	}
}
