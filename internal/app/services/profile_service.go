package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/filestorage"
	"github.com/yigit/campusconnect/internal/pkg/metrics"
	"github.com/yigit/campusconnect/internal/pkg/validation"
)

// MaxProfileTags caps skills and interests on a profile.
const MaxProfileTags = 20

// ProfileService manages user profiles and their pictures
type ProfileService struct {
	profiles ProfileStore
	users    UserStore
	uploader FileUploader
	logger   zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles ProfileStore, users UserStore, uploader FileUploader, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		uploader: uploader,
		logger:   logger,
	}
}

// GetMine returns the caller's profile, creating an empty one from the account email if missing
func (s *ProfileService) GetMine(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.Ensure(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return dto.NewProfileResponse(profile, true), nil
}

// Get returns any user's public profile
func (s *ProfileService) Get(ctx context.Context, userID, viewerID int64) (*dto.ProfileResponse, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewProfileResponse(profile, userID == viewerID), nil
}

// Update replaces the editable fields of the caller's profile
func (s *ProfileService) Update(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if err := validation.RequireText("fullName", req.FullName); err != nil {
		return nil, err
	}

	// Make sure the row exists before updating it
	if _, err := s.GetMine(ctx, userID); err != nil {
		return nil, err
	}

	profile := &models.Profile{
		UserID:      userID,
		FullName:    strings.TrimSpace(req.FullName),
		CollegeName: strings.TrimSpace(req.CollegeName),
		Bio:         strings.TrimSpace(req.Bio),
		Location:    strings.TrimSpace(req.Location),
		Skills:      validation.NormalizeTags(req.Skills, MaxProfileTags),
		Interests:   validation.NormalizeTags(req.Interests, MaxProfileTags),
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	updated, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewProfileResponse(updated, true), nil
}

// UploadAvatar stores a new avatar image
func (s *ProfileService) UploadAvatar(ctx context.Context, userID int64, fh *multipart.FileHeader) (*dto.ProfileResponse, error) {
	return s.replacePicture(ctx, userID, models.BucketAvatars, repositories.ProfileAvatarColumn, fh)
}

// UploadPhoto stores a new profile photo
func (s *ProfileService) UploadPhoto(ctx context.Context, userID int64, fh *multipart.FileHeader) (*dto.ProfileResponse, error) {
	return s.replacePicture(ctx, userID, models.BucketProfilePhotos, repositories.ProfilePhotoColumn, fh)
}

func (s *ProfileService) replacePicture(ctx context.Context, userID int64, bucket, column string, fh *multipart.FileHeader) (*dto.ProfileResponse, error) {
	if _, err := s.GetMine(ctx, userID); err != nil {
		return nil, err
	}

	obj, err := s.uploader.Upload(ctx, bucket, userPrefix(userID), fh)
	if err != nil {
		return nil, err
	}

	previous, err := s.profiles.SetPhotoURL(ctx, userID, column, obj.URL)
	if err != nil {
		removeObject(ctx, s.uploader.Storage(), s.logger, bucket, obj.Key)
		return nil, err
	}
	metrics.UploadsTotal.WithLabelValues(bucket).Inc()

	if previous != nil && *previous != "" {
		if key, ok := filestorage.KeyFromURL(s.uploader.Storage(), bucket, *previous); ok {
			removeObject(ctx, s.uploader.Storage(), s.logger, bucket, key)
		}
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewProfileResponse(profile, true), nil
}

// Stats returns the caller's activity counts
func (s *ProfileService) Stats(ctx context.Context, userID int64) (*dto.ProfileStatsResponse, error) {
	stats, err := s.profiles.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProfileStatsResponse(stats)
	return &resp, nil
}
