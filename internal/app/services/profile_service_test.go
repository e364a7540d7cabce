package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }

func TestProfileService_GetMineCreatesMissingProfile(t *testing.T) {
	ctx := context.Background()
	users, profiles := new(MockUserStore), new(MockProfileStore)
	svc := NewProfileService(profiles, users, newMockUploader(), zerolog.Nop())

	users.On("GetByID", ctx, int64(4)).Return(&models.User{ID: 4, Email: "new@campus.edu"}, nil)
	profiles.On("Ensure", ctx, int64(4), "new@campus.edu").Return(&models.Profile{UserID: 4, Email: "new@campus.edu"}, nil)

	resp, err := svc.GetMine(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.ID)
	assert.Equal(t, "new@campus.edu", resp.Email)
	assert.Equal(t, []string{}, resp.Skills)
}

func TestProfileService_GetHidesEmailFromOthers(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileStore)
	svc := NewProfileService(profiles, new(MockUserStore), newMockUploader(), zerolog.Nop())
	profiles.On("GetByUserID", ctx, int64(2)).Return(&models.Profile{UserID: 2, Email: "grace@campus.edu", FullName: "Grace"}, nil)

	other, err := svc.Get(ctx, 2, 9)
	require.NoError(t, err)
	assert.Empty(t, other.Email)

	own, err := svc.Get(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "grace@campus.edu", own.Email)
}

func TestProfileService_UpdateNormalizesTags(t *testing.T) {
	ctx := context.Background()
	users, profiles := new(MockUserStore), new(MockProfileStore)
	svc := NewProfileService(profiles, users, newMockUploader(), zerolog.Nop())

	users.On("GetByID", ctx, int64(1)).Return(&models.User{ID: 1, Email: "a@b.c"}, nil)
	profiles.On("Ensure", ctx, int64(1), "a@b.c").Return(&models.Profile{UserID: 1}, nil)
	profiles.On("Update", ctx, mock.MatchedBy(func(p *models.Profile) bool {
		return assert.ObjectsAreEqual([]string{"Go", "React"}, p.Skills) &&
			assert.ObjectsAreEqual([]string{}, p.Interests) &&
			p.FullName == "Ada"
	})).Return(nil)
	profiles.On("GetByUserID", ctx, int64(1)).Return(&models.Profile{UserID: 1, FullName: "Ada", Skills: []string{"Go", "React"}}, nil)

	resp, err := svc.Update(ctx, 1, &dto.UpdateProfileRequest{
		FullName:  " Ada ",
		Skills:    []string{" Go ", "", "go", "React"},
		Interests: []string{"  "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "React"}, resp.Skills)
	profiles.AssertExpectations(t)
}

func TestProfileService_UploadAvatarReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	users, profiles, uploader := new(MockUserStore), new(MockProfileStore), newMockUploader()
	svc := NewProfileService(profiles, users, uploader, zerolog.Nop())
	fh := &multipart.FileHeader{Filename: "me.png", Size: 10}

	users.On("GetByID", ctx, int64(1)).Return(&models.User{ID: 1, Email: "a@b.c"}, nil)
	profiles.On("Ensure", ctx, int64(1), "a@b.c").Return(&models.Profile{UserID: 1}, nil)
	obj := objectFor(models.BucketAvatars, "1/200-new.png")
	uploader.On("Upload", ctx, models.BucketAvatars, "1", fh).Return(obj, nil)
	profiles.On("SetPhotoURL", ctx, int64(1), repositories.ProfileAvatarColumn, obj.URL).
		Return(strPtr("https://files.test/avatars/1/100-old.png"), nil)
	uploader.storage.On("Delete", ctx, models.BucketAvatars, "1/100-old.png").Return(nil)
	profiles.On("GetByUserID", ctx, int64(1)).Return(&models.Profile{UserID: 1, AvatarURL: &obj.URL}, nil)

	resp, err := svc.UploadAvatar(ctx, 1, fh)
	require.NoError(t, err)
	assert.Equal(t, obj.URL, *resp.AvatarURL)
	uploader.storage.AssertExpectations(t)
}

func TestProfileService_UploadPhotoCleansUpOnFailure(t *testing.T) {
	ctx := context.Background()
	users, profiles, uploader := new(MockUserStore), new(MockProfileStore), newMockUploader()
	svc := NewProfileService(profiles, users, uploader, zerolog.Nop())
	fh := &multipart.FileHeader{Filename: "me.jpg", Size: 10}

	users.On("GetByID", ctx, int64(1)).Return(&models.User{ID: 1, Email: "a@b.c"}, nil)
	profiles.On("Ensure", ctx, int64(1), "a@b.c").Return(&models.Profile{UserID: 1}, nil)
	obj := objectFor(models.BucketProfilePhotos, "1/300-x.jpg")
	uploader.On("Upload", ctx, models.BucketProfilePhotos, "1", fh).Return(obj, nil)
	profiles.On("SetPhotoURL", ctx, int64(1), repositories.ProfilePhotoColumn, obj.URL).Return(nil, errors.New("db down"))
	uploader.storage.On("Delete", ctx, models.BucketProfilePhotos, "1/300-x.jpg").Return(nil)

	_, err := svc.UploadPhoto(ctx, 1, fh)
	require.Error(t, err)
	uploader.storage.AssertExpectations(t)
}

func TestProfileService_UploadRejectsBadFile(t *testing.T) {
	ctx := context.Background()
	users, profiles, uploader := new(MockUserStore), new(MockProfileStore), newMockUploader()
	svc := NewProfileService(profiles, users, uploader, zerolog.Nop())

	users.On("GetByID", ctx, int64(1)).Return(&models.User{ID: 1, Email: "a@b.c"}, nil)
	profiles.On("Ensure", ctx, int64(1), "a@b.c").Return(&models.Profile{UserID: 1}, nil)
	uploader.On("Upload", ctx, models.BucketAvatars, "1", (*multipart.FileHeader)(nil)).
		Return(objectFor("", ""), apperrors.ErrFileRequired)

	_, err := svc.UploadAvatar(ctx, 1, nil)
	assert.ErrorIs(t, err, apperrors.ErrFileRequired)
	profiles.AssertNotCalled(t, "SetPhotoURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileService_Stats(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileStore)
	svc := NewProfileService(profiles, new(MockUserStore), newMockUploader(), zerolog.Nop())
	profiles.On("Stats", ctx, int64(1)).Return(&models.ProfileStats{
		Notes: 4, TeamPosts: 1, EventRegistrations: 3, AnonymousPosts: 2, AnonymousComments: 5, AnonymousScore: 9,
	}, nil)

	resp, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Notes)
	assert.Equal(t, dto.AnonymousStats{Posts: 2, Comments: 5, Score: 9}, resp.Anonymous)
}
