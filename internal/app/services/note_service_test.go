package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

func newNoteFixture() (*NoteService, *MockNoteStore, *MockUploader, time.Time) {
	notes, uploader := new(MockNoteStore), newMockUploader()
	svc := NewNoteService(notes, uploader, zerolog.Nop())
	now := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, notes, uploader, now
}

func TestNoteService_ListBuildsFilterAndPagination(t *testing.T) {
	ctx := context.Background()
	svc, notes, _, now := newNoteFixture()

	want := repositories.NoteListFilter{
		ViewerID: 3,
		Search:   "algebra",
		Filter:   dto.NoteFilterRecent,
		Sort:     repositories.NoteSortPopular,
		Since:    now.Add(-RecentNoteWindow),
		Offset:   10,
		Limit:    10,
	}
	notes.On("List", ctx, want).Return([]*models.Note{
		{ID: 1, UserID: 3, Title: "Mine"},
		{ID: 2, UserID: 4, Title: "Theirs"},
	}, int64(12), nil)

	resp, err := svc.List(ctx, 3, &dto.NoteFilterRequest{Search: " algebra ", Filter: "recent", Sort: "popular", Page: 2, Size: 10})
	require.NoError(t, err)
	require.Len(t, resp.Notes, 2)
	assert.True(t, resp.Notes[0].IsMine)
	assert.False(t, resp.Notes[1].IsMine)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.Equal(t, int64(12), resp.Pagination.TotalItems)
}

func TestNoteService_CreateUploadsUnderUserPrefix(t *testing.T) {
	ctx := context.Background()
	svc, notes, uploader, _ := newNoteFixture()
	fh := &multipart.FileHeader{Filename: "notes.pdf", Size: 2048}
	obj := objectFor(models.BucketNotesFiles, "8/1700000000000-abcd1234.pdf")

	uploader.On("Upload", ctx, models.BucketNotesFiles, "8", fh).Return(obj, nil)
	notes.On("Create", ctx, mock.MatchedBy(func(n *models.Note) bool {
		return n.UserID == 8 && n.Title == "Calculus" && n.FileURL == obj.URL && n.FileKey == obj.Key
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Note).ID = 55
	}).Return(nil)
	notes.On("GetByID", ctx, int64(55)).Return(&models.Note{ID: 55, UserID: 8, Title: "Calculus", FileURL: obj.URL}, nil)

	resp, err := svc.Create(ctx, 8, &dto.CreateNoteRequest{Title: " Calculus "}, fh)
	require.NoError(t, err)
	assert.Equal(t, int64(55), resp.ID)
	assert.True(t, resp.IsMine)
	notes.AssertExpectations(t)
}

func TestNoteService_CreateRejectsBlankTitle(t *testing.T) {
	svc, _, uploader, _ := newNoteFixture()

	_, err := svc.Create(context.Background(), 8, &dto.CreateNoteRequest{Title: "   "}, &multipart.FileHeader{})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNoteService_CreateRemovesFileWhenInsertFails(t *testing.T) {
	ctx := context.Background()
	svc, notes, uploader, _ := newNoteFixture()
	fh := &multipart.FileHeader{Filename: "notes.pdf", Size: 2048}
	obj := objectFor(models.BucketNotesFiles, "8/1-x.pdf")

	uploader.On("Upload", ctx, models.BucketNotesFiles, "8", fh).Return(obj, nil)
	notes.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))
	uploader.storage.On("Delete", ctx, models.BucketNotesFiles, obj.Key).Return(nil)

	_, err := svc.Create(ctx, 8, &dto.CreateNoteRequest{Title: "Calculus"}, fh)
	require.Error(t, err)
	uploader.storage.AssertExpectations(t)
}

func TestNoteService_OwnerOnlyMutations(t *testing.T) {
	ctx := context.Background()
	owner := int64(gofakeit.Number(1, 1000))
	stranger := owner + 1

	t.Run("stranger cannot update", func(t *testing.T) {
		svc, notes, _, _ := newNoteFixture()
		notes.On("GetByID", ctx, int64(1)).Return(&models.Note{ID: 1, UserID: owner}, nil)

		_, err := svc.Update(ctx, 1, stranger, &dto.UpdateNoteRequest{Title: "x"})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		notes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		svc, notes, _, _ := newNoteFixture()
		notes.On("GetByID", ctx, int64(1)).Return(&models.Note{ID: 1, UserID: owner}, nil)

		err := svc.Delete(ctx, 1, stranger)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		notes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("owner delete removes row and file", func(t *testing.T) {
		svc, notes, uploader, _ := newNoteFixture()
		notes.On("GetByID", ctx, int64(1)).Return(&models.Note{ID: 1, UserID: owner, FileKey: "k/1.pdf"}, nil)
		notes.On("Delete", ctx, int64(1)).Return(nil)
		uploader.storage.On("Delete", ctx, models.BucketNotesFiles, "k/1.pdf").Return(errors.New("gone"))

		require.NoError(t, svc.Delete(ctx, 1, owner))
		notes.AssertExpectations(t)
		uploader.storage.AssertExpectations(t)
	})
}

func TestNoteService_StatsAndDownload(t *testing.T) {
	ctx := context.Background()
	svc, notes, _, now := newNoteFixture()

	notes.On("Stats", ctx, int64(2), now.Add(-RecentNoteWindow)).Return(&repositories.NoteStats{Total: 10, Recent: 3, Popular: 1, YourNotes: 2}, nil)
	stats, err := svc.Stats(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, dto.NoteStatsResponse{Total: 10, Recent: 3, Popular: 1, YourNotes: 2}, *stats)

	notes.On("RecordDownload", ctx, int64(5), int64(2)).Return("https://files.test/notes-files/a.pdf", int64(13), nil)
	dl, err := svc.Download(ctx, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(13), dl.DownloadsCount)
}
