package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/campusconnect/internal/app/auth"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/helpers"
	"github.com/yigit/campusconnect/internal/pkg/metrics"
	"github.com/yigit/campusconnect/internal/pkg/validation"
)

// RecentNoteWindow is how far back a note counts as recent.
const RecentNoteWindow = 7 * 24 * time.Hour

// NoteService manages the shared notes library
type NoteService struct {
	notes    NoteStore
	uploader FileUploader
	logger   zerolog.Logger
	now      func() time.Time
}

// NewNoteService creates a new NoteService
func NewNoteService(notes NoteStore, uploader FileUploader, logger zerolog.Logger) *NoteService {
	return &NoteService{
		notes:    notes,
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns a filtered page of notes
func (s *NoteService) List(ctx context.Context, viewerID int64, req *dto.NoteFilterRequest) (*dto.NoteListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.Size)
	filter := repositories.NoteListFilter{
		ViewerID: viewerID,
		Search:   strings.TrimSpace(req.Search),
		Subject:  strings.TrimSpace(req.Subject),
		Filter:   req.Filter,
		Sort:     req.Sort,
		Since:    s.now().Add(-RecentNoteWindow),
		Offset:   offset,
		Limit:    limit,
	}

	notes, total, err := s.notes.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.NoteListResponse{
		Notes:      make([]dto.NoteResponse, 0, len(notes)),
		Pagination: helpers.NewPaginationInfo(total, req.Page, req.Size),
	}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, dto.NewNoteResponse(n, viewerID))
	}
	return resp, nil
}

// Stats returns the library counters for the viewer
func (s *NoteService) Stats(ctx context.Context, viewerID int64) (*dto.NoteStatsResponse, error) {
	stats, err := s.notes.Stats(ctx, viewerID, s.now().Add(-RecentNoteWindow))
	if err != nil {
		return nil, err
	}
	return &dto.NoteStatsResponse{
		Total:     stats.Total,
		Recent:    stats.Recent,
		Popular:   stats.Popular,
		YourNotes: stats.YourNotes,
	}, nil
}

// Get returns a note and counts the view
func (s *NoteService) Get(ctx context.Context, id, viewerID int64) (*dto.NoteResponse, error) {
	note, err := s.notes.View(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewNoteResponse(note, viewerID)
	return &resp, nil
}

// Create uploads the file and stores the note
func (s *NoteService) Create(ctx context.Context, userID int64, req *dto.CreateNoteRequest, fh *multipart.FileHeader) (*dto.NoteResponse, error) {
	if err := validation.RequireText("title", req.Title); err != nil {
		return nil, err
	}

	obj, err := s.uploader.Upload(ctx, models.BucketNotesFiles, userPrefix(userID), fh)
	if err != nil {
		return nil, err
	}

	note := &models.Note{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Subject:     strings.TrimSpace(req.Subject),
		Description: strings.TrimSpace(req.Description),
		FileURL:     obj.URL,
		FileKey:     obj.Key,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		removeObject(ctx, s.uploader.Storage(), s.logger, obj.Bucket, obj.Key)
		return nil, err
	}
	metrics.UploadsTotal.WithLabelValues(models.BucketNotesFiles).Inc()

	s.logger.Info().Int64("userID", userID).Int64("noteID", note.ID).Msg("Note uploaded")

	created, err := s.notes.GetByID(ctx, note.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewNoteResponse(created, userID)
	return &resp, nil
}

// Update edits a note owned by userID
func (s *NoteService) Update(ctx context.Context, id, userID int64, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	if err := validation.RequireText("title", req.Title); err != nil {
		return nil, err
	}

	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appAuth.RequireOwner(note.UserID, userID, "you can only edit your own notes"); err != nil {
		return nil, err
	}

	note.Title = strings.TrimSpace(req.Title)
	note.Subject = strings.TrimSpace(req.Subject)
	note.Description = strings.TrimSpace(req.Description)
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}

	updated, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewNoteResponse(updated, userID)
	return &resp, nil
}

// Delete removes a note owned by userID and its stored file
func (s *NoteService) Delete(ctx context.Context, id, userID int64) error {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := appAuth.RequireOwner(note.UserID, userID, "you can only delete your own notes"); err != nil {
		return err
	}

	if err := s.notes.Delete(ctx, id); err != nil {
		return err
	}
	removeObject(ctx, s.uploader.Storage(), s.logger, models.BucketNotesFiles, note.FileKey)
	return nil
}

// Download records a download by userID and returns the file location
func (s *NoteService) Download(ctx context.Context, id, userID int64) (*dto.NoteDownloadResponse, error) {
	fileURL, count, err := s.notes.RecordDownload(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return &dto.NoteDownloadResponse{FileURL: fileURL, DownloadsCount: count}, nil
}
