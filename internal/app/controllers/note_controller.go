package controllers

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/middleware"
)

// NoteService is what NoteController needs from the note service
type NoteService interface {
	List(ctx context.Context, viewerID int64, req *dto.NoteFilterRequest) (*dto.NoteListResponse, error)
	Stats(ctx context.Context, viewerID int64) (*dto.NoteStatsResponse, error)
	Get(ctx context.Context, id, viewerID int64) (*dto.NoteResponse, error)
	Create(ctx context.Context, userID int64, req *dto.CreateNoteRequest, fh *multipart.FileHeader) (*dto.NoteResponse, error)
	Update(ctx context.Context, id, userID int64, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, id, userID int64) error
	Download(ctx context.Context, id, userID int64) (*dto.NoteDownloadResponse, error)
}

// NoteController handles class note endpoints
type NoteController struct {
	noteService NoteService
	logger      zerolog.Logger
}

// NewNoteController creates a new NoteController
func NewNoteController(noteService NoteService, logger zerolog.Logger) *NoteController {
	return &NoteController{
		noteService: noteService,
		logger:      logger,
	}
}

// GetAllNotes lists notes
// @Summary List notes
// @Description Lists notes with search, filters, sorting and pagination
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, subject, description and uploader name"
// @Param subject query string false "Exact subject"
// @Param filter query string false "all, yours, recent (7 days) or popular (>10 downloads)"
// @Param sort query string false "newest, oldest, popular or title"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size (max 100)" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.NoteListResponse}
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Router /notes [get]
func (c *NoteController) GetAllNotes(ctx *gin.Context) {
	var req dto.NoteFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.noteService.List(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetNoteStats returns the note board counters
// @Summary Note stats
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.NoteStatsResponse}
// @Router /notes/stats [get]
func (c *NoteController) GetNoteStats(ctx *gin.Context) {
	resp, err := c.noteService.Stats(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetNoteByID returns one note and counts a view
// @Summary Get a note
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.NoteResponse}
// @Failure 404 {object} dto.APIResponse "Note not found"
// @Router /notes/{id} [get]
func (c *NoteController) GetNoteByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "note")
	if !ok {
		return
	}
	resp, err := c.noteService.Get(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// CreateNote uploads a note
// @Summary Upload a note
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param subject formData string false "Subject"
// @Param description formData string false "Description"
// @Param file formData file true "Note file"
// @Success 201 {object} dto.APIResponse{data=dto.NoteResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed or missing file"
// @Router /notes [post]
func (c *NoteController) CreateNote(ctx *gin.Context) {
	var req dto.CreateNoteRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	fh, err := optionalFile(ctx, "file")
	if err != nil {
		middleware.BindError(ctx, err)
		return
	}

	userID := middleware.UserID(ctx)
	resp, err := c.noteService.Create(ctx.Request.Context(), userID, &req, fh)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Note upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// UpdateNote edits a note's text fields
// @Summary Update a note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Note ID"
// @Param request body dto.UpdateNoteRequest true "Note fields"
// @Success 200 {object} dto.APIResponse{data=dto.NoteResponse}
// @Failure 403 {object} dto.APIResponse "Not the owner"
// @Failure 404 {object} dto.APIResponse "Note not found"
// @Router /notes/{id} [put]
func (c *NoteController) UpdateNote(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "note")
	if !ok {
		return
	}
	var req dto.UpdateNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.noteService.Update(ctx.Request.Context(), id, middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// DeleteNote removes a note and its file
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse "Not the owner"
// @Failure 404 {object} dto.APIResponse "Note not found"
// @Router /notes/{id} [delete]
func (c *NoteController) DeleteNote(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "note")
	if !ok {
		return
	}
	if err := c.noteService.Delete(ctx.Request.Context(), id, middleware.UserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Note deleted successfully")
}

// DownloadNote records a download and returns the file URL
// @Summary Download a note
// @Description Counts one download per user and returns the file URL
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.NoteDownloadResponse}
// @Failure 404 {object} dto.APIResponse "Note not found"
// @Router /notes/{id}/download [post]
func (c *NoteController) DownloadNote(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "note")
	if !ok {
		return
	}
	resp, err := c.noteService.Download(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}
