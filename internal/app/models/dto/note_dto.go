package dto

import (
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
)

// Note list filters
const (
	NoteFilterAll     = "all"
	NoteFilterYours   = "yours"
	NoteFilterRecent  = "recent"
	NoteFilterPopular = "popular"
)

// NoteFilterRequest holds the query parameters of the notes list
type NoteFilterRequest struct {
	Search  string `form:"search"`
	Subject string `form:"subject"`
	Filter  string `form:"filter" binding:"omitempty,oneof=all yours recent popular"`
	Sort    string `form:"sort" binding:"omitempty,oneof=newest oldest popular title"`
	Page    int    `form:"page"`
	Size    int    `form:"size"`
}

// CreateNoteRequest is the text part of the multipart upload
type CreateNoteRequest struct {
	Title       string `form:"title" binding:"required,notblank,max=200"`
	Subject     string `form:"subject" binding:"max=100"`
	Description string `form:"description" binding:"max=4000"`
}

// UpdateNoteRequest edits a note's text fields
type UpdateNoteRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=200"`
	Subject     string `json:"subject" binding:"max=100"`
	Description string `json:"description" binding:"max=4000"`
}

// NoteResponse is a note with its uploader
type NoteResponse struct {
	ID             int64     `json:"id" example:"10"`
	UserID         int64     `json:"userId" example:"1"`
	Title          string    `json:"title" example:"Linear Algebra cheatsheet"`
	Subject        string    `json:"subject" example:"Mathematics"`
	Description    string    `json:"description"`
	FileURL        string    `json:"fileUrl"`
	ViewsCount     int64     `json:"viewsCount" example:"31"`
	DownloadsCount int64     `json:"downloadsCount" example:"12"`
	UploaderName   string    `json:"uploaderName" example:"Ada Lovelace"`
	UploaderPhoto  *string   `json:"uploaderPhoto,omitempty"`
	IsMine         bool      `json:"isMine"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewNoteResponse converts a note row for the given viewer
func NewNoteResponse(n *models.Note, viewerID int64) NoteResponse {
	return NoteResponse{
		ID:             n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Subject:        n.Subject,
		Description:    n.Description,
		FileURL:        n.FileURL,
		ViewsCount:     n.ViewsCount,
		DownloadsCount: n.DownloadsCount,
		UploaderName:   n.UploaderName,
		UploaderPhoto:  n.UploaderPhoto,
		IsMine:         n.UserID == viewerID,
		CreatedAt:      n.CreatedAt,
	}
}

// NoteListResponse is one page of notes
type NoteListResponse struct {
	Notes      []NoteResponse `json:"notes"`
	Pagination PaginationInfo `json:"pagination"`
}

// NoteStatsResponse summarises the notes library
type NoteStatsResponse struct {
	Total     int64 `json:"total" example:"120"`
	Recent    int64 `json:"recent" example:"8"`
	Popular   int64 `json:"popular" example:"5"`
	YourNotes int64 `json:"yourNotes" example:"2"`
}

// NoteDownloadResponse is returned after recording a download
type NoteDownloadResponse struct {
	FileURL        string `json:"fileUrl"`
	DownloadsCount int64  `json:"downloadsCount" example:"13"`
}
