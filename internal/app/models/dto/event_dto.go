package dto

import (
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
)

// EventFilterRequest holds the query parameters of the events list
type EventFilterRequest struct {
	Type     string `form:"type"`
	Search   string `form:"search"`
	Upcoming bool   `form:"upcoming"`
	Page     int    `form:"page"`
	Size     int    `form:"size"`
}

// CreateEventRequest is the text part of the multipart event form
type CreateEventRequest struct {
	Title        string `form:"title" binding:"required,notblank,max=200"`
	Description  string `form:"description" binding:"required,notblank,max=5000"`
	EventType    string `form:"eventType" binding:"required,notblank,max=50"`
	Date         string `form:"date" binding:"required,datetime=2006-01-02"`
	Time         string `form:"time" binding:"max=20"`
	Location     string `form:"location" binding:"max=200"`
	Venue        string `form:"venue" binding:"max=200"`
	Website      string `form:"website" binding:"omitempty,url,max=500"`
	MaxAttendees *int32 `form:"maxAttendees" binding:"omitempty,min=1"`
	Tags         string `form:"tags" binding:"max=500"`
}

// UpdateEventRequest replaces an event's details, date, capacity and tags. The cover is kept.
type UpdateEventRequest struct {
	Title        string   `json:"title" binding:"required,notblank,max=200"`
	Description  string   `json:"description" binding:"required,notblank,max=5000"`
	EventType    string   `json:"eventType" binding:"required,notblank,max=50"`
	Date         string   `json:"date" binding:"required,datetime=2006-01-02"`
	Time         string   `json:"time" binding:"max=20"`
	Location     string   `json:"location" binding:"max=200"`
	Venue        string   `json:"venue" binding:"max=200"`
	Website      string   `json:"website" binding:"omitempty,url,max=500"`
	MaxAttendees *int32   `json:"maxAttendees" binding:"omitempty,min=1"`
	Tags         []string `json:"tags"`
}

// EventResponse is an event enriched for the viewer
type EventResponse struct {
	ID                 int64     `json:"id" example:"3"`
	CreatedBy          int64     `json:"createdBy" example:"1"`
	OrganizerName      string    `json:"organizerName" example:"Ada Lovelace"`
	Title              string    `json:"title" example:"Spring Hackathon"`
	Description        string    `json:"description"`
	EventType          string    `json:"eventType" example:"hackathon"`
	Date               string    `json:"date" example:"2025-05-01"`
	Time               string    `json:"time" example:"18:00"`
	Location           string    `json:"location"`
	Venue              string    `json:"venue"`
	Website            string    `json:"website,omitempty"`
	MaxAttendees       *int32    `json:"maxAttendees,omitempty"`
	Tags               []string  `json:"tags"`
	CoverURL           string    `json:"coverUrl"`
	IsFeatured         bool      `json:"isFeatured"`
	RegistrationsCount int64     `json:"registrationsCount" example:"42"`
	LikesCount         int64     `json:"likesCount" example:"17"`
	IsRegistered       bool      `json:"isRegistered"`
	IsLiked            bool      `json:"isLiked"`
	IsMine             bool      `json:"isMine"`
	CreatedAt          time.Time `json:"createdAt"`
}

// NewEventResponse converts an event row for the given viewer
func NewEventResponse(e *models.Event, viewerID int64) EventResponse {
	return EventResponse{
		ID:                 e.ID,
		CreatedBy:          e.CreatedBy,
		OrganizerName:      e.OrganizerName,
		Title:              e.Title,
		Description:        e.Description,
		EventType:          e.EventType,
		Date:               e.EventDate.Format(models.EventDateLayout),
		Time:               e.EventTime,
		Location:           e.Location,
		Venue:              e.Venue,
		Website:            e.Website,
		MaxAttendees:       e.MaxAttendees,
		Tags:               nonNil(e.Tags),
		CoverURL:           e.CoverURL,
		IsFeatured:         e.IsFeatured,
		RegistrationsCount: e.RegistrationsCount,
		LikesCount:         e.LikesCount,
		IsRegistered:       e.IsRegistered,
		IsLiked:            e.IsLiked,
		IsMine:             e.CreatedBy == viewerID,
		CreatedAt:          e.CreatedAt,
	}
}

// EventListResponse is one page of events
type EventListResponse struct {
	Events     []EventResponse `json:"events"`
	Pagination PaginationInfo  `json:"pagination"`
}

// RegistrationResponse reports a registration change
type RegistrationResponse struct {
	Registered         bool  `json:"registered" example:"true"`
	RegistrationsCount int64 `json:"registrationsCount" example:"43"`
}
