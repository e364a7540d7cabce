package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/campusconnect/internal/app/auth"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/helpers"
	"github.com/yigit/campusconnect/internal/pkg/metrics"
	"github.com/yigit/campusconnect/internal/pkg/validation"
)

// MaxEventTags caps the tags of an event.
const MaxEventTags = 10

// EventService manages campus events
type EventService struct {
	events   EventStore
	uploader FileUploader
	logger   zerolog.Logger
	now      func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(events EventStore, uploader FileUploader, logger zerolog.Logger) *EventService {
	return &EventService{
		events:   events,
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}
}

func parseEventDate(value string) (time.Time, error) {
	date, err := time.Parse(models.EventDateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("date", "date must be formatted as YYYY-MM-DD")
	}
	return date, nil
}

// List returns a filtered page of events enriched for the viewer
func (s *EventService) List(ctx context.Context, viewerID int64, req *dto.EventFilterRequest) (*dto.EventListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.Size)
	filter := repositories.EventListFilter{
		ViewerID: viewerID,
		Type:     strings.TrimSpace(req.Type),
		Search:   strings.TrimSpace(req.Search),
		Offset:   offset,
		Limit:    limit,
	}
	if req.Upcoming {
		now := s.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		filter.UpcomingFrom = &today
	}

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.EventListResponse{
		Events:     toEventResponses(events, viewerID),
		Pagination: helpers.NewPaginationInfo(total, req.Page, req.Size),
	}
	return resp, nil
}

func toEventResponses(events []*models.Event, viewerID int64) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.NewEventResponse(e, viewerID))
	}
	return out
}

// Get returns one event enriched for the viewer
func (s *EventService) Get(ctx context.Context, id, viewerID int64) (*dto.EventResponse, error) {
	event, err := s.events.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewEventResponse(event, viewerID)
	return &resp, nil
}

// Create uploads the cover image and stores the event
func (s *EventService) Create(ctx context.Context, userID int64, req *dto.CreateEventRequest, cover *multipart.FileHeader) (*dto.EventResponse, error) {
	if err := validation.RequireText("title", req.Title); err != nil {
		return nil, err
	}
	if err := validation.RequireText("description", req.Description); err != nil {
		return nil, err
	}
	if err := validation.RequireText("eventType", req.EventType); err != nil {
		return nil, err
	}
	date, err := parseEventDate(req.Date)
	if err != nil {
		return nil, err
	}
	if cover == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrFileRequired, "cover image is required")
	}

	obj, err := s.uploader.Upload(ctx, models.BucketEventCovers, "", cover)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		CreatedBy:    userID,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		EventType:    strings.TrimSpace(req.EventType),
		EventDate:    date,
		EventTime:    strings.TrimSpace(req.Time),
		Location:     strings.TrimSpace(req.Location),
		Venue:        strings.TrimSpace(req.Venue),
		Website:      strings.TrimSpace(req.Website),
		MaxAttendees: req.MaxAttendees,
		Tags:         validation.SplitTags(req.Tags, MaxEventTags),
		CoverURL:     obj.URL,
		CoverKey:     obj.Key,
	}
	if err := s.events.Create(ctx, event); err != nil {
		removeObject(ctx, s.uploader.Storage(), s.logger, obj.Bucket, obj.Key)
		return nil, err
	}
	metrics.UploadsTotal.WithLabelValues(models.BucketEventCovers).Inc()

	s.logger.Info().Int64("userID", userID).Int64("eventID", event.ID).Msg("Event created")
	return s.Get(ctx, event.ID, userID)
}

// Update replaces the editable fields of an event owned by userID.
// Capacity cannot drop below the registrations already taken.
func (s *EventService) Update(ctx context.Context, id, userID int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.events.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := appAuth.RequireOwner(event.CreatedBy, userID, "you can only edit your own events"); err != nil {
		return nil, err
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		return nil, err
	}
	if req.MaxAttendees != nil {
		registered, err := s.events.RegistrationsCount(ctx, id)
		if err != nil {
			return nil, err
		}
		if int64(*req.MaxAttendees) < registered {
			return nil, apperrors.NewValidationError("maxAttendees",
				fmt.Sprintf("maxAttendees cannot be below the %d registrations already taken", registered))
		}
	}
	event.Title = strings.TrimSpace(req.Title)
	event.Description = strings.TrimSpace(req.Description)
	event.EventType = strings.TrimSpace(req.EventType)
	event.EventDate = date
	event.EventTime = strings.TrimSpace(req.Time)
	event.Location = strings.TrimSpace(req.Location)
	event.Venue = strings.TrimSpace(req.Venue)
	event.Website = strings.TrimSpace(req.Website)
	event.MaxAttendees = req.MaxAttendees
	event.Tags = validation.NormalizeTags(req.Tags, MaxEventTags)

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, userID)
}

// Delete removes an event owned by userID and its cover
func (s *EventService) Delete(ctx context.Context, id, userID int64) error {
	event, err := s.events.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := appAuth.RequireOwner(event.CreatedBy, userID, "you can only delete your own events"); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	removeObject(ctx, s.uploader.Storage(), s.logger, models.BucketEventCovers, event.CoverKey)
	return nil
}

// Register signs userID up for the event
func (s *EventService) Register(ctx context.Context, id, userID int64) (*dto.RegistrationResponse, error) {
	if err := s.events.Register(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.registrationState(ctx, id, true)
}

// Unregister cancels userID's registration
func (s *EventService) Unregister(ctx context.Context, id, userID int64) (*dto.RegistrationResponse, error) {
	if err := s.events.Unregister(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.registrationState(ctx, id, false)
}

func (s *EventService) registrationState(ctx context.Context, id int64, registered bool) (*dto.RegistrationResponse, error) {
	count, err := s.events.RegistrationsCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.RegistrationResponse{Registered: registered, RegistrationsCount: count}, nil
}

// ToggleLike flips userID's like on the event
func (s *EventService) ToggleLike(ctx context.Context, id, userID int64) (*dto.ToggleResponse, error) {
	liked, count, err := s.events.ToggleLike(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	metrics.RecordReaction("event_like", toggleResult(liked))
	return &dto.ToggleResponse{Liked: liked, LikesCount: count}, nil
}

// MyRegistrations lists the events userID registered for
func (s *EventService) MyRegistrations(ctx context.Context, userID int64) ([]dto.EventResponse, error) {
	events, err := s.events.ListRegisteredBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toEventResponses(events, userID), nil
}
