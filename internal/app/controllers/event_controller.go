package controllers

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/middleware"
)

// EventService is what EventController needs from the event service
type EventService interface {
	List(ctx context.Context, viewerID int64, req *dto.EventFilterRequest) (*dto.EventListResponse, error)
	Get(ctx context.Context, id, viewerID int64) (*dto.EventResponse, error)
	Create(ctx context.Context, userID int64, req *dto.CreateEventRequest, cover *multipart.FileHeader) (*dto.EventResponse, error)
	Update(ctx context.Context, id, userID int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, id, userID int64) error
	Register(ctx context.Context, id, userID int64) (*dto.RegistrationResponse, error)
	Unregister(ctx context.Context, id, userID int64) (*dto.RegistrationResponse, error)
	ToggleLike(ctx context.Context, id, userID int64) (*dto.ToggleResponse, error)
	MyRegistrations(ctx context.Context, userID int64) ([]dto.EventResponse, error)
}

// EventController handles event endpoints
type EventController struct {
	eventService EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService EventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

// GetAllEvents lists events
// @Summary List events
// @Description Ordered by date and time ascending, enriched with the caller's registration and like state
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param type query string false "Event type"
// @Param search query string false "Matches title, description and location"
// @Param upcoming query bool false "Only events from today on"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size (max 100)" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse}
// @Router /events [get]
func (c *EventController) GetAllEvents(ctx *gin.Context) {
	var req dto.EventFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.eventService.List(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetEventByID returns one event
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEventByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "event")
	if !ok {
		return
	}
	resp, err := c.eventService.Get(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// CreateEvent creates an event with a cover image
// @Summary Create an event
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param eventType formData string true "Event type"
// @Param date formData string true "Date (YYYY-MM-DD)"
// @Param time formData string false "Time"
// @Param location formData string false "Location"
// @Param venue formData string false "Venue"
// @Param website formData string false "Website"
// @Param maxAttendees formData int false "Capacity"
// @Param tags formData string false "Comma separated tags (max 10)"
// @Param cover formData file true "Cover image"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed or bad cover"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	cover, err := optionalFile(ctx, "cover")
	if err != nil {
		middleware.BindError(ctx, err)
		return
	}

	userID := middleware.UserID(ctx)
	resp, err := c.eventService.Create(ctx.Request.Context(), userID, &req, cover)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("Event creation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// UpdateEvent replaces an event's fields except the cover
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event fields"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 400 {object} dto.APIResponse "Capacity below current registrations"
// @Failure 403 {object} dto.APIResponse "Not the organizer"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "event")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.eventService.Update(ctx.Request.Context(), id, middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// DeleteEvent removes an event
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse "Not the organizer"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "event")
	if !ok {
		return
	}
	if err := c.eventService.Delete(ctx.Request.Context(), id, middleware.UserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Event deleted successfully")
}

// Register signs the caller up for an event
// @Summary Register for an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationResponse}
// @Failure 409 {object} dto.APIResponse "Already registered or event is full"
// @Router /events/{id}/register [post]
func (c *EventController) Register(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "event")
	if !ok {
		return
	}
	resp, err := c.eventService.Register(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// Unregister cancels the caller's registration
// @Summary Unregister from an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationResponse}
// @Failure 404 {object} dto.APIResponse "Not registered"
// @Router /events/{id}/register [delete]
func (c *EventController) Unregister(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "event")
	if !ok {
		return
	}
	resp, err := c.eventService.Unregister(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// ToggleLike likes or unlikes an event
// @Summary Toggle event like
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleResponse}
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Failure 429 {object} dto.APIResponse "Too many requests"
// @Router /events/{id}/like [post]
func (c *EventController) ToggleLike(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "event")
	if !ok {
		return
	}
	resp, err := c.eventService.ToggleLike(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetMyRegistrations lists events the caller registered for
// @Summary My registrations
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse}
// @Router /events/mine/registrations [get]
func (c *EventController) GetMyRegistrations(ctx *gin.Context) {
	resp, err := c.eventService.MyRegistrations(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}
