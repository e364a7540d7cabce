package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/middleware"
)

// TeamFinderService is what TeamFinderController needs from the team finder service
type TeamFinderService interface {
	List(ctx context.Context, viewerID int64, req *dto.TeamPostFilterRequest) ([]dto.TeamPostResponse, error)
	Mine(ctx context.Context, viewerID int64) ([]dto.TeamPostResponse, error)
	Stats(ctx context.Context, viewerID int64) (*dto.TeamStatsResponse, error)
	Create(ctx context.Context, userID int64, req *dto.CreateTeamPostRequest) (*dto.TeamPostResponse, error)
	Delete(ctx context.Context, id, userID int64) error
	Contact(ctx context.Context, postID, userID int64, req *dto.ContactRequest) (*dto.MessageResponse, error)
}

// TeamFinderController handles team finder endpoints
type TeamFinderController struct {
	teamService TeamFinderService
	logger      zerolog.Logger
}

// NewTeamFinderController creates a new TeamFinderController
func NewTeamFinderController(teamService TeamFinderService, logger zerolog.Logger) *TeamFinderController {
	return &TeamFinderController{
		teamService: teamService,
		logger:      logger,
	}
}

// GetAllPosts lists team finder posts
// @Summary List team posts
// @Description Each post carries isMatch against the caller's profile skills
// @Tags team-finder
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, description, skills, college and owner name"
// @Param skills query string false "Comma separated skills"
// @Param filter query string false "all, hackathon, startup, academic or yours"
// @Success 200 {object} dto.APIResponse{data=[]dto.TeamPostResponse}
// @Router /team-posts [get]
func (c *TeamFinderController) GetAllPosts(ctx *gin.Context) {
	var req dto.TeamPostFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.teamService.List(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetMyPosts lists the caller's posts
// @Summary My team posts
// @Tags team-finder
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.TeamPostResponse}
// @Router /team-posts/mine [get]
func (c *TeamFinderController) GetMyPosts(ctx *gin.Context) {
	resp, err := c.teamService.Mine(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetStats returns the team finder counters
// @Summary Team finder stats
// @Tags team-finder
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TeamStatsResponse}
// @Router /team-posts/stats [get]
func (c *TeamFinderController) GetStats(ctx *gin.Context) {
	resp, err := c.teamService.Stats(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// CreatePost publishes a team finder post
// @Summary Create a team post
// @Tags team-finder
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTeamPostRequest true "Post"
// @Success 201 {object} dto.APIResponse{data=dto.TeamPostResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Router /team-posts [post]
func (c *TeamFinderController) CreatePost(ctx *gin.Context) {
	var req dto.CreateTeamPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.teamService.Create(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// DeletePost removes a post
// @Summary Delete a team post
// @Tags team-finder
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse "Not the owner"
// @Router /team-posts/{id} [delete]
func (c *TeamFinderController) DeletePost(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "post")
	if !ok {
		return
	}
	if err := c.teamService.Delete(ctx.Request.Context(), id, middleware.UserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Post deleted successfully")
}

// Contact messages the owner of a post
// @Summary Contact a post owner
// @Description Sends a message linked to the post and notifies the owner by email and websocket
// @Tags team-finder
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.ContactRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.APIResponse "Own post or empty message"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Failure 429 {object} dto.APIResponse "Too many requests"
// @Router /team-posts/{id}/contact [post]
func (c *TeamFinderController) Contact(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "post")
	if !ok {
		return
	}
	var req dto.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.teamService.Contact(ctx.Request.Context(), id, middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}
