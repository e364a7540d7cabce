package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/middleware"
)

// CommunityService is what CommunityController needs from the community service
type CommunityService interface {
	List(ctx context.Context, viewerID int64, search string) ([]dto.CommunityResponse, error)
	Mine(ctx context.Context, viewerID int64) ([]dto.CommunityResponse, error)
	Get(ctx context.Context, id, viewerID int64) (*dto.CommunityResponse, error)
	Create(ctx context.Context, userID int64, req *dto.CommunityRequest) (*dto.CommunityResponse, error)
	Update(ctx context.Context, id, userID int64, req *dto.CommunityRequest) (*dto.CommunityResponse, error)
	Delete(ctx context.Context, id, userID int64) error
	Join(ctx context.Context, id, userID int64) (*dto.CommunityResponse, error)
	Leave(ctx context.Context, id, userID int64) error
	Members(ctx context.Context, id, viewerID int64) ([]dto.CommunityMemberResponse, error)
}

// CommunityController handles community-related HTTP requests
type CommunityController struct {
	communityService CommunityService
	logger           zerolog.Logger
}

// NewCommunityController creates a new CommunityController
func NewCommunityController(communityService CommunityService, logger zerolog.Logger) *CommunityController {
	return &CommunityController{
		communityService: communityService,
		logger:           logger,
	}
}

// GetAllCommunities lists communities
// @Summary List communities
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches name and description"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommunityResponse}
// @Router /communities [get]
func (c *CommunityController) GetAllCommunities(ctx *gin.Context) {
	resp, err := c.communityService.List(ctx.Request.Context(), middleware.UserID(ctx), ctx.Query("search"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetMyCommunities lists communities the caller belongs to
// @Summary My communities
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CommunityResponse}
// @Router /communities/mine [get]
func (c *CommunityController) GetMyCommunities(ctx *gin.Context) {
	resp, err := c.communityService.Mine(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetCommunityByID returns one community
// @Summary Get a community
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityResponse}
// @Failure 404 {object} dto.APIResponse "Community not found"
// @Router /communities/{id} [get]
func (c *CommunityController) GetCommunityByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "community")
	if !ok {
		return
	}
	resp, err := c.communityService.Get(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// CreateCommunity creates a community owned by the caller
// @Summary Create a community
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CommunityRequest true "Community"
// @Success 201 {object} dto.APIResponse{data=dto.CommunityResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Router /communities [post]
func (c *CommunityController) CreateCommunity(ctx *gin.Context) {
	var req dto.CommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.communityService.Create(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// UpdateCommunity edits a community
// @Summary Update a community
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body dto.CommunityRequest true "Community"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityResponse}
// @Failure 403 {object} dto.APIResponse "Not the owner"
// @Router /communities/{id} [put]
func (c *CommunityController) UpdateCommunity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "community")
	if !ok {
		return
	}
	var req dto.CommunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.communityService.Update(ctx.Request.Context(), id, middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// DeleteCommunity removes a community
// @Summary Delete a community
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse "Not the owner"
// @Router /communities/{id} [delete]
func (c *CommunityController) DeleteCommunity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "community")
	if !ok {
		return
	}
	if err := c.communityService.Delete(ctx.Request.Context(), id, middleware.UserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Community deleted successfully")
}

// JoinCommunity adds the caller as a member
// @Summary Join a community
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommunityResponse}
// @Failure 409 {object} dto.APIResponse "Already a member"
// @Router /communities/{id}/join [post]
func (c *CommunityController) JoinCommunity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "community")
	if !ok {
		return
	}
	resp, err := c.communityService.Join(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// LeaveCommunity removes the caller's membership
// @Summary Leave a community
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.APIResponse "Owner cannot leave"
// @Failure 404 {object} dto.APIResponse "Not a member"
// @Router /communities/{id}/join [delete]
func (c *CommunityController) LeaveCommunity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "community")
	if !ok {
		return
	}
	if err := c.communityService.Leave(ctx.Request.Context(), id, middleware.UserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Left community successfully")
}

// GetMembers lists a community's members
// @Summary List members
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommunityMemberResponse}
// @Failure 404 {object} dto.APIResponse "Community not found"
// @Router /communities/{id}/members [get]
func (c *CommunityController) GetMembers(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "community")
	if !ok {
		return
	}
	resp, err := c.communityService.Members(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}
