package controllers

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/middleware"
)

// ProfileService is what ProfileController needs from the profile service
type ProfileService interface {
	GetMine(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
	Get(ctx context.Context, userID, viewerID int64) (*dto.ProfileResponse, error)
	Update(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	UploadAvatar(ctx context.Context, userID int64, fh *multipart.FileHeader) (*dto.ProfileResponse, error)
	UploadPhoto(ctx context.Context, userID int64, fh *multipart.FileHeader) (*dto.ProfileResponse, error)
	Stats(ctx context.Context, userID int64) (*dto.ProfileStatsResponse, error)
}

// ProfileController handles profile endpoints
type ProfileController struct {
	profileService ProfileService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService ProfileService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		logger:         logger,
	}
}

// GetMyProfile returns the caller's profile
// @Summary Get my profile
// @Description Returns the caller's profile, creating it from the account email if missing
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /profiles/me [get]
func (c *ProfileController) GetMyProfile(ctx *gin.Context) {
	resp, err := c.profileService.GetMine(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetProfile returns another user's public profile
// @Summary Get a profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /profiles/{id} [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "user")
	if !ok {
		return
	}
	resp, err := c.profileService.Get(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// UpdateMyProfile edits the caller's profile
// @Summary Update my profile
// @Description Skills and interests are trimmed, de-duplicated and capped at 20 each
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Router /profiles/me [put]
func (c *ProfileController) UpdateMyProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.profileService.Update(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// UploadAvatar replaces the caller's avatar
// @Summary Upload avatar
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.APIResponse "Missing, oversized or non-image file"
// @Router /profiles/me/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	c.upload(ctx, c.profileService.UploadAvatar)
}

// UploadPhoto replaces the caller's profile photo
// @Summary Upload profile photo
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.APIResponse "Missing, oversized or non-image file"
// @Router /profiles/me/photo [post]
func (c *ProfileController) UploadPhoto(ctx *gin.Context) {
	c.upload(ctx, c.profileService.UploadPhoto)
}

func (c *ProfileController) upload(ctx *gin.Context, store func(context.Context, int64, *multipart.FileHeader) (*dto.ProfileResponse, error)) {
	fh, err := optionalFile(ctx, "file")
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read uploaded picture")
		middleware.BindError(ctx, err)
		return
	}
	resp, err := store(ctx.Request.Context(), middleware.UserID(ctx), fh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetMyStats returns the caller's activity counters
// @Summary My activity stats
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileStatsResponse}
// @Router /profiles/me/stats [get]
func (c *ProfileController) GetMyStats(ctx *gin.Context) {
	resp, err := c.profileService.Stats(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}
