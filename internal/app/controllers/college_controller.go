package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/middleware"
)

// CollegeService is what CollegeController needs from the college service
type CollegeService interface {
	List(ctx context.Context) ([]dto.CollegeResponse, error)
	Create(ctx context.Context, userID int64, req *dto.CreateCollegeRequest) (*dto.CollegeResponse, error)
	Delete(ctx context.Context, id, userID int64) error
}

// CollegeController handles the college directory
type CollegeController struct {
	collegeService CollegeService
	logger         zerolog.Logger
}

// NewCollegeController creates a new CollegeController
func NewCollegeController(collegeService CollegeService, logger zerolog.Logger) *CollegeController {
	return &CollegeController{
		collegeService: collegeService,
		logger:         logger,
	}
}

// GetAllColleges lists colleges
// @Summary List colleges
// @Tags colleges
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CollegeResponse}
// @Router /colleges [get]
func (c *CollegeController) GetAllColleges(ctx *gin.Context) {
	resp, err := c.collegeService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// CreateCollege adds a college
// @Summary Create a college
// @Tags colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCollegeRequest true "College"
// @Success 201 {object} dto.APIResponse{data=dto.CollegeResponse}
// @Failure 409 {object} dto.APIResponse "Name already exists"
// @Router /colleges [post]
func (c *CollegeController) CreateCollege(ctx *gin.Context) {
	var req dto.CreateCollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.collegeService.Create(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// DeleteCollege removes a college the caller created
// @Summary Delete a college
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse "Not the creator"
// @Router /colleges/{id} [delete]
func (c *CollegeController) DeleteCollege(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "college")
	if !ok {
		return
	}
	if err := c.collegeService.Delete(ctx.Request.Context(), id, middleware.UserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "College deleted successfully")
}
