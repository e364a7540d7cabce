package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/middleware"
)

// AnonymousService is what AnonymousController needs from the anonymous board service
type AnonymousService interface {
	List(ctx context.Context, viewerID int64, req *dto.AnonymousFilterRequest) (*dto.AnonymousPostListResponse, error)
	Create(ctx context.Context, userID int64, req *dto.CreateAnonymousPostRequest) (*dto.AnonymousPostResponse, error)
	Delete(ctx context.Context, id, userID int64) error
	Vote(ctx context.Context, id, userID int64, value int16) (*dto.VoteResponse, error)
	Comments(ctx context.Context, postID, viewerID int64) ([]dto.CommentResponse, error)
	Comment(ctx context.Context, postID, userID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, id, userID int64) error
	ToggleCommentLike(ctx context.Context, id, userID int64) (*dto.ToggleResponse, error)
}

// AnonymousController handles the anonymous board
type AnonymousController struct {
	anonymousService AnonymousService
	logger           zerolog.Logger
}

// NewAnonymousController creates a new AnonymousController
func NewAnonymousController(anonymousService AnonymousService, logger zerolog.Logger) *AnonymousController {
	return &AnonymousController{
		anonymousService: anonymousService,
		logger:           logger,
	}
}

// GetPosts lists anonymous posts
// @Summary List anonymous posts
// @Description Authors are never returned; isMine marks the caller's own posts
// @Tags anonymous
// @Produce json
// @Security BearerAuth
// @Param sort query string false "new or top" default(new)
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size (max 100)" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.AnonymousPostListResponse}
// @Router /anonymous/posts [get]
func (c *AnonymousController) GetPosts(ctx *gin.Context) {
	var req dto.AnonymousFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.anonymousService.List(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// CreatePost posts to the board
// @Summary Create an anonymous post
// @Tags anonymous
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAnonymousPostRequest true "Post"
// @Success 201 {object} dto.APIResponse{data=dto.AnonymousPostResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Router /anonymous/posts [post]
func (c *AnonymousController) CreatePost(ctx *gin.Context) {
	var req dto.CreateAnonymousPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.anonymousService.Create(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// DeletePost removes the caller's post
// @Summary Delete an anonymous post
// @Tags anonymous
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse "Not the author"
// @Router /anonymous/posts/{id} [delete]
func (c *AnonymousController) DeletePost(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "post")
	if !ok {
		return
	}
	if err := c.anonymousService.Delete(ctx.Request.Context(), id, middleware.UserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Post deleted successfully")
}

// Vote casts, flips or clears the caller's vote
// @Summary Vote on a post
// @Description Voting the same value twice clears the vote
// @Tags anonymous
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.VoteRequest true "1 or -1"
// @Success 200 {object} dto.APIResponse{data=dto.VoteResponse}
// @Failure 400 {object} dto.APIResponse "Invalid vote value"
// @Failure 429 {object} dto.APIResponse "Too many requests"
// @Router /anonymous/posts/{id}/vote [post]
func (c *AnonymousController) Vote(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "post")
	if !ok {
		return
	}
	var req dto.VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.anonymousService.Vote(ctx.Request.Context(), id, middleware.UserID(ctx), req.Value)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetComments lists a post's comments
// @Summary List comments
// @Tags anonymous
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommentResponse}
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /anonymous/posts/{id}/comments [get]
func (c *AnonymousController) GetComments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "post")
	if !ok {
		return
	}
	resp, err := c.anonymousService.Comments(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// CreateComment comments on a post
// @Summary Comment on a post
// @Tags anonymous
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Failure 429 {object} dto.APIResponse "Too many requests"
// @Router /anonymous/posts/{id}/comments [post]
func (c *AnonymousController) CreateComment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "post")
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	resp, err := c.anonymousService.Comment(ctx.Request.Context(), id, middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// DeleteComment removes the caller's comment
// @Summary Delete a comment
// @Tags anonymous
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.APIResponse "Not the author"
// @Router /anonymous/comments/{id} [delete]
func (c *AnonymousController) DeleteComment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "comment")
	if !ok {
		return
	}
	if err := c.anonymousService.DeleteComment(ctx.Request.Context(), id, middleware.UserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondMessage(ctx, "Comment deleted successfully")
}

// ToggleCommentLike likes or unlikes a comment
// @Summary Toggle comment like
// @Tags anonymous
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleResponse}
// @Failure 429 {object} dto.APIResponse "Too many requests"
// @Router /anonymous/comments/{id}/like [post]
func (c *AnonymousController) ToggleCommentLike(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "comment")
	if !ok {
		return
	}
	resp, err := c.anonymousService.ToggleCommentLike(ctx.Request.Context(), id, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}
