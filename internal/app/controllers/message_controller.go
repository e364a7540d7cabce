package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/middleware"
)

// MessageService is what MessageController needs from the message service
type MessageService interface {
	Send(ctx context.Context, senderID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	Conversations(ctx context.Context, userID int64) ([]dto.ConversationResponse, error)
	Thread(ctx context.Context, userID, otherID int64) ([]dto.MessageResponse, error)
	MarkRead(ctx context.Context, userID, otherID int64) (*dto.MarkReadResponse, error)
	Inbox(ctx context.Context, userID int64) ([]dto.MessageResponse, error)
	UnreadCount(ctx context.Context, userID int64) (*dto.CountResponse, error)
}

// MessageController handles direct messages
type MessageController struct {
	messageService MessageService
	logger         zerolog.Logger
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService MessageService, logger zerolog.Logger) *MessageController {
	return &MessageController{
		messageService: messageService,
		logger:         logger,
	}
}

// SendMessage sends a direct message
// @Summary Send a message
// @Description Stores the message and pushes it to the receiver's open websockets
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.APIResponse "Empty message or sending to yourself"
// @Failure 404 {object} dto.APIResponse "Receiver not found"
// @Failure 429 {object} dto.APIResponse "Too many requests"
// @Router /messages [post]
func (c *MessageController) SendMessage(ctx *gin.Context) {
	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BindError(ctx, err)
		return
	}

	senderID := middleware.UserID(ctx)
	resp, err := c.messageService.Send(ctx.Request.Context(), senderID, &req)
	if err != nil {
		c.logger.Debug().Err(err).Int64("senderID", senderID).Int64("receiverID", req.ReceiverID).Msg("Send message rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// GetConversations lists the caller's conversations
// @Summary List conversations
// @Description One entry per counterpart with the latest message and the unread count
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ConversationResponse}
// @Router /messages/conversations [get]
func (c *MessageController) GetConversations(ctx *gin.Context) {
	resp, err := c.messageService.Conversations(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetThread returns the thread with another user and marks it read
// @Summary Get a thread
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Counterpart user ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.MessageResponse}
// @Router /messages/with/{userId} [get]
func (c *MessageController) GetThread(ctx *gin.Context) {
	otherID, ok := parseIDParam(ctx, "userId", "user")
	if !ok {
		return
	}
	resp, err := c.messageService.Thread(ctx.Request.Context(), middleware.UserID(ctx), otherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// MarkRead marks every message from a user as read
// @Summary Mark a thread read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Counterpart user ID"
// @Success 200 {object} dto.APIResponse{data=dto.MarkReadResponse}
// @Router /messages/with/{userId}/read [post]
func (c *MessageController) MarkRead(ctx *gin.Context) {
	otherID, ok := parseIDParam(ctx, "userId", "user")
	if !ok {
		return
	}
	resp, err := c.messageService.MarkRead(ctx.Request.Context(), middleware.UserID(ctx), otherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetInbox lists messages the caller received
// @Summary Inbox
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.MessageResponse}
// @Router /messages/inbox [get]
func (c *MessageController) GetInbox(ctx *gin.Context) {
	resp, err := c.messageService.Inbox(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// GetUnreadCount returns the caller's unread message count
// @Summary Unread count
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /messages/unread-count [get]
func (c *MessageController) GetUnreadCount(ctx *gin.Context) {
	resp, err := c.messageService.UnreadCount(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}
