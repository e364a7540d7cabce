package dto

import (
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
)

// SendMessageRequest sends a direct message
type SendMessageRequest struct {
	ReceiverID    int64  `json:"receiverId" binding:"required,min=1" example:"2"`
	Content       string `json:"content" binding:"required,notblank,max=4000" example:"Hey, still looking for a teammate?"`
	RelatedPostID *int64 `json:"relatedPostId" binding:"omitempty,min=1"`
}

// MessageResponse is one direct message
type MessageResponse struct {
	ID               int64     `json:"id" example:"21"`
	SenderID         int64     `json:"senderId" example:"2"`
	ReceiverID       int64     `json:"receiverId" example:"1"`
	SenderName       string    `json:"senderName,omitempty" example:"Grace Hopper"`
	RelatedPostID    *int64    `json:"relatedPostId,omitempty"`
	RelatedPostTitle *string   `json:"relatedPostTitle,omitempty" example:"Hackathon Squad"`
	Content          string    `json:"content"`
	Read             bool      `json:"read"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewMessageResponse converts a message row
func NewMessageResponse(m *models.Message) MessageResponse {
	return MessageResponse{
		ID:               m.ID,
		SenderID:         m.SenderID,
		ReceiverID:       m.ReceiverID,
		SenderName:       m.SenderName,
		RelatedPostID:    m.RelatedPostID,
		RelatedPostTitle: m.RelatedPostTitle,
		Content:          m.Content,
		Read:             m.Read,
		CreatedAt:        m.CreatedAt,
	}
}

// ConversationResponse is the latest message with one counterpart
type ConversationResponse struct {
	UserID      int64           `json:"userId" example:"2"`
	FullName    string          `json:"fullName" example:"Grace Hopper"`
	AvatarURL   *string         `json:"avatarUrl,omitempty"`
	LastMessage MessageResponse `json:"lastMessage"`
	UnreadCount int64           `json:"unreadCount" example:"1"`
}

// MarkReadResponse reports how many messages were marked read
type MarkReadResponse struct {
	Updated int64 `json:"updated" example:"3"`
}
