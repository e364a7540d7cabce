package dto

import (
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
)

// CommunityRequest creates or edits a community
type CommunityRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=120" example:"Robotics Club"`
	Description string `json:"description" binding:"max=2000"`
}

// CommunityResponse is a community enriched for the viewer
type CommunityResponse struct {
	ID          int64     `json:"id" example:"4"`
	Name        string    `json:"name" example:"Robotics Club"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"createdBy" example:"1"`
	MemberCount int64     `json:"memberCount" example:"25"`
	IsMember    bool      `json:"isMember"`
	IsOwner     bool      `json:"isOwner"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewCommunityResponse converts a community row for the given viewer
func NewCommunityResponse(c *models.Community, viewerID int64) CommunityResponse {
	return CommunityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		MemberCount: c.MemberCount,
		IsMember:    c.IsMember,
		IsOwner:     c.CreatedBy == viewerID,
		CreatedAt:   c.CreatedAt,
	}
}

// CommunityMemberResponse is one member row
type CommunityMemberResponse struct {
	UserID    int64     `json:"userId" example:"7"`
	FullName  string    `json:"fullName" example:"Grace Hopper"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	Role      string    `json:"role" example:"member"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// NewCommunityMemberResponse converts a member row
func NewCommunityMemberResponse(m *models.CommunityMember) CommunityMemberResponse {
	return CommunityMemberResponse{
		UserID:    m.UserID,
		FullName:  m.FullName,
		AvatarURL: m.AvatarURL,
		Role:      string(m.Role),
		JoinedAt:  m.JoinedAt,
	}
}
