package dto

import (
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
)

// ProfileResponse is a user's public profile
type ProfileResponse struct {
	ID              int64     `json:"id" example:"1"`
	Email           string    `json:"email,omitempty" example:"ada@campus.edu"`
	FullName        string    `json:"fullName" example:"Ada Lovelace"`
	CollegeName     string    `json:"collegeName" example:"Analytical College"`
	Bio             string    `json:"bio"`
	Location        string    `json:"location"`
	Skills          []string  `json:"skills"`
	Interests       []string  `json:"interests"`
	AvatarURL       *string   `json:"avatarUrl,omitempty"`
	ProfilePhotoURL *string   `json:"profilePhotoUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewProfileResponse converts a profile row. includeEmail is only set for the owner.
func NewProfileResponse(p *models.Profile, includeEmail bool) *ProfileResponse {
	if p == nil {
		return nil
	}
	resp := &ProfileResponse{
		ID:              p.UserID,
		FullName:        p.FullName,
		CollegeName:     p.CollegeName,
		Bio:             p.Bio,
		Location:        p.Location,
		Skills:          nonNil(p.Skills),
		Interests:       nonNil(p.Interests),
		AvatarURL:       p.AvatarURL,
		ProfilePhotoURL: p.ProfilePhotoURL,
		CreatedAt:       p.CreatedAt,
	}
	if includeEmail {
		resp.Email = p.Email
	}
	return resp
}

// UpdateProfileRequest replaces the editable profile fields
type UpdateProfileRequest struct {
	FullName    string   `json:"fullName" binding:"required,notblank,max=120" example:"Ada Lovelace"`
	CollegeName string   `json:"collegeName" binding:"max=200"`
	Bio         string   `json:"bio" binding:"max=2000"`
	Location    string   `json:"location" binding:"max=200"`
	Skills      []string `json:"skills" binding:"max=50"`
	Interests   []string `json:"interests" binding:"max=50"`
}

// ProfileStatsResponse summarises a user's activity
type ProfileStatsResponse struct {
	Notes              int64          `json:"notes" example:"4"`
	TeamPosts          int64          `json:"teamPosts" example:"1"`
	EventRegistrations int64          `json:"eventRegistrations" example:"3"`
	Anonymous          AnonymousStats `json:"anonymous"`
}

// AnonymousStats counts a user's own anonymous activity
type AnonymousStats struct {
	Posts    int64 `json:"posts" example:"2"`
	Comments int64 `json:"comments" example:"5"`
	Score    int64 `json:"score" example:"9"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// NewProfileStatsResponse converts aggregated counts
func NewProfileStatsResponse(s *models.ProfileStats) ProfileStatsResponse {
	return ProfileStatsResponse{
		Notes:              s.Notes,
		TeamPosts:          s.TeamPosts,
		EventRegistrations: s.EventRegistrations,
		Anonymous: AnonymousStats{
			Posts:    s.AnonymousPosts,
			Comments: s.AnonymousComments,
			Score:    s.AnonymousScore,
		},
	}
}
