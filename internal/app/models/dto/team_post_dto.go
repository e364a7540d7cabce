package dto

import (
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
)

// Team post list filters
const (
	TeamFilterAll       = "all"
	TeamFilterHackathon = "hackathon"
	TeamFilterStartup   = "startup"
	TeamFilterAcademic  = "academic"
	TeamFilterYours     = "yours"
)

// TeamPostFilterRequest holds the query parameters of the team finder list
type TeamPostFilterRequest struct {
	Search string `form:"search"`
	Skills string `form:"skills"`
	Filter string `form:"filter" binding:"omitempty,oneof=all hackathon startup academic yours"`
}

// CreateTeamPostRequest creates a team finder post
type CreateTeamPostRequest struct {
	Title          string   `json:"title" binding:"required,notblank,max=200" example:"Hackathon Squad"`
	Description    string   `json:"description" binding:"required,notblank,max=4000"`
	RequiredSkills []string `json:"requiredSkills" binding:"max=50" example:"React,Python"`
	TeamSize       int32    `json:"teamSize" binding:"omitempty,min=1,max=100" example:"3"`
	ProjectType    string   `json:"projectType" binding:"omitempty,oneof=hackathon startup academic" example:"hackathon"`
}

// ContactRequest messages the owner of a team post
type ContactRequest struct {
	Content string `json:"content" binding:"required,notblank,max=4000" example:"Hi! I'd love to join."`
}

// TeamPostResponse is a team post enriched for the viewer
type TeamPostResponse struct {
	ID             int64     `json:"id" example:"8"`
	UserID         int64     `json:"userId" example:"1"`
	OwnerName      string    `json:"ownerName" example:"Ada Lovelace"`
	OwnerCollege   string    `json:"ownerCollege" example:"Analytical College"`
	Title          string    `json:"title" example:"Hackathon Squad"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"requiredSkills"`
	TeamSize       int32     `json:"teamSize" example:"3"`
	ProjectType    string    `json:"projectType" example:"hackathon"`
	IsMatch        bool      `json:"isMatch"`
	IsMine         bool      `json:"isMine"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewTeamPostResponse converts a team post row for the given viewer
func NewTeamPostResponse(p *models.TeamFinderPost, viewerID int64, isMatch bool) TeamPostResponse {
	return TeamPostResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		OwnerName:      p.OwnerName,
		OwnerCollege:   p.OwnerCollege,
		Title:          p.Title,
		Description:    p.Description,
		RequiredSkills: nonNil(p.RequiredSkills),
		TeamSize:       p.TeamSize,
		ProjectType:    p.ProjectType,
		IsMatch:        isMatch,
		IsMine:         p.UserID == viewerID,
		CreatedAt:      p.CreatedAt,
	}
}

// TeamStatsResponse summarises the team finder board
type TeamStatsResponse struct {
	TotalPosts     int64 `json:"totalPosts" example:"14"`
	ActiveTeams    int64 `json:"activeTeams" example:"11"`
	SkillsInDemand int64 `json:"skillsInDemand" example:"23"`
	MatchesFound   int64 `json:"matchesFound" example:"4"`
}
