package dto

import (
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
)

// CreateCollegeRequest lists a new college
type CreateCollegeRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=200" example:"Analytical College"`
	Description string `json:"description" binding:"max=2000"`
}

// CollegeResponse is a listed college
type CollegeResponse struct {
	ID          int64     `json:"id" example:"1"`
	Name        string    `json:"name" example:"Analytical College"`
	Description string    `json:"description"`
	CreatedBy   *int64    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewCollegeResponse converts a college row
func NewCollegeResponse(c *models.College) CollegeResponse {
	return CollegeResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
}

// HealthResponse reports dependency status
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
	Redis    string `json:"redis" example:"disabled"`
}
