package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/campusconnect/internal/app/auth"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/pkg/validation"
)

// CollegeService manages the college directory
type CollegeService struct {
	colleges CollegeStore
	logger   zerolog.Logger
}

// NewCollegeService creates a new CollegeService
func NewCollegeService(colleges CollegeStore, logger zerolog.Logger) *CollegeService {
	return &CollegeService{
		colleges: colleges,
		logger:   logger,
	}
}

// List returns every college, newest first
func (s *CollegeService) List(ctx context.Context) ([]dto.CollegeResponse, error) {
	colleges, err := s.colleges.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CollegeResponse, 0, len(colleges))
	for _, c := range colleges {
		out = append(out, dto.NewCollegeResponse(c))
	}
	return out, nil
}

// Create lists a new college on behalf of userID
func (s *CollegeService) Create(ctx context.Context, userID int64, req *dto.CreateCollegeRequest) (*dto.CollegeResponse, error) {
	if err := validation.RequireText("name", req.Name); err != nil {
		return nil, err
	}

	college := &models.College{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   &userID,
	}
	if err := s.colleges.Create(ctx, college); err != nil {
		return nil, err
	}

	resp := dto.NewCollegeResponse(college)
	return &resp, nil
}

// Delete removes a college created by userID. Seeded colleges cannot be deleted.
func (s *CollegeService) Delete(ctx context.Context, id, userID int64) error {
	college, err := s.colleges.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := appAuth.RequireCreator(college.CreatedBy, userID, "built-in colleges cannot be deleted", "you can only delete colleges you added"); err != nil {
		return err
	}
	return s.colleges.Delete(ctx, id)
}
