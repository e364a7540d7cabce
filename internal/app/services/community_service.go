package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/campusconnect/internal/app/auth"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/validation"
)

// CommunityService manages communities and memberships
type CommunityService struct {
	communities CommunityStore
	logger      zerolog.Logger
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(communities CommunityStore, logger zerolog.Logger) *CommunityService {
	return &CommunityService{
		communities: communities,
		logger:      logger,
	}
}

func toCommunityResponses(list []*models.Community, viewerID int64) []dto.CommunityResponse {
	out := make([]dto.CommunityResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewCommunityResponse(c, viewerID))
	}
	return out
}

// List returns every community, newest first
func (s *CommunityService) List(ctx context.Context, viewerID int64, search string) ([]dto.CommunityResponse, error) {
	list, err := s.communities.List(ctx, viewerID, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	return toCommunityResponses(list, viewerID), nil
}

// Mine returns the communities viewerID belongs to
func (s *CommunityService) Mine(ctx context.Context, viewerID int64) ([]dto.CommunityResponse, error) {
	list, err := s.communities.ListForMember(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return toCommunityResponses(list, viewerID), nil
}

// Get returns one community
func (s *CommunityService) Get(ctx context.Context, id, viewerID int64) (*dto.CommunityResponse, error) {
	c, err := s.communities.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCommunityResponse(c, viewerID)
	return &resp, nil
}

// Create stores a community with userID as its owner
func (s *CommunityService) Create(ctx context.Context, userID int64, req *dto.CommunityRequest) (*dto.CommunityResponse, error) {
	if err := validation.RequireText("name", req.Name); err != nil {
		return nil, err
	}

	c := &models.Community{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   userID,
	}
	if err := s.communities.CreateWithOwner(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Int64("communityID", c.ID).Msg("Community created")
	resp := dto.NewCommunityResponse(c, userID)
	return &resp, nil
}

// Update edits a community owned by userID
func (s *CommunityService) Update(ctx context.Context, id, userID int64, req *dto.CommunityRequest) (*dto.CommunityResponse, error) {
	if err := validation.RequireText("name", req.Name); err != nil {
		return nil, err
	}

	c, err := s.communities.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := appAuth.RequireOwner(c.CreatedBy, userID, "only the owner can edit this community"); err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Description = strings.TrimSpace(req.Description)
	if err := s.communities.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := dto.NewCommunityResponse(c, userID)
	return &resp, nil
}

// Delete removes a community owned by userID
func (s *CommunityService) Delete(ctx context.Context, id, userID int64) error {
	c, err := s.communities.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := appAuth.RequireOwner(c.CreatedBy, userID, "only the owner can delete this community"); err != nil {
		return err
	}
	return s.communities.Delete(ctx, id)
}

// Join adds userID as a member
func (s *CommunityService) Join(ctx context.Context, id, userID int64) (*dto.CommunityResponse, error) {
	if err := s.communities.Join(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, userID)
}

// Leave removes userID's membership. Owners cannot leave.
func (s *CommunityService) Leave(ctx context.Context, id, userID int64) error {
	role, err := s.communities.MemberRole(ctx, id, userID)
	if err != nil {
		return err
	}
	if role == models.MemberRoleOwner {
		return apperrors.ErrOwnerCannotLeave
	}
	return s.communities.Leave(ctx, id, userID)
}

// Members lists a community's members
func (s *CommunityService) Members(ctx context.Context, id, viewerID int64) ([]dto.CommunityMemberResponse, error) {
	if _, err := s.communities.GetByID(ctx, id, viewerID); err != nil {
		return nil, err
	}
	members, err := s.communities.Members(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CommunityMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, dto.NewCommunityMemberResponse(m))
	}
	return out, nil
}
