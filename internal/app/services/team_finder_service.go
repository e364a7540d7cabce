package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/campusconnect/internal/app/auth"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/email"
	"github.com/yigit/campusconnect/internal/pkg/validation"
)

// MaxRequiredSkills caps the skills a team post can ask for.
const MaxRequiredSkills = 10

// filterKeywords are matched against title and description for the project filters
var filterKeywords = map[string][]string{
	dto.TeamFilterHackathon: {"hackathon", "competition"},
	dto.TeamFilterStartup:   {"startup", "business"},
	dto.TeamFilterAcademic:  {"project", "research"},
}

// MessageSender sends direct messages
type MessageSender interface {
	Send(ctx context.Context, senderID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
}

// TeamFinderService manages team finder posts and contact requests
type TeamFinderService struct {
	posts    TeamPostStore
	profiles ProfileStore
	messages MessageSender
	notifier email.Notifier
	logger   zerolog.Logger
}

// NewTeamFinderService creates a new TeamFinderService
func NewTeamFinderService(posts TeamPostStore, profiles ProfileStore, messages MessageSender, notifier email.Notifier, logger zerolog.Logger) *TeamFinderService {
	return &TeamFinderService{
		posts:    posts,
		profiles: profiles,
		messages: messages,
		notifier: notifier,
		logger:   logger,
	}
}

// SkillsMatch reports whether any post skill contains, or is contained in, any user skill.
// Both sides are compared trimmed and lower-cased.
func SkillsMatch(postSkills, userSkills []string) bool {
	for _, ps := range postSkills {
		ps = strings.ToLower(strings.TrimSpace(ps))
		if ps == "" {
			continue
		}
		for _, us := range userSkills {
			us = strings.ToLower(strings.TrimSpace(us))
			if us == "" {
				continue
			}
			if strings.Contains(ps, us) || strings.Contains(us, ps) {
				return true
			}
		}
	}
	return false
}

// viewerSkills returns the skills on userID's profile, or none when there is no profile
func (s *TeamFinderService) viewerSkills(ctx context.Context, userID int64) ([]string, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile.Skills, nil
}

func (s *TeamFinderService) respond(posts []*models.TeamFinderPost, viewerID int64, skills []string) []dto.TeamPostResponse {
	out := make([]dto.TeamPostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, dto.NewTeamPostResponse(p, viewerID, SkillsMatch(p.RequiredSkills, skills)))
	}
	return out
}

// List returns the filtered posts, newest first
func (s *TeamFinderService) List(ctx context.Context, viewerID int64, req *dto.TeamPostFilterRequest) ([]dto.TeamPostResponse, error) {
	filter := repositories.TeamPostListFilter{
		Search:   strings.TrimSpace(req.Search),
		Keywords: filterKeywords[req.Filter],
	}
	if req.Filter == dto.TeamFilterYours {
		filter.OwnerID = viewerID
	}

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if wanted := validation.SplitTags(req.Skills, 0); len(wanted) > 0 {
		kept := posts[:0]
		for _, p := range posts {
			if SkillsMatch(p.RequiredSkills, wanted) {
				kept = append(kept, p)
			}
		}
		posts = kept
	}

	skills, err := s.viewerSkills(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.respond(posts, viewerID, skills), nil
}

// Mine returns the viewer's own posts
func (s *TeamFinderService) Mine(ctx context.Context, viewerID int64) ([]dto.TeamPostResponse, error) {
	return s.List(ctx, viewerID, &dto.TeamPostFilterRequest{Filter: dto.TeamFilterYours})
}

// Stats returns the board counters plus the posts by others matching the viewer's skills
func (s *TeamFinderService) Stats(ctx context.Context, viewerID int64) (*dto.TeamStatsResponse, error) {
	stats, err := s.posts.Stats(ctx)
	if err != nil {
		return nil, err
	}

	skills, err := s.viewerSkills(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	var matches int64
	if len(skills) > 0 {
		posts, err := s.posts.List(ctx, repositories.TeamPostListFilter{})
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			if p.UserID != viewerID && SkillsMatch(p.RequiredSkills, skills) {
				matches++
			}
		}
	}

	return &dto.TeamStatsResponse{
		TotalPosts:     stats.TotalPosts,
		ActiveTeams:    stats.ActiveTeams,
		SkillsInDemand: stats.SkillsInDemand,
		MatchesFound:   matches,
	}, nil
}

// Create stores a team post owned by userID
func (s *TeamFinderService) Create(ctx context.Context, userID int64, req *dto.CreateTeamPostRequest) (*dto.TeamPostResponse, error) {
	if err := validation.RequireText("title", req.Title); err != nil {
		return nil, err
	}
	if err := validation.RequireText("description", req.Description); err != nil {
		return nil, err
	}

	post := &models.TeamFinderPost{
		UserID:         userID,
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		RequiredSkills: validation.NormalizeTags(req.RequiredSkills, MaxRequiredSkills),
		TeamSize:       req.TeamSize,
		ProjectType:    req.ProjectType,
	}
	if post.TeamSize < 1 {
		post.TeamSize = 1
	}
	if post.ProjectType == "" {
		post.ProjectType = models.ProjectTypeHackathon
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userID", userID).Int64("postID", post.ID).Msg("Team post created")

	created, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewTeamPostResponse(created, userID, false)
	return &resp, nil
}

// Delete removes a post owned by userID
func (s *TeamFinderService) Delete(ctx context.Context, id, userID int64) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := appAuth.RequireOwner(post.UserID, userID, "you can only delete your own team posts"); err != nil {
		return err
	}
	return s.posts.Delete(ctx, id)
}

// Contact messages the post owner about the post and emails them
func (s *TeamFinderService) Contact(ctx context.Context, postID, userID int64, req *dto.ContactRequest) (*dto.MessageResponse, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID == userID {
		return nil, apperrors.NewBadRequestError("you cannot contact your own team post")
	}

	msg, err := s.messages.Send(ctx, userID, &dto.SendMessageRequest{
		ReceiverID:    post.UserID,
		Content:       req.Content,
		RelatedPostID: &post.ID,
	})
	if err != nil {
		return nil, err
	}
	title := post.Title
	msg.RelatedPostTitle = &title

	s.notifyOwner(ctx, post, userID, msg.Content)
	return msg, nil
}

func (s *TeamFinderService) notifyOwner(ctx context.Context, post *models.TeamFinderPost, fromID int64, content string) {
	if s.notifier == nil {
		return
	}
	profiles, err := s.profiles.GetByUserIDs(ctx, []int64{post.UserID, fromID})
	if err != nil {
		s.logger.Warn().Err(err).Int64("postID", post.ID).Msg("Failed to load profiles for team request mail")
		return
	}
	owner, ok := profiles[post.UserID]
	if !ok {
		return
	}
	req := email.TeamRequest{
		OwnerEmail: owner.Email,
		OwnerName:  owner.FullName,
		PostTitle:  post.Title,
		Content:    content,
	}
	if from, ok := profiles[fromID]; ok {
		req.FromName = from.FullName
	}
	if err := s.notifier.NotifyTeamRequest(ctx, req); err != nil {
		s.logger.Warn().Err(err).Int64("postID", post.ID).Msg("Failed to send team request mail")
	}
}
