package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/campusconnect/internal/app/auth"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/helpers"
	"github.com/yigit/campusconnect/internal/pkg/metrics"
	"github.com/yigit/campusconnect/internal/pkg/validation"
)

// MaxAnonymousTags caps the tags of a board post.
const MaxAnonymousTags = 10

// AnonymousService runs the anonymous board. Authors are never exposed to other users.
type AnonymousService struct {
	board  AnonymousStore
	logger zerolog.Logger
}

// NewAnonymousService creates a new AnonymousService
func NewAnonymousService(board AnonymousStore, logger zerolog.Logger) *AnonymousService {
	return &AnonymousService{
		board:  board,
		logger: logger,
	}
}

// List returns a page of posts ordered by the requested sort
func (s *AnonymousService) List(ctx context.Context, viewerID int64, req *dto.AnonymousFilterRequest) (*dto.AnonymousPostListResponse, error) {
	sort := req.Sort
	if sort != repositories.AnonymousSortTop {
		sort = repositories.AnonymousSortNew
	}
	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.Size)

	posts, total, err := s.board.ListPosts(ctx, viewerID, sort, offset, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnonymousPostListResponse{
		Posts:      make([]dto.AnonymousPostResponse, 0, len(posts)),
		Pagination: helpers.NewPaginationInfo(total, req.Page, req.Size),
	}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, dto.NewAnonymousPostResponse(p, viewerID))
	}
	return resp, nil
}

// Create stores a board post
func (s *AnonymousService) Create(ctx context.Context, userID int64, req *dto.CreateAnonymousPostRequest) (*dto.AnonymousPostResponse, error) {
	if err := validation.RequireText("content", req.Content); err != nil {
		return nil, err
	}

	post := &models.AnonymousPost{
		AuthorID: userID,
		Content:  strings.TrimSpace(req.Content),
		Tags:     validation.NormalizeTags(req.Tags, MaxAnonymousTags),
	}
	if err := s.board.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	resp := dto.NewAnonymousPostResponse(post, userID)
	return &resp, nil
}

// Delete removes a post authored by userID
func (s *AnonymousService) Delete(ctx context.Context, id, userID int64) error {
	post, err := s.board.GetPost(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := appAuth.RequireOwner(post.AuthorID, userID, "you can only delete your own posts"); err != nil {
		return err
	}
	return s.board.DeletePost(ctx, id)
}

// Vote casts value for userID. Repeating the current vote clears it.
func (s *AnonymousService) Vote(ctx context.Context, id, userID int64, value int16) (*dto.VoteResponse, error) {
	if value != models.VoteUp && value != models.VoteDown {
		return nil, apperrors.NewValidationError("value", "value must be 1 or -1")
	}

	tally, err := s.board.Vote(ctx, id, userID, value)
	if err != nil {
		return nil, err
	}

	result := metrics.ResultChanged
	if tally.MyVote == models.VoteNone {
		result = metrics.ResultRemoved
	}
	metrics.RecordReaction("anonymous_vote", result)

	resp := dto.NewVoteResponse(tally)
	return &resp, nil
}

// Comments lists a post's comments oldest first
func (s *AnonymousService) Comments(ctx context.Context, postID, viewerID int64) ([]dto.CommentResponse, error) {
	if _, err := s.board.GetPost(ctx, postID, viewerID); err != nil {
		return nil, err
	}
	comments, err := s.board.ListComments(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, dto.NewCommentResponse(c, viewerID))
	}
	return out, nil
}

// Comment adds a comment by userID to the post
func (s *AnonymousService) Comment(ctx context.Context, postID, userID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if err := validation.RequireText("content", req.Content); err != nil {
		return nil, err
	}

	comment := &models.AnonymousComment{
		PostID:   postID,
		AuthorID: userID,
		Content:  strings.TrimSpace(req.Content),
	}
	if err := s.board.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	resp := dto.NewCommentResponse(comment, userID)
	return &resp, nil
}

// DeleteComment removes a comment authored by userID
func (s *AnonymousService) DeleteComment(ctx context.Context, id, userID int64) error {
	authorID, err := s.board.GetCommentAuthor(ctx, id)
	if err != nil {
		return err
	}
	if err := appAuth.RequireOwner(authorID, userID, "you can only delete your own comments"); err != nil {
		return err
	}
	return s.board.DeleteComment(ctx, id)
}

// ToggleCommentLike flips userID's like on a comment
func (s *AnonymousService) ToggleCommentLike(ctx context.Context, id, userID int64) (*dto.ToggleResponse, error) {
	liked, count, err := s.board.ToggleCommentLike(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	metrics.RecordReaction("comment_like", toggleResult(liked))
	return &dto.ToggleResponse{Liked: liked, LikesCount: count}, nil
}
