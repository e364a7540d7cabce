package dto

import (
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
)

// AnonymousFilterRequest holds the query parameters of the board
type AnonymousFilterRequest struct {
	Sort string `form:"sort" binding:"omitempty,oneof=new top"`
	Page int    `form:"page"`
	Size int    `form:"size"`
}

// CreateAnonymousPostRequest creates a board post
type CreateAnonymousPostRequest struct {
	Content string   `json:"content" binding:"required,notblank,max=5000"`
	Tags    []string `json:"tags" binding:"max=20"`
}

// CreateCommentRequest creates a comment on a board post
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=2000"`
}

// VoteRequest casts or toggles a vote
type VoteRequest struct {
	Value int16 `json:"value" binding:"required,oneof=1 -1" example:"1"`
}

// AnonymousPostResponse never carries the author
type AnonymousPostResponse struct {
	ID           int64     `json:"id" example:"5"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	Upvotes      int64     `json:"upvotes" example:"10"`
	Downvotes    int64     `json:"downvotes" example:"2"`
	Score        int64     `json:"score" example:"8"`
	CommentCount int64     `json:"commentCount" example:"3"`
	MyVote       int16     `json:"myVote" example:"1"`
	IsMine       bool      `json:"isMine"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewAnonymousPostResponse converts a board post for the given viewer
func NewAnonymousPostResponse(p *models.AnonymousPost, viewerID int64) AnonymousPostResponse {
	return AnonymousPostResponse{
		ID:           p.ID,
		Content:      p.Content,
		Tags:         nonNil(p.Tags),
		Upvotes:      p.Upvotes,
		Downvotes:    p.Downvotes,
		Score:        p.Score(),
		CommentCount: p.CommentCount,
		MyVote:       p.MyVote,
		IsMine:       p.AuthorID == viewerID,
		CreatedAt:    p.CreatedAt,
	}
}

// AnonymousPostListResponse is one page of board posts
type AnonymousPostListResponse struct {
	Posts      []AnonymousPostResponse `json:"posts"`
	Pagination PaginationInfo          `json:"pagination"`
}

// VoteResponse is the post state after a vote
type VoteResponse struct {
	MyVote    int16 `json:"myVote" example:"1"`
	Upvotes   int64 `json:"upvotes" example:"11"`
	Downvotes int64 `json:"downvotes" example:"2"`
	Score     int64 `json:"score" example:"9"`
}

// NewVoteResponse converts a tally
func NewVoteResponse(t *models.VoteTally) VoteResponse {
	return VoteResponse{
		MyVote:    t.MyVote,
		Upvotes:   t.Upvotes,
		Downvotes: t.Downvotes,
		Score:     t.Upvotes - t.Downvotes,
	}
}

// CommentResponse never carries the author
type CommentResponse struct {
	ID         int64     `json:"id" example:"9"`
	PostID     int64     `json:"postId" example:"5"`
	Content    string    `json:"content"`
	LikesCount int64     `json:"likesCount" example:"4"`
	IsLiked    bool      `json:"isLiked"`
	IsMine     bool      `json:"isMine"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewCommentResponse converts a comment for the given viewer
func NewCommentResponse(c *models.AnonymousComment, viewerID int64) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		Content:    c.Content,
		LikesCount: c.LikesCount,
		IsLiked:    c.IsLiked,
		IsMine:     c.AuthorID == viewerID,
		CreatedAt:  c.CreatedAt,
	}
}
