package models

import "time"

// AnonymousPost is a board post whose author is never exposed
type AnonymousPost struct {
	ID        int64     `db:"id"`
	AuthorID  int64     `db:"author_id"`
	Content   string    `db:"content"`
	Tags      []string  `db:"tags"`
	CreatedAt time.Time `db:"created_at"`

	Upvotes      int64 `db:"upvotes"`
	Downvotes    int64 `db:"downvotes"`
	CommentCount int64 `db:"comment_count"`
	MyVote       int16 `db:"my_vote"`
}

// Score is upvotes minus downvotes.
func (p *AnonymousPost) Score() int64 {
	return p.Upvotes - p.Downvotes
}

// AnonymousComment is a reply on an anonymous post
type AnonymousComment struct {
	ID        int64     `db:"id"`
	PostID    int64     `db:"post_id"`
	AuthorID  int64     `db:"author_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`

	LikesCount int64 `db:"likes_count"`
	IsLiked    bool  `db:"is_liked"`
}

// Vote values. VoteNone is stored when a vote is toggled off.
const (
	VoteDown int16 = -1
	VoteNone int16 = 0
	VoteUp   int16 = 1
)

// VoteTally is the state of a post after a vote.
type VoteTally struct {
	MyVote    int16
	Upvotes   int64
	Downvotes int64
}
