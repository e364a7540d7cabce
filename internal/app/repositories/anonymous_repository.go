package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/dberrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// Anonymous board sort orders
const (
	AnonymousSortNew = "new"
	AnonymousSortTop = "top"
)

var anonymousPostColumns = []string{
	"a.id", "a.author_id", "a.content", "a.tags", "a.created_at",
	"(SELECT count(*) FROM anonymous_votes v WHERE v.post_id = a.id AND v.vote_type = 1) AS upvotes",
	"(SELECT count(*) FROM anonymous_votes v WHERE v.post_id = a.id AND v.vote_type = -1) AS downvotes",
	"(SELECT count(*) FROM anonymous_comments c WHERE c.post_id = a.id) AS comment_count",
}

// AnonymousRepository handles the anonymous board
type AnonymousRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAnonymousRepository creates a new AnonymousRepository
func NewAnonymousRepository(db *pgxpool.Pool) *AnonymousRepository {
	return &AnonymousRepository{db: db, sb: newBuilder()}
}

func (r *AnonymousRepository) selectPosts(viewerID int64) squirrel.SelectBuilder {
	return r.sb.Select(anonymousPostColumns...).
		Column(squirrel.Expr("coalesce((SELECT v.vote_type FROM anonymous_votes v WHERE v.post_id = a.id AND v.user_id = ?), 0) AS my_vote", viewerID)).
		From("anonymous_posts a")
}

func (r *AnonymousRepository) listQuery(viewerID int64, sort string, offset, limit uint64) squirrel.SelectBuilder {
	b := r.selectPosts(viewerID)
	if sort == AnonymousSortTop {
		b = b.OrderBy(
			"(SELECT coalesce(sum(v.vote_type), 0) FROM anonymous_votes v WHERE v.post_id = a.id) DESC",
			"a.created_at DESC",
		)
	} else {
		b = b.OrderBy("a.created_at DESC", "a.id DESC")
	}
	return b.Limit(limit).Offset(offset)
}

func (r *AnonymousRepository) collectPosts(ctx context.Context, b squirrel.SelectBuilder) ([]*models.AnonymousPost, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building anonymous posts SQL")
		return nil, fmt.Errorf("failed to build anonymous posts query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying anonymous posts")
		return nil, fmt.Errorf("error querying anonymous posts: %w", err)
	}
	posts, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.AnonymousPost])
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning anonymous post rows")
		return nil, fmt.Errorf("error scanning anonymous posts: %w", err)
	}
	return posts, nil
}

// ListPosts returns a page of board posts enriched for the viewer plus the total count
func (r *AnonymousRepository) ListPosts(ctx context.Context, viewerID int64, sort string, offset, limit uint64) ([]*models.AnonymousPost, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM anonymous_posts").Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting anonymous posts")
		return nil, 0, fmt.Errorf("error counting anonymous posts: %w", err)
	}

	posts, err := r.collectPosts(ctx, r.listQuery(viewerID, sort, offset, limit))
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetPost retrieves a board post enriched for the viewer
func (r *AnonymousRepository) GetPost(ctx context.Context, id, viewerID int64) (*models.AnonymousPost, error) {
	posts, err := r.collectPosts(ctx, r.selectPosts(viewerID).Where(squirrel.Eq{"a.id": id}))
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, apperrors.NewResourceNotFoundError("post not found")
	}
	return posts[0], nil
}

// CreatePost inserts a board post
func (r *AnonymousRepository) CreatePost(ctx context.Context, p *models.AnonymousPost) error {
	sql, args, err := r.sb.Insert("anonymous_posts").
		Columns("author_id", "content", "tags").
		Values(p.AuthorID, p.Content, nonNilStrings(p.Tags)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create anonymous post query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error creating anonymous post")
		return fmt.Errorf("error creating anonymous post: %w", err)
	}
	return nil
}

// DeletePost removes a board post with its votes and comments
func (r *AnonymousRepository) DeletePost(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "anonymous_posts", id, "post not found")
}

func (r *AnonymousRepository) deleteByID(ctx context.Context, table string, id int64, notFound string) error {
	sql, args, err := r.sb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error deleting row")
		return fmt.Errorf("error deleting from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(notFound)
	}
	return nil
}

// Casting the same value twice toggles the vote off (0); a different value replaces it.
const voteSQL = `
INSERT INTO anonymous_votes (post_id, user_id, vote_type) VALUES ($1, $2, $3)
ON CONFLICT (post_id, user_id) DO UPDATE SET
	vote_type = CASE WHEN anonymous_votes.vote_type = EXCLUDED.vote_type THEN 0 ELSE EXCLUDED.vote_type END,
	updated_at = now()
RETURNING vote_type`

const voteTallySQL = `
SELECT count(*) FILTER (WHERE vote_type = 1), count(*) FILTER (WHERE vote_type = -1)
FROM anonymous_votes WHERE post_id = $1`

// Vote applies value (1 or -1) for userID on the post and returns the resulting tally
func (r *AnonymousRepository) Vote(ctx context.Context, postID, userID int64, value int16) (*models.VoteTally, error) {
	var tally models.VoteTally
	if err := r.db.QueryRow(ctx, voteSQL, postID, userID, value).Scan(&tally.MyVote); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.NewResourceNotFoundError("post not found")
		}
		logger.Error().Err(err).Int64("postID", postID).Msg("Error casting vote")
		return nil, fmt.Errorf("error casting vote: %w", err)
	}

	if err := r.db.QueryRow(ctx, voteTallySQL, postID).Scan(&tally.Upvotes, &tally.Downvotes); err != nil {
		logger.Error().Err(err).Int64("postID", postID).Msg("Error tallying votes")
		return nil, fmt.Errorf("error tallying votes: %w", err)
	}
	return &tally, nil
}

func (r *AnonymousRepository) commentsQuery(postID, viewerID int64) squirrel.SelectBuilder {
	return r.sb.Select(
		"c.id", "c.post_id", "c.author_id", "c.content", "c.created_at",
		"(SELECT count(*) FROM anonymous_comment_likes l WHERE l.comment_id = c.id) AS likes_count",
	).
		Column(squirrel.Expr("EXISTS (SELECT 1 FROM anonymous_comment_likes l WHERE l.comment_id = c.id AND l.user_id = ?) AS is_liked", viewerID)).
		From("anonymous_comments c").
		Where(squirrel.Eq{"c.post_id": postID}).
		OrderBy("c.created_at ASC", "c.id ASC")
}

// ListComments returns a post's comments oldest first, enriched for the viewer
func (r *AnonymousRepository) ListComments(ctx context.Context, postID, viewerID int64) ([]*models.AnonymousComment, error) {
	sql, args, err := r.commentsQuery(postID, viewerID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build comments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postID", postID).Msg("Error querying comments")
		return nil, fmt.Errorf("error querying comments: %w", err)
	}
	comments, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.AnonymousComment])
	if err != nil {
		return nil, fmt.Errorf("error scanning comments: %w", err)
	}
	return comments, nil
}

// GetCommentAuthor returns the author of a comment
func (r *AnonymousRepository) GetCommentAuthor(ctx context.Context, commentID int64) (int64, error) {
	var authorID int64
	err := r.db.QueryRow(ctx, "SELECT author_id FROM anonymous_comments WHERE id = $1", commentID).Scan(&authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewResourceNotFoundError("comment not found")
		}
		return 0, fmt.Errorf("error reading comment: %w", err)
	}
	return authorID, nil
}

// CreateComment inserts a comment on a post
func (r *AnonymousRepository) CreateComment(ctx context.Context, c *models.AnonymousComment) error {
	sql, args, err := r.sb.Insert("anonymous_comments").
		Columns("post_id", "author_id", "content").
		Values(c.PostID, c.AuthorID, c.Content).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create comment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("post not found")
		}
		logger.Error().Err(err).Int64("postID", c.PostID).Msg("Error creating comment")
		return fmt.Errorf("error creating comment: %w", err)
	}
	return nil
}

// DeleteComment removes a comment with its likes
func (r *AnonymousRepository) DeleteComment(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "anonymous_comments", id, "comment not found")
}

// ToggleCommentLike flips the user's like on the comment
func (r *AnonymousRepository) ToggleCommentLike(ctx context.Context, commentID, userID int64) (bool, int64, error) {
	var liked bool
	var count int64
	err := r.db.QueryRow(ctx, toggleLikeSQL("anonymous_comment_likes", "comment_id"), commentID, userID).Scan(&liked, &count)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return false, 0, apperrors.NewResourceNotFoundError("comment not found")
		}
		logger.Error().Err(err).Int64("commentID", commentID).Msg("Error toggling comment like")
		return false, 0, fmt.Errorf("error toggling comment like: %w", err)
	}
	return liked, count, nil
}
