package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// TeamPostListFilter narrows the team finder list
type TeamPostListFilter struct {
	Search string
	// Keywords match title or description, any of them
	Keywords []string
	OwnerID  int64
}

// TeamPostStats are the board-wide counters of the team finder
type TeamPostStats struct {
	TotalPosts     int64
	ActiveTeams    int64
	SkillsInDemand int64
}

var teamPostColumns = []string{
	"t.id", "t.user_id", "t.title", "t.description", "t.required_skills", "t.team_size",
	"t.project_type", "t.created_at",
	"coalesce(p.full_name, '') AS owner_name",
	"coalesce(p.college_name, '') AS owner_college",
}

// TeamPostRepository handles team finder posts
type TeamPostRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeamPostRepository creates a new TeamPostRepository
func NewTeamPostRepository(db *pgxpool.Pool) *TeamPostRepository {
	return &TeamPostRepository{db: db, sb: newBuilder()}
}

func (r *TeamPostRepository) base() squirrel.SelectBuilder {
	return r.sb.Select(teamPostColumns...).
		From("team_finder_posts t").
		LeftJoin("profiles p ON p.user_id = t.user_id")
}

func (r *TeamPostRepository) listQuery(f TeamPostListFilter) squirrel.SelectBuilder {
	b := r.base()
	if f.Search != "" {
		b = b.Where(ilikeAny(containsPattern(f.Search),
			"t.title", "t.description", "array_to_string(t.required_skills, ' ')", "p.college_name", "p.full_name"))
	}
	if len(f.Keywords) > 0 {
		or := squirrel.Or{}
		for _, kw := range f.Keywords {
			or = append(or, ilikeAny(containsPattern(kw), "t.title", "t.description"))
		}
		b = b.Where(or)
	}
	if f.OwnerID != 0 {
		b = b.Where(squirrel.Eq{"t.user_id": f.OwnerID})
	}
	return b.OrderBy("t.created_at DESC", "t.id DESC")
}

func (r *TeamPostRepository) collect(ctx context.Context, b squirrel.SelectBuilder) ([]*models.TeamFinderPost, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building team posts SQL")
		return nil, fmt.Errorf("failed to build team posts query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying team posts")
		return nil, fmt.Errorf("error querying team posts: %w", err)
	}
	posts, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.TeamFinderPost])
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning team post rows")
		return nil, fmt.Errorf("error scanning team posts: %w", err)
	}
	return posts, nil
}

// List returns the team posts matching the filter, newest first
func (r *TeamPostRepository) List(ctx context.Context, f TeamPostListFilter) ([]*models.TeamFinderPost, error) {
	return r.collect(ctx, r.listQuery(f))
}

// GetByID retrieves a team post
func (r *TeamPostRepository) GetByID(ctx context.Context, id int64) (*models.TeamFinderPost, error) {
	posts, err := r.collect(ctx, r.base().Where(squirrel.Eq{"t.id": id}))
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, apperrors.NewResourceNotFoundError("team post not found")
	}
	return posts[0], nil
}

// Create inserts a team post and fills its id and creation time
func (r *TeamPostRepository) Create(ctx context.Context, p *models.TeamFinderPost) error {
	sql, args, err := r.sb.Insert("team_finder_posts").
		Columns("user_id", "title", "description", "required_skills", "team_size", "project_type").
		Values(p.UserID, p.Title, p.Description, nonNilStrings(p.RequiredSkills), p.TeamSize, p.ProjectType).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create team post SQL")
		return fmt.Errorf("failed to build create team post query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", p.UserID).Msg("Error creating team post")
		return fmt.Errorf("error creating team post: %w", err)
	}
	return nil
}

// Delete removes a team post
func (r *TeamPostRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("team_finder_posts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete team post query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postID", id).Msg("Error deleting team post")
		return fmt.Errorf("error deleting team post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("team post not found")
	}
	return nil
}

const teamPostStatsSQL = `
SELECT
	count(*),
	count(*) FILTER (WHERE team_size > 1),
	(SELECT count(DISTINCT lower(trim(s)))
		FROM team_finder_posts, unnest(required_skills) AS s
		WHERE trim(s) <> '')
FROM team_finder_posts`

// Stats computes the board-wide counters
func (r *TeamPostRepository) Stats(ctx context.Context) (*TeamPostStats, error) {
	var s TeamPostStats
	if err := r.db.QueryRow(ctx, teamPostStatsSQL).Scan(&s.TotalPosts, &s.ActiveTeams, &s.SkillsInDemand); err != nil {
		logger.Error().Err(err).Msg("Error computing team post stats")
		return nil, fmt.Errorf("error computing team post stats: %w", err)
	}
	return &s, nil
}
