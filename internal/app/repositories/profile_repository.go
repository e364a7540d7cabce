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
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

var profileColumns = []string{
	"user_id", "email", "full_name", "college_name", "bio", "location",
	"skills", "interests", "avatar_url", "profile_photo_url", "created_at", "updated_at",
}

// Photo columns on profiles
const (
	ProfileAvatarColumn = "avatar_url"
	ProfilePhotoColumn  = "profile_photo_url"
)

// ProfileRepository handles profile rows
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db, sb: newBuilder()}
}

// GetByUserID retrieves a profile. Missing profiles return ErrResourceNotFound.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get profile SQL")
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying profile: %w", err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Profile])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("profile not found")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return p, nil
}

// GetByUserIDs loads the profiles of several users keyed by user id. Unknown ids are skipped.
func (r *ProfileRepository) GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Profile, error) {
	result := make(map[int64]*models.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	sql, args, err := r.sb.Select(profileColumns...).From("profiles").
		Where(squirrel.Eq{"user_id": userIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying profiles: %w", err)
	}
	profiles, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Profile])
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning profile rows")
		return nil, fmt.Errorf("error retrieving profiles: %w", err)
	}
	for _, p := range profiles {
		result[p.UserID] = p
	}
	return result, nil
}

// Ensure creates a bare profile for the user when none exists and returns the stored row.
func (r *ProfileRepository) Ensure(ctx context.Context, userID int64, email string) (*models.Profile, error) {
	sql, args, err := r.sb.Insert("profiles").
		Columns("user_id", "email").
		Values(userID, email).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build ensure profile query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error creating missing profile")
		return nil, fmt.Errorf("error creating profile: %w", err)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *ProfileRepository) updateQuery(p *models.Profile) squirrel.UpdateBuilder {
	return r.sb.Update("profiles").
		Set("full_name", p.FullName).
		Set("college_name", p.CollegeName).
		Set("bio", p.Bio).
		Set("location", p.Location).
		Set("skills", nonNilStrings(p.Skills)).
		Set("interests", nonNilStrings(p.Interests)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"user_id": p.UserID})
}

// Update replaces the editable fields of a profile
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	sql, args, err := r.updateQuery(p).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", p.UserID).Msg("Error updating profile")
		return fmt.Errorf("error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("profile not found")
	}
	return nil
}

// SetPhotoURL stores url in column (avatar_url or profile_photo_url) and returns the previous value.
func (r *ProfileRepository) SetPhotoURL(ctx context.Context, userID int64, column, url string) (*string, error) {
	if column != ProfileAvatarColumn && column != ProfilePhotoColumn {
		return nil, fmt.Errorf("unknown photo column %q", column)
	}

	// The subselect reads the pre-update snapshot.
	sql, args, err := r.sb.Update("profiles AS p").
		Set(column, url).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"p.user_id": userID}).
		Suffix(fmt.Sprintf("RETURNING (SELECT old.%s FROM profiles old WHERE old.user_id = p.user_id)", column)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build set photo query: %w", err)
	}

	var previous *string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("profile not found")
		}
		logger.Error().Err(err).Int64("userID", userID).Str("column", column).Msg("Error storing profile photo")
		return nil, fmt.Errorf("error storing profile photo: %w", err)
	}
	return previous, nil
}

const profileStatsSQL = `
SELECT
	(SELECT count(*) FROM notes WHERE user_id = $1),
	(SELECT count(*) FROM team_finder_posts WHERE user_id = $1),
	(SELECT count(*) FROM event_registrations WHERE user_id = $1),
	(SELECT count(*) FROM anonymous_posts WHERE author_id = $1),
	(SELECT count(*) FROM anonymous_comments WHERE author_id = $1),
	(SELECT coalesce(sum(v.vote_type), 0)
		FROM anonymous_votes v JOIN anonymous_posts p ON p.id = v.post_id
		WHERE p.author_id = $1)`

// Stats counts the user's activity
func (r *ProfileRepository) Stats(ctx context.Context, userID int64) (*models.ProfileStats, error) {
	var s models.ProfileStats
	err := r.db.QueryRow(ctx, profileStatsSQL, userID).Scan(
		&s.Notes, &s.TeamPosts, &s.EventRegistrations,
		&s.AnonymousPosts, &s.AnonymousComments, &s.AnonymousScore,
	)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error computing profile stats")
		return nil, fmt.Errorf("error computing profile stats: %w", err)
	}
	return &s, nil
}
