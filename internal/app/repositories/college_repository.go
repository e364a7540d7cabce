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

var collegeColumns = []string{"id", "name", "description", "created_by", "created_at"}

// CollegeRepository handles the college directory
type CollegeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCollegeRepository creates a new CollegeRepository
func NewCollegeRepository(db *pgxpool.Pool) *CollegeRepository {
	return &CollegeRepository{db: db, sb: newBuilder()}
}

// List returns every college, newest first
func (r *CollegeRepository) List(ctx context.Context) ([]*models.College, error) {
	sql, args, err := r.sb.Select(collegeColumns...).From("colleges").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list colleges SQL")
		return nil, fmt.Errorf("failed to build list colleges query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying colleges")
		return nil, fmt.Errorf("error querying colleges: %w", err)
	}
	colleges, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.College])
	if err != nil {
		return nil, fmt.Errorf("error scanning colleges: %w", err)
	}
	return colleges, nil
}

// GetByID retrieves a college
func (r *CollegeRepository) GetByID(ctx context.Context, id int64) (*models.College, error) {
	sql, args, err := r.sb.Select(collegeColumns...).From("colleges").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get college query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying college: %w", err)
	}
	college, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.College])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("college not found")
		}
		return nil, fmt.Errorf("error retrieving college: %w", err)
	}
	return college, nil
}

// Create inserts a college. Duplicate names return a conflict.
func (r *CollegeRepository) Create(ctx context.Context, c *models.College) error {
	sql, args, err := r.sb.Insert("colleges").
		Columns("name", "description", "created_by").
		Values(c.Name, c.Description, c.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create college SQL")
		return fmt.Errorf("failed to build create college query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("a college with this name already exists")
		}
		logger.Error().Err(err).Str("name", c.Name).Msg("Error creating college")
		return fmt.Errorf("error creating college: %w", err)
	}
	return nil
}

// Delete removes a college
func (r *CollegeRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("colleges").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete college query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("collegeID", id).Msg("Error deleting college")
		return fmt.Errorf("error deleting college: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("college not found")
	}
	return nil
}

func (r *CollegeRepository) seedQuery(colleges []models.College) squirrel.InsertBuilder {
	b := r.sb.Insert("colleges").Columns("name", "description")
	for _, c := range colleges {
		b = b.Values(c.Name, c.Description)
	}
	return b.Suffix("ON CONFLICT (name) DO NOTHING")
}

// SeedDefaults inserts creator-less colleges, skipping names that already exist
func (r *CollegeRepository) SeedDefaults(ctx context.Context, colleges []models.College) (int64, error) {
	if len(colleges) == 0 {
		return 0, nil
	}
	sql, args, err := r.seedQuery(colleges).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build seed colleges query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error seeding colleges")
		return 0, fmt.Errorf("error seeding colleges: %w", err)
	}
	return tag.RowsAffected(), nil
}
