package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/db"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/dberrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

var communityColumns = []string{
	"c.id", "c.name", "c.description", "c.created_by", "c.created_at",
	"(SELECT count(*) FROM community_members m WHERE m.community_id = c.id) AS member_count",
}

// CommunityRepository handles communities and their members
type CommunityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *pgxpool.Pool) *CommunityRepository {
	return &CommunityRepository{db: db, sb: newBuilder()}
}

func (r *CommunityRepository) selectFor(viewerID int64) squirrel.SelectBuilder {
	return r.sb.Select(communityColumns...).
		Column(squirrel.Expr("EXISTS (SELECT 1 FROM community_members m WHERE m.community_id = c.id AND m.user_id = ?) AS is_member", viewerID)).
		From("communities c")
}

func (r *CommunityRepository) listQuery(viewerID int64, search string) squirrel.SelectBuilder {
	b := r.selectFor(viewerID)
	if search != "" {
		b = b.Where(ilikeAny(containsPattern(search), "c.name", "c.description"))
	}
	return b.OrderBy("c.created_at DESC", "c.id DESC")
}

func (r *CommunityRepository) collect(ctx context.Context, b squirrel.SelectBuilder) ([]*models.Community, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building communities SQL")
		return nil, fmt.Errorf("failed to build communities query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying communities")
		return nil, fmt.Errorf("error querying communities: %w", err)
	}
	communities, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Community])
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning community rows")
		return nil, fmt.Errorf("error scanning communities: %w", err)
	}
	return communities, nil
}

// List returns all communities enriched for the viewer, newest first
func (r *CommunityRepository) List(ctx context.Context, viewerID int64, search string) ([]*models.Community, error) {
	return r.collect(ctx, r.listQuery(viewerID, search))
}

// ListForMember returns the communities userID belongs to
func (r *CommunityRepository) ListForMember(ctx context.Context, userID int64) ([]*models.Community, error) {
	return r.collect(ctx, r.selectFor(userID).
		Join("community_members mine ON mine.community_id = c.id").
		Where(squirrel.Eq{"mine.user_id": userID}).
		OrderBy("mine.joined_at DESC"))
}

// GetByID retrieves a community enriched for the viewer
func (r *CommunityRepository) GetByID(ctx context.Context, id, viewerID int64) (*models.Community, error) {
	communities, err := r.collect(ctx, r.selectFor(viewerID).Where(squirrel.Eq{"c.id": id}))
	if err != nil {
		return nil, err
	}
	if len(communities) == 0 {
		return nil, apperrors.NewResourceNotFoundError("community not found")
	}
	return communities[0], nil
}

// CreateWithOwner inserts the community and its owner membership in one transaction
func (r *CommunityRepository) CreateWithOwner(ctx context.Context, c *models.Community) error {
	communitySQL, communityArgs, err := r.sb.Insert("communities").
		Columns("name", "description", "created_by").
		Values(c.Name, c.Description, c.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create community query: %w", err)
	}

	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, communitySQL, communityArgs...).Scan(&c.ID, &c.CreatedAt); err != nil {
			return fmt.Errorf("error creating community: %w", err)
		}
		memberSQL, memberArgs, err := r.memberInsert(c.ID, c.CreatedBy, models.MemberRoleOwner).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build add owner query: %w", err)
		}
		if _, err := tx.Exec(ctx, memberSQL, memberArgs...); err != nil {
			return fmt.Errorf("error adding community owner: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("userID", c.CreatedBy).Msg("Error creating community")
		return err
	}

	c.MemberCount = 1
	c.IsMember = true
	return nil
}

func (r *CommunityRepository) memberInsert(communityID, userID int64, role models.MemberRole) squirrel.InsertBuilder {
	return r.sb.Insert("community_members").
		Columns("community_id", "user_id", "role").
		Values(communityID, userID, string(role))
}

// Update replaces a community's name and description
func (r *CommunityRepository) Update(ctx context.Context, c *models.Community) error {
	sql, args, err := r.sb.Update("communities").
		Set("name", c.Name).
		Set("description", c.Description).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update community query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("communityID", c.ID).Msg("Error updating community")
		return fmt.Errorf("error updating community: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("community not found")
	}
	return nil
}

// Delete removes a community and its memberships
func (r *CommunityRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("communities").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete community query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("communityID", id).Msg("Error deleting community")
		return fmt.Errorf("error deleting community: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("community not found")
	}
	return nil
}

// Join adds userID as a member
func (r *CommunityRepository) Join(ctx context.Context, communityID, userID int64) error {
	sql, args, err := r.memberInsert(communityID, userID, models.MemberRoleMember).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build join community query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return apperrors.ErrAlreadyMember
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.NewResourceNotFoundError("community not found")
		}
		logger.Error().Err(err).Int64("communityID", communityID).Msg("Error joining community")
		return fmt.Errorf("error joining community: %w", err)
	}
	return nil
}

// MemberRole returns userID's role in the community
func (r *CommunityRepository) MemberRole(ctx context.Context, communityID, userID int64) (models.MemberRole, error) {
	sql, args, err := r.sb.Select("role").From("community_members").
		Where(squirrel.Eq{"community_id": communityID, "user_id": userID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build member role query: %w", err)
	}

	var role string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotMember
		}
		return "", fmt.Errorf("error reading member role: %w", err)
	}
	return models.MemberRole(role), nil
}

// Leave removes userID from the community. Owners cannot leave.
func (r *CommunityRepository) Leave(ctx context.Context, communityID, userID int64) error {
	sql, args, err := r.sb.Delete("community_members").
		Where(squirrel.Eq{"community_id": communityID, "user_id": userID}).
		Where(squirrel.NotEq{"role": string(models.MemberRoleOwner)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build leave community query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("communityID", communityID).Msg("Error leaving community")
		return fmt.Errorf("error leaving community: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotMember
	}
	return nil
}

func (r *CommunityRepository) membersQuery(communityID int64) squirrel.SelectBuilder {
	return r.sb.Select(
		"m.community_id", "m.user_id", "m.role", "m.joined_at",
		"coalesce(p.full_name, '') AS full_name",
		"coalesce(p.avatar_url, p.profile_photo_url) AS avatar_url",
	).
		From("community_members m").
		LeftJoin("profiles p ON p.user_id = m.user_id").
		Where(squirrel.Eq{"m.community_id": communityID}).
		OrderBy("m.joined_at ASC")
}

// Members lists a community's members with their profile name and avatar
func (r *CommunityRepository) Members(ctx context.Context, communityID int64) ([]*models.CommunityMember, error) {
	sql, args, err := r.membersQuery(communityID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("communityID", communityID).Msg("Error querying members")
		return nil, fmt.Errorf("error querying members: %w", err)
	}
	members, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.CommunityMember])
	if err != nil {
		return nil, fmt.Errorf("error scanning members: %w", err)
	}
	return members, nil
}
