package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/dberrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// Note list filters and sort orders
const (
	NoteFilterYours   = "yours"
	NoteFilterRecent  = "recent"
	NoteFilterPopular = "popular"

	NoteSortNewest  = "newest"
	NoteSortOldest  = "oldest"
	NoteSortPopular = "popular"
	NoteSortTitle   = "title"

	// NotePopularListThreshold is the download count above which a note is listed as popular.
	NotePopularListThreshold = 10
	// NotePopularStatsThreshold is the download count above which a note counts as popular in stats.
	NotePopularStatsThreshold = 50
)

// NoteListFilter narrows the notes list
type NoteListFilter struct {
	ViewerID int64
	Search   string
	Subject  string
	Filter   string
	Sort     string
	// Since bounds the recent filter
	Since  time.Time
	Offset uint64
	Limit  uint64
}

// NoteStats are the counters shown above the notes list
type NoteStats struct {
	Total     int64
	Recent    int64
	Popular   int64
	YourNotes int64
}

var noteColumns = []string{
	"n.id", "n.user_id", "n.title", "n.subject", "n.description", "n.file_url", "n.file_key",
	"n.views_count", "n.downloads_count", "n.created_at", "n.updated_at",
	"coalesce(p.full_name, '') AS uploader_name",
	"coalesce(p.profile_photo_url, p.avatar_url) AS uploader_photo",
}

// NoteRepository handles shared notes
type NoteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{db: db, sb: newBuilder()}
}

func (r *NoteRepository) selectFrom(source string) squirrel.SelectBuilder {
	return r.sb.Select(noteColumns...).
		From(source + " n").
		LeftJoin("profiles p ON p.user_id = n.user_id")
}

func (r *NoteRepository) applyFilter(b squirrel.SelectBuilder, f NoteListFilter) squirrel.SelectBuilder {
	if f.Search != "" {
		b = b.Where(ilikeAny(containsPattern(f.Search), "n.title", "n.subject", "n.description", "p.full_name"))
	}
	if f.Subject != "" {
		b = b.Where(squirrel.Expr("lower(n.subject) = lower(?)", f.Subject))
	}
	switch f.Filter {
	case NoteFilterYours:
		b = b.Where(squirrel.Eq{"n.user_id": f.ViewerID})
	case NoteFilterRecent:
		b = b.Where(squirrel.GtOrEq{"n.created_at": f.Since})
	case NoteFilterPopular:
		b = b.Where(squirrel.Gt{"n.downloads_count": NotePopularListThreshold})
	}
	return b
}

func noteOrder(sort string) []string {
	switch sort {
	case NoteSortOldest:
		return []string{"n.created_at ASC", "n.id ASC"}
	case NoteSortPopular:
		return []string{"n.downloads_count DESC", "n.created_at DESC"}
	case NoteSortTitle:
		return []string{"lower(n.title) ASC", "n.id ASC"}
	default:
		return []string{"n.created_at DESC", "n.id DESC"}
	}
}

func (r *NoteRepository) listQuery(f NoteListFilter) squirrel.SelectBuilder {
	return r.applyFilter(r.selectFrom("notes"), f).
		OrderBy(noteOrder(f.Sort)...).
		Limit(f.Limit).
		Offset(f.Offset)
}

func (r *NoteRepository) countQuery(f NoteListFilter) squirrel.SelectBuilder {
	return r.applyFilter(r.sb.Select("count(*)").From("notes n").LeftJoin("profiles p ON p.user_id = n.user_id"), f)
}

// List returns a page of notes plus the total matching the filter
func (r *NoteRepository) List(ctx context.Context, f NoteListFilter) ([]*models.Note, int64, error) {
	countSQL, countArgs, err := r.countQuery(f).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count notes SQL")
		return nil, 0, fmt.Errorf("failed to build count notes query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting notes")
		return nil, 0, fmt.Errorf("error counting notes: %w", err)
	}

	sql, args, err := r.listQuery(f).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list notes SQL")
		return nil, 0, fmt.Errorf("failed to build list notes query: %w", err)
	}
	notes, err := r.collect(ctx, sql, args)
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (r *NoteRepository) collect(ctx context.Context, sql string, args []interface{}) ([]*models.Note, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying notes")
		return nil, fmt.Errorf("error querying notes: %w", err)
	}
	notes, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Note])
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning note rows")
		return nil, fmt.Errorf("error scanning notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) collectOne(ctx context.Context, sql string, args []interface{}) (*models.Note, error) {
	notes, err := r.collect(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, apperrors.NewResourceNotFoundError("note not found")
	}
	return notes[0], nil
}

func (r *NoteRepository) statsQuery(userID int64, since time.Time) squirrel.SelectBuilder {
	return r.sb.Select("count(*)").
		Column(squirrel.Expr("count(*) FILTER (WHERE created_at >= ?)", since)).
		Column(squirrel.Expr("count(*) FILTER (WHERE downloads_count > ?)", NotePopularStatsThreshold)).
		Column(squirrel.Expr("count(*) FILTER (WHERE user_id = ?)", userID)).
		From("notes")
}

// Stats counts notes overall, recent since the given time, popular, and owned by userID
func (r *NoteRepository) Stats(ctx context.Context, userID int64, since time.Time) (*NoteStats, error) {
	sql, args, err := r.statsQuery(userID, since).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build note stats query: %w", err)
	}

	var s NoteStats
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.Total, &s.Recent, &s.Popular, &s.YourNotes); err != nil {
		logger.Error().Err(err).Msg("Error computing note stats")
		return nil, fmt.Errorf("error computing note stats: %w", err)
	}
	return &s, nil
}

// GetByID retrieves a note without touching its counters
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	sql, args, err := r.selectFrom("notes").Where(squirrel.Eq{"n.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get note query: %w", err)
	}
	return r.collectOne(ctx, sql, args)
}

func (r *NoteRepository) viewQuery(id int64) squirrel.SelectBuilder {
	return r.selectFrom("viewed").
		Prefix("WITH viewed AS (UPDATE notes SET views_count = views_count + 1 WHERE id = ? RETURNING *)", id)
}

// View increments the view counter and returns the updated note
func (r *NoteRepository) View(ctx context.Context, id int64) (*models.Note, error) {
	sql, args, err := r.viewQuery(id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build view note query: %w", err)
	}
	return r.collectOne(ctx, sql, args)
}

// Create inserts a note and fills its id and timestamps
func (r *NoteRepository) Create(ctx context.Context, n *models.Note) error {
	sql, args, err := r.sb.Insert("notes").
		Columns("user_id", "title", "subject", "description", "file_url", "file_key").
		Values(n.UserID, n.Title, n.Subject, n.Description, n.FileURL, n.FileKey).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create note SQL")
		return fmt.Errorf("failed to build create note query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", n.UserID).Msg("Error creating note")
		return fmt.Errorf("error creating note: %w", err)
	}
	return nil
}

// Update replaces a note's text fields
func (r *NoteRepository) Update(ctx context.Context, n *models.Note) error {
	sql, args, err := r.sb.Update("notes").
		Set("title", n.Title).
		Set("subject", n.Subject).
		Set("description", n.Description).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": n.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update note query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("noteID", n.ID).Msg("Error updating note")
		return fmt.Errorf("error updating note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("note not found")
	}
	return nil
}

// Delete removes a note row
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("notes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete note query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("noteID", id).Msg("Error deleting note")
		return fmt.Errorf("error deleting note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("note not found")
	}
	return nil
}

const recordDownloadSQL = `
WITH ins AS (
	INSERT INTO notes_downloads (note_id, user_id) VALUES ($1, $2)
	ON CONFLICT (note_id, user_id) DO NOTHING
	RETURNING note_id
)
UPDATE notes SET downloads_count = downloads_count + (SELECT count(*) FROM ins)
WHERE id = $1
RETURNING file_url, downloads_count`

// RecordDownload counts the first download of a note per user and returns the file URL
// and the resulting download count.
func (r *NoteRepository) RecordDownload(ctx context.Context, noteID, userID int64) (string, int64, error) {
	var fileURL string
	var count int64
	err := r.db.QueryRow(ctx, recordDownloadSQL, noteID, userID).Scan(&fileURL, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, apperrors.NewResourceNotFoundError("note not found")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return "", 0, apperrors.NewResourceNotFoundError("note not found")
		}
		logger.Error().Err(err).Int64("noteID", noteID).Msg("Error recording download")
		return "", 0, fmt.Errorf("error recording download: %w", err)
	}
	return fileURL, count, nil
}
