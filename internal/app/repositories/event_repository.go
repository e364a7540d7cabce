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
	"github.com/yigit/campusconnect/internal/db"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/dberrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// EventListFilter narrows the events list
type EventListFilter struct {
	ViewerID int64
	Type     string
	Search   string
	// UpcomingFrom hides events dated before it when set
	UpcomingFrom *time.Time
	Offset       uint64
	Limit        uint64
}

var eventColumns = []string{
	"e.id", "e.created_by", "e.title", "e.description", "e.event_type", "e.event_date",
	"e.event_time", "e.location", "e.venue", "e.website", "e.max_attendees", "e.tags",
	"e.cover_url", "e.cover_key", "e.is_featured", "e.created_at", "e.updated_at",
	"(SELECT count(*) FROM event_registrations r WHERE r.event_id = e.id) AS registrations_count",
	"(SELECT count(*) FROM event_likes l WHERE l.event_id = e.id) AS likes_count",
	"coalesce(p.full_name, '') AS organizer_name",
}

// EventRepository handles events, registrations and likes
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db, sb: newBuilder()}
}

func (r *EventRepository) selectFor(viewerID int64) squirrel.SelectBuilder {
	return r.sb.Select(eventColumns...).
		Column(squirrel.Expr("EXISTS (SELECT 1 FROM event_registrations r WHERE r.event_id = e.id AND r.user_id = ?) AS is_registered", viewerID)).
		Column(squirrel.Expr("EXISTS (SELECT 1 FROM event_likes l WHERE l.event_id = e.id AND l.user_id = ?) AS is_liked", viewerID)).
		From("events e").
		LeftJoin("profiles p ON p.user_id = e.created_by")
}

func (r *EventRepository) applyFilter(b squirrel.SelectBuilder, f EventListFilter) squirrel.SelectBuilder {
	if f.Type != "" {
		b = b.Where(squirrel.Expr("lower(e.event_type) = lower(?)", f.Type))
	}
	if f.Search != "" {
		b = b.Where(ilikeAny(containsPattern(f.Search), "e.title", "e.description", "e.location", "e.venue"))
	}
	if f.UpcomingFrom != nil {
		b = b.Where(squirrel.GtOrEq{"e.event_date": *f.UpcomingFrom})
	}
	return b
}

func (r *EventRepository) listQuery(f EventListFilter) squirrel.SelectBuilder {
	return r.applyFilter(r.selectFor(f.ViewerID), f).
		OrderBy("e.event_date ASC", "e.event_time ASC", "e.id ASC").
		Limit(f.Limit).
		Offset(f.Offset)
}

func (r *EventRepository) collect(ctx context.Context, b squirrel.SelectBuilder) ([]*models.Event, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building events SQL")
		return nil, fmt.Errorf("failed to build events query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying events")
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	events, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Event])
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning event rows")
		return nil, fmt.Errorf("error scanning events: %w", err)
	}
	return events, nil
}

// List returns a page of events enriched for the viewer plus the total matching the filter
func (r *EventRepository) List(ctx context.Context, f EventListFilter) ([]*models.Event, int64, error) {
	countSQL, countArgs, err := r.applyFilter(r.sb.Select("count(*)").From("events e"), f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count events query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting events")
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	events, err := r.collect(ctx, r.listQuery(f))
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// GetByID retrieves an event enriched for the viewer
func (r *EventRepository) GetByID(ctx context.Context, id, viewerID int64) (*models.Event, error) {
	events, err := r.collect(ctx, r.selectFor(viewerID).Where(squirrel.Eq{"e.id": id}))
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, apperrors.NewResourceNotFoundError("event not found")
	}
	return events[0], nil
}

// ListRegisteredBy returns the events userID registered for
func (r *EventRepository) ListRegisteredBy(ctx context.Context, userID int64) ([]*models.Event, error) {
	return r.collect(ctx, r.selectFor(userID).
		Join("event_registrations mine ON mine.event_id = e.id").
		Where(squirrel.Eq{"mine.user_id": userID}).
		OrderBy("e.event_date ASC", "e.event_time ASC", "e.id ASC"))
}

// Create inserts an event and fills its id and timestamps
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	sql, args, err := r.sb.Insert("events").
		Columns("created_by", "title", "description", "event_type", "event_date", "event_time",
			"location", "venue", "website", "max_attendees", "tags", "cover_url", "cover_key").
		Values(e.CreatedBy, e.Title, e.Description, e.EventType, e.EventDate, e.EventTime,
			e.Location, e.Venue, e.Website, e.MaxAttendees, nonNilStrings(e.Tags), e.CoverURL, e.CoverKey).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", e.CreatedBy).Msg("Error creating event")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

func (r *EventRepository) updateQuery(e *models.Event) squirrel.UpdateBuilder {
	return r.sb.Update("events").
		Set("title", e.Title).
		Set("description", e.Description).
		Set("event_type", e.EventType).
		Set("event_date", e.EventDate).
		Set("event_time", e.EventTime).
		Set("location", e.Location).
		Set("venue", e.Venue).
		Set("website", e.Website).
		Set("max_attendees", e.MaxAttendees).
		Set("tags", nonNilStrings(e.Tags)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": e.ID})
}

// Update replaces an event's editable columns
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	sql, args, err := r.updateQuery(e).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", e.ID).Msg("Error updating event")
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("event not found")
	}
	return nil
}

// Delete removes an event with its registrations and likes
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", id).Msg("Error deleting event")
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("event not found")
	}
	return nil
}

const registerSQL = `
INSERT INTO event_registrations (event_id, user_id)
SELECT e.id, $2 FROM events e
WHERE e.id = $1
	AND (e.max_attendees IS NULL
		OR (SELECT count(*) FROM event_registrations r WHERE r.event_id = e.id) < e.max_attendees)
ON CONFLICT (event_id, user_id) DO NOTHING
RETURNING event_id`

// Register adds userID to the event. The event row is locked first so the capacity
// check in the conditional insert sees every committed registration.
func (r *EventRepository) Register(ctx context.Context, eventID, userID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, "SELECT id FROM events WHERE id = $1 FOR UPDATE", eventID).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewResourceNotFoundError("event not found")
			}
			return fmt.Errorf("error locking event: %w", err)
		}

		var inserted int64
		err = tx.QueryRow(ctx, registerSQL, eventID, userID).Scan(&inserted)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			logger.Error().Err(err).Int64("eventID", eventID).Int64("userID", userID).Msg("Error registering for event")
			return fmt.Errorf("error registering for event: %w", err)
		}

		var already bool
		err = tx.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM event_registrations WHERE event_id = $1 AND user_id = $2)",
			eventID, userID).Scan(&already)
		if err != nil {
			return fmt.Errorf("error checking registration: %w", err)
		}
		if already {
			return apperrors.ErrAlreadyRegistered
		}
		return apperrors.ErrEventFull
	})
}

// Unregister removes userID from the event
func (r *EventRepository) Unregister(ctx context.Context, eventID, userID int64) error {
	sql, args, err := r.sb.Delete("event_registrations").
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build unregister query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", eventID).Msg("Error unregistering from event")
		return fmt.Errorf("error unregistering: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotRegistered
	}
	return nil
}

// RegistrationsCount counts the event's registrations
func (r *EventRepository) RegistrationsCount(ctx context.Context, eventID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM event_registrations WHERE event_id = $1", eventID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting registrations: %w", err)
	}
	return n, nil
}

// ToggleLike flips the user's like on the event
func (r *EventRepository) ToggleLike(ctx context.Context, eventID, userID int64) (bool, int64, error) {
	var liked bool
	var count int64
	err := r.db.QueryRow(ctx, toggleLikeSQL("event_likes", "event_id"), eventID, userID).Scan(&liked, &count)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return false, 0, apperrors.NewResourceNotFoundError("event not found")
		}
		logger.Error().Err(err).Int64("eventID", eventID).Msg("Error toggling event like")
		return false, 0, fmt.Errorf("error toggling like: %w", err)
	}
	return liked, count, nil
}
