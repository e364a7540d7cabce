package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/dberrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

var messageColumns = []string{
	"m.id", "m.sender_id", "m.receiver_id", "m.related_post_id", "m.content", "m.read", "m.created_at",
	"coalesce(p.full_name, '') AS sender_name",
	"t.title AS related_post_title",
}

// MessageRepository handles direct messages
type MessageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db, sb: newBuilder()}
}

func (r *MessageRepository) base() squirrel.SelectBuilder {
	return r.sb.Select(messageColumns...).
		From("messages m").
		LeftJoin("profiles p ON p.user_id = m.sender_id").
		LeftJoin("team_finder_posts t ON t.id = m.related_post_id")
}

func (r *MessageRepository) collect(ctx context.Context, b squirrel.SelectBuilder) ([]*models.Message, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building messages SQL")
		return nil, fmt.Errorf("failed to build messages query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying messages")
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	messages, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Message])
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning message rows")
		return nil, fmt.Errorf("error scanning messages: %w", err)
	}
	return messages, nil
}

// Create inserts a message and fills its id and creation time
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	sql, args, err := r.sb.Insert("messages").
		Columns("sender_id", "receiver_id", "related_post_id", "content").
		Values(m.SenderID, m.ReceiverID, m.RelatedPostID, m.Content).
		Suffix("RETURNING id, read, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create message SQL")
		return fmt.Errorf("failed to build create message query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.Read, &m.CreatedAt); err != nil {
		switch {
		case dberrors.IsCheckViolation(err):
			return apperrors.ErrSelfMessage
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.NewResourceNotFoundError("receiver or related post not found")
		}
		logger.Error().Err(err).Int64("senderID", m.SenderID).Msg("Error creating message")
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

func (r *MessageRepository) involvingQuery(userID int64) squirrel.SelectBuilder {
	return r.base().
		Where(squirrel.Or{squirrel.Eq{"m.sender_id": userID}, squirrel.Eq{"m.receiver_id": userID}}).
		OrderBy("m.created_at DESC", "m.id DESC")
}

// ListInvolving returns every message userID sent or received, newest first
func (r *MessageRepository) ListInvolving(ctx context.Context, userID int64) ([]*models.Message, error) {
	return r.collect(ctx, r.involvingQuery(userID))
}

func (r *MessageRepository) threadQuery(userID, otherID int64) squirrel.SelectBuilder {
	return r.base().
		Where(squirrel.Or{
			squirrel.And{squirrel.Eq{"m.sender_id": userID}, squirrel.Eq{"m.receiver_id": otherID}},
			squirrel.And{squirrel.Eq{"m.sender_id": otherID}, squirrel.Eq{"m.receiver_id": userID}},
		}).
		OrderBy("m.created_at ASC", "m.id ASC")
}

// Thread returns the messages between two users in both directions, oldest first
func (r *MessageRepository) Thread(ctx context.Context, userID, otherID int64) ([]*models.Message, error) {
	return r.collect(ctx, r.threadQuery(userID, otherID))
}

// Inbox returns the messages userID received, newest first
func (r *MessageRepository) Inbox(ctx context.Context, userID int64) ([]*models.Message, error) {
	return r.collect(ctx, r.base().
		Where(squirrel.Eq{"m.receiver_id": userID}).
		OrderBy("m.created_at DESC", "m.id DESC"))
}

// MarkRead marks every unread message from senderID to receiverID as read
func (r *MessageRepository) MarkRead(ctx context.Context, receiverID, senderID int64) (int64, error) {
	sql, args, err := r.sb.Update("messages").
		Set("read", true).
		Where(squirrel.Eq{"receiver_id": receiverID, "sender_id": senderID, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build mark read query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("receiverID", receiverID).Int64("senderID", senderID).Msg("Error marking messages read")
		return 0, fmt.Errorf("error marking messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UnreadBySender counts userID's unread messages per sender
func (r *MessageRepository) UnreadBySender(ctx context.Context, userID int64) (map[int64]int64, error) {
	sql, args, err := r.sb.Select("sender_id", "count(*)").
		From("messages").
		Where(squirrel.Eq{"receiver_id": userID, "read": false}).
		GroupBy("sender_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build unread query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying unread counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int64)
	for rows.Next() {
		var sender, n int64
		if err := rows.Scan(&sender, &n); err != nil {
			return nil, fmt.Errorf("error scanning unread counts: %w", err)
		}
		counts[sender] = n
	}
	return counts, rows.Err()
}

// UnreadCount counts all of userID's unread messages
func (r *MessageRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM messages WHERE receiver_id = $1 AND NOT read", userID).Scan(&n)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error counting unread messages")
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}
	return n, nil
}
