package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/eventbus"
	"github.com/yigit/campusconnect/internal/pkg/metrics"
	"github.com/yigit/campusconnect/internal/pkg/validation"
)

// Publisher hands domain events to the event bus
type Publisher interface {
	Publish(ctx context.Context, ev eventbus.Event) error
}

// MessageService handles direct messages between users
type MessageService struct {
	messages MessageStore
	users    UserStore
	profiles ProfileStore
	cache    UnreadCache
	bus      Publisher
	logger   zerolog.Logger
}

// NewMessageService creates a new MessageService. cache may be nil when Redis is disabled.
func NewMessageService(messages MessageStore, users UserStore, profiles ProfileStore, cache UnreadCache, bus Publisher, logger zerolog.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		profiles: profiles,
		cache:    cache,
		bus:      bus,
		logger:   logger,
	}
}

// Send stores a message and pushes it to the receiver
func (s *MessageService) Send(ctx context.Context, senderID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if req.ReceiverID == senderID {
		return nil, apperrors.ErrSelfMessage
	}
	if err := validation.RequireText("content", req.Content); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewResourceNotFoundError("receiver not found")
	}

	msg := &models.Message{
		SenderID:      senderID,
		ReceiverID:    req.ReceiverID,
		RelatedPostID: req.RelatedPostID,
		Content:       strings.TrimSpace(req.Content),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	metrics.MessagesSentTotal.Inc()

	if sender, err := s.profiles.GetByUserID(ctx, senderID); err == nil {
		msg.SenderName = sender.FullName
	}

	s.invalidateUnread(ctx, req.ReceiverID)

	resp := dto.NewMessageResponse(msg)
	s.publish(ctx, req.ReceiverID, resp)
	return &resp, nil
}

func (s *MessageService) publish(ctx context.Context, receiverID int64, msg dto.MessageResponse) {
	if s.bus == nil {
		return
	}
	ev, err := eventbus.NewEvent(eventbus.TypeMessageCreated, receiverID, msg)
	if err != nil {
		s.logger.Error().Err(err).Int64("messageID", msg.ID).Msg("Failed to encode message event")
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Int64("messageID", msg.ID).Msg("Failed to publish message event")
	}
}

func (s *MessageService) invalidateUnread(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to invalidate unread cache")
	}
}

// latestPerCounterpart keeps the first message per counterpart of a newest-first list
func latestPerCounterpart(messages []*models.Message, userID int64) []*models.Message {
	seen := make(map[int64]struct{})
	latest := make([]*models.Message, 0)
	for _, m := range messages {
		other := m.Counterpart(userID)
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		latest = append(latest, m)
	}
	return latest
}

// Conversations lists the latest message with every counterpart, newest first
func (s *MessageService) Conversations(ctx context.Context, userID int64) ([]dto.ConversationResponse, error) {
	messages, err := s.messages.ListInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}
	latest := latestPerCounterpart(messages, userID)
	if len(latest) == 0 {
		return []dto.ConversationResponse{}, nil
	}

	ids := make([]int64, 0, len(latest))
	for _, m := range latest {
		ids = append(ids, m.Counterpart(userID))
	}
	profiles, err := s.profiles.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	unread, err := s.messages.UnreadBySender(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ConversationResponse, 0, len(latest))
	for _, m := range latest {
		other := m.Counterpart(userID)
		conv := dto.ConversationResponse{
			UserID:      other,
			LastMessage: dto.NewMessageResponse(m),
			UnreadCount: unread[other],
		}
		if p, ok := profiles[other]; ok {
			conv.FullName = p.FullName
			conv.AvatarURL = p.PhotoURL()
		}
		out = append(out, conv)
	}
	return out, nil
}

// Thread returns the messages with otherID and marks the incoming ones read
func (s *MessageService) Thread(ctx context.Context, userID, otherID int64) ([]dto.MessageResponse, error) {
	if userID == otherID {
		return nil, apperrors.ErrSelfMessage
	}
	messages, err := s.messages.Thread(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}

	updated, err := s.messages.MarkRead(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if updated > 0 {
		s.invalidateUnread(ctx, userID)
	}

	out := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		if m.ReceiverID == userID {
			m.Read = true
		}
		out = append(out, dto.NewMessageResponse(m))
	}
	return out, nil
}

// MarkRead marks every message from otherID to userID as read
func (s *MessageService) MarkRead(ctx context.Context, userID, otherID int64) (*dto.MarkReadResponse, error) {
	updated, err := s.messages.MarkRead(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if updated > 0 {
		s.invalidateUnread(ctx, userID)
	}
	return &dto.MarkReadResponse{Updated: updated}, nil
}

// Inbox lists the messages userID received, newest first
func (s *MessageService) Inbox(ctx context.Context, userID int64) ([]dto.MessageResponse, error) {
	messages, err := s.messages.Inbox(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.NewMessageResponse(m))
	}
	return out, nil
}

// UnreadCount returns userID's unread total, from cache when possible
func (s *MessageService) UnreadCount(ctx context.Context, userID int64) (*dto.CountResponse, error) {
	if s.cache != nil {
		count, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Unread cache read failed")
		} else if ok {
			return &dto.CountResponse{Count: count}, nil
		}
	}

	count, err := s.messages.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, count); err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Unread cache write failed")
		}
	}
	return &dto.CountResponse{Count: count}, nil
}
