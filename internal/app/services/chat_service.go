package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/validation"
	"github.com/yigit/bandhub/internal/pkg/websocket"
)

const (
	defaultChatPageSize = 50
	maxChatPageSize     = 200
)

// Broadcaster fans a stored message out to live subscribers
type Broadcaster interface {
	Broadcast(message *websocket.Message)
}

// ChatService is the chat stream: one global scope plus one scope per session
type ChatService interface {
	CheckScope(ctx context.Context, scope string) error
	PostMessage(ctx context.Context, actor models.Actor, scope, content string) (*dto.ChatMessageResponse, error)
	ListMessages(ctx context.Context, scope string, filter *dto.GetChatMessagesRequest) ([]dto.ChatMessageResponse, error)
	ToggleReaction(ctx context.Context, actor models.Actor, messageID, emoji string) (models.ToggleResult, error)
	MarkRead(ctx context.Context, actor models.Actor, scope string) (*models.ReadReceipt, error)
	CountUnreadGlobal(ctx context.Context, actor models.Actor) (int64, error)
}

type chatServiceImpl struct {
	messages  ChatStore
	reactions ReactionStore
	receipts  ReadReceiptStore
	sessions  SessionStore
	users     UserStore
	hub       Broadcaster
	logger    zerolog.Logger
	now       func() time.Time
}

// NewChatService creates a new ChatService. hub may be nil, in which case
// messages are stored but not pushed.
func NewChatService(
	messages ChatStore,
	reactions ReactionStore,
	receipts ReadReceiptStore,
	sessions SessionStore,
	users UserStore,
	hub Broadcaster,
	logger zerolog.Logger,
) ChatService {
	return &chatServiceImpl{
		messages:  messages,
		reactions: reactions,
		receipts:  receipts,
		sessions:  sessions,
		users:     users,
		hub:       hub,
		logger:    logger,
		now:       time.Now,
	}
}

// scopeSession maps a scope to the session filter; nil is the global feed
func scopeSession(scope string) *string {
	if scope == "" || scope == models.GlobalScope {
		return nil
	}
	return &scope
}

// CheckScope fails with NotFound when scope names a missing session
func (s *chatServiceImpl) CheckScope(ctx context.Context, scope string) error {
	sessionID := scopeSession(scope)
	if sessionID == nil {
		return nil
	}
	_, err := s.sessions.GetByID(ctx, *sessionID)
	return err
}

// PostMessage stores a message and pushes it to subscribers of its scope
func (s *chatServiceImpl) PostMessage(ctx context.Context, actor models.Actor, scope, content string) (*dto.ChatMessageResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewBadRequestError("content must not be empty")
	}
	if err := s.CheckScope(ctx, scope); err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	message := &models.ChatMessage{
		SessionID:  scopeSession(scope),
		UserID:     actor.UserID,
		Content:    content,
		AuthorName: author.Name,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		s.logger.Error().Err(err).Str("scope", scope).Msg("Failed to store chat message")
		return nil, err
	}

	response := dto.ToChatMessageResponse(message, nil)
	if s.hub != nil {
		s.hub.Broadcast(&websocket.Message{
			Type:       websocket.MessageTypeChat,
			Scope:      response.Scope,
			ID:         message.ID,
			UserID:     message.UserID,
			AuthorName: message.AuthorName,
			Content:    message.Content,
			Timestamp:  message.CreatedAt,
		})
		s.logger.Debug().Str("scope", response.Scope).Str("messageID", message.ID).Msg("Chat message broadcast")
	}
	return &response, nil
}

// ListMessages returns a page of a scope, newest first, with reactions
func (s *chatServiceImpl) ListMessages(ctx context.Context, scope string, filter *dto.GetChatMessagesRequest) ([]dto.ChatMessageResponse, error) {
	if err := s.CheckScope(ctx, scope); err != nil {
		return nil, err
	}

	limit := defaultChatPageSize
	var before *time.Time
	if filter != nil {
		before = filter.Before
		if filter.Limit > 0 {
			limit = filter.Limit
		}
	}
	if limit > maxChatPageSize {
		limit = maxChatPageSize
	}

	messages, err := s.messages.List(ctx, scopeSession(scope), before, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("scope", scope).Msg("Failed to list chat messages")
		return nil, err
	}

	ids := make([]string, len(messages))
	for i := range messages {
		ids[i] = messages[i].ID
	}
	summaries, err := s.reactions.Summaries(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("scope", scope).Msg("Failed to load reactions")
		return nil, err
	}
	byMessage := make(map[string][]models.ReactionSummary, len(messages))
	for _, r := range summaries {
		byMessage[r.MessageID] = append(byMessage[r.MessageID], r)
	}

	responses := make([]dto.ChatMessageResponse, len(messages))
	for i := range messages {
		responses[i] = dto.ToChatMessageResponse(&messages[i], byMessage[messages[i].ID])
	}
	return responses, nil
}

// ToggleReaction adds or removes the actor's emoji on a message
func (s *chatServiceImpl) ToggleReaction(ctx context.Context, actor models.Actor, messageID, emoji string) (models.ToggleResult, error) {
	emoji = strings.TrimSpace(emoji)
	if !validation.NewStringValidation(emoji).WithMaxLength(validation.EmojiMaxLength).Validate() {
		return "", apperrors.NewBadRequestError("emoji must be 1 to 32 characters")
	}
	if _, err := s.messages.GetByID(ctx, messageID); err != nil {
		return "", err
	}

	result, err := toggle(ctx, s.reactions, models.ReactionKey{MessageID: messageID, UserID: actor.UserID, Emoji: emoji})
	if err != nil {
		s.logger.Error().Err(err).Str("messageID", messageID).Msg("Failed to toggle reaction")
		return "", err
	}
	return result, nil
}

// MarkRead stamps the actor's receipt for scope with the current time. A
// receipt is created on first read and never moves backwards afterwards.
func (s *chatServiceImpl) MarkRead(ctx context.Context, actor models.Actor, scope string) (*models.ReadReceipt, error) {
	if err := s.CheckScope(ctx, scope); err != nil {
		return nil, err
	}
	sessionID := scopeSession(scope)
	now := s.now().UTC()

	existing, err := s.receipts.Find(ctx, actor.UserID, sessionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		rr := &models.ReadReceipt{UserID: actor.UserID, SessionID: sessionID, LastReadAt: now}
		err := s.receipts.Insert(ctx, rr)
		if err == nil {
			return rr, nil
		}
		if !apperrors.Is(err, apperrors.ErrConflict) {
			s.logger.Error().Err(err).Str("scope", scope).Msg("Failed to create read receipt")
			return nil, err
		}
		// a concurrent first read created the row
		if existing, err = s.receipts.Find(ctx, actor.UserID, sessionID); err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperrors.NewConflictError("read receipt changed concurrently")
		}
	}

	if err := s.receipts.Advance(ctx, existing.ID, now); err != nil {
		s.logger.Error().Err(err).Str("scope", scope).Msg("Failed to advance read receipt")
		return nil, err
	}
	if now.After(existing.LastReadAt) {
		existing.LastReadAt = now
	}
	return existing, nil
}

// CountUnreadGlobal counts global messages posted strictly after the later of
// the actor's last sign-in and their global read receipt. With neither the
// count is zero.
func (s *chatServiceImpl) CountUnreadGlobal(ctx context.Context, actor models.Actor) (int64, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return 0, err
	}
	receipt, err := s.receipts.Find(ctx, actor.UserID, nil)
	if err != nil {
		return 0, err
	}

	var threshold *time.Time
	if user.LastSignInAt != nil {
		threshold = user.LastSignInAt
	}
	if receipt != nil && (threshold == nil || receipt.LastReadAt.After(*threshold)) {
		threshold = &receipt.LastReadAt
	}
	if threshold == nil {
		return 0, nil
	}

	count, err := s.messages.CountGlobalAfter(ctx, *threshold)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count unread messages")
		return 0, err
	}
	return count, nil
}
