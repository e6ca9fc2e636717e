package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/dberrors"
)

// ChatRepository handles database operations for chat messages
type ChatRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db, sb: psql}
}

// Create inserts a new chat message
func (r *ChatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	sql, args, err := r.sb.Insert("chat_messages").
		Columns("id", "session_id", "user_id", "content", "created_at").
		Values(message.ID, message.SessionID, message.UserID, message.Content, message.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create message query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("session not found")
		}
		return fmt.Errorf("error creating chat message: %w", err)
	}
	return nil
}

func (r *ChatRepository) selectMessages() squirrel.SelectBuilder {
	return r.sb.Select("m.id", "m.session_id", "m.user_id", "m.content", "m.created_at", "COALESCE(u.name, '')").
		From("chat_messages m").
		LeftJoin("users u ON u.id = m.user_id")
}

func scanMessage(row pgx.Row) (*models.ChatMessage, error) {
	var m models.ChatMessage
	if err := row.Scan(&m.ID, &m.SessionID, &m.UserID, &m.Content, &m.CreatedAt, &m.AuthorName); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID retrieves a message by its ID
func (r *ChatRepository) GetByID(ctx context.Context, id string) (*models.ChatMessage, error) {
	sql, args, err := r.selectMessages().Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get message query: %w", err)
	}

	m, err := scanMessage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("chat message not found")
		}
		return nil, fmt.Errorf("error retrieving chat message: %w", err)
	}
	return m, nil
}

// List returns messages of a scope newest first, optionally strictly before a time
func (r *ChatRepository) List(ctx context.Context, sessionID *string, before *time.Time, limit int) ([]models.ChatMessage, error) {
	var where squirrel.Sqlizer = squirrel.Eq{"m.session_id": nil}
	if sessionID != nil {
		where = squirrel.Eq{"m.session_id": *sessionID}
	}
	q := r.selectMessages().Where(where)
	if before != nil {
		q = q.Where(squirrel.Lt{"m.created_at": *before})
	}

	sql, args, err := q.OrderBy("m.created_at DESC", "m.id DESC").Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list messages query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing chat messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// CountGlobalAfter counts global messages created strictly after threshold
func (r *ChatRepository) CountGlobalAfter(ctx context.Context, threshold time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM chat_messages WHERE session_id IS NULL AND created_at > $1`, threshold).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}
	return n, nil
}

// ReactionRepository is the toggle ledger of emoji reactions
type ReactionRepository struct {
	db *pgxpool.Pool
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *pgxpool.Pool) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Exists reports whether the reaction is present
func (r *ReactionRepository) Exists(ctx context.Context, key models.ReactionKey) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM chat_reactions WHERE message_id = $1 AND user_id = $2 AND emoji = $3)`,
		key.MessageID, key.UserID, key.Emoji).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking reaction: %w", err)
	}
	return exists, nil
}

// Insert adds a reaction
func (r *ReactionRepository) Insert(ctx context.Context, key models.ReactionKey) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO chat_reactions (id, message_id, user_id, emoji, created_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (message_id, user_id, emoji) DO NOTHING`,
		uuid.NewString(), key.MessageID, key.UserID, key.Emoji, time.Now().UTC())
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("chat message not found")
		}
		return fmt.Errorf("error inserting reaction: %w", err)
	}
	return nil
}

// Delete removes a reaction
func (r *ReactionRepository) Delete(ctx context.Context, key models.ReactionKey) error {
	_, err := r.db.Exec(ctx, `DELETE FROM chat_reactions WHERE message_id = $1 AND user_id = $2 AND emoji = $3`,
		key.MessageID, key.UserID, key.Emoji)
	if err != nil {
		return fmt.Errorf("error deleting reaction: %w", err)
	}
	return nil
}

// Summaries aggregates reactions per message and emoji
func (r *ReactionRepository) Summaries(ctx context.Context, messageIDs []string) ([]models.ReactionSummary, error) {
	if len(messageIDs) == 0 {
		return []models.ReactionSummary{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT message_id, emoji, COUNT(*), ARRAY_AGG(user_id ORDER BY created_at)
		FROM chat_reactions
		WHERE message_id = ANY($1)
		GROUP BY message_id, emoji
		ORDER BY message_id, MIN(created_at)`,
		messageIDs)
	if err != nil {
		return nil, fmt.Errorf("error listing reactions: %w", err)
	}
	defer rows.Close()

	summaries := []models.ReactionSummary{}
	for rows.Next() {
		var s models.ReactionSummary
		if err := rows.Scan(&s.MessageID, &s.Emoji, &s.Count, &s.UserIDs); err != nil {
			return nil, fmt.Errorf("error scanning reaction row: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// ReadReceiptRepository stores the last read time per user and scope
type ReadReceiptRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReadReceiptRepository creates a new ReadReceiptRepository
func NewReadReceiptRepository(db *pgxpool.Pool) *ReadReceiptRepository {
	return &ReadReceiptRepository{db: db, sb: psql}
}

// Find returns the receipt of a user for a scope, or nil when none exists
func (r *ReadReceiptRepository) Find(ctx context.Context, userID string, sessionID *string) (*models.ReadReceipt, error) {
	sql, args, err := r.sb.Select("id", "user_id", "session_id", "last_read_at").
		From("chat_read_receipts").
		Where(squirrel.Eq{"user_id": userID}).
		Where(scopeFilter(sessionID)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find receipt query: %w", err)
	}

	var rr models.ReadReceipt
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&rr.ID, &rr.UserID, &rr.SessionID, &rr.LastReadAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving read receipt: %w", err)
	}
	return &rr, nil
}

// Advance moves a receipt forward to at; it never moves backwards
func (r *ReadReceiptRepository) Advance(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.Exec(ctx, `UPDATE chat_read_receipts SET last_read_at = GREATEST(last_read_at, $2) WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("error advancing read receipt: %w", err)
	}
	return nil
}

// Insert creates a receipt
func (r *ReadReceiptRepository) Insert(ctx context.Context, rr *models.ReadReceipt) error {
	if rr.ID == "" {
		rr.ID = uuid.NewString()
	}
	sql, args, err := r.sb.Insert("chat_read_receipts").
		Columns("id", "user_id", "session_id", "last_read_at").
		Values(rr.ID, rr.UserID, rr.SessionID, rr.LastReadAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert receipt query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			// a concurrent mark-read inserted first
			return apperrors.NewConflictError("read receipt already exists")
		}
		return fmt.Errorf("error inserting read receipt: %w", err)
	}
	return nil
}
