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

// FeedbackRepository handles feedback items and their replies
type FeedbackRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db, sb: psql}
}

// Create inserts a feedback item
func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = time.Now().UTC()
	f.UpdatedAt = f.CreatedAt

	sql, args, err := r.sb.Insert("feedback").
		Columns("id", "user_id", "category", "message", "status", "created_at", "updated_at").
		Values(f.ID, f.UserID, f.Category, f.Message, f.Status, f.CreatedAt, f.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create feedback query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) selectFeedback(viewerID string) squirrel.SelectBuilder {
	return r.sb.Select(
		"f.id", "f.user_id", "f.category", "f.message", "f.status", "f.created_at", "f.updated_at",
		"(SELECT COUNT(*) FROM feedback_votes v WHERE v.feedback_id = f.id AND v.vote_type = 'up')",
		"(SELECT COUNT(*) FROM feedback_votes v WHERE v.feedback_id = f.id AND v.vote_type = 'down')",
	).
		Column(squirrel.Expr("(SELECT v.vote_type FROM feedback_votes v WHERE v.feedback_id = f.id AND v.user_id = ?)", viewerID)).
		From("feedback f")
}

func scanFeedback(row pgx.Row) (*models.Feedback, error) {
	var f models.Feedback
	err := row.Scan(&f.ID, &f.UserID, &f.Category, &f.Message, &f.Status, &f.CreatedAt, &f.UpdatedAt,
		&f.UpVotes, &f.DownVotes, &f.MyVote)
	if err != nil {
		return nil, err
	}
	f.Replies = []models.FeedbackReply{}
	return &f, nil
}

// GetByID retrieves a feedback item with tallies as seen by viewerID
func (r *FeedbackRepository) GetByID(ctx context.Context, id, viewerID string) (*models.Feedback, error) {
	sql, args, err := r.selectFeedback(viewerID).Where(squirrel.Eq{"f.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get feedback query: %w", err)
	}

	f, err := scanFeedback(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("feedback not found")
		}
		return nil, fmt.Errorf("error retrieving feedback: %w", err)
	}
	return f, nil
}

// List returns feedback newest first, optionally filtered by status
func (r *FeedbackRepository) List(ctx context.Context, status *models.FeedbackStatus, viewerID string) ([]models.Feedback, error) {
	q := r.selectFeedback(viewerID)
	if status != nil {
		q = q.Where(squirrel.Eq{"f.status": *status})
	}
	sql, args, err := q.OrderBy("f.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list feedback query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	defer rows.Close()

	items := []models.Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning feedback row: %w", err)
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// SetStatus changes the admin-controlled state of a feedback item
func (r *FeedbackRepository) SetStatus(ctx context.Context, id string, status models.FeedbackStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE feedback SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("error updating feedback status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("feedback not found")
	}
	return nil
}

// CountOpen counts feedback not yet completed or rejected
func (r *FeedbackRepository) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM feedback WHERE status IN ($1, $2)`,
		models.FeedbackStatusPending, models.FeedbackStatusInProgress).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting feedback: %w", err)
	}
	return n, nil
}

// CreateReply inserts an admin reply
func (r *FeedbackRepository) CreateReply(ctx context.Context, reply *models.FeedbackReply) error {
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	reply.CreatedAt = time.Now().UTC()

	sql, args, err := r.sb.Insert("feedback_replies").
		Columns("id", "feedback_id", "user_id", "message", "created_at").
		Values(reply.ID, reply.FeedbackID, reply.UserID, reply.Message, reply.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create reply query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("feedback not found")
		}
		return fmt.Errorf("error creating reply: %w", err)
	}
	return nil
}

// Replies returns the replies of the given feedback items, oldest first
func (r *FeedbackRepository) Replies(ctx context.Context, feedbackIDs []string) ([]models.FeedbackReply, error) {
	if len(feedbackIDs) == 0 {
		return []models.FeedbackReply{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, feedback_id, user_id, message, created_at
		FROM feedback_replies
		WHERE feedback_id = ANY($1)
		ORDER BY created_at`,
		feedbackIDs)
	if err != nil {
		return nil, fmt.Errorf("error listing replies: %w", err)
	}
	defer rows.Close()

	replies := []models.FeedbackReply{}
	for rows.Next() {
		var reply models.FeedbackReply
		if err := rows.Scan(&reply.ID, &reply.FeedbackID, &reply.UserID, &reply.Message, &reply.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning reply row: %w", err)
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}

// FeedbackVoteRepository holds at most one vote per user and feedback item
type FeedbackVoteRepository struct {
	db *pgxpool.Pool
}

// NewFeedbackVoteRepository creates a new FeedbackVoteRepository
func NewFeedbackVoteRepository(db *pgxpool.Pool) *FeedbackVoteRepository {
	return &FeedbackVoteRepository{db: db}
}

// Upsert sets the user's vote, replacing any previous one
func (r *FeedbackVoteRepository) Upsert(ctx context.Context, feedbackID, userID string, vote models.VoteType) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO feedback_votes (id, feedback_id, user_id, vote_type, created_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, feedback_id) DO UPDATE SET vote_type = EXCLUDED.vote_type`,
		uuid.NewString(), feedbackID, userID, vote, time.Now().UTC())
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("feedback not found")
		}
		return fmt.Errorf("error saving feedback vote: %w", err)
	}
	return nil
}

// Delete clears the user's vote
func (r *FeedbackVoteRepository) Delete(ctx context.Context, feedbackID, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM feedback_votes WHERE feedback_id = $1 AND user_id = $2`, feedbackID, userID); err != nil {
		return fmt.Errorf("error deleting feedback vote: %w", err)
	}
	return nil
}
