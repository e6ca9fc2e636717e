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

// MediaRepository handles session photo and recording metadata
type MediaRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMediaRepository creates a new MediaRepository
func NewMediaRepository(db *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{db: db, sb: psql}
}

var mediaColumns = []string{"id", "session_id", "kind", "user_id", "storage_path", "caption", "content_type", "created_at"}

func scanMedia(row pgx.Row) (*models.Media, error) {
	var m models.Media
	if err := row.Scan(&m.ID, &m.SessionID, &m.Kind, &m.UserID, &m.StoragePath, &m.Caption, &m.ContentType, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a metadata row
func (r *MediaRepository) Create(ctx context.Context, m *models.Media) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().UTC()

	sql, args, err := r.sb.Insert("session_media").
		Columns(mediaColumns...).
		Values(m.ID, m.SessionID, m.Kind, m.UserID, m.StoragePath, m.Caption, m.ContentType, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create media query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("media already registered")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("session not found")
		}
		return fmt.Errorf("error creating media: %w", err)
	}
	return nil
}

// GetByID retrieves one media row of the given kind
func (r *MediaRepository) GetByID(ctx context.Context, kind models.MediaKind, id string) (*models.Media, error) {
	sql, args, err := r.sb.Select(mediaColumns...).
		From("session_media").
		Where(squirrel.Eq{"id": id, "kind": kind}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get media query: %w", err)
	}

	m, err := scanMedia(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("%s not found", kind))
		}
		return nil, fmt.Errorf("error retrieving media: %w", err)
	}
	return m, nil
}

// List returns a session's media of one kind, newest first
func (r *MediaRepository) List(ctx context.Context, sessionID string, kind models.MediaKind) ([]models.Media, error) {
	sql, args, err := r.sb.Select(mediaColumns...).
		From("session_media").
		Where(squirrel.Eq{"session_id": sessionID, "kind": kind}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list media query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing media: %w", err)
	}
	defer rows.Close()

	items := []models.Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning media row: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Delete removes a metadata row
func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM session_media WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting media: %w", err)
	}
	return nil
}
