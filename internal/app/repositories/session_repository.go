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
	"github.com/yigit/bandhub/internal/db"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/dberrors"
)

// SessionRepository handles rehearsal session operations
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db, sb: psql}
}

// Create inserts a session
func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now().UTC()

	sql, args, err := r.sb.Insert("sessions").
		Columns("id", "date", "start_time", "end_time", "title", "notes", "created_by", "created_at").
		Values(s.ID, s.Date, s.StartTime, s.EndTime, s.Title, s.Notes, s.CreatedBy, s.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

func (r *SessionRepository) selectSessions() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.date", "s.start_time", "s.end_time", "s.title", "s.notes", "s.created_by", "s.created_at",
		"(SELECT COUNT(*) FROM session_commitments sc WHERE sc.session_id = s.id)",
	).From("sessions s")
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	err := row.Scan(&s.ID, &s.Date, &s.StartTime, &s.EndTime, &s.Title, &s.Notes, &s.CreatedBy, &s.CreatedAt, &s.CommitmentCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves a session with its commitment count
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	sql, args, err := r.selectSessions().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	s, err := scanSession(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("session not found")
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}
	return s, nil
}

// ListFrom returns sessions on or after from, soonest first
func (r *SessionRepository) ListFrom(ctx context.Context, from time.Time) ([]models.Session, error) {
	sql, args, err := r.selectSessions().
		Where(squirrel.GtOrEq{"s.date": from}).
		OrderBy("s.date", "s.start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list sessions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// CountFrom counts sessions on or after from
func (r *SessionRepository) CountFrom(ctx context.Context, from time.Time) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sessions WHERE date >= $1`, from).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting sessions: %w", err)
	}
	return n, nil
}

// Delete removes a session; set-list, commitments, chat and media rows cascade
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("session not found")
	}
	return nil
}

// SetListRepository manages the ordered songs of a session
type SetListRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSetListRepository creates a new SetListRepository
func NewSetListRepository(db *pgxpool.Pool) *SetListRepository {
	return &SetListRepository{db: db, sb: psql}
}

// List returns a session's set-list in play order
func (r *SetListRepository) List(ctx context.Context, sessionID string) ([]models.SetListEntry, error) {
	sql, args, err := r.sb.Select("ss.id", "ss.song_id", "ss.position", "s.title", "s.artist").
		From("session_songs ss").
		Join("songs s ON s.id = ss.song_id").
		Where(squirrel.Eq{"ss.session_id": sessionID}).
		OrderBy("ss.position", "ss.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build set-list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing set-list: %w", err)
	}
	defer rows.Close()

	entries := []models.SetListEntry{}
	for rows.Next() {
		var e models.SetListEntry
		if err := rows.Scan(&e.ID, &e.SongID, &e.Position, &e.Title, &e.Artist); err != nil {
			return nil, fmt.Errorf("error scanning set-list row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Append places a song at the end of the set-list
func (r *SetListRepository) Append(ctx context.Context, sessionID, songID string) (*models.SetListEntry, error) {
	entry := &models.SetListEntry{ID: uuid.NewString(), SongID: songID}
	err := r.db.QueryRow(ctx, `
		INSERT INTO session_songs (id, session_id, song_id, position)
		SELECT $1, $2, $3, COALESCE(MAX(position), 0) + 1 FROM session_songs WHERE session_id = $2
		RETURNING position`,
		entry.ID, sessionID, songID,
	).Scan(&entry.Position)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("song is already on the set-list")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.NewResourceNotFoundError("session or song not found")
		}
		return nil, fmt.Errorf("error adding song to set-list: %w", err)
	}
	return entry, nil
}

// Remove takes a song off the set-list
func (r *SetListRepository) Remove(ctx context.Context, sessionID, songID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM session_songs WHERE session_id = $1 AND song_id = $2`, sessionID, songID)
	if err != nil {
		return fmt.Errorf("error removing song from set-list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("song is not on the set-list")
	}
	return nil
}

// Reorder rewrites positions 1..n in the given song order
func (r *SetListRepository) Reorder(ctx context.Context, sessionID string, songIDs []string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i, songID := range songIDs {
			batch.Queue(`UPDATE session_songs SET position = $1 WHERE session_id = $2 AND song_id = $3`, i+1, sessionID, songID)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("error reordering set-list: %w", err)
		}
		return nil
	})
}
