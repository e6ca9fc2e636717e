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

// SongRepository handles the song library
type SongRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSongRepository creates a new SongRepository
func NewSongRepository(db *pgxpool.Pool) *SongRepository {
	return &SongRepository{db: db, sb: psql}
}

// Create inserts a song
func (r *SongRepository) Create(ctx context.Context, s *models.Song) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt

	sql, args, err := r.sb.Insert("songs").
		Columns("id", "title", "artist", "key", "tempo", "status", "link", "notes", "created_by", "created_at", "updated_at").
		Values(s.ID, s.Title, s.Artist, s.Key, s.Tempo, s.Status, s.Link, s.Notes, s.CreatedBy, s.CreatedAt, s.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create song query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating song: %w", err)
	}
	return nil
}

// selectSongs reads songs with capability ids, vote count and whether viewerID voted
func (r *SongRepository) selectSongs(viewerID string) squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.title", "s.artist", "s.key", "s.tempo", "s.status", "s.link", "s.notes",
		"s.created_by", "s.created_at", "s.updated_at",
		"COALESCE((SELECT ARRAY_AGG(capability_id ORDER BY capability_id) FROM song_capabilities WHERE song_id = s.id), '{}')",
		"(SELECT COUNT(*) FROM song_votes WHERE song_id = s.id)",
	).
		Column(squirrel.Expr("EXISTS(SELECT 1 FROM song_votes WHERE song_id = s.id AND user_id = ?)", viewerID)).
		From("songs s")
}

func scanSong(row pgx.Row) (*models.Song, error) {
	var s models.Song
	err := row.Scan(
		&s.ID, &s.Title, &s.Artist, &s.Key, &s.Tempo, &s.Status, &s.Link, &s.Notes,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
		&s.CapabilityIDs, &s.VoteCount, &s.Voted,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves a song as seen by viewerID
func (r *SongRepository) GetByID(ctx context.Context, id, viewerID string) (*models.Song, error) {
	sql, args, err := r.selectSongs(viewerID).Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get song query: %w", err)
	}

	s, err := scanSong(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("song not found")
		}
		return nil, fmt.Errorf("error retrieving song: %w", err)
	}
	return s, nil
}

// List returns songs, most voted first, optionally filtered by status
func (r *SongRepository) List(ctx context.Context, status *models.SongStatus, viewerID string) ([]models.Song, error) {
	q := r.selectSongs(viewerID)
	if status != nil {
		q = q.Where(squirrel.Eq{"s.status": *status})
	}
	sql, args, err := q.OrderBy("13 DESC", "LOWER(s.title)").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list songs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing songs: %w", err)
	}
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning song row: %w", err)
		}
		songs = append(songs, *s)
	}
	return songs, rows.Err()
}

// Update writes the editable fields of a song
func (r *SongRepository) Update(ctx context.Context, s *models.Song) error {
	s.UpdatedAt = time.Now().UTC()
	sql, args, err := r.sb.Update("songs").
		SetMap(map[string]interface{}{
			"title":      s.Title,
			"artist":     s.Artist,
			"key":        s.Key,
			"tempo":      s.Tempo,
			"link":       s.Link,
			"notes":      s.Notes,
			"updated_at": s.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update song query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating song: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("song not found")
	}
	return nil
}

// SetStatus moves a song through its lifecycle
func (r *SongRepository) SetStatus(ctx context.Context, id string, status models.SongStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE songs SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("error updating song status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("song not found")
	}
	return nil
}

// CountByStatus counts songs in one state
func (r *SongRepository) CountByStatus(ctx context.Context, status models.SongStatus) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM songs WHERE status = $1`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting songs: %w", err)
	}
	return n, nil
}

// ReplaceCapabilities swaps the capabilities a song requires
func (r *SongRepository) ReplaceCapabilities(ctx context.Context, songID string, capabilityIDs []string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM song_capabilities WHERE song_id = $1`, songID); err != nil {
			return fmt.Errorf("error clearing song capabilities: %w", err)
		}
		if len(capabilityIDs) == 0 {
			return nil
		}

		insert := r.sb.Insert("song_capabilities").Columns("id", "song_id", "capability_id")
		for _, capID := range capabilityIDs {
			insert = insert.Values(uuid.NewString(), songID, capID)
		}
		sql, args, err := insert.Suffix("ON CONFLICT (song_id, capability_id) DO NOTHING").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build song capabilities query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.NewBadRequestError("unknown song or capability id")
			}
			return fmt.Errorf("error inserting song capabilities: %w", err)
		}
		return nil
	})
}

// SongVoteRepository is the toggle ledger of song votes
type SongVoteRepository struct {
	db *pgxpool.Pool
}

// NewSongVoteRepository creates a new SongVoteRepository
func NewSongVoteRepository(db *pgxpool.Pool) *SongVoteRepository {
	return &SongVoteRepository{db: db}
}

// Exists reports whether the user has voted for the song
func (r *SongVoteRepository) Exists(ctx context.Context, key models.SongVoteKey) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM song_votes WHERE song_id = $1 AND user_id = $2)`,
		key.SongID, key.UserID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking song vote: %w", err)
	}
	return exists, nil
}

// Insert records a vote
func (r *SongVoteRepository) Insert(ctx context.Context, key models.SongVoteKey) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO song_votes (id, song_id, user_id, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (song_id, user_id) DO NOTHING`,
		uuid.NewString(), key.SongID, key.UserID, time.Now().UTC())
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("song not found")
		}
		return fmt.Errorf("error inserting song vote: %w", err)
	}
	return nil
}

// Delete removes a vote
func (r *SongVoteRepository) Delete(ctx context.Context, key models.SongVoteKey) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM song_votes WHERE song_id = $1 AND user_id = $2`, key.SongID, key.UserID); err != nil {
		return fmt.Errorf("error deleting song vote: %w", err)
	}
	return nil
}
