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

// CommitmentRepository handles session attendance pledges
type CommitmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommitmentRepository creates a new CommitmentRepository
func NewCommitmentRepository(db *pgxpool.Pool) *CommitmentRepository {
	return &CommitmentRepository{db: db, sb: psql}
}

// Create inserts a commitment row. A second pledge for the same session is a conflict.
func (r *CommitmentRepository) Create(ctx context.Context, c *models.Commitment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	sql, args, err := r.sb.Insert("session_commitments").
		Columns("id", "session_id", "user_id", "created_at").
		Values(c.ID, c.SessionID, c.UserID, c.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create commitment query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("already committed to this session")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("session or user not found")
		}
		return fmt.Errorf("error creating commitment: %w", err)
	}
	return nil
}

// AddCapabilities records the capabilities a commitment brings
func (r *CommitmentRepository) AddCapabilities(ctx context.Context, commitmentID string, capabilityIDs []string) error {
	if len(capabilityIDs) == 0 {
		return nil
	}

	insert := r.sb.Insert("commitment_capabilities").Columns("id", "commitment_id", "capability_id")
	for _, capID := range capabilityIDs {
		insert = insert.Values(uuid.NewString(), commitmentID, capID)
	}
	sql, args, err := insert.Suffix("ON CONFLICT (commitment_id, capability_id) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build commitment capabilities query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting commitment capabilities: %w", err)
	}
	return nil
}

// DeleteByID removes a commitment by id. Deleting a missing row is not an error.
func (r *CommitmentRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM session_commitments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting commitment: %w", err)
	}
	return nil
}

// Delete removes the commitment of a user to a session; capability rows cascade
func (r *CommitmentRepository) Delete(ctx context.Context, sessionID, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM session_commitments WHERE session_id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("error deleting commitment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("commitment not found")
	}
	return nil
}

// Find returns the commitment of a user to a session
func (r *CommitmentRepository) Find(ctx context.Context, sessionID, userID string) (*models.Commitment, error) {
	var c models.Commitment
	err := r.db.QueryRow(ctx, `
		SELECT sc.id, sc.session_id, sc.user_id, sc.created_at,
		       COALESCE(ARRAY_AGG(cc.capability_id) FILTER (WHERE cc.capability_id IS NOT NULL), '{}')
		FROM session_commitments sc
		LEFT JOIN commitment_capabilities cc ON cc.commitment_id = sc.id
		WHERE sc.session_id = $1 AND sc.user_id = $2
		GROUP BY sc.id`,
		sessionID, userID,
	).Scan(&c.ID, &c.SessionID, &c.UserID, &c.CreatedAt, &c.CapabilityIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("commitment not found")
		}
		return nil, fmt.Errorf("error retrieving commitment: %w", err)
	}
	return &c, nil
}

// Roster returns every commitment of a session with the committed user's details
func (r *CommitmentRepository) Roster(ctx context.Context, sessionID string) ([]models.RosterEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT sc.id, sc.session_id, sc.user_id, sc.created_at,
		       COALESCE(ARRAY_AGG(cc.capability_id) FILTER (WHERE cc.capability_id IS NOT NULL), '{}'),
		       u.name, u.email, u.phone
		FROM session_commitments sc
		JOIN users u ON u.id = sc.user_id
		LEFT JOIN commitment_capabilities cc ON cc.commitment_id = sc.id
		WHERE sc.session_id = $1
		GROUP BY sc.id, u.id
		ORDER BY sc.created_at`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("error listing roster: %w", err)
	}
	defer rows.Close()

	roster := []models.RosterEntry{}
	for rows.Next() {
		var e models.RosterEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.UserID, &e.CreatedAt, &e.CapabilityIDs, &e.UserName, &e.UserEmail, &e.UserPhone); err != nil {
			return nil, fmt.Errorf("error scanning roster row: %w", err)
		}
		roster = append(roster, e)
	}
	return roster, rows.Err()
}
