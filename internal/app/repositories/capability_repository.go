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

// CapabilityRepository handles capability catalog operations
type CapabilityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCapabilityRepository creates a new CapabilityRepository
func NewCapabilityRepository(db *pgxpool.Pool) *CapabilityRepository {
	return &CapabilityRepository{db: db, sb: psql}
}

func scanCapabilities(rows pgx.Rows) ([]models.Capability, error) {
	defer rows.Close()

	caps := []models.Capability{}
	for rows.Next() {
		var c models.Capability
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning capability row: %w", err)
		}
		caps = append(caps, c)
	}
	return caps, rows.Err()
}

// List returns every capability ordered by name
func (r *CapabilityRepository) List(ctx context.Context) ([]models.Capability, error) {
	sql, args, err := r.sb.Select("id", "name", "icon", "created_at").
		From("capabilities").
		OrderBy("LOWER(name)").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list capabilities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing capabilities: %w", err)
	}
	return scanCapabilities(rows)
}

// FindByName looks a capability up by name, case-insensitively
func (r *CapabilityRepository) FindByName(ctx context.Context, name string) (*models.Capability, error) {
	sql, args, err := r.sb.Select("id", "name", "icon", "created_at").
		From("capabilities").
		Where(squirrel.Expr("LOWER(name) = LOWER(?)", name)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find capability query: %w", err)
	}

	var c models.Capability
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.Icon, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("capability not found")
		}
		return nil, fmt.Errorf("error retrieving capability: %w", err)
	}
	return &c, nil
}

// Create inserts a capability. A case-insensitive name clash is a conflict.
func (r *CapabilityRepository) Create(ctx context.Context, c *models.Capability) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	sql, args, err := r.sb.Insert("capabilities").
		Columns("id", "name", "icon", "created_at").
		Values(c.ID, c.Name, c.Icon, c.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create capability query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("capability %q already exists", c.Name))
		}
		return fmt.Errorf("error creating capability: %w", err)
	}
	return nil
}

// UpdateIcon points a capability at a new icon
func (r *CapabilityRepository) UpdateIcon(ctx context.Context, id, icon string) error {
	sql, args, err := r.sb.Update("capabilities").
		Set("icon", icon).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update icon query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating capability icon: %w", err)
	}
	return nil
}

// Delete removes a capability; join rows cascade
func (r *CapabilityRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM capabilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting capability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("capability not found")
	}
	return nil
}

// UserCapabilityRepository manages which capabilities a user has
type UserCapabilityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserCapabilityRepository creates a new UserCapabilityRepository
func NewUserCapabilityRepository(db *pgxpool.Pool) *UserCapabilityRepository {
	return &UserCapabilityRepository{db: db, sb: psql}
}

// ListForUser returns the capabilities assigned to a user
func (r *UserCapabilityRepository) ListForUser(ctx context.Context, userID string) ([]models.Capability, error) {
	sql, args, err := r.sb.Select("c.id", "c.name", "c.icon", "c.created_at").
		From("user_capabilities uc").
		Join("capabilities c ON c.id = uc.capability_id").
		Where(squirrel.Eq{"uc.user_id": userID}).
		OrderBy("LOWER(c.name)").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list user capabilities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing user capabilities: %w", err)
	}
	return scanCapabilities(rows)
}

// Replace swaps a user's capability set: delete all, then insert all
func (r *UserCapabilityRepository) Replace(ctx context.Context, userID string, capabilityIDs []string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_capabilities WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("error clearing user capabilities: %w", err)
		}
		if len(capabilityIDs) == 0 {
			return nil
		}

		insert := r.sb.Insert("user_capabilities").Columns("id", "user_id", "capability_id")
		for _, capID := range capabilityIDs {
			insert = insert.Values(uuid.NewString(), userID, capID)
		}
		sql, args, err := insert.Suffix("ON CONFLICT (user_id, capability_id) DO NOTHING").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert user capabilities query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.NewBadRequestError("unknown capability id")
			}
			return fmt.Errorf("error inserting user capabilities: %w", err)
		}
		return nil
	})
}
