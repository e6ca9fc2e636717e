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
	"github.com/yigit/bandhub/internal/pkg/logger"
)

var userColumns = []string{
	"id", "email", "password", "name", "phone", "status", "role",
	"last_sign_in_at", "created_at", "updated_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db, sb: psql}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.Name, &u.Phone, &u.Status, &u.Role,
		&u.LastSignInAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. ID and timestamps are filled in when empty.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt

	sql, args, err := r.sb.Insert("users").
		Columns("id", "email", "password", "name", "phone", "status", "role", "created_at", "updated_at").
		Values(user.ID, user.Email, user.Password, user.Name, user.Phone, user.Status, user.Role, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email))
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByIDs retrieves the users with the given ids; unknown ids are ignored
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.list(ctx, squirrel.Eq{"id": ids})
}

// List returns users ordered by name, optionally filtered by status
func (r *UserRepository) List(ctx context.Context, status *models.UserStatus) ([]models.User, error) {
	var where squirrel.Sqlizer = squirrel.Expr("TRUE")
	if status != nil {
		where = squirrel.Eq{"status": *status}
	}
	return r.list(ctx, where)
}

func (r *UserRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// SetStatus changes the approval state of one user
func (r *UserRepository) SetStatus(ctx context.Context, id string, status models.UserStatus) error {
	sql, args, err := r.sb.Update("users").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("user %s not found", id))
	}
	return nil
}

// UpdateProfile changes a user's display name and phone
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name string, phone *string) error {
	sql, args, err := r.sb.Update("users").
		Set("name", name).
		Set("phone", phone).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateLastSignIn stamps the time of a successful login
func (r *UserRepository) UpdateLastSignIn(ctx context.Context, id string, at time.Time) error {
	sql, args, err := r.sb.Update("users").
		Set("last_sign_in_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last sign in query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating last sign in: %w", err)
	}
	return nil
}

// CountByStatus counts users in one approval state
func (r *UserRepository) CountByStatus(ctx context.Context, status models.UserStatus) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("users").Where(squirrel.Eq{"status": status}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count users query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return n, nil
}

// AdminExists reports whether any admin account exists
func (r *UserRepository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE role = $1)`, models.RoleAdmin).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking for admin: %w", err)
	}
	return exists, nil
}
