package repositories

import (
	"context"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/migrations"
	"github.com/yigit/bandhub/internal/app/models"
)

// openTestPool connects to TEST_DATABASE_URL and applies the schema. Tests are
// skipped when the variable is unset.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../../migrations/001_init.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	m := migrations.NewMigrator(pool, zerolog.Nop())
	if err := m.Migrate(ctx, fstest.MapFS{"001_init.sql": {Data: schema}}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func createTestUser(t *testing.T, repos *Repositories) *models.User {
	t.Helper()
	u := &models.User{
		ID:       uuid.NewString(),
		Email:    uuid.NewString() + "@example.com",
		Password: "x",
		Name:     "Test Player",
		Status:   models.UserStatusApproved,
		Role:     models.RoleUser,
	}
	if err := repos.UserRepository.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestIntegrationReadReceiptNeverMovesBack(t *testing.T) {
	repos := NewRepositories(openTestPool(t))
	ctx := context.Background()
	u := createTestUser(t, repos)

	later := time.Now().UTC().Truncate(time.Microsecond)
	rr := &models.ReadReceipt{UserID: u.ID, LastReadAt: later}
	if err := repos.ReadReceiptRepository.Insert(ctx, rr); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repos.ReadReceiptRepository.Advance(ctx, rr.ID, later.Add(-time.Hour)); err != nil {
		t.Fatalf("advance: %v", err)
	}

	got, err := repos.ReadReceiptRepository.Find(ctx, u.ID, nil)
	if err != nil || got == nil {
		t.Fatalf("find: %v %v", got, err)
	}
	if !got.LastReadAt.Equal(later) {
		t.Errorf("LastReadAt = %v, want %v", got.LastReadAt, later)
	}
}

func TestIntegrationRestoreCountsOrphans(t *testing.T) {
	repos := NewRepositories(openTestPool(t))
	ctx := context.Background()
	u := createTestUser(t, repos)

	spec := models.TableSpec{Name: "sessions", Parents: map[string]string{"created_by": "users"}}
	header := []string{"id", "date", "start_time", "end_time", "created_by"}
	rows := [][]string{
		{uuid.NewString(), "2030-01-07", "18:00", "21:00", u.ID},
		{uuid.NewString(), "2030-01-14", "18:00", "21:00", ""},
		{uuid.NewString(), "2030-01-21", "18:00", "21:00", uuid.NewString()},
	}

	written, orphans, err := repos.BackupRepository.Restore(ctx, spec, header, rows)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if written != 2 || orphans != 1 {
		t.Errorf("written=%d orphans=%d, want 2 and 1", written, orphans)
	}

	dump, err := repos.BackupRepository.Dump(ctx, "sessions")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if len(dump.Columns) == 0 || dump.Columns[0] != "id" {
		t.Errorf("columns = %v", dump.Columns)
	}
}
