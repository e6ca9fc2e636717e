package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/workbook"
)

type fakeBackupStore struct {
	dumps    map[string]*models.TableDump
	failDump string
	failOn   string
	restored map[string][][]string
}

func (f *fakeBackupStore) Dump(_ context.Context, table string) (*models.TableDump, error) {
	if table == f.failDump {
		return nil, errBoom
	}
	if d, ok := f.dumps[table]; ok {
		return d, nil
	}
	return &models.TableDump{Name: table, Columns: []string{"id"}}, nil
}

func (f *fakeBackupStore) Restore(_ context.Context, spec models.TableSpec, _ []string, rows [][]string) (int, int, error) {
	if spec.Name == f.failOn {
		return 0, 0, errBoom
	}
	f.restored[spec.Name] = rows
	return len(rows), 0, nil
}

func buildWorkbook(t *testing.T, sheets ...workbook.Sheet) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := workbook.Write(&buf, sheets); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return &buf
}

func TestRestoreIsolatesTableErrors(t *testing.T) {
	store := &fakeBackupStore{failOn: "songs", restored: map[string][][]string{}}
	svc := NewBackupService(store, testLogger)

	var sheets []workbook.Sheet
	for _, table := range models.BackupTables {
		sheets = append(sheets, workbook.Sheet{Name: table.Name, Header: []string{"id", "name"}, Rows: [][]string{{table.Name + "-1", "x"}}})
	}

	results, err := svc.Restore(context.Background(), admin, buildWorkbook(t, sheets...))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if results["songs"].Status != models.RestoreError {
		t.Errorf("songs = %+v, want error", results["songs"])
	}
	for _, table := range models.BackupTables {
		if table.Name == "songs" {
			continue
		}
		if got := results[table.Name]; got.Status != models.RestoreSuccess || got.Rows != 1 {
			t.Errorf("%s = %+v, want success with one row", table.Name, got)
		}
	}
}

func TestRestoreSheetChecks(t *testing.T) {
	store := &fakeBackupStore{restored: map[string][][]string{}}
	svc := NewBackupService(store, testLogger)

	book := buildWorkbook(t,
		workbook.Sheet{Name: "users", Header: []string{"id", "email", "phone"}, Rows: [][]string{{"u1", "a@example.com"}}},
		workbook.Sheet{Name: "songs", Header: []string{"title"}, Rows: [][]string{{"Hey Jude"}}},
		workbook.Sheet{Name: "capabilities", Header: []string{"id", "name"}},
		workbook.Sheet{Name: "sessions", Header: []string{"id"}, Rows: [][]string{{"s1", "extra"}}},
	)

	results, err := svc.Restore(context.Background(), admin, book)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if got := results["users"]; got.Status != models.RestoreSuccess {
		t.Errorf("users = %+v", got)
	}
	if row := store.restored["users"][0]; len(row) != 3 || row[2] != "" {
		t.Errorf("short row not padded: %q", row)
	}
	if results["songs"].Status != models.RestoreError {
		t.Errorf("songs without id column = %+v", results["songs"])
	}
	if got := results["capabilities"]; got.Status != models.RestoreSkipped || got.Message != "empty" {
		t.Errorf("capabilities = %+v", got)
	}
	if results["sessions"].Status != models.RestoreError {
		t.Errorf("ragged sessions = %+v", results["sessions"])
	}
	if got := results["song_capabilities"]; got.Status != models.RestoreSkipped || got.Message != "sheet not found" {
		t.Errorf("song_capabilities = %+v", got)
	}
}

func TestBackupWritesEverySheet(t *testing.T) {
	store := &fakeBackupStore{dumps: map[string]*models.TableDump{
		"users": {Name: "users", Columns: []string{"id", "phone"}, Rows: [][]*string{{strPtr("u1"), nil}}},
	}}
	svc := NewBackupService(store, testLogger)

	archive, err := svc.Backup(context.Background(), admin)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	var buf bytes.Buffer
	if err := archive.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}

	book, err := workbook.Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(book.SheetNames()) != len(models.BackupTables) {
		t.Errorf("sheets = %v", book.SheetNames())
	}
	rows, _ := book.Rows("users")
	if len(rows) != 2 || rows[1][0] != "u1" {
		t.Errorf("users rows = %q", rows)
	}
}

func TestBackupFailsWhenAnyDumpFails(t *testing.T) {
	svc := NewBackupService(&fakeBackupStore{failDump: "sessions"}, testLogger)
	if _, err := svc.Backup(context.Background(), admin); !errors.Is(err, apperrors.ErrUpstream) {
		t.Errorf("err = %v, want upstream", err)
	}
	if _, err := svc.Backup(context.Background(), member); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("member: err = %v", err)
	}
}
