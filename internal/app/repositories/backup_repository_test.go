package repositories

import (
	"strings"
	"testing"

	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

var sessionCommitmentColumns = []column{
	{Name: "id", Type: "text"},
	{Name: "session_id", Type: "text"},
	{Name: "user_id", Type: "text"},
	{Name: "created_at", Type: "timestamptz"},
}

func TestBuildUpsertChecksParents(t *testing.T) {
	spec := models.TableSpec{Name: "session_commitments", Parents: map[string]string{"session_id": "sessions", "user_id": "users"}}

	got, err := buildUpsert(spec, sessionCommitmentColumns, []string{"id", "session_id", "user_id", "created_at"})
	if err != nil {
		t.Fatalf("buildUpsert: %v", err)
	}

	for _, want := range []string{
		`INSERT INTO "session_commitments" ("id", "session_id", "user_id", "created_at")`,
		`CAST($4::text AS "timestamptz")`,
		`EXISTS (SELECT 1 FROM "sessions" WHERE id = $2::text) AND EXISTS (SELECT 1 FROM "users" WHERE id = $3::text)`,
		`ON CONFLICT (id) DO UPDATE SET "session_id" = EXCLUDED."session_id"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in\n%s", want, got)
		}
	}
	if strings.Contains(got, `"id" = EXCLUDED."id"`) {
		t.Error("id must not be updated")
	}
}

func TestBuildUpsertNullableParentMayBeEmpty(t *testing.T) {
	cols := []column{
		{Name: "id", Type: "text"},
		{Name: "title", Type: "text"},
		{Name: "tempo", Type: "int4", Nullable: true},
		{Name: "created_by", Type: "text", Nullable: true},
	}
	spec := models.TableSpec{Name: "songs", Parents: map[string]string{"created_by": "users"}}

	got, err := buildUpsert(spec, cols, []string{"id", "title", "tempo", "created_by"})
	if err != nil {
		t.Fatalf("buildUpsert: %v", err)
	}

	if !strings.Contains(got, `CAST(NULLIF($3::text, '') AS "int4")`) {
		t.Errorf("nullable column should map blanks to NULL:\n%s", got)
	}
	if !strings.Contains(got, `(NULLIF($4::text, '') IS NULL OR EXISTS (SELECT 1 FROM "users" WHERE id = $4::text))`) {
		t.Errorf("nullable parent check missing:\n%s", got)
	}
}

func TestBuildUpsertRejectsUnknownColumn(t *testing.T) {
	_, err := buildUpsert(models.TableSpec{Name: "users"}, []column{{Name: "id", Type: "text"}}, []string{"id", "nickname"})
	if !apperrors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("err = %v, want bad request", err)
	}
}

func TestBuildUpsertIDOnly(t *testing.T) {
	got, err := buildUpsert(models.TableSpec{Name: "capabilities"}, []column{{Name: "id", Type: "text"}}, []string{"id"})
	if err != nil {
		t.Fatalf("buildUpsert: %v", err)
	}
	if !strings.HasSuffix(got, "ON CONFLICT (id) DO NOTHING") {
		t.Errorf("got %s", got)
	}
}
