package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifiesPgErrors(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "session_commitments_session_id_user_id_key"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "session_songs_song_id_fkey"}

	if !IsUniqueViolation(dup) {
		t.Error("expected unique violation")
	}
	if !IsDuplicateConstraintError(dup, "session_commitments_session_id_user_id_key") {
		t.Error("expected named constraint match")
	}
	if IsDuplicateConstraintError(dup, "other_key") {
		t.Error("constraint name must match")
	}
	if !IsForeignKeyViolation(fk) || IsUniqueViolation(fk) {
		t.Error("foreign key misclassified")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Error("plain error is not a pg error")
	}
}
