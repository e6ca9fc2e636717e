package migrations

import (
	"reflect"
	"testing"
	"testing/fstest"
)

func TestPendingFilesSortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"002_media.sql":  {Data: []byte("SELECT 1;")},
		"001_init.sql":   {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("notes")},
		"old/003_x.sql":  {Data: []byte("SELECT 1;")},
		"010_extras.sql": {Data: []byte("SELECT 1;")},
	}

	got, err := PendingFiles(fsys)
	if err != nil {
		t.Fatalf("PendingFiles: %v", err)
	}
	want := []string{"001_init.sql", "002_media.sql", "010_extras.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVersion(t *testing.T) {
	tests := []struct{ in, want string }{
		{"001_init.sql", "001"},
		{"migrations/002_media_table.sql", "002"},
		{"003.sql", "003.sql"},
	}
	for _, tt := range tests {
		if got := Version(tt.in); got != tt.want {
			t.Errorf("Version(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
