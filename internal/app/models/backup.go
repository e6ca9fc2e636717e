package models

// TableSpec names a backed-up table and the parents its foreign keys point at
type TableSpec struct {
	Name string
	// Parents maps a foreign key column to the table it references
	Parents map[string]string
}

// BackupTables lists backed-up tables in foreign-key dependency order
var BackupTables = []TableSpec{
	{Name: "users"},
	{Name: "songs", Parents: map[string]string{"created_by": "users"}},
	{Name: "capabilities"},
	{Name: "sessions", Parents: map[string]string{"created_by": "users"}},
	{Name: "user_capabilities", Parents: map[string]string{"user_id": "users", "capability_id": "capabilities"}},
	{Name: "session_commitments", Parents: map[string]string{"session_id": "sessions", "user_id": "users"}},
	{Name: "session_songs", Parents: map[string]string{"session_id": "sessions", "song_id": "songs"}},
	{Name: "song_capabilities", Parents: map[string]string{"song_id": "songs", "capability_id": "capabilities"}},
}

// TableDump is every row of a table rendered as text. Nil cells are SQL NULL.
type TableDump struct {
	Name    string
	Columns []string
	Rows    [][]*string
}

// RestoreStatus is the outcome of restoring one table
type RestoreStatus string

const (
	RestoreSuccess RestoreStatus = "success"
	RestoreSkipped RestoreStatus = "skipped"
	RestoreError   RestoreStatus = "error"
)

// TableRestoreResult reports how one table fared during restore
type TableRestoreResult struct {
	Status  RestoreStatus `json:"status"`
	Rows    int           `json:"rows"`
	Orphans int           `json:"orphans,omitempty"`
	Message string        `json:"message,omitempty"`
}
