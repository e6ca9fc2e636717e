package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/db"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

// column is one column of a table as reported by information_schema
type column struct {
	Name     string
	Type     string
	Nullable bool
}

// BackupRepository dumps and restores whole tables as text
type BackupRepository struct {
	db *pgxpool.Pool
}

// NewBackupRepository creates a new BackupRepository
func NewBackupRepository(db *pgxpool.Pool) *BackupRepository {
	return &BackupRepository{db: db}
}

func (r *BackupRepository) columns(ctx context.Context, table string) ([]column, error) {
	rows, err := r.db.Query(ctx, `
		SELECT column_name, udt_name, is_nullable = 'YES'
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position`,
		table)
	if err != nil {
		return nil, fmt.Errorf("error reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []column
	for rows.Next() {
		var c column
		if err := rows.Scan(&c.Name, &c.Type, &c.Nullable); err != nil {
			return nil, fmt.Errorf("error scanning column of %s: %w", table, err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s does not exist", table)
	}
	return cols, nil
}

// Dump reads every row of a table with each cell rendered as text
func (r *BackupRepository) Dump(ctx context.Context, table string) (*models.TableDump, error) {
	cols, err := r.columns(ctx, table)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(cols))
	selects := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		selects[i] = pgx.Identifier{c.Name}.Sanitize() + "::text"
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(selects, ", "), pgx.Identifier{table}.Sanitize(), pgx.Identifier{"id"}.Sanitize())
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error dumping %s: %w", table, err)
	}
	defer rows.Close()

	dump := &models.TableDump{Name: table, Columns: names, Rows: [][]*string{}}
	for rows.Next() {
		cells := make([]*string, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", table, err)
		}
		dump.Rows = append(dump.Rows, cells)
	}
	return dump, rows.Err()
}

// Restore upserts rows by id inside one transaction. Rows whose foreign keys
// point at ids missing from their parent table are skipped and counted as
// orphans. Empty cells of nullable columns are stored as NULL.
func (r *BackupRepository) Restore(ctx context.Context, spec models.TableSpec, header []string, rows [][]string) (written, orphans int, err error) {
	cols, err := r.columns(ctx, spec.Name)
	if err != nil {
		return 0, 0, err
	}
	query, err := buildUpsert(spec, cols, header)
	if err != nil {
		return 0, 0, err
	}

	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for i, row := range rows {
			args := make([]interface{}, len(row))
			for j, cell := range row {
				args[j] = cell
			}
			tag, err := tx.Exec(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}
			if tag.RowsAffected() == 0 {
				orphans++
				continue
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return written, orphans, nil
}

// buildUpsert renders the per-row statement for a sheet header. Placeholder n
// is the n-th header cell.
func buildUpsert(spec models.TableSpec, cols []column, header []string) (string, error) {
	byName := make(map[string]column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}

	position := make(map[string]int, len(header))
	names := make([]string, len(header))
	values := make([]string, len(header))
	var updates []string
	for i, h := range header {
		c, ok := byName[h]
		if !ok {
			return "", apperrors.NewBadRequestError(fmt.Sprintf("unknown column %q", h))
		}
		position[h] = i + 1

		param := fmt.Sprintf("$%d::text", i+1)
		if c.Nullable {
			param = fmt.Sprintf("NULLIF(%s, '')", param)
		}
		ident := pgx.Identifier{c.Name}.Sanitize()
		names[i] = ident
		values[i] = fmt.Sprintf("CAST(%s AS %s)", param, pgx.Identifier{c.Type}.Sanitize())
		if c.Name != "id" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", ident, ident))
		}
	}

	fkCols := make([]string, 0, len(spec.Parents))
	for col := range spec.Parents {
		fkCols = append(fkCols, col)
	}
	sort.Strings(fkCols)

	var checks []string
	for _, col := range fkCols {
		n, ok := position[col]
		if !ok {
			continue
		}
		exists := fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE id = $%d::text)", pgx.Identifier{spec.Parents[col]}.Sanitize(), n)
		if byName[col].Nullable {
			exists = fmt.Sprintf("(NULLIF($%d::text, '') IS NULL OR %s)", n, exists)
		}
		checks = append(checks, exists)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) SELECT %s",
		pgx.Identifier{spec.Name}.Sanitize(), strings.Join(names, ", "), strings.Join(values, ", "))
	if len(checks) > 0 {
		fmt.Fprintf(&b, " WHERE %s", strings.Join(checks, " AND "))
	}
	if len(updates) > 0 {
		fmt.Fprintf(&b, " ON CONFLICT (id) DO UPDATE SET %s", strings.Join(updates, ", "))
	} else {
		b.WriteString(" ON CONFLICT (id) DO NOTHING")
	}
	return b.String(), nil
}
