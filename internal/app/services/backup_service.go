package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/helpers"
	"github.com/yigit/bandhub/internal/pkg/workbook"
	"golang.org/x/sync/errgroup"
)

// BackupArchive is a fully read backup ready to be written out
type BackupArchive struct {
	FileName string
	sheets   []workbook.Sheet
}

// Render writes the archive as an .xlsx workbook
func (a *BackupArchive) Render(w io.Writer) error {
	return workbook.Write(w, a.sheets)
}

// BackupService exports and imports the core tables as a workbook
type BackupService interface {
	Backup(ctx context.Context, actor models.Actor) (*BackupArchive, error)
	Restore(ctx context.Context, actor models.Actor, r io.Reader) (map[string]models.TableRestoreResult, error)
}

type backupServiceImpl struct {
	store  BackupStore
	tables []models.TableSpec
	logger zerolog.Logger
	now    func() time.Time
}

// NewBackupService creates a new BackupService over models.BackupTables
func NewBackupService(store BackupStore, logger zerolog.Logger) BackupService {
	return &backupServiceImpl{
		store:  store,
		tables: models.BackupTables,
		logger: logger,
		now:    time.Now,
	}
}

// Backup reads every table concurrently. Any failed read fails the backup.
func (s *backupServiceImpl) Backup(ctx context.Context, actor models.Actor) (*BackupArchive, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can download backups")
	}

	dumps := make([]*models.TableDump, len(s.tables))
	g, gctx := errgroup.WithContext(ctx)
	for i, table := range s.tables {
		i, name := i, table.Name
		g.Go(func() error {
			dump, err := s.store.Dump(gctx, name)
			if err != nil {
				return fmt.Errorf("dump %s: %w", name, err)
			}
			dumps[i] = dump
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Backup failed")
		return nil, apperrors.NewUpstreamError("Failed to read tables for backup", err)
	}

	sheets := make([]workbook.Sheet, len(dumps))
	for i, dump := range dumps {
		rows := make([][]string, len(dump.Rows))
		for r, row := range dump.Rows {
			cells := make([]string, len(row))
			for c, cell := range row {
				cells[c] = helpers.StringValue(cell)
			}
			rows[r] = cells
		}
		sheets[i] = workbook.Sheet{Name: dump.Name, Header: dump.Columns, Rows: rows}
	}

	name := fmt.Sprintf("backup-%s.xlsx", s.now().UTC().Format(helpers.DateLayout))
	s.logger.Info().Str("file", name).Str("by", actor.UserID).Msg("Backup created")
	return &BackupArchive{FileName: name, sheets: sheets}, nil
}

// Restore upserts every sheet into its table in dependency order. Each table
// is restored on its own and its outcome is reported in the result map.
func (s *backupServiceImpl) Restore(ctx context.Context, actor models.Actor, r io.Reader) (map[string]models.TableRestoreResult, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can restore backups")
	}

	book, err := workbook.Read(r)
	if err != nil {
		return nil, apperrors.NewBadRequestError("file is not a readable .xlsx workbook")
	}

	results := make(map[string]models.TableRestoreResult, len(s.tables))
	for _, table := range s.tables {
		result := s.restoreTable(ctx, book, table)
		results[table.Name] = result

		event := s.logger.Info()
		if result.Status == models.RestoreError {
			event = s.logger.Warn()
		}
		event.Str("table", table.Name).
			Str("status", string(result.Status)).
			Int("rows", result.Rows).
			Int("orphans", result.Orphans).
			Msg("Table restore finished")
	}
	return results, nil
}

func (s *backupServiceImpl) restoreTable(ctx context.Context, book *workbook.Book, table models.TableSpec) models.TableRestoreResult {
	rows, ok := book.Rows(table.Name)
	if !ok {
		return models.TableRestoreResult{Status: models.RestoreSkipped, Message: "sheet not found"}
	}
	if len(rows) < 2 {
		return models.TableRestoreResult{Status: models.RestoreSkipped, Message: "empty"}
	}

	header := rows[0]
	if !containsColumn(header, "id") {
		return models.TableRestoreResult{Status: models.RestoreError, Message: "header has no id column"}
	}

	data := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return models.TableRestoreResult{
				Status:  models.RestoreError,
				Message: fmt.Sprintf("row %d has more cells than the header", i+2),
			}
		}
		// trailing blank cells are dropped by the reader
		padded := make([]string, len(header))
		copy(padded, row)
		data = append(data, padded)
	}

	written, orphans, err := s.store.Restore(ctx, table, header, data)
	if err != nil {
		message := "restore failed"
		if public, ok := apperrors.PublicMessage(err); ok {
			message = public
		}
		s.logger.Error().Err(err).Str("table", table.Name).Msg("Failed to restore table")
		return models.TableRestoreResult{Status: models.RestoreError, Message: message}
	}
	return models.TableRestoreResult{Status: models.RestoreSuccess, Rows: written, Orphans: orphans}
}

func containsColumn(header []string, name string) bool {
	for _, h := range header {
		if h == name {
			return true
		}
	}
	return false
}
