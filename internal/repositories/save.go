package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/saves"
	"github.com/myrjola/gaslight/internal/sqlite"
)

// SaveRepository is a saves.Store backed by the saves table.
type SaveRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewSaveRepository(dbs *sqlite.Database, logger *slog.Logger) *SaveRepository {
	return &SaveRepository{
		dbs:    dbs,
		logger: logger.With("source", "SaveRepository"),
	}
}

func (r *SaveRepository) Put(ctx context.Context, record saves.Record) error {
	stmt := `INSERT INTO saves (id, timestamp, case_name, investigator_name, payload)
VALUES (:id, :timestamp, :case_name, :investigator_name, :payload)
ON CONFLICT (id) DO UPDATE SET timestamp         = excluded.timestamp,
                               case_name         = excluded.case_name,
                               investigator_name = excluded.investigator_name,
                               payload           = excluded.payload`
	if _, err := r.dbs.ReadWrite.NamedExecContext(ctx, stmt, record); err != nil {
		return errors.Wrap(err, "upsert save", slog.String("slot", record.ID))
	}
	return nil
}

func (r *SaveRepository) Get(ctx context.Context, id string) (saves.Record, error) {
	var record saves.Record
	stmt := `SELECT id, timestamp, case_name, investigator_name, payload FROM saves WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &record, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return saves.Record{}, errors.Wrap(saves.ErrSaveNotFound, "read save", slog.String("slot", id))
		}
		return saves.Record{}, errors.Wrap(err, "read save", slog.String("slot", id))
	}
	return record, nil
}

func (r *SaveRepository) Delete(ctx context.Context, id string) error {
	result, err := r.dbs.ReadWrite.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete save", slog.String("slot", id))
	}
	var affected int64
	if affected, err = result.RowsAffected(); err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return errors.Wrap(saves.ErrSaveNotFound, "delete save", slog.String("slot", id))
	}
	return nil
}

func (r *SaveRepository) List(ctx context.Context) ([]models.SaveSummary, error) {
	summaries := []models.SaveSummary{}
	stmt := `SELECT id, timestamp, case_name, investigator_name FROM saves ORDER BY timestamp DESC`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &summaries, stmt); err != nil {
		return nil, errors.Wrap(err, "list saves")
	}
	return summaries, nil
}
