package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/repositories"
	"github.com/myrjola/gaslight/internal/saves"
	"github.com/myrjola/gaslight/internal/sqlite"
	"github.com/myrjola/gaslight/internal/testhelpers"
)

// migratetest runs the schema migration against a copy of a production database and then loads every save
// so that save file migrations are exercised on real data.
func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second) //nolint:mnd // 30 seconds

	if sqliteURL, ok = os.LookupEnv("GASLIGHT_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "GASLIGHT_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	manager := saves.NewManager(repositories.NewSaveRepository(db, logger), logger, nil)
	var summaries []models.SaveSummary
	if summaries, err = manager.ListSaves(ctx); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error listing saves", errors.SlogError(err))
		os.Exit(1)
	}
	var failed int
	for _, s := range summaries {
		if _, err = manager.Load(ctx, s.ID); err != nil {
			failed++
			logger.LogAttrs(ctx, slog.LevelError, "save does not load", slog.String("slot", s.ID), errors.SlogError(err))
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "saves loaded", slog.Int("count", len(summaries)))

	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	_ = db.Close()
	os.Exit(0)
}
