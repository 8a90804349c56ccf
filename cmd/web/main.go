package main

import (
	"context"
	"encoding/gob"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/myrjola/gaslight/internal/content"
	"github.com/myrjola/gaslight/internal/envstruct"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/hints"
	"github.com/myrjola/gaslight/internal/logging"
	"github.com/myrjola/gaslight/internal/metrics"
	"github.com/myrjola/gaslight/internal/pprofserver"
	"github.com/myrjola/gaslight/internal/progression"
	"github.com/myrjola/gaslight/internal/repositories"
	"github.com/myrjola/gaslight/internal/saves"
	"github.com/myrjola/gaslight/internal/sqlite"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	saves          *saves.Manager
	progression    *progression.Progression
	metrics        *metrics.Metrics
	library        *content.Library
	now            func() time.Time
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"GASLIGHT_ADDR" envDefault:"localhost:4000"`
	// PprofPort is the port for the pprof server on localhost. Empty disables pprof.
	PprofPort string `env:"GASLIGHT_PPROF_PORT" envDefault:""`
	// SqliteURL is the URL to the SQLite database. Use ":memory:" for an ephemeral database.
	SqliteURL string `env:"GASLIGHT_SQLITE_URL" envDefault:"./gaslight.sqlite"`
	// ContentDir overrides the built-in cases and vignettes with a directory on disk.
	ContentDir      string        `env:"GASLIGHT_CONTENT_DIR" envDefault:""`
	SessionLifetime time.Duration `env:"GASLIGHT_SESSION_LIFETIME" envDefault:"12h"`
	SecureCookies   bool          `env:"GASLIGHT_SECURE_COOKIES" envDefault:"true"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
		cfg    config
	)
	ctx, cancel = context.WithCancel(ctx)
	defer cancel()

	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	pprofserver.Launch(ctx, cfg.PprofPort, logger)

	contentFS := content.Builtin()
	if cfg.ContentDir != "" {
		contentFS = os.DirFS(cfg.ContentDir)
	}
	library, err := content.LoadLibrary(contentFS)
	if err != nil {
		return errors.Wrap(err, "load content", slog.String("dir", cfg.ContentDir))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "loaded content",
		slog.Int("cases", len(library.Cases)), slog.Int("vignettes", library.VignetteCount()))

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(context.Background(), slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()

	// The hint tracker is stored in the session and scs encodes session data with gob.
	gob.Register(hints.Tracker{})

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, 24*time.Hour) //nolint:mnd // daily
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.Secure = cfg.SecureCookies
	sessionManager.Cookie.HttpOnly = true

	m := metrics.New()
	saveManager := saves.NewManager(repositories.NewSaveRepository(db, logger), logger, m)

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		saves:          saveManager,
		progression:    progression.New(logger, saveManager, m),
		metrics:        m,
		library:        library,
		now:            time.Now,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// A missing .env file is fine, the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
