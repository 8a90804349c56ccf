package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/myrjola/gaslight/internal/e2etest"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/logging"
)

// TestOpening starts a game on the first listed case and reads its opening scene.
func TestOpening(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()
	var err error

	if err = client.FetchCSRF(ctx); err != nil {
		return errors.Wrap(err, "fetch csrf")
	}
	var cases []struct {
		ID string `json:"id"`
	}
	if _, err = client.Do(ctx, http.MethodGet, "/api/cases", nil, &cases, http.StatusOK); err != nil {
		return errors.Wrap(err, "list cases")
	}
	if len(cases) == 0 {
		return errors.New("no cases offered")
	}

	newGame := map[string]any{
		"name":       "Smoke Test",
		"archetype":  "deductionist",
		"allocation": map[string]int{"reason": 4, "perception": 4, "nerve": 4},
		"caseId":     cases[0].ID,
	}
	var scene struct {
		ID string `json:"id"`
	}
	if _, err = client.Do(ctx, http.MethodPost, "/api/game", newGame, &scene, http.StatusCreated); err != nil {
		return errors.Wrap(err, "new game", slog.String("case", cases[0].ID))
	}
	if _, err = client.Do(ctx, http.MethodGet, "/api/scene", nil, &scene, http.StatusOK); err != nil {
		return errors.Wrap(err, "read scene")
	}
	if scene.ID == "" {
		return errors.New("opening scene has no id")
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestOpening(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing opening scene", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
