package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/gaslight/internal/engine"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/progression"
	"github.com/myrjola/gaslight/internal/saves"
)

const maxRequestBytes = 64 << 10

var (
	errNoGame       = errors.NewSentinel("no game in progress")
	errUnknownCase  = errors.NewSentinel("unknown case")
	errVignetteLock = errors.NewSentinel("vignette not unlocked")
	errBadRequest   = errors.NewSentinel("malformed request")
)

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "write response",
			errors.SlogError(errors.Wrap(err, "encode json")))
	}
}

// readJSON decodes the request body into dst. Unknown fields are rejected.
func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Join(errBadRequest, errors.Wrap(err, "decode request body"))
	}
	return nil
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError,
		errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

// gameError responds with the client error matching a rule violation, or a server error for anything else.
func (app *application) gameError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorStatuses {
		if errors.Is(err, m.target) {
			app.writeJSON(w, r, m.status, errorResponse{Error: m.target.Error()})
			app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(m.status), errors.SlogError(err))
			return
		}
	}
	app.serverError(w, r, err)
}

var errorStatuses = []struct { //nolint:gochecknoglobals // read-only lookup table
	target error
	status int
}{
	{errBadRequest, http.StatusBadRequest},
	{progression.ErrInvalidName, http.StatusBadRequest},
	{progression.ErrInvalidArchetype, http.StatusBadRequest},
	{progression.ErrInvalidAllocation, http.StatusBadRequest},
	{engine.ErrNotEnoughClues, http.StatusBadRequest},
	{errVignetteLock, http.StatusForbidden},
	{errUnknownCase, http.StatusNotFound},
	{engine.ErrSceneNotFound, http.StatusNotFound},
	{saves.ErrSaveNotFound, http.StatusNotFound},
	{errNoGame, http.StatusConflict},
	{progression.ErrAbilityUsed, http.StatusConflict},
	{engine.ErrEncounterInProgress, http.StatusConflict},
	{engine.ErrEncounterComplete, http.StatusConflict},
	{engine.ErrNoActiveEncounter, http.StatusConflict},
	{engine.ErrClueNotDiscoverable, http.StatusUnprocessableEntity},
	{engine.ErrClueNotRevealed, http.StatusUnprocessableEntity},
	{engine.ErrChoiceUnavailable, http.StatusUnprocessableEntity},
	{engine.ErrNoNextScene, http.StatusUnprocessableEntity},
	{saves.ErrCorruptSave, http.StatusUnprocessableEntity},
	{saves.ErrUnsupportedVersion, http.StatusUnprocessableEntity},
}
