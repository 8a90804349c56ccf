package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/myrjola/gaslight/internal/engine"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/hints"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/progression"
	"github.com/myrjola/gaslight/internal/saves"
)

// listSaves lists the manual saves and the autosave. Working slots of sessions are not listed.
func (app *application) listSaves(w http.ResponseWriter, r *http.Request) {
	summaries, err := app.saves.ListSaves(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	out := make([]models.SaveSummary, 0, len(summaries))
	for _, s := range summaries {
		if !strings.HasPrefix(s.ID, gameSlotPrefix) {
			out = append(out, s)
		}
	}
	app.writeJSON(w, r, http.StatusOK, out)
}

type saveResponse struct {
	ID string `json:"id"`
}

func (app *application) saveGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	g, err := app.loadGame(ctx)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	id, err := app.saves.SaveManual(ctx, g.state)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, saveResponse{ID: id})
}

// loadSave continues a manual save or the autosave in a fresh working slot so the save itself is kept.
func (app *application) loadSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if !isPlayerSlot(id) {
		app.gameError(w, r, errors.Wrap(saves.ErrSaveNotFound, "load save", slog.String("id", id)))
		return
	}
	state, err := app.saves.Load(ctx, id)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	g, err := app.bindGame(ctx, state)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	if err = app.storeGame(ctx, g); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.sessionManager.Put(ctx, hintsSessionKey, hints.NewTracker(app.now()))

	scene, err := engine.ResolveScene(state.CurrentScene, state, g.caseData)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newSceneView(scene, state))
}

func (app *application) deleteSave(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !isPlayerSlot(id) {
		app.gameError(w, r, errors.Wrap(saves.ErrSaveNotFound, "delete save", slog.String("id", id)))
		return
	}
	if err := app.saves.DeleteSave(r.Context(), id); err != nil {
		app.gameError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// isPlayerSlot reports whether id names a slot the player manages: a manual save or the autosave.
func isPlayerSlot(id string) bool {
	return id == progression.AutosaveSlot || strings.HasPrefix(id, saves.ManualSlotPrefix)
}
