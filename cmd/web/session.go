package main

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/myrjola/gaslight/internal/contexthelpers"
	"github.com/myrjola/gaslight/internal/dice"
	"github.com/myrjola/gaslight/internal/engine"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/hints"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/progression"
)

const (
	gameSlotSessionKey = "gameSlot"
	caseIDSessionKey   = "caseID"
	hintsSessionKey    = "hints"
)

// gameSlotPrefix marks the working slot a session plays in. Working slots are overwritten after every
// request, unlike manual saves and the autosave.
const gameSlotPrefix = "game-"

const autosaveOnScene = "scene"

// game is the state of one request against the session's game.
type game struct {
	slot     string
	state    *models.GameState
	caseData *models.CaseData
	engine   *engine.Engine
}

func (app *application) newEngine() (*engine.Engine, error) {
	src, err := dice.NewSeededSource()
	if err != nil {
		return nil, errors.Wrap(err, "new engine")
	}
	return engine.New(app.logger, dice.NewRoller(src), app.metrics), nil
}

// loadGame reads the game of the session from its working slot.
func (app *application) loadGame(ctx context.Context) (*game, error) {
	slot := contexthelpers.GameSlot(ctx)
	if slot == "" {
		return nil, errors.Wrap(errNoGame, "load game")
	}
	state, err := app.saves.Load(ctx, slot)
	if err != nil {
		return nil, errors.Wrap(err, "load game", slog.String("slot", slot))
	}
	caseData, ok := app.library.Case(state.CurrentCase)
	if !ok {
		return nil, errors.Wrap(errUnknownCase, "load game", slog.String("case", state.CurrentCase))
	}
	eng, err := app.newEngine()
	if err != nil {
		return nil, err
	}
	return &game{slot: slot, state: state, caseData: caseData, engine: eng}, nil
}

// bindGame binds state to a fresh working slot of the session.
func (app *application) bindGame(ctx context.Context, state *models.GameState) (*game, error) {
	caseData, ok := app.library.Case(state.CurrentCase)
	if !ok {
		return nil, errors.Wrap(errUnknownCase, "bind game", slog.String("case", state.CurrentCase))
	}
	eng, err := app.newEngine()
	if err != nil {
		return nil, err
	}
	return &game{slot: gameSlotPrefix + uuid.NewString(), state: state, caseData: caseData, engine: eng}, nil
}

// storeGame saves the game to its working slot and makes it the game of the session.
func (app *application) storeGame(ctx context.Context, g *game) error {
	if err := app.saves.Save(ctx, g.slot, g.state); err != nil {
		return errors.Wrap(err, "store game")
	}
	if previous := app.sessionManager.GetString(ctx, gameSlotSessionKey); previous != g.slot {
		if previous != "" {
			if err := app.saves.DeleteSave(ctx, previous); err != nil {
				app.logger.LogAttrs(ctx, slog.LevelWarn, "could not delete previous working slot",
					slog.String("previous", previous), errors.SlogError(err))
			}
		}
		if err := app.sessionManager.RenewToken(ctx); err != nil {
			return errors.Wrap(err, "renew session token")
		}
	}
	app.sessionManager.Put(ctx, gameSlotSessionKey, g.slot)
	app.sessionManager.Put(ctx, caseIDSessionKey, g.state.CurrentCase)
	return nil
}

// enterScene enters the current scene and begins its encounter when the scene is played as one.
func (app *application) enterScene(g *game) (*models.SceneNode, error) {
	scene, err := engine.EnterScene(g.state, g.caseData)
	if err != nil {
		return nil, err
	}
	if err = app.beginSceneEncounter(g, scene); err != nil {
		return nil, err
	}
	return scene, nil
}

func (app *application) beginSceneEncounter(g *game, scene *models.SceneNode) error {
	if scene.Encounter == nil || g.state.ActiveEncounter != nil {
		return nil
	}
	_, err := g.engine.BeginEncounter(g.state, scene.ID, scene.Encounter.Rounds, scene.Encounter.IsSupernatural)
	if err != nil {
		return errors.Wrap(err, "begin scene encounter", slog.String("scene", scene.ID))
	}
	return nil
}

// autosave copies the game to the autosave slot when the player's settings ask for autosaves on scene
// changes.
func (app *application) autosave(ctx context.Context, g *game) {
	if g.state.Settings.AutoSaveFrequency != autosaveOnScene {
		return
	}
	if err := app.saves.Save(ctx, progression.AutosaveSlot, g.state); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "autosave failed", errors.SlogError(err))
	}
}

func (app *application) tracker(ctx context.Context) hints.Tracker {
	t, ok := app.sessionManager.Get(ctx, hintsSessionKey).(hints.Tracker)
	if !ok {
		return hints.NewTracker(app.now())
	}
	return t
}

func (app *application) track(ctx context.Context, event hints.Event) {
	t := app.tracker(ctx)
	t.Track(event, app.now())
	app.sessionManager.Put(ctx, hintsSessionKey, t)
}
