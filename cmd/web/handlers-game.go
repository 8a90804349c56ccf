package main

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/gaslight/internal/engine"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/hints"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/progression"
)

func (app *application) listCases(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, app.library.Cases)
}

func (app *application) listArchetypes(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, app.progression.Archetypes())
}

type newGameRequest struct {
	Name       string                 `json:"name"`
	Archetype  models.Archetype       `json:"archetype"`
	Allocation map[models.Faculty]int `json:"allocation"`
	CaseID     string                 `json:"caseId"`
}

// newGame creates the investigator and opens the requested case in a fresh working slot.
func (app *application) newGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req newGameRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.gameError(w, r, err)
		return
	}
	caseData, ok := app.library.Case(req.CaseID)
	if _, isVignette := app.library.Vignette(req.CaseID); !ok || isVignette {
		app.gameError(w, r, errors.Wrap(errUnknownCase, "new game", slog.String("case", req.CaseID)))
		return
	}
	inv, err := app.progression.NewInvestigator(req.Name, req.Archetype, req.Allocation)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	state := models.NewGameState(inv)
	scene, err := app.progression.StartCase(state, caseData)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	g, err := app.bindGame(ctx, state)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = app.beginSceneEncounter(g, scene); err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = app.storeGame(ctx, g); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.sessionManager.Put(ctx, hintsSessionKey, hints.NewTracker(app.now()))

	app.logger.LogAttrs(ctx, slog.LevelInfo, "new game",
		slog.String("case", req.CaseID), slog.String("slot", g.slot), slog.String("archetype", string(inv.Archetype)))
	app.writeJSON(w, r, http.StatusCreated, newSceneView(scene, state))
}

func (app *application) currentScene(w http.ResponseWriter, r *http.Request) {
	g, err := app.loadGame(r.Context())
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	scene, err := engine.ResolveScene(g.state.CurrentScene, g.state, g.caseData)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newSceneView(scene, g.state))
}

type choiceRequest struct {
	ChoiceID string `json:"choiceId"`
}

type choiceResponse struct {
	Result models.ChoiceResult `json:"result"`
	Scene  sceneView           `json:"scene"`
}

// makeChoice resolves a visible choice of the current scene and enters the scene it leads to.
func (app *application) makeChoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req choiceRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.gameError(w, r, err)
		return
	}
	g, err := app.loadGame(ctx)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	if g.state.ActiveEncounter != nil {
		app.gameError(w, r, errors.Wrap(engine.ErrEncounterInProgress, "make choice"))
		return
	}
	scene, err := engine.ResolveScene(g.state.CurrentScene, g.state, g.caseData)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	var choice *models.Choice
	for _, c := range engine.VisibleChoices(*scene, g.state) {
		if c.ID == req.ChoiceID {
			choice = &c
			break
		}
	}
	if choice == nil {
		app.gameError(w, r, errors.Wrap(engine.ErrChoiceUnavailable, "make choice",
			slog.String("scene", scene.ID), slog.String("choice", req.ChoiceID)))
		return
	}

	result, err := g.engine.ProcessChoice(g.state, *choice)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	if scene, err = app.enterScene(g); err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = app.storeGame(ctx, g); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.track(ctx, hints.EventSceneChange)
	app.autosave(ctx, g)
	app.writeJSON(w, r, http.StatusOK, choiceResponse{Result: result, Scene: newSceneView(scene, g.state)})
}

// encounterChoice plays a choice of the current encounter round. The scene the final round leads to is
// entered once the encounter completes.
func (app *application) encounterChoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req choiceRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.gameError(w, r, err)
		return
	}
	g, err := app.loadGame(ctx)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	before := g.state.CurrentScene
	encounter, result, err := g.engine.RunEncounterChoice(g.state, req.ChoiceID)
	if err != nil {
		app.gameError(w, r, err)
		return
	}

	var scene *models.SceneNode
	moved := encounter.IsComplete && g.state.CurrentScene != before
	if moved {
		scene, err = app.enterScene(g)
	} else {
		scene, err = engine.ResolveScene(g.state.CurrentScene, g.state, g.caseData)
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = app.storeGame(ctx, g); err != nil {
		app.serverError(w, r, err)
		return
	}
	if moved {
		app.track(ctx, hints.EventSceneChange)
		app.autosave(ctx, g)
	}
	app.writeJSON(w, r, http.StatusOK, choiceResponse{Result: result, Scene: newSceneView(scene, g.state)})
}

type clueRequest struct {
	ClueID string `json:"clueId"`
}

// discoverClue reveals a clue the current scene offers through exploration, a check or dialogue.
func (app *application) discoverClue(w http.ResponseWriter, r *http.Request) {
	app.updateClue(w, r, func(g *game, clueID string) error {
		scene, err := engine.ResolveScene(g.state.CurrentScene, g.state, g.caseData)
		if err != nil {
			return err
		}
		return engine.DiscoverClue(g.state, *scene, clueID)
	})
}

func (app *application) examineClue(w http.ResponseWriter, r *http.Request) {
	app.updateClue(w, r, func(g *game, clueID string) error {
		effects, err := engine.ExamineClue(g.state, clueID)
		if err != nil {
			return err
		}
		engine.ApplyEffects(g.state, effects)
		return nil
	})
}

func (app *application) updateClue(w http.ResponseWriter, r *http.Request, update func(*game, string) error) {
	ctx := r.Context()
	var req clueRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.gameError(w, r, err)
		return
	}
	g, err := app.loadGame(ctx)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	if err = update(g, req.ClueID); err != nil {
		app.gameError(w, r, err)
		return
	}
	if err = app.storeGame(ctx, g); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, g.state.Clues[req.ClueID])
}

func (app *application) evidenceBoard(w http.ResponseWriter, r *http.Request) {
	g, err := app.loadGame(r.Context())
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	app.track(r.Context(), hints.EventBoardVisit)
	app.writeJSON(w, r, http.StatusOK, newBoardView(g.state))
}

type deductionRequest struct {
	ClueIDs []string `json:"clueIds"`
}

func (app *application) connectClues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req deductionRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.gameError(w, r, err)
		return
	}
	g, err := app.loadGame(ctx)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	app.track(ctx, hints.EventConnectionAttempt)
	attempt, err := g.engine.ConnectClues(g.state, req.ClueIDs)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	engine.ApplyEffects(g.state, attempt.Effects)
	if err = app.storeGame(ctx, g); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, attempt)
}

type abilityResponse struct {
	Ability progression.Ability `json:"ability"`
	Scene   sceneView           `json:"scene"`
}

func (app *application) useAbility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	g, err := app.loadGame(ctx)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	scene, err := engine.ResolveScene(g.state.CurrentScene, g.state, g.caseData)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	ability, err := app.progression.UseAbility(g.state, scene)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	if err = app.storeGame(ctx, g); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, abilityResponse{Ability: ability, Scene: newSceneView(scene, g.state)})
}

func (app *application) completeCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	g, err := app.loadGame(ctx)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	result, err := app.progression.CompleteCase(ctx, g.state.CurrentCase, g.state)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = app.storeGame(ctx, g); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, result)
}

type vignetteRequest struct {
	VignetteID string `json:"vignetteId"`
}

// startVignette opens an unlocked vignette with the investigator of the current game.
func (app *application) startVignette(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req vignetteRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.gameError(w, r, err)
		return
	}
	vignette, ok := app.library.Case(req.VignetteID)
	if _, isVignette := app.library.Vignette(req.VignetteID); !ok || !isVignette {
		app.gameError(w, r, errors.Wrap(errUnknownCase, "start vignette", slog.String("vignette", req.VignetteID)))
		return
	}
	g, err := app.loadGame(ctx)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	if !progression.IsVignetteUnlocked(g.state, req.VignetteID) {
		app.gameError(w, r, errors.Wrap(errVignetteLock, "start vignette", slog.String("vignette", req.VignetteID)))
		return
	}
	g.caseData = vignette
	scene, err := app.progression.StartCase(g.state, g.caseData)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = app.beginSceneEncounter(g, scene); err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = app.storeGame(ctx, g); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.track(ctx, hints.EventSceneChange)
	app.writeJSON(w, r, http.StatusCreated, newSceneView(scene, g.state))
}

type hintResponse struct {
	Available bool        `json:"available"`
	Hint      *hints.Hint `json:"hint,omitempty"`
}

// hint offers the next hint once the player looks stuck. An explicit level query asks for a hint
// regardless, as long as hints are enabled.
func (app *application) hint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	g, err := app.loadGame(ctx)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	t := app.tracker(ctx)
	enabled := g.state.Settings.HintsEnabled

	level := t.LastLevelShown + 1
	requested := r.URL.Query().Get("level")
	if requested != "" {
		n, convErr := strconv.Atoi(requested)
		if convErr != nil || !hints.Level(n).IsValid() {
			app.gameError(w, r, errors.Join(errBadRequest, errors.Wrap(convErr, "parse hint level")))
			return
		}
		level = hints.Level(n)
	}
	if !enabled || (requested == "" && !t.ShouldShowHint(enabled, app.now())) {
		app.writeJSON(w, r, http.StatusOK, hintResponse{Available: false})
		return
	}

	h := t.Hint(min(level, hints.LevelReveal), g.state)
	app.sessionManager.Put(ctx, hintsSessionKey, t)
	app.writeJSON(w, r, http.StatusOK, hintResponse{Available: true, Hint: &h})
}
