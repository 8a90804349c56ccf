package engine

import (
	"log/slog"

	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
)

var (
	ErrSceneNotFound       = errors.NewSentinel("scene not found")
	ErrClueNotDiscoverable = errors.NewSentinel("clue not discoverable here")
)

// ResolveScene returns the first variant of sceneID whose condition holds, falling back to the base scene.
func ResolveScene(sceneID string, state *models.GameState, caseData *models.CaseData) (*models.SceneNode, error) {
	base, ok := caseData.Scenes[sceneID]
	if !ok {
		return nil, errors.Wrap(ErrSceneNotFound, "resolve scene", slog.String("scene", sceneID))
	}
	for _, v := range caseData.Variants {
		if v.VariantOf != sceneID || v.VariantCondition == nil {
			continue
		}
		if EvaluateConditions([]models.Condition{*v.VariantCondition}, state) {
			return &v, nil
		}
	}
	return &base, nil
}

// EnterScene resolves the current scene, applies its onEnter effects and reveals the automatic clue
// discoveries whose gates pass.
func EnterScene(state *models.GameState, caseData *models.CaseData) (*models.SceneNode, error) {
	scene, err := ResolveScene(state.CurrentScene, state, caseData)
	if err != nil {
		return nil, errors.Wrap(err, "enter scene")
	}
	ApplyOnEnter(state, *scene)

	var effects []models.Effect
	for _, d := range DiscoverableClues(*scene, state) {
		if d.Method == models.DiscoveryAutomatic {
			effects = append(effects, models.DiscoverClueEffect(d.ClueID))
		}
	}
	ApplyEffects(state, effects)
	return scene, nil
}

// DiscoverClue reveals clueID when scene offers it and its gates pass. Used for exploration, check and
// dialogue discoveries the player triggers.
func DiscoverClue(state *models.GameState, scene models.SceneNode, clueID string) error {
	for _, d := range DiscoverableClues(scene, state) {
		if d.ClueID == clueID {
			ApplyEffects(state, []models.Effect{models.DiscoverClueEffect(clueID)})
			return nil
		}
	}
	return errors.Wrap(ErrClueNotDiscoverable, "discover clue",
		slog.String("scene", scene.ID), slog.String("clue", clueID))
}
