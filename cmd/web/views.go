package main

import (
	"slices"

	"github.com/myrjola/gaslight/internal/engine"
	"github.com/myrjola/gaslight/internal/models"
)

// choiceView is what the player sees of a choice. Outcomes and gates stay on the server.
type choiceView struct {
	ID           string         `json:"id"`
	Text         string         `json:"text"`
	Faculty      models.Faculty `json:"faculty,omitempty"`
	HasAdvantage bool           `json:"hasAdvantage,omitempty"`
	IsEscapePath bool           `json:"isEscapePath,omitempty"`
}

type encounterView struct {
	ID                  string       `json:"id"`
	Round               int          `json:"round"`
	Rounds              int          `json:"rounds"`
	ReactionCheckPassed *bool        `json:"reactionCheckPassed"`
	Choices             []choiceView `json:"choices"`
}

type sceneView struct {
	ID           string                 `json:"id"`
	CaseID       string                 `json:"caseId"`
	Act          int                    `json:"act"`
	Narrative    string                 `json:"narrative"`
	Illustration string                 `json:"illustration,omitempty"`
	AmbientAudio string                 `json:"ambientAudio,omitempty"`
	Choices      []choiceView           `json:"choices"`
	Discoveries  []models.ClueDiscovery `json:"discoveries"`
	Encounter    *encounterView         `json:"encounter,omitempty"`
	Investigator models.Investigator    `json:"investigator"`
}

func newSceneView(scene *models.SceneNode, state *models.GameState) sceneView {
	view := sceneView{
		ID:           scene.ID,
		CaseID:       state.CurrentCase,
		Act:          scene.Act,
		Narrative:    scene.Narrative,
		Illustration: scene.Illustration,
		AmbientAudio: scene.AmbientAudio,
		Choices:      []choiceView{},
		Discoveries:  []models.ClueDiscovery{},
		Investigator: state.Investigator,
	}
	for _, d := range engine.DiscoverableClues(*scene, state) {
		if d.Method != models.DiscoveryAutomatic {
			view.Discoveries = append(view.Discoveries, d)
		}
	}

	if enc := state.ActiveEncounter; enc != nil {
		ev := &encounterView{
			ID:                  enc.ID,
			Round:               enc.CurrentRound + 1,
			Rounds:              len(enc.Rounds),
			ReactionCheckPassed: enc.ReactionCheckPassed,
			Choices:             []choiceView{},
		}
		if round, ok := enc.Round(); ok {
			for _, c := range engine.GetEncounterChoices(round, state) {
				ev.Choices = append(ev.Choices, choiceView{
					ID:           c.ID,
					Text:         c.Text,
					Faculty:      c.Faculty,
					HasAdvantage: c.HasAdvantage,
					IsEscapePath: c.IsEscapePath,
				})
			}
		}
		view.Encounter = ev
		return view
	}

	for _, c := range engine.VisibleChoices(*scene, state) {
		view.Choices = append(view.Choices, choiceView{ID: c.ID, Text: c.Text, Faculty: c.Faculty})
	}
	return view
}

// boardView is the evidence board: every revealed clue and the deductions formed from them.
type boardView struct {
	Clues      []models.Clue      `json:"clues"`
	Deductions []models.Deduction `json:"deductions"`
}

func newBoardView(state *models.GameState) boardView {
	view := boardView{Clues: []models.Clue{}, Deductions: []models.Deduction{}}
	for _, id := range sortedKeys(state.Clues) {
		if c := state.Clues[id]; c.IsRevealed {
			view.Clues = append(view.Clues, c)
		}
	}
	for _, id := range sortedKeys(state.Deductions) {
		view.Deductions = append(view.Deductions, state.Deductions[id])
	}
	return view
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
