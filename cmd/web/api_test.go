package main

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/myrjola/gaslight/internal/engine"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/progression"
	"github.com/stretchr/testify/require"
)

func newGameBody() newGameRequest {
	return newGameRequest{
		Name:      "Cecily Vane",
		Archetype: models.ArchetypeDeductionist,
		Allocation: map[models.Faculty]int{
			models.FacultyReason:     4,
			models.FacultyPerception: 4,
			models.FacultyInfluence:  4,
		},
		CaseID: "the-drowned-clerk",
	}
}

func TestAPI_PlayThroughParlour(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	s := startTestServer(t, &logs, testLookupEnv)
	s.CSRF(t)

	var cases []models.CaseMeta
	s.Do(t, http.MethodGet, "/api/cases", nil, http.StatusOK, &cases)
	require.Len(t, cases, 1)
	require.Equal(t, "the-drowned-clerk", cases[0].ID)

	var archetypes progression.ArchetypeRegistry
	s.Do(t, http.MethodGet, "/api/archetypes", nil, http.StatusOK, &archetypes)
	require.Len(t, archetypes.Archetypes, 4)

	var scene sceneView
	s.Do(t, http.MethodPost, "/api/game", newGameBody(), http.StatusCreated, &scene)
	require.Equal(t, "act1-arrival", scene.ID)
	require.Equal(t, 15, scene.Investigator.Faculties.Reason)
	require.Len(t, scene.Choices, 2)

	var choice choiceResponse
	s.Do(t, http.MethodPost, "/api/choice", choiceRequest{ChoiceID: "call-on-widow"}, http.StatusOK, &choice)
	require.Equal(t, "act1-parlour", choice.Result.NextSceneID)
	require.Equal(t, "act1-parlour", choice.Scene.ID)
	require.Len(t, choice.Scene.Discoveries, 1)

	var clue models.Clue
	s.Do(t, http.MethodPost, "/api/clue", clueRequest{ClueID: "widow-testimony"}, http.StatusOK, &clue)
	require.True(t, clue.IsRevealed)

	var board boardView
	s.Do(t, http.MethodGet, "/api/board", nil, http.StatusOK, &board)
	require.Len(t, board.Clues, 2)
	require.Empty(t, board.Deductions)

	s.Do(t, http.MethodPost, "/api/clue/examine", clueRequest{ClueID: "wet-footprint"}, http.StatusOK, &clue)
	require.Equal(t, models.ClueStatusExamined, clue.Status)

	var ability abilityResponse
	s.Do(t, http.MethodPost, "/api/ability", nil, http.StatusOK, &ability)
	require.Equal(t, "Elementary", ability.Ability.Name)
	s.Do(t, http.MethodPost, "/api/ability", nil, http.StatusConflict, nil)

	var attempt engine.DeductionAttempt
	s.Do(t, http.MethodPost, "/api/deduction",
		deductionRequest{ClueIDs: []string{"wet-footprint", "widow-testimony"}}, http.StatusOK, &attempt)
	require.Equal(t, models.TierCritical, attempt.Tier)
	require.NotNil(t, attempt.Deduction)

	s.Do(t, http.MethodGet, "/api/board", nil, http.StatusOK, &board)
	require.Len(t, board.Deductions, 1)
	for _, c := range board.Clues {
		require.Equal(t, models.ClueStatusDeduced, c.Status, c.ID)
	}

	// The choice moved the scene so the autosave was written.
	var list []models.SaveSummary
	s.Do(t, http.MethodGet, "/api/saves", nil, http.StatusOK, &list)
	require.Len(t, list, 1)
	require.Equal(t, progression.AutosaveSlot, list[0].ID)
	require.Equal(t, "Cecily Vane", list[0].InvestigatorName)
}

func TestAPI_Saves(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	s := startTestServer(t, &logs, testLookupEnv)
	s.CSRF(t)
	s.Do(t, http.MethodPost, "/api/game", newGameBody(), http.StatusCreated, nil)

	var saved saveResponse
	s.Do(t, http.MethodPost, "/api/saves", nil, http.StatusCreated, &saved)
	require.NotEmpty(t, saved.ID)

	var choice choiceResponse
	s.Do(t, http.MethodPost, "/api/choice", choiceRequest{ChoiceID: "call-on-widow"}, http.StatusOK, &choice)
	require.Equal(t, "act1-parlour", choice.Scene.ID)

	var scene sceneView
	s.Do(t, http.MethodPost, "/api/saves/"+saved.ID+"/load", nil, http.StatusOK, &scene)
	require.Equal(t, "act1-arrival", scene.ID)
	s.Do(t, http.MethodGet, "/api/scene", nil, http.StatusOK, &scene)
	require.Equal(t, "act1-arrival", scene.ID)

	s.Do(t, http.MethodDelete, "/api/saves/"+saved.ID, nil, http.StatusNoContent, nil)
	s.Do(t, http.MethodDelete, "/api/saves/"+saved.ID, nil, http.StatusNotFound, nil)
	s.Do(t, http.MethodPost, "/api/saves/game-123/load", nil, http.StatusNotFound, nil)
}

func TestAPI_Errors(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	s := startTestServer(t, &logs, testLookupEnv)

	// Without the CSRF token state-changing requests are refused.
	s.Do(t, http.MethodPost, "/api/game", newGameBody(), http.StatusBadRequest, nil)

	s.CSRF(t)
	s.Do(t, http.MethodGet, "/api/scene", nil, http.StatusConflict, nil)

	body := newGameBody()
	body.CaseID = "the-missing-case"
	s.Do(t, http.MethodPost, "/api/game", body, http.StatusNotFound, nil)

	body = newGameBody()
	body.Allocation[models.FacultyLore] = 1
	s.Do(t, http.MethodPost, "/api/game", body, http.StatusBadRequest, nil)

	body = newGameBody()
	body.CaseID = "a-matter-of-shadows"
	s.Do(t, http.MethodPost, "/api/game", body, http.StatusNotFound, nil)

	s.Do(t, http.MethodPost, "/api/game", newGameBody(), http.StatusCreated, nil)
	s.Do(t, http.MethodPost, "/api/choice", choiceRequest{ChoiceID: "open-the-river"}, http.StatusUnprocessableEntity, nil)
	s.Do(t, http.MethodPost, "/api/clue", clueRequest{ClueID: "ledger-page"}, http.StatusUnprocessableEntity, nil)
	s.Do(t, http.MethodPost, "/api/deduction", deductionRequest{ClueIDs: []string{"wet-footprint"}},
		http.StatusBadRequest, nil)
	s.Do(t, http.MethodPost, "/api/encounter/choice", choiceRequest{ChoiceID: "dodge"}, http.StatusConflict, nil)
	s.Do(t, http.MethodPost, "/api/vignette", vignetteRequest{VignetteID: "a-matter-of-shadows"},
		http.StatusForbidden, nil)
	s.Do(t, http.MethodPost, "/api/choice", map[string]string{"choice": "x"}, http.StatusBadRequest, nil)

	var hint hintResponse
	s.Do(t, http.MethodGet, "/api/hint", nil, http.StatusOK, &hint)
	require.False(t, hint.Available)
	s.Do(t, http.MethodGet, "/api/hint?level=1", nil, http.StatusOK, &hint)
	require.True(t, hint.Available)
	require.Equal(t, 1, int(hint.Hint.Level))
	s.Do(t, http.MethodGet, "/api/hint?level=9", nil, http.StatusBadRequest, nil)
}

func TestAPI_HintAfterBoardVisits(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	s := startTestServer(t, &logs, testLookupEnv)
	s.CSRF(t)
	s.Do(t, http.MethodPost, "/api/game", newGameBody(), http.StatusCreated, nil)

	for range 3 {
		s.Do(t, http.MethodGet, "/api/board", nil, http.StatusOK, nil)
	}
	var hint hintResponse
	s.Do(t, http.MethodGet, "/api/hint", nil, http.StatusOK, &hint)
	require.True(t, hint.Available)
	require.Equal(t, 1, int(hint.Hint.Level))
}

func TestHealthyAndMetrics(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	s := startTestServer(t, &logs, testLookupEnv)

	_, err := s.client.Do(context.Background(), http.MethodGet, "/api/healthy", nil, nil, http.StatusOK)
	require.NoError(t, err)
	raw, err := s.client.Do(context.Background(), http.MethodGet, "/metrics", nil, nil, http.StatusOK)
	require.NoError(t, err)
	require.Contains(t, string(raw), "go_goroutines")
}
