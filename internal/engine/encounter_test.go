package engine_test

import (
	"testing"

	"github.com/myrjola/gaslight/internal/engine"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func ambushRounds() []models.EncounterRound {
	return []models.EncounterRound{
		{
			RoundNumber:    1,
			IsSupernatural: true,
			Choices: []models.Choice{
				{
					ID: "stand-firm", Faculty: models.FacultyNerve, Difficulty: intPtr(12), Outcomes: outcomes("stand"),
					WorseAlternative: &models.Choice{
						ID: "stagger", Faculty: models.FacultyNerve, Difficulty: intPtr(16), Outcomes: outcomes("stagger"),
					},
				},
				{ID: "recite-ward", Faculty: models.FacultyLore, Difficulty: intPtr(12), Outcomes: outcomes("ward")},
			},
		},
		{
			RoundNumber: 2,
			Choices: []models.Choice{
				{ID: "strike", Faculty: models.FacultyVigor, Difficulty: intPtr(12), Outcomes: outcomes("strike")},
				{ID: "flee", IsEscapePath: true, Outcomes: map[models.Tier]string{models.TierSuccess: "escaped"}},
			},
		},
	}
}

func TestEngine_StartEncounter(t *testing.T) {
	t.Parallel()

	t.Run("mundane encounter skips reaction check", func(t *testing.T) {
		t.Parallel()
		e, src := newEngine(t, 1)
		rounds := ambushRounds()
		encounter, effects := e.StartEncounter("alley", rounds, false, testhelpers.NewState())
		require.Nil(t, encounter.ReactionCheckPassed)
		require.Empty(t, effects)
		require.Equal(t, rounds, encounter.Rounds)
		require.Equal(t, 0, src.Draws())
		require.False(t, encounter.IsComplete)
		require.Equal(t, 0, encounter.CurrentRound)
	})

	t.Run("passed reaction check", func(t *testing.T) {
		t.Parallel()
		e, src := newEngine(t, 12)
		encounter, effects := e.StartEncounter("crypt", ambushRounds(), true, testhelpers.NewState())
		require.NotNil(t, encounter.ReactionCheckPassed)
		require.True(t, *encounter.ReactionCheckPassed)
		require.Empty(t, effects)
		require.Equal(t, "stand-firm", encounter.Rounds[0].Choices[0].ID)
		require.Equal(t, 1, src.Draws())
	})

	t.Run("failed reaction check substitutes worse alternative", func(t *testing.T) {
		t.Parallel()
		// Reaction roll 5 fails, the auxiliary roll 4 deals 4%2+1 = 1 composure damage.
		e, src := newEngine(t, 5, 4)
		rounds := ambushRounds()
		state := testhelpers.NewState()
		before := state.Clone()

		encounter, effects := e.StartEncounter("crypt", rounds, true, state)
		require.NotNil(t, encounter.ReactionCheckPassed)
		require.False(t, *encounter.ReactionCheckPassed)
		require.Equal(t, []models.Effect{models.ComposureEffect(-1)}, effects)
		require.Equal(t, 2, src.Draws())

		require.Equal(t, "stagger", encounter.Rounds[0].Choices[0].ID)
		require.Equal(t, "recite-ward", encounter.Rounds[0].Choices[1].ID)
		require.Equal(t, "strike", encounter.Rounds[1].Choices[0].ID)

		require.Equal(t, "stand-firm", rounds[0].Choices[0].ID, "input rounds must stay untouched")
		require.Equal(t, before, state)
	})

	t.Run("reaction check uses the higher of nerve and lore", func(t *testing.T) {
		t.Parallel()
		// Lore 16 gives +3 so a roll of 9 reaches DC 12. Nerve 10 would have failed.
		e, _ := newEngine(t, 9)
		state := testhelpers.NewState(testhelpers.WithFaculty(models.FacultyLore, 16))
		encounter, _ := e.StartEncounter("crypt", ambushRounds(), true, state)
		require.True(t, *encounter.ReactionCheckPassed)
	})

	t.Run("supernatural without rounds", func(t *testing.T) {
		t.Parallel()
		e, src := newEngine(t, 1)
		encounter, effects := e.StartEncounter("empty", nil, true, testhelpers.NewState())
		require.Nil(t, encounter.ReactionCheckPassed)
		require.Empty(t, effects)
		require.Equal(t, 0, src.Draws())
	})
}

func TestEngine_ProcessEncounterChoice(t *testing.T) {
	t.Parallel()
	damage := &models.EncounterDamage{ComposureDelta: intPtr(-2), VitalityDelta: intPtr(-1)}
	tests := []struct {
		name          string
		round         models.EncounterRound
		choice        models.Choice
		opts          []testhelpers.StateOption
		rolls         []int
		wantComposure int
		wantVitality  int
		wantAdvantage bool
	}{
		{
			name:  "mundane failure damages composure only",
			round: models.EncounterRound{RoundNumber: 1},
			choice: models.Choice{
				ID: "strike", Faculty: models.FacultyVigor, Difficulty: intPtr(12), Outcomes: outcomes("strike"),
				EncounterDamage: damage,
			},
			rolls:         []int{3},
			wantComposure: 8,
			wantVitality:  10,
		},
		{
			name:  "mundane failure falls back to vitality",
			round: models.EncounterRound{RoundNumber: 1},
			choice: models.Choice{
				ID: "strike", Faculty: models.FacultyVigor, Difficulty: intPtr(12), Outcomes: outcomes("strike"),
				EncounterDamage: &models.EncounterDamage{VitalityDelta: intPtr(-3)},
			},
			rolls:         []int{1},
			wantComposure: 10,
			wantVitality:  7,
		},
		{
			name:  "supernatural failure damages both",
			round: models.EncounterRound{RoundNumber: 1, IsSupernatural: true},
			choice: models.Choice{
				ID: "ward", Faculty: models.FacultyLore, Difficulty: intPtr(12), Outcomes: outcomes("ward"),
				EncounterDamage: damage,
			},
			rolls:         []int{2},
			wantComposure: 8,
			wantVitality:  9,
		},
		{
			name:  "partial takes no damage",
			round: models.EncounterRound{RoundNumber: 1, IsSupernatural: true},
			choice: models.Choice{
				ID: "ward", Faculty: models.FacultyLore, Difficulty: intPtr(12), Outcomes: outcomes("ward"),
				EncounterDamage: damage,
			},
			rolls:         []int{10},
			wantComposure: 10,
			wantVitality:  10,
		},
		{
			name:  "occult clue grants advantage",
			round: models.EncounterRound{RoundNumber: 1, IsSupernatural: true},
			choice: models.Choice{
				ID: "ward", Faculty: models.FacultyLore, Difficulty: intPtr(12), Outcomes: outcomes("ward"),
				AdvantageIf: []string{"sigil-rubbing"}, EncounterDamage: damage,
			},
			opts:          []testhelpers.StateOption{testhelpers.WithClue("sigil-rubbing", models.ClueTypeOccult, true)},
			rolls:         []int{2, 15},
			wantComposure: 10,
			wantVitality:  10,
			wantAdvantage: true,
		},
		{
			name:  "any revealed clue grants advantage",
			round: models.EncounterRound{RoundNumber: 1},
			choice: models.Choice{
				ID: "strike", Faculty: models.FacultyVigor, Difficulty: intPtr(12), Outcomes: outcomes("strike"),
				AdvantageIf: []string{"iron-bar"}, EncounterDamage: damage,
			},
			opts:          []testhelpers.StateOption{testhelpers.WithClue("iron-bar", models.ClueTypePhysical, true)},
			rolls:         []int{2, 15},
			wantComposure: 10,
			wantVitality:  10,
			wantAdvantage: true,
		},
		{
			name:  "dynamic difficulty alone still rolls",
			round: models.EncounterRound{RoundNumber: 1},
			choice: models.Choice{
				ID: "wrestle", Faculty: models.FacultyVigor, Outcomes: outcomes("wrestle"),
				DynamicDifficulty: &models.DynamicDifficulty{
					BaseDC: 8, ScaleFaculty: models.FacultyVigor, HighThreshold: 14, HighDC: 16,
				},
				EncounterDamage: damage,
			},
			rolls:         []int{5},
			wantComposure: 8,
			wantVitality:  10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, _ := newEngine(t, tt.rolls...)
			state := testhelpers.NewState(tt.opts...)
			round := tt.round
			round.Choices = []models.Choice{tt.choice}
			encounter := models.EncounterState{ID: "fight", Rounds: []models.EncounterRound{round, round}}

			next, result, err := e.ProcessEncounterChoice(tt.choice, encounter, state)
			require.NoError(t, err)
			require.Equal(t, tt.wantAdvantage, result.HasAdvantage)
			require.Equal(t, 1, next.CurrentRound)
			require.False(t, next.IsComplete)
			require.Equal(t, 0, encounter.CurrentRound, "input encounter must stay untouched")

			engine.ApplyEffects(state, result.Effects)
			require.Equal(t, tt.wantComposure, state.Investigator.Composure)
			require.Equal(t, tt.wantVitality, state.Investigator.Vitality)
			require.Equal(t, "act1-arrival", state.CurrentScene, "scene changes only on completion")
		})
	}
}

func TestEngine_ProcessEncounterChoice_Completion(t *testing.T) {
	t.Parallel()
	e, _ := newEngine(t, 15)
	state := testhelpers.NewState(testhelpers.WithNPC("cultist", "Ravens", 0, 0))
	choice := models.Choice{
		ID: "strike", Faculty: models.FacultyVigor, Difficulty: intPtr(12), Outcomes: outcomes("strike"),
		NPCEffect: &models.NPCEffect{NPCID: "cultist", DispositionDelta: -2, SuspicionDelta: 3},
	}
	encounter := models.EncounterState{
		ID:           "fight",
		Rounds:       []models.EncounterRound{{RoundNumber: 1}, {RoundNumber: 2, Choices: []models.Choice{choice}}},
		CurrentRound: 1,
	}

	next, result, err := e.ProcessEncounterChoice(choice, encounter, state)
	require.NoError(t, err)
	require.True(t, next.IsComplete)
	require.Equal(t, 2, next.CurrentRound)
	require.Equal(t, "strike-success", result.NextSceneID)

	engine.ApplyEffects(state, result.Effects)
	require.Equal(t, "strike-success", state.CurrentScene)
	require.Equal(t, -2, state.NPCs["cultist"].Disposition)
	require.Equal(t, 3, state.NPCs["cultist"].Suspicion)

	_, _, err = e.ProcessEncounterChoice(choice, next, state)
	require.ErrorIs(t, err, engine.ErrEncounterComplete)
}

func TestGetEncounterChoices(t *testing.T) {
	t.Parallel()
	round := models.EncounterRound{
		RoundNumber: 1,
		Choices: []models.Choice{
			{ID: "ward", Faculty: models.FacultyLore, Difficulty: intPtr(12), AdvantageIf: []string{"sigil-rubbing"}},
			{ID: "strike", Faculty: models.FacultyVigor, Difficulty: intPtr(12), AdvantageIf: []string{"iron-bar"}},
			{ID: "bargain", Faculty: models.FacultyInfluence, Difficulty: intPtr(14), RequiresDeduction: "cult-motive"},
			{ID: "back-door", IsEscapePath: true, RequiresFlag: "found-back-door", AdvantageIf: []string{"sigil-rubbing"}},
			{ID: "window", IsEscapePath: true, RequiresFlag: "window-open"},
		},
	}
	state := testhelpers.NewState(
		testhelpers.WithClue("sigil-rubbing", models.ClueTypeOccult, true),
		testhelpers.WithClue("iron-bar", models.ClueTypePhysical, true),
		testhelpers.WithFlag("found-back-door", true),
	)

	got := engine.GetEncounterChoices(round, state)
	require.Len(t, got, 3)
	require.Equal(t, "ward", got[0].ID)
	require.True(t, got[0].HasAdvantage)
	require.Equal(t, "strike", got[1].ID)
	require.False(t, got[1].HasAdvantage, "only occult clues are flagged")
	require.Equal(t, "back-door", got[2].ID)
	require.False(t, got[2].HasAdvantage, "escape paths never carry advantage")
}

func TestEngine_RunEncounterChoice(t *testing.T) {
	t.Parallel()
	// Reaction 18 passes, round one rolls 14, round two takes the escape path.
	e, _ := newEngine(t, 18, 14)
	state := testhelpers.NewState(testhelpers.WithFlag("window-open", true))
	rounds := ambushRounds()
	rounds[1].Choices[1].RequiresFlag = "window-open"

	_, _, err := e.RunEncounterChoice(state, "stand-firm")
	require.ErrorIs(t, err, engine.ErrNoActiveEncounter)

	_, err = e.BeginEncounter(state, "crypt", rounds, true)
	require.NoError(t, err)
	require.NotNil(t, state.ActiveEncounter)

	_, err = e.BeginEncounter(state, "another", rounds, false)
	require.ErrorIs(t, err, engine.ErrEncounterInProgress)

	_, _, err = e.RunEncounterChoice(state, "strike")
	require.ErrorIs(t, err, engine.ErrChoiceUnavailable)

	encounter, result, err := e.RunEncounterChoice(state, "stand-firm")
	require.NoError(t, err)
	require.Equal(t, models.TierSuccess, result.Tier)
	require.Equal(t, 1, encounter.CurrentRound)
	require.Equal(t, 1, state.ActiveEncounter.CurrentRound, "checkpoint follows the encounter")
	require.Equal(t, "act1-arrival", state.CurrentScene)

	encounter, result, err = e.RunEncounterChoice(state, "flee")
	require.NoError(t, err)
	require.True(t, encounter.IsComplete)
	require.Equal(t, "escaped", result.NextSceneID)
	require.Equal(t, "escaped", state.CurrentScene)
	require.Nil(t, state.ActiveEncounter)
}
