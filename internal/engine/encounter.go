package engine

import (
	"context"
	"log/slog"

	"github.com/myrjola/gaslight/internal/dice"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
)

// ReactionDC is the difficulty of the reaction check at the start of a supernatural encounter.
const ReactionDC = 12

var (
	ErrEncounterComplete   = errors.NewSentinel("encounter already complete")
	ErrNoActiveEncounter   = errors.NewSentinel("no encounter in progress")
	ErrEncounterInProgress = errors.NewSentinel("another encounter is in progress")
	ErrChoiceUnavailable   = errors.NewSentinel("choice not available this round")
)

// EncounterChoice is a choice offered in an encounter round. HasAdvantage is set when a revealed occult
// clue grants advantage on it.
type EncounterChoice struct {
	models.Choice
	HasAdvantage bool `json:"hasAdvantage"`
}

// StartEncounter sets up an encounter. A supernatural encounter opens with a reaction check using the
// better of nerve and lore. Failing it costs 1 or 2 composure and swaps the first choice of round one for
// its worse alternative.
//
// rounds is never modified. The returned effects must be applied by the caller.
func (e *Engine) StartEncounter(
	id string,
	rounds []models.EncounterRound,
	isSupernatural bool,
	state *models.GameState,
) (models.EncounterState, []models.Effect) {
	encounter := models.EncounterState{ID: id, Rounds: make([]models.EncounterRound, len(rounds))}
	for i, r := range rounds {
		encounter.Rounds[i] = r.Clone()
	}
	e.metrics.Encounter("started")

	if !isSupernatural || len(rounds) == 0 {
		return encounter, nil
	}

	faculty := reactionFaculty(state.Investigator)
	check := e.roller.PerformCheck(faculty, state.Investigator, ReactionDC, false, false)
	e.metrics.Check(faculty, check.Tier)
	passed := check.Tier.IsPassing()
	encounter.ReactionCheckPassed = &passed

	e.logger.LogAttrs(context.Background(), slog.LevelDebug, "reaction check",
		slog.String("encounter", id),
		slog.String("faculty", string(faculty)),
		slog.Int("roll", check.Roll),
		slog.String("tier", string(check.Tier)))

	if passed {
		return encounter, nil
	}
	e.metrics.Encounter("reaction_failed")

	damage := e.roller.RollD20()%2 + 1 //nolint:mnd // 1 or 2 composure
	effects := []models.Effect{models.ComposureEffect(-damage)}

	first := &encounter.Rounds[0]
	if len(first.Choices) > 0 && first.Choices[0].WorseAlternative != nil {
		first.Choices[0] = first.Choices[0].WorseAlternative.Clone()
	}
	return encounter, effects
}

// reactionFaculty picks the higher of nerve and lore. Ties go to nerve.
func reactionFaculty(investigator models.Investigator) models.Faculty {
	nerve, _ := investigator.Faculties.Get(models.FacultyNerve)
	lore, _ := investigator.Faculties.Get(models.FacultyLore)
	if nerve >= lore {
		return models.FacultyNerve
	}
	return models.FacultyLore
}

// ProcessEncounterChoice resolves choice in the current round of encounter and advances the round.
//
// Failing a check with encounter damage costs both resources in a supernatural round and a single
// resource in a mundane one, composure taking precedence. The NPC effect applies whatever the outcome.
// When the last round is done the result moves to the next scene.
func (e *Engine) ProcessEncounterChoice(
	choice models.Choice,
	encounter models.EncounterState,
	state *models.GameState,
) (models.EncounterState, models.ChoiceResult, error) {
	round, ok := encounter.Round()
	if !ok {
		return encounter, models.ChoiceResult{}, errors.Wrap(ErrEncounterComplete, "process encounter choice",
			slog.String("encounter", encounter.ID), slog.String("choice", choice.ID))
	}

	hasAdvantage := anyRevealed(choice.AdvantageIf, state) || hasOccultAdvantage(choice, state)
	result := models.ChoiceResult{HasAdvantage: hasAdvantage}

	if choice.IsCheck() {
		dc := dice.ResolveDC(choice, state.Investigator)
		check := e.roller.PerformCheck(choice.Faculty, state.Investigator, dc, hasAdvantage, false)
		result.Tier = check.Tier
		result.Check = &check
		result.NextSceneID = choice.Outcomes[check.Tier]
		e.metrics.Check(choice.Faculty, check.Tier)
		e.logCheck(choice, check, hasAdvantage)
	} else {
		result.Tier = models.TierSuccess
		result.NextSceneID = choice.Outcomes[models.TierSuccess]
		if result.NextSceneID == "" {
			result.NextSceneID = choice.Outcomes[models.TierCritical]
		}
	}

	if result.Tier.IsFailing() && choice.EncounterDamage != nil {
		result.Effects = append(result.Effects, encounterDamage(*choice.EncounterDamage, round.IsSupernatural)...)
	}
	result.Effects = append(result.Effects, npcEffects(choice)...)
	if result.Check != nil && result.Tier == models.TierCritical {
		result.Effects = append(result.Effects, models.LabelEffect(LastCriticalFacultyLabel, string(choice.Faculty)))
	}

	next := encounter.Clone()
	next.CurrentRound++
	next.IsComplete = next.CurrentRound >= len(next.Rounds)
	if next.IsComplete {
		e.metrics.Encounter("completed")
		if result.NextSceneID != "" {
			result.Effects = append(result.Effects, models.GoToSceneEffect(result.NextSceneID))
		}
	}
	return next, result, nil
}

func encounterDamage(damage models.EncounterDamage, isSupernatural bool) []models.Effect {
	var effects []models.Effect
	switch {
	case isSupernatural:
		if damage.ComposureDelta != nil {
			effects = append(effects, models.ComposureEffect(*damage.ComposureDelta))
		}
		if damage.VitalityDelta != nil {
			effects = append(effects, models.VitalityEffect(*damage.VitalityDelta))
		}
	case damage.ComposureDelta != nil:
		effects = append(effects, models.ComposureEffect(*damage.ComposureDelta))
	case damage.VitalityDelta != nil:
		effects = append(effects, models.VitalityEffect(*damage.VitalityDelta))
	}
	return effects
}

func hasOccultAdvantage(choice models.Choice, state *models.GameState) bool {
	for _, id := range choice.AdvantageIf {
		if c, ok := state.Clues[id]; ok && c.IsRevealed && c.Type == models.ClueTypeOccult {
			return true
		}
	}
	return false
}

// GetEncounterChoices returns the choices of round whose gating holds. Escape paths are offered whenever
// their gating holds and never carry advantage.
func GetEncounterChoices(round models.EncounterRound, state *models.GameState) []EncounterChoice {
	out := make([]EncounterChoice, 0, len(round.Choices))
	for _, c := range round.Choices {
		if !IsChoiceVisible(c, state) {
			continue
		}
		if c.IsEscapePath {
			out = append(out, EncounterChoice{Choice: c})
			continue
		}
		out = append(out, EncounterChoice{Choice: c, HasAdvantage: hasOccultAdvantage(c, state)})
	}
	return out
}

// BeginEncounter starts an encounter, applies its opening effects and checkpoints it in state.
func (e *Engine) BeginEncounter(
	state *models.GameState,
	id string,
	rounds []models.EncounterRound,
	isSupernatural bool,
) (models.EncounterState, error) {
	if active := state.ActiveEncounter; active != nil && !active.IsComplete {
		return models.EncounterState{}, errors.Wrap(ErrEncounterInProgress, "begin encounter",
			slog.String("encounter", id), slog.String("active", active.ID))
	}
	encounter, effects := e.StartEncounter(id, rounds, isSupernatural, state)
	ApplyEffects(state, effects)
	checkpoint := encounter.Clone()
	state.ActiveEncounter = &checkpoint
	return encounter, nil
}

// RunEncounterChoice plays choiceID in the checkpointed encounter of state and applies the result. The
// checkpoint is cleared when the encounter completes.
func (e *Engine) RunEncounterChoice(
	state *models.GameState,
	choiceID string,
) (models.EncounterState, models.ChoiceResult, error) {
	if state.ActiveEncounter == nil {
		return models.EncounterState{}, models.ChoiceResult{}, errors.Wrap(ErrNoActiveEncounter, "run encounter choice")
	}
	encounter := state.ActiveEncounter.Clone()
	round, ok := encounter.Round()
	if !ok {
		return encounter, models.ChoiceResult{}, errors.Wrap(ErrEncounterComplete, "run encounter choice",
			slog.String("encounter", encounter.ID))
	}

	var choice *models.Choice
	for _, c := range GetEncounterChoices(round, state) {
		if c.ID == choiceID {
			choice = &c.Choice
			break
		}
	}
	if choice == nil {
		return encounter, models.ChoiceResult{}, errors.Wrap(ErrChoiceUnavailable, "run encounter choice",
			slog.String("encounter", encounter.ID), slog.String("choice", choiceID))
	}

	next, result, err := e.ProcessEncounterChoice(*choice, encounter, state)
	if err != nil {
		return encounter, result, errors.Wrap(err, "run encounter choice")
	}
	ApplyEffects(state, result.Effects)
	if next.IsComplete {
		state.ActiveEncounter = nil
	} else {
		checkpoint := next.Clone()
		state.ActiveEncounter = &checkpoint
	}
	return next, result, nil
}
