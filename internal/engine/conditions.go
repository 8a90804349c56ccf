package engine

import (
	"github.com/myrjola/gaslight/internal/models"
)

// EvaluateConditions reports whether every condition holds in state. An empty list always holds.
//
// Conditions referring to clues, NPCs or faculties missing from state evaluate false, as do unknown
// condition types.
func EvaluateConditions(conditions []models.Condition, state *models.GameState) bool {
	for _, c := range conditions {
		if !evaluateCondition(c, state) {
			return false
		}
	}
	return true
}

func evaluateCondition(c models.Condition, state *models.GameState) bool {
	switch c.Type {
	case models.ConditionHasClue:
		return state.IsClueRevealed(c.Target)

	case models.ConditionHasDeduction:
		_, ok := state.Deductions[c.Target]
		return ok

	case models.ConditionHasFlag:
		flag, ok := state.Flags[c.Target]
		if c.Value == nil {
			return ok && flag
		}
		want, isBool := c.Value.Bool()
		return ok && isBool && flag == want

	case models.ConditionFacultyMin:
		score, ok := state.Investigator.Faculties.Get(models.Faculty(c.Target))
		minimum, isNumber := c.Value.Number()
		return ok && isNumber && float64(score) >= minimum

	case models.ConditionArchetypeIs:
		archetype, ok := c.Value.String()
		return ok && string(state.Investigator.Archetype) == archetype

	case models.ConditionNPCDisposition:
		npc, ok := state.NPCs[c.Target]
		minimum, isNumber := c.Value.Number()
		return ok && isNumber && float64(npc.Disposition) >= minimum

	case models.ConditionNPCSuspicion:
		npc, ok := state.NPCs[c.Target]
		tier, isString := c.Value.String()
		return ok && isString && models.SuspicionTier(tier).Contains(npc.Suspicion)

	case models.ConditionFactionReputation:
		minimum, isNumber := c.Value.Number()
		return isNumber && state.FactionReputation[c.Target] >= minimum

	default:
		return false
	}
}

// ChoiceConditions translates the requires* gating fields of a choice into conditions.
func ChoiceConditions(choice models.Choice) []models.Condition {
	var conditions []models.Condition
	if choice.RequiresClue != "" {
		conditions = append(conditions, models.Condition{Type: models.ConditionHasClue, Target: choice.RequiresClue})
	}
	if choice.RequiresDeduction != "" {
		conditions = append(conditions, models.Condition{
			Type:   models.ConditionHasDeduction,
			Target: choice.RequiresDeduction,
		})
	}
	if choice.RequiresFlag != "" {
		conditions = append(conditions, models.Condition{Type: models.ConditionHasFlag, Target: choice.RequiresFlag})
	}
	if rf := choice.RequiresFaculty; rf != nil {
		conditions = append(conditions, models.Condition{
			Type:   models.ConditionFacultyMin,
			Target: string(rf.Faculty),
			Value:  models.NumberValue(float64(rf.Minimum)),
		})
	}
	return conditions
}

func IsChoiceVisible(choice models.Choice, state *models.GameState) bool {
	return EvaluateConditions(ChoiceConditions(choice), state)
}

// VisibleChoices returns the choices of scene whose gating holds, in scene order.
func VisibleChoices(scene models.SceneNode, state *models.GameState) []models.Choice {
	visible := make([]models.Choice, 0, len(scene.Choices))
	for _, c := range scene.Choices {
		if IsChoiceVisible(c, state) {
			visible = append(visible, c)
		}
	}
	return visible
}

// CanDiscoverClue reports whether the faculty and deduction gates of discovery are satisfied.
func CanDiscoverClue(discovery models.ClueDiscovery, state *models.GameState) bool {
	if rf := discovery.RequiresFaculty; rf != nil {
		score, ok := state.Investigator.Faculties.Get(rf.Faculty)
		if !ok || score < rf.Minimum {
			return false
		}
	}
	if discovery.RequiresDeduction != "" {
		if _, ok := state.Deductions[discovery.RequiresDeduction]; !ok {
			return false
		}
	}
	return true
}

// DiscoverableClues lists the discoveries of scene that pass their gates and reveal a clue not yet revealed.
func DiscoverableClues(scene models.SceneNode, state *models.GameState) []models.ClueDiscovery {
	var out []models.ClueDiscovery
	for _, d := range scene.CluesAvailable {
		if state.IsClueRevealed(d.ClueID) {
			continue
		}
		if CanDiscoverClue(d, state) {
			out = append(out, d)
		}
	}
	return out
}
