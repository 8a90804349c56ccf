package engine

import (
	"context"
	"log/slog"

	"github.com/myrjola/gaslight/internal/dice"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
)

// LastCriticalFacultyLabel names the faculty of the most recent rolled critical.
const LastCriticalFacultyLabel = "last-critical-faculty"

var ErrNoNextScene = errors.NewSentinel("choice resolves to no scene")

// autoSucceedFlag returns the flag that makes checks of faculty succeed critically, or "" when no ability
// covers the faculty.
func autoSucceedFlag(faculty models.Faculty) string {
	switch faculty {
	case models.FacultyReason, models.FacultyVigor, models.FacultyInfluence:
		return "ability-auto-succeed-" + string(faculty)
	default:
		return ""
	}
}

// hasAbilityAutoSucceed reports whether an active ability flag covers faculty.
func hasAbilityAutoSucceed(faculty models.Faculty, state *models.GameState) bool {
	flag := autoSucceedFlag(faculty)
	return flag != "" && state.Flags[flag]
}

// anyRevealed reports whether any of clueIDs is revealed.
func anyRevealed(clueIDs []string, state *models.GameState) bool {
	for _, id := range clueIDs {
		if state.IsClueRevealed(id) {
			return true
		}
	}
	return false
}

// ComputeChoiceResult resolves choice against state without mutating it. The returned effects apply the
// NPC effect, record a rolled critical and move to the next scene.
func (e *Engine) ComputeChoiceResult(choice models.Choice, state *models.GameState) models.ChoiceResult {
	var result models.ChoiceResult
	switch {
	case choice.IsCheck() && hasAbilityAutoSucceed(choice.Faculty, state):
		result.Tier = models.TierCritical
		result.NextSceneID = choice.Outcomes[models.TierCritical]
		e.metrics.AutoSucceed(choice.Faculty)

	case choice.IsCheck():
		dc := dice.ResolveDC(choice, state.Investigator)
		hasAdvantage := anyRevealed(choice.AdvantageIf, state)
		check := e.roller.PerformCheck(choice.Faculty, state.Investigator, dc, hasAdvantage, false)
		result.Tier = check.Tier
		result.Check = &check
		result.HasAdvantage = hasAdvantage
		result.NextSceneID = choice.Outcomes[check.Tier]
		e.metrics.Check(choice.Faculty, check.Tier)
		e.logCheck(choice, check, hasAdvantage)

	default:
		result.Tier = models.TierSuccess
		result.NextSceneID = choice.Outcomes[models.TierSuccess]
		if result.NextSceneID == "" {
			result.NextSceneID = choice.Outcomes[models.TierCritical]
		}
	}

	result.Effects = append(result.Effects, npcEffects(choice)...)
	if result.Check != nil && result.Tier == models.TierCritical {
		result.Effects = append(result.Effects, models.LabelEffect(LastCriticalFacultyLabel, string(choice.Faculty)))
	}
	if result.NextSceneID != "" {
		result.Effects = append(result.Effects, models.GoToSceneEffect(result.NextSceneID))
	}
	return result
}

// ProcessChoice resolves choice and applies the result to state. Nothing is applied when the choice
// resolves to no scene.
func (e *Engine) ProcessChoice(state *models.GameState, choice models.Choice) (models.ChoiceResult, error) {
	result := e.ComputeChoiceResult(choice, state)
	if result.NextSceneID == "" {
		return result, errors.Wrap(ErrNoNextScene, "process choice",
			slog.String("choice", choice.ID), slog.String("tier", string(result.Tier)))
	}
	ApplyEffects(state, result.Effects)
	return result, nil
}

func npcEffects(choice models.Choice) []models.Effect {
	if choice.NPCEffect == nil {
		return nil
	}
	return []models.Effect{
		models.DispositionEffect(choice.NPCEffect.NPCID, choice.NPCEffect.DispositionDelta),
		models.SuspicionEffect(choice.NPCEffect.NPCID, choice.NPCEffect.SuspicionDelta),
	}
}

func (e *Engine) logCheck(choice models.Choice, check models.CheckResult, hasAdvantage bool) {
	e.logger.LogAttrs(context.Background(), slog.LevelDebug, "check rolled",
		slog.String("choice", choice.ID),
		slog.String("faculty", string(choice.Faculty)),
		slog.Int("roll", check.Roll),
		slog.Int("modifier", check.Modifier),
		slog.Int("dc", check.DC),
		slog.String("tier", string(check.Tier)),
		slog.Bool("advantage", hasAdvantage))
}
