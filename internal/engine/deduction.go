package engine

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
)

// DeductionDC is the Reason difficulty of connecting clues into a deduction.
const DeductionDC = 14

var (
	ErrNotEnoughClues  = errors.NewSentinel("a deduction needs at least two distinct clues")
	ErrClueNotRevealed = errors.NewSentinel("clue not revealed")
)

const (
	taintedDescription   = "A connection forms, but something feels off..."
	confidentDescription = "The threads converge into a clear deduction."
)

// BuildDeduction forms a deduction from clueIDs. It is a red herring if any of the clues is one.
func BuildDeduction(clueIDs []string, cluesByID map[string]models.Clue) models.Deduction {
	isRedHerring := false
	for _, id := range clueIDs {
		if c, ok := cluesByID[id]; ok && c.Type == models.ClueTypeRedHerring {
			isRedHerring = true
			break
		}
	}
	description := confidentDescription
	if isRedHerring {
		description = taintedDescription
	}
	ids := make([]string, len(clueIDs))
	copy(ids, clueIDs)
	return models.Deduction{
		ID:           uuid.NewString(),
		ClueIDs:      ids,
		Description:  description,
		IsRedHerring: isRedHerring,
	}
}

// DeductionAttempt is the outcome of trying to connect clues on the evidence board.
type DeductionAttempt struct {
	Tier models.Tier `json:"tier"`
	// Check is nil when an ability made the attempt succeed without a roll.
	Check *models.CheckResult `json:"check,omitempty"`
	// Deduction is nil when the attempt failed.
	Deduction *models.Deduction `json:"deduction,omitempty"`
	Effects   []models.Effect   `json:"effects"`
}

// ExamineClue returns the effects that mark a revealed clue examined. A clue that is already examined or
// further along yields no effects.
func ExamineClue(state *models.GameState, clueID string) ([]models.Effect, error) {
	clue, ok := state.Clues[clueID]
	if !ok || !clue.IsRevealed {
		return nil, errors.Wrap(ErrClueNotRevealed, "examine clue", slog.String("clue", clueID))
	}
	if clue.Status != models.ClueStatusNew && clue.Status != models.ClueStatusContested {
		return nil, nil
	}
	return []models.Effect{models.ClueStatusEffect(clueID, models.ClueStatusExamined)}, nil
}

// ConnectClues attempts a Reason check to connect clueIDs. On a success the deduction is formed and every
// clue moves to deduced. Otherwise the clues become contested until examined again.
func (e *Engine) ConnectClues(state *models.GameState, clueIDs []string) (DeductionAttempt, error) {
	seen := make(map[string]bool, len(clueIDs))
	var distinct []string
	for _, id := range clueIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !state.IsClueRevealed(id) {
			return DeductionAttempt{}, errors.Wrap(ErrClueNotRevealed, "connect clues", slog.String("clue", id))
		}
		distinct = append(distinct, id)
	}
	if len(distinct) < 2 { //nolint:mnd // a connection has two ends
		return DeductionAttempt{}, errors.Wrap(ErrNotEnoughClues, "connect clues", slog.Int("clues", len(distinct)))
	}

	var attempt DeductionAttempt
	if state.Flags[autoSucceedFlag(models.FacultyReason)] {
		attempt.Tier = models.TierCritical
		e.metrics.AutoSucceed(models.FacultyReason)
	} else {
		check := e.roller.PerformCheck(models.FacultyReason, state.Investigator, DeductionDC, false, false)
		e.metrics.Check(models.FacultyReason, check.Tier)
		attempt.Tier = check.Tier
		attempt.Check = &check
	}

	target := models.ClueStatusContested
	if attempt.Tier.IsPassing() {
		d := BuildDeduction(distinct, state.Clues)
		attempt.Deduction = &d
		attempt.Effects = append(attempt.Effects, models.AddDeductionEffect(d))
		target = models.ClueStatusDeduced
		e.metrics.Deduction(d.IsRedHerring)
	}
	for _, id := range distinct {
		for _, status := range state.Clues[id].PathTo(target) {
			attempt.Effects = append(attempt.Effects, models.ClueStatusEffect(id, status))
		}
	}

	e.logger.LogAttrs(context.Background(), slog.LevelDebug, "deduction attempted",
		slog.Any("clues", distinct), slog.String("tier", string(attempt.Tier)),
		slog.Bool("formed", attempt.Deduction != nil))
	return attempt, nil
}
