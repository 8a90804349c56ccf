// Package progression covers what happens between scenes: creating an investigator, starting and completing
// cases, archetype abilities and vignette unlocks.
package progression

import (
	"context"
	"log/slog"

	"github.com/myrjola/gaslight/internal/engine"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/metrics"
	"github.com/myrjola/gaslight/internal/models"
)

const (
	// AutosaveSlot receives the state persisted when a case completes.
	AutosaveSlot = "autosave"
	// MaxFacultyScore caps faculty bonuses.
	MaxFacultyScore      = 20
	vignetteUnlockPrefix = "vignette-unlocked-"
)

// Saver persists a game state to a save slot.
type Saver interface {
	Save(ctx context.Context, id string, state *models.GameState) error
}

// CompletionResult reports the rewards of a completed case. Nil fields mean no reward.
type CompletionResult struct {
	FacultyBonusGranted *models.Faculty `json:"facultyBonusGranted"`
	VignetteUnlocked    *string         `json:"vignetteUnlocked"`
}

type Progression struct {
	logger     *slog.Logger
	saver      Saver
	metrics    *metrics.Metrics
	vignettes  []VignetteRule
	archetypes ArchetypeRegistry
}

// New returns a Progression using the built-in registries. m may be nil.
func New(logger *slog.Logger, saver Saver, m *metrics.Metrics) *Progression {
	return &Progression{
		logger:     logger.With("source", "Progression"),
		saver:      saver,
		metrics:    m,
		vignettes:  DefaultVignetteRules(),
		archetypes: DefaultArchetypes(),
	}
}

// WithVignettes replaces the vignette registry.
func (p *Progression) WithVignettes(rules []VignetteRule) *Progression {
	p.vignettes = rules
	return p
}

func (p *Progression) Archetypes() ArchetypeRegistry {
	return p.archetypes
}

// CompleteCase grants the faculty of the most recent critical a bonus, unlocks the first eligible vignette
// and saves the resulting state to the autosave slot.
func (p *Progression) CompleteCase(
	ctx context.Context,
	caseID string,
	state *models.GameState,
) (CompletionResult, error) {
	var result CompletionResult

	faculty := models.Faculty(state.Labels[engine.LastCriticalFacultyLabel])
	if faculty.IsValid() {
		GrantFacultyBonus(state, faculty)
		result.FacultyBonusGranted = &faculty
	}

	if id, ok := p.CheckVignetteUnlocks(state); ok {
		engine.ApplyEffects(state, []models.Effect{models.FlagEffect(vignetteUnlockPrefix+id, true)})
		result.VignetteUnlocked = &id
	}

	if err := p.saver.Save(ctx, AutosaveSlot, state); err != nil {
		return result, errors.Wrap(err, "autosave completed case", slog.String("case", caseID))
	}
	p.metrics.CaseCompleted()

	attrs := []slog.Attr{slog.String("case", caseID)}
	if result.FacultyBonusGranted != nil {
		attrs = append(attrs, slog.String("faculty_bonus", string(faculty)))
	}
	if result.VignetteUnlocked != nil {
		attrs = append(attrs, slog.String("vignette", *result.VignetteUnlocked))
	}
	p.logger.LogAttrs(ctx, slog.LevelInfo, "case completed", attrs...)
	return result, nil
}

// CheckVignetteUnlocks returns the first vignette whose rule state satisfies, skipping those already
// unlocked.
func (p *Progression) CheckVignetteUnlocks(state *models.GameState) (string, bool) {
	for _, v := range p.vignettes {
		if state.Flags[vignetteUnlockPrefix+v.ID] {
			continue
		}
		if v.Satisfied(state) {
			return v.ID, true
		}
	}
	return "", false
}

// IsVignetteUnlocked reports whether the vignette was unlocked by an earlier case.
func IsVignetteUnlocked(state *models.GameState, id string) bool {
	return state.Flags[vignetteUnlockPrefix+id]
}

// GrantFacultyBonus raises faculty by one up to MaxFacultyScore.
func GrantFacultyBonus(state *models.GameState, faculty models.Faculty) {
	score, ok := state.Investigator.Faculties.Get(faculty)
	if !ok {
		return
	}
	state.Investigator.Faculties.Set(faculty, min(MaxFacultyScore, score+1))
}
