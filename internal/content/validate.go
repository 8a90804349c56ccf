package content

import (
	"fmt"
	"slices"
	"strings"

	"github.com/myrjola/gaslight/internal/models"
)

// ValidationError lists every broken reference found in a case.
type ValidationError struct {
	CaseID   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("case %q has %d problem(s):\n  %s", e.CaseID, len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Validate checks the scene graph of c. Variant scenes are valid outcome targets and are checked like any
// other scene. It returns a *ValidationError holding every problem, or nil when the case is playable.
func Validate(c *models.CaseData) error {
	v := validator{caseData: c}

	if first := c.Meta.FirstScene; first != "" {
		if _, ok := c.Scenes[first]; !ok {
			v.addf("meta firstScene references unknown scene %q", first)
		}
	}
	if c.FirstSceneID() == "" {
		v.addf("case has no scenes")
	}

	ids := make([]string, 0, len(c.Scenes))
	for id := range c.Scenes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		v.scene(c.Scenes[id])
	}

	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{CaseID: c.Meta.ID, Problems: v.problems}
}

type validator struct {
	caseData *models.CaseData
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) scene(s models.SceneNode) {
	if s.VariantOf != "" {
		if _, ok := v.caseData.Scenes[s.VariantOf]; !ok {
			v.addf("scene %q is a variant of unknown scene %q", s.ID, s.VariantOf)
		}
	}
	for _, d := range s.CluesAvailable {
		if _, ok := v.caseData.Clues[d.ClueID]; !ok {
			v.addf("scene %q cluesAvailable references unknown clue %q", s.ID, d.ClueID)
		}
	}
	for _, c := range s.Choices {
		v.choice(s.ID, c, true)
	}
	if s.Encounter == nil {
		return
	}
	// Only the final round leaves the encounter so earlier rounds need no outcomes.
	for i, r := range s.Encounter.Rounds {
		final := i == len(s.Encounter.Rounds)-1
		for _, c := range r.Choices {
			v.choice(s.ID, c, final)
			if c.WorseAlternative != nil {
				v.choice(s.ID, *c.WorseAlternative, final)
			}
		}
	}
}

func (v *validator) choice(sceneID string, c models.Choice, leavesScene bool) {
	for _, tier := range models.AllTiers {
		target, ok := c.Outcomes[tier]
		if !ok || target == "" {
			if c.IsCheck() && leavesScene {
				v.addf("scene %q choice %q is missing the %s outcome", sceneID, c.ID, tier)
			}
			continue
		}
		if _, exists := v.caseData.Scenes[target]; !exists {
			v.addf("scene %q choice %q outcome %s references unknown scene %q", sceneID, c.ID, tier, target)
		}
	}
	if c.RequiresClue != "" {
		if _, ok := v.caseData.Clues[c.RequiresClue]; !ok {
			v.addf("scene %q choice %q requiresClue references unknown clue %q", sceneID, c.ID, c.RequiresClue)
		}
	}
	for _, id := range c.AdvantageIf {
		if _, ok := v.caseData.Clues[id]; !ok {
			v.addf("scene %q choice %q advantageIf references unknown clue %q", sceneID, c.ID, id)
		}
	}
}
