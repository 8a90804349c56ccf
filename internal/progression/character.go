package progression

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/myrjola/gaslight/internal/engine"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
)

const maxNameLength = 60

var (
	ErrInvalidName       = errors.NewSentinel("invalid investigator name")
	ErrInvalidArchetype  = errors.NewSentinel("unknown archetype")
	ErrInvalidAllocation = errors.NewSentinel("invalid faculty allocation")
	ErrAbilityUsed       = errors.NewSentinel("ability already used this case")
	ErrNoScenes          = errors.NewSentinel("case has no scenes")
)

// NewInvestigator creates a character. Every faculty starts at the base score plus the archetype bonus plus
// the allocated points, and allocation must spend exactly the bonus points.
func (p *Progression) NewInvestigator(
	name string,
	archetype models.Archetype,
	allocation map[models.Faculty]int,
) (models.Investigator, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return models.Investigator{}, errors.Wrap(ErrInvalidName, "new investigator", slog.Int("length", len(name)))
	}
	def, ok := p.archetypes.Get(archetype)
	if !ok {
		return models.Investigator{}, errors.Wrap(ErrInvalidArchetype, "new investigator",
			slog.String("archetype", string(archetype)))
	}

	spent := 0
	for f, points := range allocation {
		if !f.IsValid() || points < 0 {
			return models.Investigator{}, errors.Wrap(ErrInvalidAllocation, "new investigator",
				slog.String("faculty", string(f)), slog.Int("points", points))
		}
		spent += points
	}
	if spent != p.archetypes.BonusPoints {
		return models.Investigator{}, errors.Wrap(ErrInvalidAllocation, "new investigator",
			slog.Int("spent", spent), slog.Int("required", p.archetypes.BonusPoints))
	}

	inv := models.Investigator{
		Name:      name,
		Archetype: archetype,
		Composure: models.MaxResource,
		Vitality:  models.MaxResource,
	}
	for _, f := range models.AllFaculties {
		inv.Faculties.Set(f, p.archetypes.BaseFacultyScore+def.Bonuses[f]+allocation[f])
	}
	return inv, nil
}

// StartCase loads caseData into state and moves to its first scene. The ability is recharged and any active
// ability flag is cleared. Flags, labels and faction reputation carry over from earlier cases.
func (p *Progression) StartCase(state *models.GameState, caseData *models.CaseData) (*models.SceneNode, error) {
	first := caseData.FirstSceneID()
	if first == "" {
		return nil, errors.Wrap(ErrNoScenes, "start case", slog.String("case", caseData.Meta.ID))
	}

	state.EnsureMaps()
	state.CurrentCase = caseData.Meta.ID
	state.CurrentScene = ""
	state.SceneHistory = []string{}
	state.ActiveEncounter = nil
	state.Investigator.AbilityUsed = false
	for _, flag := range p.archetypes.AbilityFlags() {
		delete(state.Flags, flag)
	}
	for id, c := range caseData.Clues {
		c.ConnectsTo = append([]string(nil), c.ConnectsTo...)
		c.Tags = append([]string{}, c.Tags...)
		state.Clues[id] = c
	}
	for id, n := range caseData.NPCs {
		memory := make(map[string]bool, len(n.MemoryFlags))
		for k, v := range n.MemoryFlags {
			memory[k] = v
		}
		n.MemoryFlags = memory
		state.NPCs[id] = n
	}

	engine.ApplyEffects(state, []models.Effect{models.GoToSceneEffect(first)})
	scene, err := engine.EnterScene(state, caseData)
	if err != nil {
		return nil, errors.Wrap(err, "start case", slog.String("case", caseData.Meta.ID))
	}
	return scene, nil
}

// UseAbility activates the archetype ability once per case by raising its flag. Veil Sight also reveals the
// occult clues offered by scene regardless of their gates. scene may be nil.
func (p *Progression) UseAbility(state *models.GameState, scene *models.SceneNode) (Ability, error) {
	if state.Investigator.AbilityUsed {
		return Ability{}, errors.Wrap(ErrAbilityUsed, "use ability")
	}
	def, ok := p.archetypes.Get(state.Investigator.Archetype)
	if !ok {
		return Ability{}, errors.Wrap(ErrInvalidArchetype, "use ability",
			slog.String("archetype", string(state.Investigator.Archetype)))
	}

	effects := []models.Effect{models.FlagEffect(def.Ability.Flag, true)}
	if def.ID == models.ArchetypeOccultist && scene != nil {
		for _, d := range scene.CluesAvailable {
			if c, exists := state.Clues[d.ClueID]; exists && c.Type == models.ClueTypeOccult && !c.IsRevealed {
				effects = append(effects, models.DiscoverClueEffect(d.ClueID))
			}
		}
	}
	state.Investigator.AbilityUsed = true
	engine.ApplyEffects(state, effects)
	return def.Ability, nil
}
