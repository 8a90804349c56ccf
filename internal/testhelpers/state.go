package testhelpers

import "github.com/myrjola/gaslight/internal/models"

// NewInvestigator returns a deductionist with every faculty at 10 and full resources.
func NewInvestigator() models.Investigator {
	return models.Investigator{
		Name:      "Ada Thorne",
		Archetype: models.ArchetypeDeductionist,
		Faculties: models.Faculties{
			Reason:     10,
			Perception: 10,
			Nerve:      10,
			Vigor:      10,
			Influence:  10,
			Lore:       10,
		},
		Composure: models.MaxResource,
		Vitality:  models.MaxResource,
	}
}

// StateOption customises the state built by NewState.
type StateOption func(*models.GameState)

// NewState returns a game state in the case "the-drowned-clerk" at scene "act1-arrival".
func NewState(opts ...StateOption) *models.GameState {
	state := models.NewGameState(NewInvestigator())
	state.CurrentCase = "the-drowned-clerk"
	state.CurrentScene = "act1-arrival"
	for _, opt := range opts {
		opt(state)
	}
	return state
}

func WithFaculty(f models.Faculty, score int) StateOption {
	return func(s *models.GameState) {
		s.Investigator.Faculties.Set(f, score)
	}
}

func WithArchetype(a models.Archetype) StateOption {
	return func(s *models.GameState) {
		s.Investigator.Archetype = a
	}
}

// WithClue adds a clue. Revealed clues get status new.
func WithClue(id string, clueType models.ClueType, revealed bool) StateOption {
	return func(s *models.GameState) {
		s.Clues[id] = models.Clue{
			ID:          id,
			Type:        clueType,
			Title:       id,
			SceneSource: s.CurrentScene,
			Tags:        []string{},
			Status:      models.ClueStatusNew,
			IsRevealed:  revealed,
		}
	}
}

func WithNPC(id string, faction string, disposition, suspicion int) StateOption {
	return func(s *models.GameState) {
		s.NPCs[id] = models.NPCState{
			ID:           id,
			Name:         id,
			Faction:      faction,
			Disposition:  disposition,
			Suspicion:    suspicion,
			MemoryFlags:  map[string]bool{},
			IsAlive:      true,
			IsAccessible: true,
		}
	}
}

func WithFlag(flag string, value bool) StateOption {
	return func(s *models.GameState) {
		s.Flags[flag] = value
	}
}

func WithReputation(faction string, value float64) StateOption {
	return func(s *models.GameState) {
		s.FactionReputation[faction] = value
	}
}

func WithDeduction(id string, clueIDs ...string) StateOption {
	return func(s *models.GameState) {
		s.Deductions[id] = models.Deduction{ID: id, ClueIDs: clueIDs, Description: id}
	}
}
