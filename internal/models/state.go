package models

type AudioVolume struct {
	Ambient float64 `json:"ambient"`
	SFX     float64 `json:"sfx"`
}

// GameSettings are carried with the game state for the presentation layer. The engine never reads them.
type GameSettings struct {
	// FontSize is either a named size or a pixel value.
	FontSize          *Value      `json:"fontSize,omitempty"`
	HighContrast      bool        `json:"highContrast"`
	ReducedMotion     bool        `json:"reducedMotion"`
	TextSpeed         string      `json:"textSpeed"`
	HintsEnabled      bool        `json:"hintsEnabled"`
	AutoSaveFrequency string      `json:"autoSaveFrequency"`
	AudioVolume       AudioVolume `json:"audioVolume"`
}

func DefaultSettings() GameSettings {
	return GameSettings{
		FontSize:          StringValue("standard"),
		TextSpeed:         "typewriter",
		HintsEnabled:      true,
		AutoSaveFrequency: "scene",
		AudioVolume:       AudioVolume{Ambient: 0.5, SFX: 0.7}, //nolint:mnd // defaults
	}
}

// GameState is the full game snapshot threaded through the engine.
type GameState struct {
	Investigator Investigator         `json:"investigator"`
	CurrentScene string               `json:"currentScene"`
	CurrentCase  string               `json:"currentCase"`
	Clues        map[string]Clue      `json:"clues"`
	Deductions   map[string]Deduction `json:"deductions"`
	NPCs         map[string]NPCState  `json:"npcs"`
	Flags        map[string]bool      `json:"flags"`
	// Labels are string-valued world flags such as last-critical-faculty.
	Labels            map[string]string  `json:"labels"`
	FactionReputation map[string]float64 `json:"factionReputation"`
	// SceneHistory is append-only.
	SceneHistory []string     `json:"sceneHistory"`
	Settings     GameSettings `json:"settings"`
	// ActiveEncounter checkpoints an encounter in progress so that a save resumes at the same round.
	ActiveEncounter *EncounterState `json:"activeEncounter,omitempty"`
}

// NewGameState returns an empty state for the investigator with every map initialised.
func NewGameState(investigator Investigator) *GameState {
	return &GameState{
		Investigator:      investigator,
		Clues:             map[string]Clue{},
		Deductions:        map[string]Deduction{},
		NPCs:              map[string]NPCState{},
		Flags:             map[string]bool{},
		Labels:            map[string]string{},
		FactionReputation: map[string]float64{},
		SceneHistory:      []string{},
		Settings:          DefaultSettings(),
	}
}

// EnsureMaps replaces nil maps with empty ones so that apply steps can write to them.
func (s *GameState) EnsureMaps() {
	if s.Clues == nil {
		s.Clues = map[string]Clue{}
	}
	if s.Deductions == nil {
		s.Deductions = map[string]Deduction{}
	}
	if s.NPCs == nil {
		s.NPCs = map[string]NPCState{}
	}
	if s.Flags == nil {
		s.Flags = map[string]bool{}
	}
	if s.Labels == nil {
		s.Labels = map[string]string{}
	}
	if s.FactionReputation == nil {
		s.FactionReputation = map[string]float64{}
	}
	if s.SceneHistory == nil {
		s.SceneHistory = []string{}
	}
}

// IsClueRevealed reports whether the clue exists and has been revealed.
func (s *GameState) IsClueRevealed(clueID string) bool {
	c, ok := s.Clues[clueID]
	return ok && c.IsRevealed
}

// Clone returns a deep copy that shares no mutable memory with s.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	if s.Clues != nil {
		out.Clues = make(map[string]Clue, len(s.Clues))
		for id, c := range s.Clues {
			c.ConnectsTo = cloneSlice(c.ConnectsTo)
			c.Tags = cloneSlice(c.Tags)
			out.Clues[id] = c
		}
	}
	if s.Deductions != nil {
		out.Deductions = make(map[string]Deduction, len(s.Deductions))
		for id, d := range s.Deductions {
			d.ClueIDs = cloneSlice(d.ClueIDs)
			d.UnlocksScenes = cloneSlice(d.UnlocksScenes)
			d.UnlocksDialogue = cloneSlice(d.UnlocksDialogue)
			out.Deductions[id] = d
		}
	}
	if s.NPCs != nil {
		out.NPCs = make(map[string]NPCState, len(s.NPCs))
		for id, n := range s.NPCs {
			n.MemoryFlags = cloneMap(n.MemoryFlags)
			out.NPCs[id] = n
		}
	}
	out.Flags = cloneMap(s.Flags)
	out.Labels = cloneMap(s.Labels)
	out.FactionReputation = cloneMap(s.FactionReputation)
	out.SceneHistory = cloneSlice(s.SceneHistory)
	if s.Settings.FontSize != nil {
		v := *s.Settings.FontSize
		out.Settings.FontSize = &v
	}
	if s.ActiveEncounter != nil {
		e := s.ActiveEncounter.Clone()
		out.ActiveEncounter = &e
	}
	return &out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// CheckResult is the breakdown of a performed faculty check. Roll is the natural die used for the tier.
type CheckResult struct {
	Roll     int  `json:"roll"`
	Modifier int  `json:"modifier"`
	Total    int  `json:"total"`
	DC       int  `json:"dc"`
	Tier     Tier `json:"tier"`
}

// ChoiceResult is the outcome of resolving a choice. Check is nil when no roll was performed.
type ChoiceResult struct {
	NextSceneID  string       `json:"nextSceneId"`
	Tier         Tier         `json:"tier"`
	Check        *CheckResult `json:"check,omitempty"`
	HasAdvantage bool         `json:"hasAdvantage,omitempty"`
	Effects      []Effect     `json:"effects,omitempty"`
}
