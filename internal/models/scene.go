package models

// Tier is the outcome bucket of a check.
type Tier string

const (
	TierCritical Tier = "critical"
	TierSuccess  Tier = "success"
	TierPartial  Tier = "partial"
	TierFailure  Tier = "failure"
	TierFumble   Tier = "fumble"
)

// AllTiers lists the tiers from best to worst.
var AllTiers = []Tier{TierCritical, TierSuccess, TierPartial, TierFailure, TierFumble} //nolint:gochecknoglobals // read-only

// IsPassing reports whether the tier counts as a success for reaction checks.
func (t Tier) IsPassing() bool {
	return t == TierCritical || t == TierSuccess
}

// IsFailing reports whether the tier triggers encounter damage.
func (t Tier) IsFailing() bool {
	return t == TierFailure || t == TierFumble
}

type DynamicDifficulty struct {
	BaseDC        int     `json:"baseDC"`
	ScaleFaculty  Faculty `json:"scaleFaculty"`
	HighThreshold int     `json:"highThreshold"`
	HighDC        int     `json:"highDC"`
}

type FacultyRequirement struct {
	Faculty Faculty `json:"faculty"`
	Minimum int     `json:"minimum"`
}

type NPCEffect struct {
	NPCID            string `json:"npcId"`
	DispositionDelta int    `json:"dispositionDelta"`
	SuspicionDelta   int    `json:"suspicionDelta"`
}

// EncounterDamage holds negative deltas applied when an encounter choice fails.
type EncounterDamage struct {
	ComposureDelta *int `json:"composureDelta,omitempty"`
	VitalityDelta  *int `json:"vitalityDelta,omitempty"`
}

type Choice struct {
	ID                string             `json:"id"`
	Text              string             `json:"text"`
	Faculty           Faculty            `json:"faculty,omitempty"`
	Difficulty        *int               `json:"difficulty,omitempty"`
	DynamicDifficulty *DynamicDifficulty `json:"dynamicDifficulty,omitempty"`
	AdvantageIf       []string           `json:"advantageIf"`
	Outcomes          map[Tier]string    `json:"outcomes"`

	RequiresClue      string              `json:"requiresClue,omitempty"`
	RequiresDeduction string              `json:"requiresDeduction,omitempty"`
	RequiresFlag      string              `json:"requiresFlag,omitempty"`
	RequiresFaculty   *FacultyRequirement `json:"requiresFaculty,omitempty"`

	NPCEffect *NPCEffect `json:"npcEffect,omitempty"`

	// Encounter only.
	WorseAlternative *Choice          `json:"worseAlternative,omitempty"`
	IsEscapePath     bool             `json:"isEscapePath,omitempty"`
	EncounterDamage  *EncounterDamage `json:"encounterDamage,omitempty"`
}

// IsCheck reports whether resolving the choice requires a faculty check.
func (c Choice) IsCheck() bool {
	return c.Faculty != "" && (c.Difficulty != nil || c.DynamicDifficulty != nil)
}

// Clone returns a deep copy of the choice.
func (c Choice) Clone() Choice {
	out := c
	if c.Difficulty != nil {
		d := *c.Difficulty
		out.Difficulty = &d
	}
	if c.DynamicDifficulty != nil {
		d := *c.DynamicDifficulty
		out.DynamicDifficulty = &d
	}
	out.AdvantageIf = cloneSlice(c.AdvantageIf)
	if c.Outcomes != nil {
		out.Outcomes = make(map[Tier]string, len(c.Outcomes))
		for k, v := range c.Outcomes {
			out.Outcomes[k] = v
		}
	}
	if c.RequiresFaculty != nil {
		r := *c.RequiresFaculty
		out.RequiresFaculty = &r
	}
	if c.NPCEffect != nil {
		e := *c.NPCEffect
		out.NPCEffect = &e
	}
	if c.WorseAlternative != nil {
		w := c.WorseAlternative.Clone()
		out.WorseAlternative = &w
	}
	if c.EncounterDamage != nil {
		d := EncounterDamage{}
		if c.EncounterDamage.ComposureDelta != nil {
			v := *c.EncounterDamage.ComposureDelta
			d.ComposureDelta = &v
		}
		if c.EncounterDamage.VitalityDelta != nil {
			v := *c.EncounterDamage.VitalityDelta
			d.VitalityDelta = &v
		}
		out.EncounterDamage = &d
	}
	return out
}

type DiscoveryMethod string

const (
	DiscoveryAutomatic   DiscoveryMethod = "automatic"
	DiscoveryExploration DiscoveryMethod = "exploration"
	DiscoveryCheck       DiscoveryMethod = "check"
	DiscoveryDialogue    DiscoveryMethod = "dialogue"
)

type ClueDiscovery struct {
	ClueID            string              `json:"clueId"`
	Method            DiscoveryMethod     `json:"method"`
	RequiresFaculty   *FacultyRequirement `json:"requiresFaculty,omitempty"`
	RequiresDeduction string              `json:"requiresDeduction,omitempty"`
}

// SceneNode is one node of the case's scene graph. Variant scenes carry VariantOf and VariantCondition.
type SceneNode struct {
	ID                 string          `json:"id"`
	Act                int             `json:"act"`
	Narrative          string          `json:"narrative"`
	Illustration       string          `json:"illustration,omitempty"`
	AmbientAudio       string          `json:"ambientAudio,omitempty"`
	CluesAvailable     []ClueDiscovery `json:"cluesAvailable"`
	Choices            []Choice        `json:"choices"`
	Conditions         []Condition     `json:"conditions,omitempty"`
	OnEnter            []Effect        `json:"onEnter,omitempty"`
	ArchetypeExclusive Archetype       `json:"archetypeExclusive,omitempty"`
	VariantOf          string          `json:"variantOf,omitempty"`
	VariantCondition   *Condition      `json:"variantCondition,omitempty"`
	// Encounter is set on scenes played as a multi-round encounter.
	Encounter *Encounter `json:"encounter,omitempty"`
}

// Encounter is the authored definition of an encounter. Its rounds are copied into an EncounterState when
// the encounter starts.
type Encounter struct {
	IsSupernatural bool             `json:"isSupernatural"`
	Rounds         []EncounterRound `json:"rounds"`
}

type EncounterRound struct {
	RoundNumber    int      `json:"roundNumber"`
	Choices        []Choice `json:"choices"`
	IsSupernatural bool     `json:"isSupernatural"`
}

func (r EncounterRound) Clone() EncounterRound {
	out := r
	if r.Choices != nil {
		out.Choices = make([]Choice, len(r.Choices))
		for i, c := range r.Choices {
			out.Choices[i] = c.Clone()
		}
	}
	return out
}

// EncounterState is not-started until created, in progress while CurrentRound < len(Rounds), and
// terminal once IsComplete.
type EncounterState struct {
	ID           string           `json:"id"`
	Rounds       []EncounterRound `json:"rounds"`
	CurrentRound int              `json:"currentRound"`
	IsComplete   bool             `json:"isComplete"`
	// ReactionCheckPassed is nil when no reaction check was performed.
	ReactionCheckPassed *bool `json:"reactionCheckPassed"`
}

func (e EncounterState) Clone() EncounterState {
	out := e
	if e.Rounds != nil {
		out.Rounds = make([]EncounterRound, len(e.Rounds))
		for i, r := range e.Rounds {
			out.Rounds[i] = r.Clone()
		}
	}
	if e.ReactionCheckPassed != nil {
		p := *e.ReactionCheckPassed
		out.ReactionCheckPassed = &p
	}
	return out
}

// Round returns the round being played, or false when the encounter is exhausted.
func (e EncounterState) Round() (EncounterRound, bool) {
	if e.IsComplete || e.CurrentRound < 0 || e.CurrentRound >= len(e.Rounds) {
		return EncounterRound{}, false
	}
	return e.Rounds[e.CurrentRound], true
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
