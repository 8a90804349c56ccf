package progression

import (
	"bytes"
	_ "embed"
	"io"
	"log/slog"

	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed vignettes.yaml
var vignettesYAML []byte

//go:embed archetypes.yaml
var archetypesYAML []byte

var ErrInvalidRegistry = errors.NewSentinel("invalid registry")

type FactionThreshold struct {
	Faction   string  `yaml:"faction"`
	Threshold float64 `yaml:"threshold"`
}

type NPCThreshold struct {
	NPCID     string `yaml:"npcId"`
	Threshold int    `yaml:"threshold"`
}

// VignetteRule unlocks a vignette when any of its thresholds is met.
type VignetteRule struct {
	ID                string            `yaml:"id"`
	FactionReputation *FactionThreshold `yaml:"factionReputation"`
	NPCDisposition    *NPCThreshold     `yaml:"npcDisposition"`
	RequiredFlag      string            `yaml:"requiredFlag"`
}

// Satisfied reports whether state meets one of the rule's thresholds.
func (r VignetteRule) Satisfied(state *models.GameState) bool {
	if fr := r.FactionReputation; fr != nil && state.FactionReputation[fr.Faction] >= fr.Threshold {
		return true
	}
	if nd := r.NPCDisposition; nd != nil {
		if npc, ok := state.NPCs[nd.NPCID]; ok && npc.Disposition >= nd.Threshold {
			return true
		}
	}
	return r.RequiredFlag != "" && state.Flags[r.RequiredFlag]
}

// LoadVignetteRules decodes a vignette registry. Unknown keys are rejected.
func LoadVignetteRules(r io.Reader) ([]VignetteRule, error) {
	var file struct {
		Vignettes []VignetteRule `yaml:"vignettes"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode vignette registry")
	}
	for i, v := range file.Vignettes {
		if v.ID == "" {
			return nil, errors.Wrap(ErrInvalidRegistry, "vignette without id", slog.Int("index", i))
		}
		if v.FactionReputation == nil && v.NPCDisposition == nil && v.RequiredFlag == "" {
			return nil, errors.Wrap(ErrInvalidRegistry, "vignette without unlock rule", slog.String("vignette", v.ID))
		}
	}
	return file.Vignettes, nil
}

// DefaultVignetteRules returns the built-in vignette registry.
func DefaultVignetteRules() []VignetteRule {
	rules, err := LoadVignetteRules(bytes.NewReader(vignettesYAML))
	if err != nil {
		panic(err) // embedded registry is covered by tests
	}
	return rules
}

type Ability struct {
	Name        string         `yaml:"name"        json:"name"`
	Description string         `yaml:"description" json:"description"`
	Faculty     models.Faculty `yaml:"faculty"     json:"faculty"`
	Context     string         `yaml:"context"     json:"context"`
	// Flag is the world flag set while the ability is active.
	Flag string `yaml:"flag" json:"flag"`
}

type ArchetypeDefinition struct {
	ID          models.Archetype       `yaml:"id"          json:"id"`
	Name        string                 `yaml:"name"        json:"name"`
	Description string                 `yaml:"description" json:"description"`
	Bonuses     map[models.Faculty]int `yaml:"bonuses"     json:"bonuses"`
	Ability     Ability                `yaml:"ability"     json:"ability"`
}

// ArchetypeRegistry holds the character creation rules.
type ArchetypeRegistry struct {
	BaseFacultyScore int                   `yaml:"baseFacultyScore"`
	BonusPoints      int                   `yaml:"bonusPoints"`
	Archetypes       []ArchetypeDefinition `yaml:"archetypes"`
}

// Get returns the definition of archetype.
func (r ArchetypeRegistry) Get(archetype models.Archetype) (ArchetypeDefinition, bool) {
	for _, a := range r.Archetypes {
		if a.ID == archetype {
			return a, true
		}
	}
	return ArchetypeDefinition{}, false
}

// AbilityFlags lists the world flags of every archetype ability.
func (r ArchetypeRegistry) AbilityFlags() []string {
	flags := make([]string, 0, len(r.Archetypes))
	for _, a := range r.Archetypes {
		flags = append(flags, a.Ability.Flag)
	}
	return flags
}

func LoadArchetypes(r io.Reader) (ArchetypeRegistry, error) {
	var reg ArchetypeRegistry
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&reg); err != nil {
		return ArchetypeRegistry{}, errors.Wrap(err, "decode archetype registry")
	}
	for _, a := range reg.Archetypes {
		if !a.ID.IsValid() || !a.Ability.Faculty.IsValid() || a.Ability.Flag == "" {
			return ArchetypeRegistry{}, errors.Wrap(ErrInvalidRegistry, "invalid archetype", slog.String("archetype", string(a.ID)))
		}
		for f := range a.Bonuses {
			if !f.IsValid() {
				return ArchetypeRegistry{}, errors.Wrap(ErrInvalidRegistry, "invalid bonus faculty",
					slog.String("archetype", string(a.ID)), slog.String("faculty", string(f)))
			}
		}
	}
	return reg, nil
}

// DefaultArchetypes returns the built-in archetypes.
func DefaultArchetypes() ArchetypeRegistry {
	reg, err := LoadArchetypes(bytes.NewReader(archetypesYAML))
	if err != nil {
		panic(err) // embedded registry is covered by tests
	}
	return reg
}
