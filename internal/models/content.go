package models

import (
	"slices"
)

type CaseMeta struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Synopsis            string          `json:"synopsis"`
	Acts                int             `json:"acts"`
	FacultyDistribution map[Faculty]int `json:"facultyDistribution,omitempty"`
	FirstScene          string          `json:"firstScene,omitempty"`
}

// CaseData is a loaded case indexed by id. Variants are also present in Scenes.
type CaseData struct {
	Meta     CaseMeta             `json:"meta"`
	Scenes   map[string]SceneNode `json:"scenes"`
	Clues    map[string]Clue      `json:"clues"`
	NPCs     map[string]NPCState  `json:"npcs"`
	Variants []SceneNode          `json:"variants"`
	// SceneOrder lists the non-variant scene ids in the order they were authored.
	SceneOrder []string `json:"sceneOrder,omitempty"`
}

// FirstSceneID returns the scene a case opens with: the meta firstScene when set, else the first authored
// scene. It is empty for a case without scenes.
func (c *CaseData) FirstSceneID() string {
	if c.Meta.FirstScene != "" {
		return c.Meta.FirstScene
	}
	if len(c.SceneOrder) > 0 {
		return c.SceneOrder[0]
	}
	ids := make([]string, 0, len(c.Scenes))
	for id, s := range c.Scenes {
		if s.VariantOf == "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return ""
	}
	return slices.Min(ids)
}

type VignetteMeta struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Synopsis         string     `json:"synopsis"`
	TriggerCondition *Condition `json:"triggerCondition,omitempty"`
	FirstScene       string     `json:"firstScene,omitempty"`
}

type VignetteData struct {
	Meta   VignetteMeta         `json:"meta"`
	Scenes map[string]SceneNode `json:"scenes"`
	Clues  map[string]Clue      `json:"clues"`
	NPCs   map[string]NPCState  `json:"npcs"`
	// SceneOrder lists the scene ids in the order they were authored.
	SceneOrder []string `json:"sceneOrder,omitempty"`
}

// AsCase lets a vignette be played through the same entry points as a case.
func (v VignetteData) AsCase() *CaseData {
	return &CaseData{
		Meta: CaseMeta{
			ID:         v.Meta.ID,
			Title:      v.Meta.Title,
			Synopsis:   v.Meta.Synopsis,
			Acts:       1,
			FirstScene: v.Meta.FirstScene,
		},
		Scenes:     v.Scenes,
		Clues:      v.Clues,
		NPCs:       v.NPCs,
		SceneOrder: v.SceneOrder,
	}
}
