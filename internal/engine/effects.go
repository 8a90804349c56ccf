package engine

import (
	"github.com/myrjola/gaslight/internal/models"
)

// factionShare is the fraction of an NPC disposition change that carries over to the NPC's faction.
const factionShare = 0.5

// ApplyEffects performs effects on state in order. It is the only place where the engine mutates a game
// state.
//
// Resources and NPC scores are clamped to their ranges. Effects naming a missing clue or NPC and effects
// of unknown type are skipped.
func ApplyEffects(state *models.GameState, effects []models.Effect) {
	state.EnsureMaps()
	for _, e := range effects {
		applyEffect(state, e)
	}
}

func applyEffect(state *models.GameState, e models.Effect) {
	switch e.Type {
	case models.EffectComposure:
		if e.Delta != nil {
			state.Investigator.AdjustComposure(*e.Delta)
		}

	case models.EffectVitality:
		if e.Delta != nil {
			state.Investigator.AdjustVitality(*e.Delta)
		}

	case models.EffectFlag:
		if e.Target == "" {
			return
		}
		value, ok := e.Value.Bool()
		if !ok {
			value = true
		}
		state.Flags[e.Target] = value

	case models.EffectDisposition:
		npc, ok := state.NPCs[e.Target]
		if !ok || e.Delta == nil {
			return
		}
		npc.AdjustDisposition(*e.Delta)
		state.NPCs[e.Target] = npc
		if npc.Faction != "" {
			state.FactionReputation[npc.Faction] += float64(*e.Delta) * factionShare
		}

	case models.EffectSuspicion:
		npc, ok := state.NPCs[e.Target]
		if !ok || e.Delta == nil {
			return
		}
		npc.AdjustSuspicion(*e.Delta)
		state.NPCs[e.Target] = npc

	case models.EffectReputation:
		if e.Target != "" && e.Delta != nil {
			state.FactionReputation[e.Target] += float64(*e.Delta)
		}

	case models.EffectDiscoverClue:
		clue, ok := state.Clues[e.Target]
		if !ok {
			return
		}
		clue.IsRevealed = true
		clue.Status = models.ClueStatusNew
		state.Clues[e.Target] = clue

	case models.EffectGoToScene:
		if e.Target == "" {
			return
		}
		if state.CurrentScene != "" {
			state.SceneHistory = append(state.SceneHistory, state.CurrentScene)
		}
		state.CurrentScene = e.Target

	case models.EffectLabel:
		if value, ok := e.Value.String(); ok && e.Target != "" {
			state.Labels[e.Target] = value
		}

	case models.EffectNPCMemory:
		npc, ok := state.NPCs[e.Target]
		if !ok || e.Key == "" {
			return
		}
		value, isBool := e.Value.Bool()
		if !isBool {
			value = true
		}
		memory := make(map[string]bool, len(npc.MemoryFlags)+1)
		for k, v := range npc.MemoryFlags {
			memory[k] = v
		}
		memory[e.Key] = value
		npc.MemoryFlags = memory
		state.NPCs[e.Target] = npc

	case models.EffectRemoveNPC:
		npc, ok := state.NPCs[e.Target]
		if !ok {
			return
		}
		npc.Remove()
		state.NPCs[e.Target] = npc

	case models.EffectAddDeduction:
		if e.Deduction == nil {
			return
		}
		if _, exists := state.Deductions[e.Deduction.ID]; exists {
			// Deductions are immutable once formed.
			return
		}
		state.Deductions[e.Deduction.ID] = *e.Deduction

	case models.EffectClueStatus:
		clue, ok := state.Clues[e.Target]
		status, isString := e.Value.String()
		if !ok || !isString {
			return
		}
		if err := clue.Transition(models.ClueStatus(status)); err != nil {
			return
		}
		state.Clues[e.Target] = clue
	}
}

// ApplyOnEnter performs the onEnter effects of scene. Only content-authorable effect types take effect.
func ApplyOnEnter(state *models.GameState, scene models.SceneNode) {
	effects := make([]models.Effect, 0, len(scene.OnEnter))
	for _, e := range scene.OnEnter {
		if isAuthorable(e.Type) {
			effects = append(effects, e)
		}
	}
	ApplyEffects(state, effects)
}

func isAuthorable(t models.EffectType) bool {
	switch t {
	case models.EffectComposure, models.EffectVitality, models.EffectFlag, models.EffectDisposition,
		models.EffectSuspicion, models.EffectReputation, models.EffectDiscoverClue:
		return true
	default:
		return false
	}
}
