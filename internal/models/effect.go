package models

// EffectType discriminates the Effect union. Unknown types are skipped when effects are applied.
type EffectType string

// Effects authored in scene content.
const (
	EffectComposure    EffectType = "composure"
	EffectVitality     EffectType = "vitality"
	EffectFlag         EffectType = "flag"
	EffectDisposition  EffectType = "disposition"
	EffectSuspicion    EffectType = "suspicion"
	EffectReputation   EffectType = "reputation"
	EffectDiscoverClue EffectType = "discoverClue"
)

// Effects produced by the engine only.
const (
	EffectGoToScene    EffectType = "goToScene"
	EffectLabel        EffectType = "label"
	EffectNPCMemory    EffectType = "npcMemory"
	EffectRemoveNPC    EffectType = "removeNpc"
	EffectAddDeduction EffectType = "addDeduction"
	EffectClueStatus   EffectType = "clueStatus"
)

// Effect describes one state mutation. Pure engine functions return effects and a single apply step
// performs them.
type Effect struct {
	Type   EffectType `json:"type"`
	Target string     `json:"target,omitempty"`
	// Key names the memory flag of an npcMemory effect.
	Key       string     `json:"key,omitempty"`
	Delta     *int       `json:"delta,omitempty"`
	Value     *Value     `json:"value,omitempty"`
	Deduction *Deduction `json:"deduction,omitempty"`
}

func ComposureEffect(delta int) Effect {
	return Effect{Type: EffectComposure, Delta: &delta}
}

func VitalityEffect(delta int) Effect {
	return Effect{Type: EffectVitality, Delta: &delta}
}

func FlagEffect(flag string, value bool) Effect {
	return Effect{Type: EffectFlag, Target: flag, Value: BoolValue(value)}
}

func DispositionEffect(npcID string, delta int) Effect {
	return Effect{Type: EffectDisposition, Target: npcID, Delta: &delta}
}

func SuspicionEffect(npcID string, delta int) Effect {
	return Effect{Type: EffectSuspicion, Target: npcID, Delta: &delta}
}

func ReputationEffect(faction string, delta int) Effect {
	return Effect{Type: EffectReputation, Target: faction, Delta: &delta}
}

func DiscoverClueEffect(clueID string) Effect {
	return Effect{Type: EffectDiscoverClue, Target: clueID}
}

func GoToSceneEffect(sceneID string) Effect {
	return Effect{Type: EffectGoToScene, Target: sceneID}
}

func LabelEffect(key, value string) Effect {
	return Effect{Type: EffectLabel, Target: key, Value: StringValue(value)}
}

func NPCMemoryEffect(npcID, key string, value bool) Effect {
	return Effect{Type: EffectNPCMemory, Target: npcID, Key: key, Value: BoolValue(value)}
}

func RemoveNPCEffect(npcID string) Effect {
	return Effect{Type: EffectRemoveNPC, Target: npcID}
}

func AddDeductionEffect(d Deduction) Effect {
	return Effect{Type: EffectAddDeduction, Target: d.ID, Deduction: &d}
}

func ClueStatusEffect(clueID string, status ClueStatus) Effect {
	return Effect{Type: EffectClueStatus, Target: clueID, Value: StringValue(string(status))}
}
