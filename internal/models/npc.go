package models

const (
	MinDisposition = -10
	MaxDisposition = 10
	MinSuspicion   = 0
	MaxSuspicion   = 10
)

// SuspicionTier names a band of suspicion values used by npcSuspicion conditions.
type SuspicionTier string

const (
	SuspicionNormal     SuspicionTier = "normal"
	SuspicionEvasive    SuspicionTier = "evasive"
	SuspicionConcealing SuspicionTier = "concealing"
	SuspicionHostile    SuspicionTier = "hostile"
)

// Contains reports whether suspicion falls in the tier's band. Unknown tiers contain nothing.
func (t SuspicionTier) Contains(suspicion int) bool {
	switch t {
	case SuspicionNormal:
		return suspicion >= 0 && suspicion <= 2
	case SuspicionEvasive:
		return suspicion >= 3 && suspicion <= 5
	case SuspicionConcealing:
		return suspicion >= 6 && suspicion <= 8
	case SuspicionHostile:
		return suspicion >= 9 && suspicion <= 10
	default:
		return false
	}
}

type NPCState struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Faction      string          `json:"faction,omitempty"`
	Disposition  int             `json:"disposition"`
	Suspicion    int             `json:"suspicion"`
	MemoryFlags  map[string]bool `json:"memoryFlags"`
	IsAlive      bool            `json:"isAlive"`
	IsAccessible bool            `json:"isAccessible"`
}

func (n *NPCState) AdjustDisposition(delta int) {
	n.Disposition = Clamp(n.Disposition+delta, MinDisposition, MaxDisposition)
}

func (n *NPCState) AdjustSuspicion(delta int) {
	n.Suspicion = Clamp(n.Suspicion+delta, MinSuspicion, MaxSuspicion)
}

// Remove takes the NPC out of play. A dead NPC is never accessible.
func (n *NPCState) Remove() {
	n.IsAlive = false
	n.IsAccessible = false
}
