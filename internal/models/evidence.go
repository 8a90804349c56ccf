package models

import (
	"log/slog"
	"slices"

	"github.com/myrjola/gaslight/internal/errors"
)

type ClueType string

const (
	ClueTypePhysical   ClueType = "physical"
	ClueTypeTestimony  ClueType = "testimony"
	ClueTypeOccult     ClueType = "occult"
	ClueTypeDeduction  ClueType = "deduction"
	ClueTypeRedHerring ClueType = "redHerring"
)

// ClueStatus tracks a clue on the evidence board.
//
//	new → examined → connected → deduced
//	new | examined | connected → contested → examined
//	any status except spent → spent
type ClueStatus string

const (
	ClueStatusNew       ClueStatus = "new"
	ClueStatusExamined  ClueStatus = "examined"
	ClueStatusConnected ClueStatus = "connected"
	ClueStatusDeduced   ClueStatus = "deduced"
	ClueStatusContested ClueStatus = "contested"
	ClueStatusSpent     ClueStatus = "spent"
)

var ErrInvalidClueTransition = errors.NewSentinel("invalid clue status transition")

var clueTransitions = map[ClueStatus][]ClueStatus{ //nolint:gochecknoglobals // read-only state table
	ClueStatusNew:       {ClueStatusExamined, ClueStatusContested, ClueStatusSpent},
	ClueStatusExamined:  {ClueStatusConnected, ClueStatusContested, ClueStatusSpent},
	ClueStatusConnected: {ClueStatusDeduced, ClueStatusContested, ClueStatusSpent},
	ClueStatusDeduced:   {ClueStatusSpent},
	ClueStatusContested: {ClueStatusExamined, ClueStatusSpent},
	ClueStatusSpent:     nil,
}

// Clue is a piece of evidence. Clues are loaded with the case unrevealed and revealed through discovery.
type Clue struct {
	ID            string     `json:"id"`
	Type          ClueType   `json:"type"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	SceneSource   string     `json:"sceneSource"`
	ConnectsTo    []string   `json:"connectsTo"`
	GrantsFaculty Faculty    `json:"grantsFaculty,omitempty"`
	Tags          []string   `json:"tags"`
	Status        ClueStatus `json:"status"`
	IsRevealed    bool       `json:"isRevealed"`
}

// CanTransition reports whether the clue may move from its current status to next.
func (c Clue) CanTransition(next ClueStatus) bool {
	return slices.Contains(clueTransitions[c.Status], next)
}

// Transition moves the clue to next or returns ErrInvalidClueTransition.
func (c *Clue) Transition(next ClueStatus) error {
	if !c.CanTransition(next) {
		return errors.Wrap(ErrInvalidClueTransition, "transition clue",
			slog.String("clue", c.ID), slog.String("from", string(c.Status)), slog.String("to", string(next)))
	}
	c.Status = next
	return nil
}

// PathTo returns the shortest sequence of statuses that moves the clue to target, excluding the current
// status. It is empty when the clue already has target and nil when target is unreachable.
func (c Clue) PathTo(target ClueStatus) []ClueStatus {
	if c.Status == target {
		return []ClueStatus{}
	}
	prev := map[ClueStatus]ClueStatus{c.Status: c.Status}
	queue := []ClueStatus{c.Status}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range clueTransitions[current] {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = current
			if next == target {
				var path []ClueStatus
				for s := target; s != c.Status; s = prev[s] {
					path = append(path, s)
				}
				slices.Reverse(path)
				return path
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// Deduction is a connection formed between clues. It is immutable once created.
type Deduction struct {
	ID              string   `json:"id"`
	ClueIDs         []string `json:"clueIds"`
	Description     string   `json:"description"`
	UnlocksScenes   []string `json:"unlocksScenes"`
	UnlocksDialogue []string `json:"unlocksDialogue"`
	// IsRedHerring is true if and only if at least one contributing clue is a red herring.
	IsRedHerring bool `json:"isRedHerring"`
}
