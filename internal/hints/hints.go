// Package hints decides when the player looks stuck and what to suggest.
package hints

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/myrjola/gaslight/internal/models"
)

const (
	// BoardVisitThreshold is the number of evidence board visits without a connection attempt that
	// triggers a hint.
	BoardVisitThreshold = 3
	// SceneDwell is how long the player may stay in one scene before a hint is offered.
	SceneDwell = 5 * time.Minute
)

type Event string

const (
	EventBoardVisit        Event = "boardVisit"
	EventConnectionAttempt Event = "connectionAttempt"
	EventSceneChange       Event = "sceneChange"
)

// Level grows from a narrative nudge (1) to a direct reveal (3).
type Level int

const (
	LevelNudge Level = iota + 1
	LevelConnection
	LevelReveal
)

func (l Level) IsValid() bool {
	return l >= LevelNudge && l <= LevelReveal
}

type Hint struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

const (
	nudgeText      = "Consider revisiting the scene where you found your most recent clue."
	connectionText = "Look for connections between clues that share a location or person."
	revealText     = "The key connection is between your most recently discovered clue and the one before it."
)

// Tracker follows the activity of one player. The zero value is not tracking a scene yet; use NewTracker.
// A Tracker is a plain value so it can be stored with the player's session.
type Tracker struct {
	BoardVisits        int       `json:"boardVisits"`
	ConnectionAttempts int       `json:"connectionAttempts"`
	SceneEnteredAt     time.Time `json:"sceneEnteredAt"`
	// LastLevelShown is zero until a hint is shown in the current scene.
	LastLevelShown Level `json:"lastLevelShown"`
}

func NewTracker(now time.Time) Tracker {
	return Tracker{SceneEnteredAt: now}
}

// Track records event. A connection attempt resets the board visit count and a scene change resets
// everything.
func (t *Tracker) Track(event Event, now time.Time) {
	switch event {
	case EventBoardVisit:
		t.BoardVisits++
	case EventConnectionAttempt:
		t.ConnectionAttempts++
		t.BoardVisits = 0
	case EventSceneChange:
		*t = NewTracker(now)
	}
}

// ShouldShowHint reports whether the player has visited the board repeatedly without trying a connection,
// or has dwelt on the scene for SceneDwell. It is always false when hints are disabled.
func (t Tracker) ShouldShowHint(enabled bool, now time.Time) bool {
	if !enabled {
		return false
	}
	boardTrigger := t.BoardVisits >= BoardVisitThreshold && t.ConnectionAttempts == 0
	dwellTrigger := now.Sub(t.SceneEnteredAt) >= SceneDwell
	return boardTrigger || dwellTrigger
}

// Hint returns the hint for level. A direct reveal is only given once a connection hint has been shown in
// this scene; until then the connection hint is returned instead.
func (t *Tracker) Hint(level Level, state *models.GameState) Hint {
	if level == LevelReveal && t.LastLevelShown < LevelConnection {
		return Hint{Level: LevelConnection, Text: connectionText}
	}
	level = max(LevelNudge, min(LevelReveal, level))

	var text string
	switch level {
	case LevelNudge:
		text = nudgeText
	case LevelConnection:
		text = connectionHint(state)
	case LevelReveal:
		text = revealText
	}
	t.LastLevelShown = max(t.LastLevelShown, level)
	return Hint{Level: level, Text: text}
}

// connectionHint names two revealed clues that have connections, picked in id order.
func connectionHint(state *models.GameState) string {
	var candidates []models.Clue
	for _, c := range state.Clues {
		if c.IsRevealed && len(c.ConnectsTo) > 0 {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) < 2 {
		return connectionText
	}
	slices.SortFunc(candidates, func(a, b models.Clue) int { return strings.Compare(a.ID, b.ID) })
	return fmt.Sprintf("Consider connecting %q with %q, they may share a common thread.",
		candidates[0].Title, candidates[1].Title)
}
