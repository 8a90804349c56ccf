// Package engine resolves choices, encounters and deductions against a game state.
//
// Functions that compute outcomes never mutate the state they are given. They return effect descriptors
// that ApplyEffects performs, which keeps a single mutation path for the whole game.
package engine

import (
	"log/slog"

	"github.com/myrjola/gaslight/internal/dice"
	"github.com/myrjola/gaslight/internal/metrics"
)

// Engine carries the dice and the collaborators used while resolving a turn. It is not safe for concurrent
// use because the roller is not.
type Engine struct {
	logger  *slog.Logger
	roller  *dice.Roller
	metrics *metrics.Metrics
}

// New returns an engine drawing from roller. m may be nil.
func New(logger *slog.Logger, roller *dice.Roller, m *metrics.Metrics) *Engine {
	return &Engine{
		logger:  logger.With("source", "Engine"),
		roller:  roller,
		metrics: m,
	}
}
