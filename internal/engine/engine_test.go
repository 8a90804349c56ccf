package engine_test

import (
	"io"
	"testing"

	"github.com/myrjola/gaslight/internal/dice"
	"github.com/myrjola/gaslight/internal/engine"
	"github.com/myrjola/gaslight/internal/metrics"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/testhelpers"
)

// newEngine returns an engine whose successive d20 rolls are rolls.
func newEngine(t *testing.T, rolls ...int) (*engine.Engine, *testhelpers.FixedSource) {
	t.Helper()
	src := testhelpers.NewFixedSource(rolls...)
	return engine.New(testhelpers.NewLogger(io.Discard), dice.NewRoller(src), metrics.New()), src
}

func intPtr(v int) *int {
	return &v
}

func outcomes(prefix string) map[models.Tier]string {
	out := make(map[models.Tier]string, len(models.AllTiers))
	for _, tier := range models.AllTiers {
		out[tier] = prefix + "-" + string(tier)
	}
	return out
}
