// Package dice implements d20 checks: rolls, modifiers, tiers and difficulty classes.
package dice

import (
	"math/rand/v2"

	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/random"
)

const (
	Sides = 20
	// DefaultDC applies to checks that name neither a difficulty nor a dynamic rule.
	DefaultDC = 12
	// averageScore has modifier 0 and stands in for faculties the investigator does not have.
	averageScore = 10
	// partialMargin is how far below the DC a total may fall and still be a partial success.
	partialMargin = 2
)

// Source supplies uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

// NewSource returns a deterministic source. Equal seeds produce equal roll sequences.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // game dice, not crypto
}

// NewSeededSource returns a source seeded from crypto/rand.
func NewSeededSource() (Source, error) {
	seed, err := random.Seed()
	if err != nil {
		return nil, errors.Wrap(err, "seed dice source")
	}
	return NewSource(seed), nil
}

// RollResult holds both draws of an advantage or disadvantage roll. Result is always Roll1 or Roll2.
type RollResult struct {
	Roll1  int `json:"roll1"`
	Roll2  int `json:"roll2"`
	Result int `json:"result"`
}

// Roller draws dice from a Source. It is not safe for concurrent use.
type Roller struct {
	src Source
}

func NewRoller(src Source) *Roller {
	return &Roller{src: src}
}

// RollD20 returns a uniform integer in [1, 20].
func (r *Roller) RollD20() int {
	return r.src.IntN(Sides) + 1
}

func (r *Roller) RollWithAdvantage() RollResult {
	a, b := r.RollD20(), r.RollD20()
	return RollResult{Roll1: a, Roll2: b, Result: max(a, b)}
}

func (r *Roller) RollWithDisadvantage() RollResult {
	a, b := r.RollD20(), r.RollD20()
	return RollResult{Roll1: a, Roll2: b, Result: min(a, b)}
}

// PerformCheck rolls a check of faculty against dc. Advantage and disadvantage cancel each other out.
// A faculty the investigator lacks counts as an average score.
func (r *Roller) PerformCheck(
	faculty models.Faculty,
	investigator models.Investigator,
	dc int,
	hasAdvantage bool,
	hasDisadvantage bool,
) models.CheckResult {
	score, ok := investigator.Faculties.Get(faculty)
	if !ok {
		score = averageScore
	}
	modifier := CalculateModifier(score)

	var natural int
	switch {
	case hasAdvantage && !hasDisadvantage:
		natural = r.RollWithAdvantage().Result
	case hasDisadvantage && !hasAdvantage:
		natural = r.RollWithDisadvantage().Result
	default:
		natural = r.RollD20()
	}

	return models.CheckResult{
		Roll:     natural,
		Modifier: modifier,
		Total:    natural + modifier,
		DC:       dc,
		Tier:     ResolveCheck(natural, modifier, dc),
	}
}

// CalculateModifier returns floor((score-10)/2) for any score.
func CalculateModifier(score int) int {
	d := score - averageScore
	if d < 0 {
		// Go division truncates toward zero.
		return -((-d + 1) / 2) //nolint:mnd // halving
	}
	return d / 2 //nolint:mnd // halving
}

// ResolveCheck maps a natural roll to a tier. A natural 20 is always critical and a natural 1 always a fumble.
func ResolveCheck(natural int, modifier int, dc int) models.Tier {
	switch natural {
	case Sides:
		return models.TierCritical
	case 1:
		return models.TierFumble
	}
	total := natural + modifier
	switch {
	case total >= dc:
		return models.TierSuccess
	case total >= dc-partialMargin:
		return models.TierPartial
	default:
		return models.TierFailure
	}
}

// ResolveDC returns the difficulty class of choice for investigator.
//
// A dynamic rule wins over a fixed difficulty. It yields HighDC when the scaling faculty meets HighThreshold
// and BaseDC otherwise.
func ResolveDC(choice models.Choice, investigator models.Investigator) int {
	if dd := choice.DynamicDifficulty; dd != nil {
		score, ok := investigator.Faculties.Get(dd.ScaleFaculty)
		if !ok {
			score = averageScore
		}
		if score >= dd.HighThreshold {
			return dd.HighDC
		}
		return dd.BaseDC
	}
	if choice.Difficulty != nil {
		return *choice.Difficulty
	}
	return DefaultDC
}
