package dice_test

import (
	"math"
	"testing"

	"github.com/myrjola/gaslight/internal/dice"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestCalculateModifier(t *testing.T) {
	t.Parallel()
	prev := math.MinInt
	for score := -30; score <= 40; score++ {
		got := dice.CalculateModifier(score)
		require.Equal(t, int(math.Floor(float64(score-10)/2)), got, "score %d", score)
		require.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestResolveCheck(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		natural  int
		modifier int
		dc       int
		want     models.Tier
	}{
		{"reason 14 rolls 15 against 12", 15, 2, 12, models.TierSuccess},
		{"natural 20 beats impossible dc", 20, -5, 30, models.TierCritical},
		{"natural 1 fumbles trivial dc", 1, 10, 2, models.TierFumble},
		{"total equals dc", 10, 0, 10, models.TierSuccess},
		{"one below dc", 9, 0, 10, models.TierPartial},
		{"two below dc", 8, 0, 10, models.TierPartial},
		{"three below dc", 7, 0, 10, models.TierFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, dice.ResolveCheck(tt.natural, tt.modifier, tt.dc))
		})
	}

	for m := -10; m <= 10; m++ {
		for dc := 1; dc <= 40; dc++ {
			require.Equal(t, models.TierCritical, dice.ResolveCheck(20, m, dc))
			require.Equal(t, models.TierFumble, dice.ResolveCheck(1, m, dc))
		}
	}
}

func TestResolveDC(t *testing.T) {
	t.Parallel()
	fourteen := 14
	dynamic := &models.DynamicDifficulty{
		BaseDC:        10,
		ScaleFaculty:  models.FacultyPerception,
		HighThreshold: 14,
		HighDC:        16,
	}
	tests := []struct {
		name       string
		choice     models.Choice
		perception int
		want       int
	}{
		{"default", models.Choice{Faculty: models.FacultyReason}, 10, dice.DefaultDC},
		{"fixed difficulty", models.Choice{Difficulty: &fourteen}, 10, 14},
		{"dynamic below threshold", models.Choice{DynamicDifficulty: dynamic}, 13, 10},
		{"dynamic at threshold", models.Choice{DynamicDifficulty: dynamic}, 14, 16},
		{"dynamic wins over difficulty", models.Choice{Difficulty: &fourteen, DynamicDifficulty: dynamic}, 18, 16},
		{
			"unknown scaling faculty counts as 10",
			models.Choice{DynamicDifficulty: &models.DynamicDifficulty{
				BaseDC: 8, ScaleFaculty: "luck", HighThreshold: 10, HighDC: 18,
			}},
			0,
			18,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			inv := testhelpers.NewInvestigator()
			inv.Faculties.Perception = tt.perception
			require.Equal(t, tt.want, dice.ResolveDC(tt.choice, inv))
		})
	}
}

func TestRoller_Rolls(t *testing.T) {
	t.Parallel()
	roller := dice.NewRoller(dice.NewSource(42))
	for range 1000 {
		r := roller.RollD20()
		require.GreaterOrEqual(t, r, 1)
		require.LessOrEqual(t, r, 20)

		adv := roller.RollWithAdvantage()
		require.GreaterOrEqual(t, adv.Result, adv.Roll1)
		require.GreaterOrEqual(t, adv.Result, adv.Roll2)
		require.Contains(t, []int{adv.Roll1, adv.Roll2}, adv.Result)

		dis := roller.RollWithDisadvantage()
		require.LessOrEqual(t, dis.Result, dis.Roll1)
		require.LessOrEqual(t, dis.Result, dis.Roll2)
		require.Contains(t, []int{dis.Roll1, dis.Roll2}, dis.Result)
	}
}

func TestNewSource_Deterministic(t *testing.T) {
	t.Parallel()
	a := dice.NewRoller(dice.NewSource(7))
	b := dice.NewRoller(dice.NewSource(7))
	for range 100 {
		require.Equal(t, a.RollD20(), b.RollD20())
	}

	src, err := dice.NewSeededSource()
	require.NoError(t, err)
	require.NotNil(t, src)
}

func TestRoller_PerformCheck(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name            string
		rolls           []int
		hasAdvantage    bool
		hasDisadvantage bool
		wantRoll        int
		wantDraws       int
	}{
		{"plain", []int{15}, false, false, 15, 1},
		{"advantage keeps higher", []int{4, 17}, true, false, 17, 2},
		{"disadvantage keeps lower", []int{4, 17}, false, true, 4, 2},
		{"both cancel", []int{9, 18}, true, true, 9, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := testhelpers.NewFixedSource(tt.rolls...)
			inv := testhelpers.NewInvestigator()
			inv.Faculties.Reason = 14

			got := dice.NewRoller(src).PerformCheck(models.FacultyReason, inv, 12, tt.hasAdvantage, tt.hasDisadvantage)
			require.Equal(t, tt.wantRoll, got.Roll)
			require.Equal(t, 2, got.Modifier)
			require.Equal(t, tt.wantRoll+2, got.Total)
			require.Equal(t, 12, got.DC)
			require.Equal(t, dice.ResolveCheck(tt.wantRoll, 2, 12), got.Tier)
			require.Equal(t, tt.wantDraws, src.Draws())
		})
	}

	t.Run("reason 14 rolls 15 against 12", func(t *testing.T) {
		t.Parallel()
		inv := testhelpers.NewInvestigator()
		inv.Faculties.Reason = 14
		got := dice.NewRoller(testhelpers.NewFixedSource(15)).PerformCheck(models.FacultyReason, inv, 12, false, false)
		require.Equal(t, models.CheckResult{Roll: 15, Modifier: 2, Total: 17, DC: 12, Tier: models.TierSuccess}, got)
	})
}
