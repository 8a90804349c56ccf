package roll_test

import (
	"bytes"
	"testing"

	"github.com/myrjola/gaslight/cmd/cli/roll"
	"github.com/myrjola/gaslight/internal/dice"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/myrjola/gaslight/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		opts roll.Options
		roll int
		want string
	}{
		{"success", roll.Options{Faculty: models.FacultyReason, Score: 14, DC: 12}, 10,
			"reason 14 vs DC 12: rolled 10 +2 = 12, success\n"},
		{"partial", roll.Options{Faculty: models.FacultyNerve, Score: 8, DC: 12}, 12,
			"nerve 8 vs DC 12: rolled 12 -1 = 11, partial\n"},
		{"natural twenty", roll.Options{Faculty: models.FacultyLore, Score: 3, DC: 30}, 20,
			"lore 3 vs DC 30: rolled 20 -4 = 16, critical\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			roller := dice.NewRoller(testhelpers.NewFixedSource(tt.roll))
			require.NoError(t, roll.Run(&out, roller, tt.opts))
			require.Equal(t, tt.want, out.String())
		})
	}

	err := roll.Run(&bytes.Buffer{}, dice.NewRoller(dice.NewSource(1)), roll.Options{Faculty: "charm"})
	require.ErrorIs(t, err, roll.ErrInvalidFaculty)
}

func TestCommand_Seeded(t *testing.T) {
	t.Parallel()
	execute := func() string {
		cmd := roll.NewCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--seed", "42", "--faculty", "vigor", "--score", "16", "--advantage"})
		require.NoError(t, cmd.Execute())
		return out.String()
	}
	first := execute()
	require.Contains(t, first, "vigor 16 vs DC 12")
	require.Equal(t, first, execute())
}
