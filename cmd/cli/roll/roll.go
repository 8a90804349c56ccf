package roll

import (
	"fmt"
	"io"

	"github.com/myrjola/gaslight/internal/dice"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/spf13/cobra"
)

var ErrInvalidFaculty = errors.NewSentinel("unknown faculty")

// Options describe a single faculty check.
type Options struct {
	Faculty      models.Faculty
	Score        int
	DC           int
	Advantage    bool
	Disadvantage bool
}

func NewCommand() *cobra.Command {
	var (
		opts    Options
		faculty string
		seed    uint64
	)
	cmd := &cobra.Command{
		Use:     "roll",
		GroupID: "play",
		Short:   "Roll a faculty check",
		Long: `Rolls a d20 faculty check the way the engine does and prints the natural roll, the modifier and the
outcome tier. Use --seed to repeat a roll sequence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Faculty = models.Faculty(faculty)
			src := dice.NewSource(seed)
			if !cmd.Flags().Changed("seed") {
				var err error
				if src, err = dice.NewSeededSource(); err != nil {
					return errors.Wrap(err, "seed dice")
				}
			}
			return Run(cmd.OutOrStdout(), dice.NewRoller(src), opts)
		},
	}
	cmd.Flags().StringVar(&faculty, "faculty", string(models.FacultyReason), "faculty to check")
	cmd.Flags().IntVar(&opts.Score, "score", 10, "faculty score") //nolint:mnd // average score
	cmd.Flags().IntVar(&opts.DC, "dc", dice.DefaultDC, "difficulty class")
	cmd.Flags().BoolVar(&opts.Advantage, "advantage", false, "roll with advantage")
	cmd.Flags().BoolVar(&opts.Disadvantage, "disadvantage", false, "roll with disadvantage")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a repeatable roll")
	return cmd
}

// Run performs the check described by opts and prints the result.
func Run(w io.Writer, roller *dice.Roller, opts Options) error {
	if !opts.Faculty.IsValid() {
		return errors.Wrap(ErrInvalidFaculty, "roll")
	}
	var inv models.Investigator
	inv.Faculties.Set(opts.Faculty, opts.Score)
	check := roller.PerformCheck(opts.Faculty, inv, opts.DC, opts.Advantage, opts.Disadvantage)
	_, _ = fmt.Fprintf(w, "%s %d vs DC %d: rolled %d %+d = %d, %s\n",
		opts.Faculty, opts.Score, check.DC, check.Roll, check.Modifier, check.Total, check.Tier)
	return nil
}
