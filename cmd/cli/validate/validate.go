package validate

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/myrjola/gaslight/internal/content"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{ //nolint:gochecknoglobals // cobra command group
	ID:    "content",
	Title: "Case authoring",
}

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "validate [dir]",
		GroupID: Group.ID,
		Short:   "Validate cases and vignettes",
		Long: `Loads every case under dir/cases and every vignette under dir/vignettes and reports broken
scene, clue and outcome references. The built-in content is validated when dir is omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys := content.Builtin()
			if len(args) == 1 {
				fsys = os.DirFS(args[0])
			}
			return Run(cmd.OutOrStdout(), fsys)
		},
	}
}

// Run validates the content tree fsys and prints a line per playable document.
func Run(w io.Writer, fsys fs.FS) error {
	lib, err := content.LoadLibrary(fsys)
	if err != nil {
		return errors.Wrap(err, "validate content")
	}
	for _, meta := range lib.Cases {
		c, _ := lib.Case(meta.ID)
		_, _ = fmt.Fprintf(w, "ok  case     %-24s %2d scenes %2d clues %2d npcs\n",
			meta.ID, len(c.Scenes), len(c.Clues), len(c.NPCs))
	}
	_, _ = fmt.Fprintf(w, "%d case(s) and %d vignette(s) are playable\n", len(lib.Cases), lib.VignetteCount())
	return nil
}
