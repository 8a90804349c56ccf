package savefiles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/logging"
	"github.com/myrjola/gaslight/internal/repositories"
	"github.com/myrjola/gaslight/internal/saves"
	"github.com/myrjola/gaslight/internal/sqlite"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{ //nolint:gochecknoglobals // cobra command group
	ID:    "saves",
	Title: "Save slots",
}

const defaultSqliteURL = "./gaslight.sqlite"

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "saves",
		GroupID: Group.ID,
		Short:   "Inspect and delete save slots",
	}
	url := defaultSqliteURL
	if v, ok := os.LookupEnv("GASLIGHT_SQLITE_URL"); ok {
		url = v
	}
	cmd.PersistentFlags().String("sqlite-url", url, "SQLite URL of the game database")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List save slots newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withManager(cmd, func(ctx context.Context, m *saves.Manager) error {
				return List(ctx, cmd.OutOrStdout(), m)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show [id]",
		Short: "Print a save slot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(ctx context.Context, m *saves.Manager) error {
				return Show(ctx, cmd.OutOrStdout(), m, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a save slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(ctx context.Context, m *saves.Manager) error {
				if err := m.DeleteSave(ctx, args[0]); err != nil {
					return errors.Wrap(err, "delete save")
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	})
	return cmd
}

func withManager(cmd *cobra.Command, f func(context.Context, *saves.Manager) error) error {
	url, err := cmd.Flags().GetString("sqlite-url")
	if err != nil {
		return errors.Wrap(err, "sqlite-url flag")
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelWarn,
		ReplaceAttr: nil,
	})))

	db, err := sqlite.NewDatabase(ctx, url, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", url))
	}
	defer func() {
		_ = db.Close()
	}()
	return f(ctx, saves.NewManager(repositories.NewSaveRepository(db, logger), logger, nil))
}

// List prints the save index as a table.
func List(ctx context.Context, w io.Writer, m *saves.Manager) error {
	summaries, err := m.ListSaves(ctx)
	if err != nil {
		return errors.Wrap(err, "list saves")
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd // column padding
	_, _ = fmt.Fprintln(tw, "ID\tSAVED\tCASE\tINVESTIGATOR")
	for _, s := range summaries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Timestamp, s.CaseName, s.InvestigatorName)
	}
	if err = tw.Flush(); err != nil {
		return errors.Wrap(err, "flush table")
	}
	return nil
}

// Show prints the migrated save file of id as indented JSON.
func Show(ctx context.Context, w io.Writer, m *saves.Manager, id string) error {
	state, err := m.Load(ctx, id)
	if err != nil {
		return errors.Wrap(err, "load save")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err = enc.Encode(state); err != nil {
		return errors.Wrap(err, "encode save")
	}
	return nil
}
