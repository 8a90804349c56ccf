package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/gaslight/cmd/cli/play"
	"github.com/myrjola/gaslight/cmd/cli/roll"
	"github.com/myrjola/gaslight/cmd/cli/savefiles"
	"github.com/myrjola/gaslight/cmd/cli/validate"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gaslight-cli",
		Long:          `Command line utilities for Gaslight & Grimoire case authors and players.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddGroup(validate.Group, savefiles.Group, play.Group)
	rootCmd.AddCommand(validate.NewCommand(), savefiles.NewCommand(), roll.NewCommand(), play.NewCommand())
	return rootCmd
}

func main() {
	// A missing .env file is fine, flags and the environment configure everything.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
