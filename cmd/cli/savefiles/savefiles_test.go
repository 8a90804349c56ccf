package savefiles_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/myrjola/gaslight/cmd/cli/savefiles"
	"github.com/myrjola/gaslight/internal/saves"
	"github.com/myrjola/gaslight/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestListAndShow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := saves.NewManager(saves.NewMemoryStore(), testhelpers.NewLogger(io.Discard), nil)
	state := testhelpers.NewState()
	state.CurrentCase = "the-drowned-clerk"
	require.NoError(t, m.Save(ctx, "autosave", state))

	var out bytes.Buffer
	require.NoError(t, savefiles.List(ctx, &out, m))
	require.Contains(t, out.String(), "INVESTIGATOR")
	require.Contains(t, out.String(), "autosave")

	out.Reset()
	require.NoError(t, savefiles.Show(ctx, &out, m, "autosave"))
	require.Contains(t, out.String(), `"currentCase": "the-drowned-clerk"`)

	require.ErrorIs(t, savefiles.Show(ctx, &out, m, "save-1"), saves.ErrSaveNotFound)
}

func TestCommand_SQLite(t *testing.T) {
	t.Parallel()
	url := filepath.Join(t.TempDir(), "gaslight.sqlite")

	run := func(args ...string) (string, error) {
		cmd := savefiles.NewCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs(append(args, "--sqlite-url", url))
		err := cmd.Execute()
		return out.String(), err
	}

	out, err := run("list")
	require.NoError(t, err)
	require.Contains(t, out, "ID")

	_, err = run("delete", "save-1")
	require.ErrorIs(t, err, saves.ErrSaveNotFound)
}
