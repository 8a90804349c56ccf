package validate_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/myrjola/gaslight/cmd/cli/validate"
	"github.com/myrjola/gaslight/internal/content"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	require.NoError(t, validate.Run(&out, content.Builtin()))
	require.Contains(t, out.String(), "the-drowned-clerk")
	require.Contains(t, out.String(), "1 case(s) and 1 vignette(s) are playable")
}

func TestRun_Broken(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"cases/broken/meta.json":  {Data: []byte(`{"id":"broken","title":"Broken"}`)},
		"cases/broken/act1.json":  {Data: []byte(`{"scenes":[]}`)},
		"cases/broken/clues.json": {Data: []byte(`{"clues":[]}`)},
		"cases/broken/npcs.json":  {Data: []byte(`{"npcs":[]}`)},
	}
	var out bytes.Buffer
	err := validate.Run(&out, fsys)
	require.ErrorIs(t, err, content.ErrInvalidContent)
	require.ErrorContains(t, err, "case has no scenes")
}

func TestCommand(t *testing.T) {
	t.Parallel()
	cmd := validate.NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "playable")
}
