package content_test

import (
	"testing"

	"github.com/myrjola/gaslight/internal/content"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestLoadLibrary(t *testing.T) {
	t.Parallel()
	lib, err := content.LoadLibrary(content.Builtin())
	require.NoError(t, err)
	require.Len(t, lib.Cases, 1)
	require.Equal(t, 1, lib.VignetteCount())

	_, ok := lib.Case("the-drowned-clerk")
	require.True(t, ok)
	shadows, ok := lib.Case("a-matter-of-shadows")
	require.True(t, ok, "vignettes are playable as cases")
	require.Equal(t, 1, shadows.Meta.Acts)
	_, ok = lib.Vignette("a-matter-of-shadows")
	require.True(t, ok)
	_, ok = lib.Vignette("the-drowned-clerk")
	require.False(t, ok)
}

func TestLoadLibrary_Invalid(t *testing.T) {
	t.Parallel()
	fsys := caseFS(map[string]string{
		"meta.json":  `{"id":"test","title":"Test","firstScene":"nowhere"}`,
		"act1.json":  `{"scenes":[{"id":"one","choices":[{"id":"go","text":"Go","outcomes":{"success":"gone"}}]}]}`,
		"clues.json": `{"clues":[]}`,
		"npcs.json":  `{"npcs":[]}`,
	})
	_, err := content.LoadLibrary(fsys)
	require.ErrorIs(t, err, content.ErrInvalidContent)
	var validationErr *content.ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Equal(t, "test", validationErr.CaseID)
	require.Len(t, validationErr.Problems, 2)
}
