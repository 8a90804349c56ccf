package contexthelpers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/myrjola/gaslight/internal/contexthelpers"
	"github.com/stretchr/testify/require"
)

func TestGameContext(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest("GET", "/api/scene", nil)
	require.Empty(t, contexthelpers.GameSlot(r.Context()))
	require.Empty(t, contexthelpers.CaseID(r.Context()))
	require.Empty(t, contexthelpers.CSRFToken(r.Context()))

	r = contexthelpers.SetGame(r, "the-drowned-clerk", "game-1")
	r = contexthelpers.SetCSRFToken(r, "token")
	require.Equal(t, "game-1", contexthelpers.GameSlot(r.Context()))
	require.Equal(t, "the-drowned-clerk", contexthelpers.CaseID(r.Context()))
	require.Equal(t, "token", contexthelpers.CSRFToken(r.Context()))
}
