package contexthelpers

import (
	"context"
)

// GameSlot returns the save slot of the game the request plays, or "" when no game is in progress.
func GameSlot(ctx context.Context) string {
	slot, ok := ctx.Value(gameSlotContextKey).(string)
	if !ok {
		return ""
	}

	return slot
}

func CaseID(ctx context.Context) string {
	caseID, ok := ctx.Value(caseIDContextKey).(string)
	if !ok {
		return ""
	}

	return caseID
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}
