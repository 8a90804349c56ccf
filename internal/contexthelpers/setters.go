package contexthelpers

import (
	"context"
	"net/http"
)

// SetGame marks the request as playing caseID in the save slot.
func SetGame(r *http.Request, caseID string, slot string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, caseIDContextKey, caseID)
	ctx = context.WithValue(ctx, gameSlotContextKey, slot)
	return r.WithContext(ctx)
}

func SetCSRFToken(r *http.Request, csrfToken string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, csrfTokenContextKey, csrfToken)
	return r.WithContext(ctx)
}
