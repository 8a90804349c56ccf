package contexthelpers

type contextKey string

const gameSlotContextKey = contextKey("gameSlot")
const caseIDContextKey = contextKey("caseID")
const csrfTokenContextKey = contextKey("csrfToken")
