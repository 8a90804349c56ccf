package main

import (
	"net/http"

	"github.com/justinas/nosurf"
)

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

type csrfResponse struct {
	Token  string `json:"token"`
	Header string `json:"header"`
}

// csrf hands out the token that every state-changing request must echo in the CSRF header.
func (app *application) csrf(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, csrfResponse{Token: nosurf.Token(r), Header: nosurf.HeaderName})
}
