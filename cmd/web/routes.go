package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	session := alice.New(app.sessionManager.LoadAndSave, noSurf, commonContext)
	game := session.Append(app.requireGame)

	mux.HandleFunc("GET /api/healthy", app.healthy)
	mux.Handle("GET /metrics", app.metrics.Handler())

	mux.Handle("GET /api/csrf", session.ThenFunc(app.csrf))
	mux.Handle("GET /api/cases", session.ThenFunc(app.listCases))
	mux.Handle("GET /api/archetypes", session.ThenFunc(app.listArchetypes))
	mux.Handle("POST /api/game", session.ThenFunc(app.newGame))

	mux.Handle("GET /api/scene", game.ThenFunc(app.currentScene))
	mux.Handle("POST /api/choice", game.ThenFunc(app.makeChoice))
	mux.Handle("POST /api/encounter/choice", game.ThenFunc(app.encounterChoice))
	mux.Handle("POST /api/clue", game.ThenFunc(app.discoverClue))
	mux.Handle("POST /api/clue/examine", game.ThenFunc(app.examineClue))
	mux.Handle("GET /api/board", game.ThenFunc(app.evidenceBoard))
	mux.Handle("POST /api/deduction", game.ThenFunc(app.connectClues))
	mux.Handle("POST /api/ability", game.ThenFunc(app.useAbility))
	mux.Handle("POST /api/case/complete", game.ThenFunc(app.completeCase))
	mux.Handle("POST /api/vignette", game.ThenFunc(app.startVignette))
	mux.Handle("GET /api/hint", game.ThenFunc(app.hint))

	mux.Handle("GET /api/saves", session.ThenFunc(app.listSaves))
	mux.Handle("POST /api/saves", game.ThenFunc(app.saveGame))
	mux.Handle("POST /api/saves/{id}/load", session.ThenFunc(app.loadSave))
	mux.Handle("DELETE /api/saves/{id}", session.ThenFunc(app.deleteSave))

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
