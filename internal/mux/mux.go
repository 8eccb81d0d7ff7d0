package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"setmatch-server/pkg/game"
	"setmatch-server/pkg/room"
)

// Mux handles HTTP requests from spectators
type Mux struct {
	*gmux.Router
	version     string
	session     *game.Dealer
	broadcaster *room.Broadcaster
}

// NewMux returns a new HTTP mux exposing the session read-only
func NewMux(version string, session *game.Dealer, broadcaster *room.Broadcaster) *Mux {
	this := &Mux{
		Router:      gmux.NewRouter(),
		version:     version,
		session:     session,
		broadcaster: broadcaster,
	}

	this.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	this.Methods(http.MethodGet).Path("/state").Handler(this.getState())
	this.Methods(http.MethodGet).Path("/ws").Handler(this.getWS())

	return this
}
