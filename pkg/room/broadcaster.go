package room

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"setmatch-server/pkg/game"
)

// Broadcaster fans display updates out to connected spectator clients.
// It implements game.Display; events the engine emits are queued onto a run
// loop so the engine's actors never block on a slow spectator.
type Broadcaster struct {
	clients    map[*Client]bool
	lock       sync.RWMutex
	events     chan *Event
	connect    chan *Client
	disconnect chan *Client
	close      chan bool
}

var _ game.Display = (*Broadcaster)(nil)

// NewBroadcaster creates a new broadcaster object
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients:    make(map[*Client]bool),
		events:     make(chan *Event, 256),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
		close:      make(chan bool),
	}
}

// Start starts the broadcaster run loop
func (b *Broadcaster) Start() {
	go b.runLoop()
}

// Stop terminates the run loop
func (b *Broadcaster) Stop() {
	close(b.close)
}

func (b *Broadcaster) runLoop() {
	logrus.Debug("creating broadcaster run loop")
	for {
		select {
		case client := <-b.connect:
			logrus.WithField("client", client.String()).Debug("spectator connected")
			b.lock.Lock()
			b.clients[client] = true
			b.lock.Unlock()
		case client := <-b.disconnect:
			logrus.WithField("client", client.String()).Debug("spectator disconnected")
			b.lock.Lock()
			delete(b.clients, client)
			b.lock.Unlock()
		case event := <-b.events:
			for _, client := range b.Clients() {
				if !client.Send(event) {
					logrus.WithField("client", client.String()).Trace("dropping event for slow spectator")
				}
			}
		case <-b.close:
			logrus.Debug("terminating broadcaster run loop")
			return
		}
	}
}

// Clients will return a slice of connected (at the time) clients
func (b *Broadcaster) Clients() []*Client {
	b.lock.RLock()
	defer b.lock.RUnlock()

	clients := make([]*Client, 0, len(b.clients))
	for client := range b.clients {
		clients = append(clients, client)
	}

	return clients
}

// ClientConnected is called when a spectator connects to the server
func (b *Broadcaster) ClientConnected(client *Client) {
	b.connect <- client
}

// ClientDisconnected is called when a spectator disconnects from the server
func (b *Broadcaster) ClientDisconnected(client *Client) {
	b.disconnect <- client
}

// emit queues an event for the run loop, dropping it if the loop is saturated
func (b *Broadcaster) emit(event *Event) {
	select {
	case b.events <- event:
	default:
	}
}

// SetCountdown implements game.Display
func (b *Broadcaster) SetCountdown(remaining time.Duration, urgent bool) {
	b.emit(&Event{
		Key: KeyCountdown,
		Data: countdownData{
			RemainingMillis: remaining.Milliseconds(),
			Urgent:          urgent,
		},
	})
}

// SetScore implements game.Display
func (b *Broadcaster) SetScore(playerID, score int) {
	b.emit(&Event{
		Key: KeyScore,
		Data: scoreData{
			PlayerID: playerID,
			Score:    score,
		},
	})
}

// SetFreeze implements game.Display
func (b *Broadcaster) SetFreeze(playerID int, remaining time.Duration) {
	b.emit(&Event{
		Key: KeyFreeze,
		Data: freezeData{
			PlayerID:        playerID,
			RemainingMillis: remaining.Milliseconds(),
		},
	})
}

// AnnounceWinners implements game.Display
func (b *Broadcaster) AnnounceWinners(playerIDs []int) {
	b.emit(&Event{
		Key: KeyWinners,
		Data: winnersData{
			PlayerIDs: playerIDs,
		},
	})
}
