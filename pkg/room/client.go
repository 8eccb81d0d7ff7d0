package room

import (
	"github.com/gorilla/websocket"
)

// Client is a spectator connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending events to the client
	send chan *Event

	// Close is a channel for closing the client
	Close chan string

	remoteAddr string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn) *Client {
	remoteAddr := ""
	if conn != nil {
		remoteAddr = conn.RemoteAddr().String()
	}

	return &Client{
		send:       make(chan *Event, 256),
		Close:      make(chan string),
		Conn:       conn,
		remoteAddr: remoteAddr,
	}
}

// Send queues an event for the client, dropping it if the client is slow
func (c *Client) Send(event *Event) bool {
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of the client's outbound events
func (c *Client) SendChan() <-chan *Event {
	return c.send
}

// String returns a traceable identifier for the spectator
func (c *Client) String() string {
	return c.remoteAddr
}
