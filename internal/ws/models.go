package ws

import (
	"encoding/json"
)

// Events sent by the client.
const (
	EventAction = "action"
	EventGet    = "get"
)

// Events sent by the server.
const (
	// EventState is pushed after every state change, including delayed computer moves
	EventState = "state"

	// EventResult answers a client event with the same ID
	EventResult = "result"

	// EventClosed is sent once when the session is deleted or expired, then the connection closes
	EventClosed = "closed"
)

type Incoming struct {
	Event string          `json:"event"`
	ID    int             `json:"id"`
	Data  json.RawMessage `json:"data"`
}

type Outgoing struct {
	Event string `json:"event"`
	ID    int    `json:"id,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}
