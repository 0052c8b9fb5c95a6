// Package types holds the websocket wire messages.
//
// Client -> Server
//
//	Step:    {"type":"Step","steps":n}            n defaults to 1
//	Contact: {"type":"Contact","team":"blue"|"red"}
//	Trigger: {"type":"Trigger","event":"HitRedGoal"|"HitBlueGoal"|"HitOutOfBounds"|"HitIntoBlueArea"|"HitIntoRedArea"}
//	Reset:   {"type":"Reset"}
//
// Server -> Client
//
//	StateSnapshot: {"type":"StateSnapshot","version":v,"state":{...}}
//	Error:         {"type":"Error","error":"..."}
package types

import "github.com/DoyleJ11/volleyball-arena/internal/session"

type ClientMessage struct {
	Type  string `json:"type"`
	Team  string `json:"team,omitempty"`
	Event string `json:"event,omitempty"`
	Steps int    `json:"steps,omitempty"`
}

type ServerMessage struct {
	Type    string        `json:"type"` // "StateSnapshot" | "Error"
	Version int           `json:"version,omitempty"`
	State   *session.View `json:"state,omitempty"`
	Error   string        `json:"error,omitempty"`
}
