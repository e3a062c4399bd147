package protocol

import (
	"encoding/json"

	"pinochle-game/internal/game"
	"pinochle-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // e.g. "subscribe", "act", "state"
	Payload json.RawMessage `json:"payload,omitempty"` // decoded according to Type
}

// Message types.
const (
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
	TypeAct         = "act"
	TypePing        = "ping"

	TypeState     = "state"
	TypeRoundOver = "round_over"
	TypeError     = "error"
	TypePong      = "pong"
)

// --- Client -> Server Payload Structs ---

type SubscribePayload struct {
	GameID string `json:"game_id"`
}

// ActPayload carries an action in the same flat form the HTTP act route
// accepts, e.g. {"type":"play","card":3}.
type ActPayload struct {
	GameID string          `json:"game_id"`
	Seat   shared.Seat     `json:"seat"`
	Action json.RawMessage `json:"action"`
}

// --- Server -> Client Payload Structs ---

// StatePayload is the public view of a game plus its seat names.
type StatePayload struct {
	GameID  string                  `json:"game_id"`
	Names   [shared.NumSeats]string `json:"names"`
	Bots    [shared.NumSeats]bool   `json:"bots"`
	Actions int                     `json:"actions"`
	Info    game.Info               `json:"info"`
}

type RoundOverPayload struct {
	GameID string        `json:"game_id"`
	Delta  shared.Scores `json:"delta"`
	Scores shared.Scores `json:"scores"`
}

// ErrorPayload reports a failed request. Kind is the rejection name
// ("CardIsNotLegalToPlay", ...) when the game refused an action.
type ErrorPayload struct {
	GameID  string `json:"game_id,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// NewMessage wraps payload in an envelope and encodes it.
func NewMessage(msgType string, payload any) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Payload: payloadBytes})
}
