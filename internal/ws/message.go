package ws

import "encoding/json"

// Message represents a WebSocket message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types - client to server
const (
	TypeJoin             = "join"
	TypeStartGame        = "start_game"
	TypePlayerMove       = "player_move"
	TypeFlashlightToggle = "flashlight_toggle"
	TypeRestart          = "restart"
	TypeGetLeaderboard   = "get_leaderboard"
)

// Message types - server to client
const (
	TypeJoined      = "joined"
	TypeGameState   = "game_state"
	TypeGameOver    = "game_over"
	TypeLeaderboard = "leaderboard"
)

// Message types - system
const (
	TypeError = "error"
)

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Message string `json:"message"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg})
	return Message{Type: TypeError, Data: data}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}
