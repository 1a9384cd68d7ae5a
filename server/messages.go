package server

import (
	"encoding/json"
	"fmt"
)

type MessageType string

const (
	MessageTypeRoll      MessageType = "roll"
	MessageTypeGameState MessageType = "game_state"
	MessageTypeGameEnd   MessageType = "game_end"
	MessageTypeError     MessageType = "error"
)

type (
	// Message is the websocket envelope in both directions.
	Message struct {
		Type MessageType     `json:"type"`
		Data json.RawMessage `json:"data,omitempty"`
	}
	RollMessageData struct {
		Pins *int `json:"pins"`
	}

	StartGameRequest struct {
		Players []string `json:"players"`
	}
	RollRequest struct {
		Pins *int `json:"pins"`
	}
	ErrorResponse struct {
		Error string `json:"error"`
	}
)

func encodeMessage(t MessageType, data any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("message type is empty")
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: t, Data: payload})
}

func decodeMessage(b []byte) (Message, error) {
	if len(b) == 0 {
		return Message{}, fmt.Errorf("empty message")
	}
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}
