package ws

import "time"

// Message is the envelope for all WebSocket messages. Type carries the
// event bus topic (for example "preset.created") so editor clients can
// switch on it directly.
type Message struct {
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}
