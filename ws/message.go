package ws

import (
	"encoding/json"

	"github.com/beka-birhanu/vinom-snake-server/event"
	"github.com/beka-birhanu/vinom-snake-server/snake"
)

type clientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type serverMessage struct {
	Type    string      `json:"type"`
	Payload snake.State `json:"payload"`
}

// direction decodes a change_direction payload; anything unusable is 0.
func (m clientMessage) direction() (int, int) {
	var fields map[string]any
	if len(m.Payload) == 0 || json.Unmarshal(m.Payload, &fields) != nil {
		return 0, 0
	}
	return event.ParseDirection(fields)
}
