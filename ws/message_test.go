package ws

import (
	"encoding/json"
	"testing"

	"github.com/beka-birhanu/vinom-snake-server/event"
	"github.com/stretchr/testify/assert"
)

func TestDirectionCoercion(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		dx, dy  int
	}{
		{name: "valid", payload: `{"dx":1,"dy":0}`, dx: 1, dy: 0},
		{name: "negative", payload: `{"dx":0,"dy":-1}`, dx: 0, dy: -1},
		{name: "missing fields", payload: `{}`, dx: 0, dy: 0},
		{name: "missing dy", payload: `{"dx":-1}`, dx: -1, dy: 0},
		{name: "out of range", payload: `{"dx":2,"dy":-5}`, dx: 0, dy: 0},
		{name: "fractional", payload: `{"dx":0.5,"dy":1}`, dx: 0, dy: 1},
		{name: "numeric strings", payload: `{"dx":"1","dy":"0"}`, dx: 1, dy: 0},
		{name: "garbage", payload: `{"dx":"left","dy":true}`, dx: 0, dy: 0},
		{name: "not an object", payload: `[1,0]`, dx: 0, dy: 0},
		{name: "empty", payload: ``, dx: 0, dy: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := clientMessage{Type: event.ChangeDirection, Payload: json.RawMessage(tt.payload)}
			dx, dy := msg.direction()
			assert.Equal(t, tt.dx, dx)
			assert.Equal(t, tt.dy, dy)
		})
	}
}
