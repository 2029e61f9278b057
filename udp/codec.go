package udp

import (
	"github.com/beka-birhanu/vinom-snake-server/event"
	"github.com/beka-birhanu/vinom-snake-server/snake"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// encodeState marshals s as a protobuf Struct with the same field names as
// the websocket payload.
func encodeState(s snake.State) ([]byte, error) {
	cells := make([]any, len(s.Snake))
	for n, p := range s.Snake {
		cells[n] = []any{p.X, p.Y}
	}
	var food any
	if s.Food != nil {
		food = []any{s.Food.X, s.Food.Y}
	}

	st, err := structpb.NewStruct(map[string]any{
		"w":     s.W,
		"h":     s.H,
		"snake": cells,
		"food":  food,
		"score": s.Score,
		"alive": s.Alive,
		"speed": s.Speed,
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(st)
}

// decodeDirection reads a change_direction payload encoded as a protobuf
// Struct. Undecodable payloads yield 0, 0.
func decodeDirection(payload []byte) (int, int) {
	var st structpb.Struct
	if err := proto.Unmarshal(payload, &st); err != nil {
		return 0, 0
	}
	return event.ParseDirection(st.AsMap())
}
