// Package event names the per-connection events exchanged with clients and
// decodes their payloads. Every transport speaks the same event names.
package event

import (
	"math"
	"strconv"
)

// Inbound events. Connect and Disconnect come from the transport itself.
const (
	Connect         = "connect"
	ChangeDirection = "change_direction"
	Restart         = "restart"
	Disconnect      = "disconnect"
)

// State is the only outbound event.
const State = "state"

// ParseDirection reads dx and dy from a decoded change_direction payload.
// Missing, non-integer or out of range values become 0.
func ParseDirection(fields map[string]any) (dx, dy int) {
	return axis(fields["dx"]), axis(fields["dy"])
}

func axis(v any) int {
	var n int
	switch v := v.(type) {
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > 1 {
			return 0
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}

	if n < -1 || n > 1 {
		return 0
	}
	return n
}
