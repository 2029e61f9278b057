package i

import (
	"github.com/beka-birhanu/vinom-snake-server/snake"
)

// StateSink delivers state snapshots to one connection.
type StateSink interface {
	// SendState may block on I/O; it is never called with a session lock held.
	SendState(snake.State) error
}
