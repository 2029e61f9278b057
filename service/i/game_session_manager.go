package i

import (
	"github.com/google/uuid"
)

// SessionInfo is a read-only summary of one session.
type SessionInfo struct {
	ID         uuid.UUID
	Score      int
	Alive      bool
	Length     int
	Speed      float64
	LoopActive bool
}

// GameSessionManager owns one snake game per connection and drives its loop.
type GameSessionManager interface {
	// Connect creates a session for id, sends its first state to sink and
	// starts the game loop. An existing session with the same id is replaced.
	Connect(id uuid.UUID, sink StateSink)

	// Disconnect removes the session; its loop stops on the next iteration.
	Disconnect(id uuid.UUID)

	// ChangeDirection buffers a direction change for the next tick.
	ChangeDirection(id uuid.UUID, dx, dy int)

	// Restart resets the game and restarts the loop if it had ended.
	Restart(id uuid.UUID)

	// Sessions lists the registered sessions.
	Sessions() []SessionInfo

	StopAll()
}
