package service

import (
	"context"
	"sync"

	"github.com/beka-birhanu/vinom-snake-server/service/i"
	"github.com/beka-birhanu/vinom-snake-server/snake"
	"github.com/google/uuid"
)

// Session is the per-connection game plus the state its loop and the
// event handlers share. The mutex guards game and loopActive.
type Session struct {
	id         uuid.UUID
	game       *snake.Game
	sink       i.StateSink
	loopActive bool

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

func newSession(id uuid.UUID, game *snake.Game, sink i.StateSink) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:     id,
		game:   game,
		sink:   sink,
		ctx:    ctx,
		cancel: cancel,
	}
}

// WithLock runs fn with exclusive access to the game and loop state.
func (s *Session) WithLock(fn func(g *snake.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

// markLoopActive records whether a loop drives the session and reports
// whether the flag changed. Callers must hold s.mu.
func (s *Session) markLoopActive(active bool) bool {
	changed := s.loopActive != active
	s.loopActive = active
	return changed
}

// Done is closed once the session has been removed.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *Session) info() i.SessionInfo {
	var info i.SessionInfo
	s.WithLock(func(g *snake.Game) {
		state := g.Snapshot()
		info = i.SessionInfo{
			ID:         s.id,
			Score:      state.Score,
			Alive:      state.Alive,
			Length:     len(state.Snake),
			Speed:      state.Speed,
			LoopActive: s.loopActive,
		}
	})
	return info
}
