package service

import (
	"context"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-snake-server/snake"
)

// schedule starts a loop for s unless the manager is stopping.
// The caller has already marked the session's loop active.
func (g *GameSessionManager) schedule(s *Session) bool {
	g.Lock()
	defer g.Unlock()
	if g.stopped {
		return false
	}

	g.wg.Add(1)
	g.running.Add(1)
	go g.runLoop(s)
	return true
}

// runLoop steps the session's game once per tick and sends each state to
// the connection. It returns when the session is no longer registered or
// the game is over; only Restart starts it again.
func (g *GameSessionManager) runLoop(s *Session) {
	defer g.wg.Done()
	counted := true
	defer func() {
		if counted {
			g.running.Add(-1)
		}
	}()

	for {
		if !g.registry.Holds(s) {
			g.logger.Info(fmt.Sprintf("loop stopped for removed session: %s", s.id))
			return
		}

		var state snake.State
		s.WithLock(func(game *snake.Game) {
			game.Step()
			state = game.Snapshot()
			if !state.Alive {
				s.markLoopActive(false)
				g.running.Add(-1)
				counted = false
			}
		})

		g.emit(s, state)
		if !state.Alive {
			g.logger.Info(fmt.Sprintf("game over for %s with score %d", s.id, state.Score))
			return
		}

		if !sleep(s.ctx, tickDuration(state.Speed)) {
			g.logger.Info(fmt.Sprintf("loop cancelled for session: %s", s.id))
			return
		}
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func tickDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
