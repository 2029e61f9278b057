package service

import (
	"fmt"
	"sync"
	"sync/atomic"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-snake-server/service/i"
	"github.com/beka-birhanu/vinom-snake-server/snake"
	"github.com/google/uuid"
)

// GameSessionManager runs one snake game per connection. Handlers for
// different connections never contend on anything but the registry map.
type GameSessionManager struct {
	registry    *Registry
	width       int
	height      int
	gameOptions []snake.Option
	logger      general_i.Logger

	wg      sync.WaitGroup
	running atomic.Int32 // Loops that have not yet given up their session.
	stopped bool
	sync.Mutex
}

type Config struct {
	Width        int
	Height       int
	InitialSpeed float64
	Logger       general_i.Logger
}

func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	speed := c.InitialSpeed
	if speed == 0 {
		speed = snake.DefaultInitialSpeed
	}
	opts := []snake.Option{snake.WithInitialSpeed(speed)}
	if _, err := snake.New(c.Width, c.Height, opts...); err != nil {
		return nil, fmt.Errorf("validating game config: %w", err)
	}

	return &GameSessionManager{
		registry:    NewRegistry(),
		width:       c.Width,
		height:      c.Height,
		gameOptions: opts,
		logger:      c.Logger,
	}, nil
}

func (g *GameSessionManager) Connect(id uuid.UUID, sink i.StateSink) {
	game, err := snake.New(g.width, g.height, g.gameOptions...)
	if err != nil {
		g.logger.Error(fmt.Sprintf("creating game for %s: %s", id, err))
		return
	}

	if _, ok := g.registry.Get(id); ok {
		g.logger.Warning(fmt.Sprintf("replacing existing session: %s", id))
	}
	s := g.registry.Create(id, game, sink)

	var state snake.State
	s.WithLock(func(game *snake.Game) {
		state = game.Snapshot()
		s.markLoopActive(true)
	})

	g.emit(s, state)
	g.schedule(s)
	g.logger.Info(fmt.Sprintf("started new game for: %s", id))
}

func (g *GameSessionManager) Disconnect(id uuid.UUID) {
	if g.registry.Remove(id) {
		g.logger.Info(fmt.Sprintf("removed session: %s", id))
	}
}

func (g *GameSessionManager) ChangeDirection(id uuid.UUID, dx, dy int) {
	s, ok := g.registry.Get(id)
	if !ok {
		return
	}

	s.WithLock(func(game *snake.Game) {
		game.SetPendingDirection(dx, dy)
	})
}

func (g *GameSessionManager) Restart(id uuid.UUID) {
	s, ok := g.registry.Get(id)
	if !ok {
		return
	}

	// Deciding to reschedule under the same lock as the reset keeps a
	// finishing loop and this restart from both leaving the game loopless
	// or starting a second loop.
	var (
		state      snake.State
		reschedule bool
	)
	s.WithLock(func(game *snake.Game) {
		game.Reset()
		state = game.Snapshot()
		reschedule = s.markLoopActive(true)
	})

	g.emit(s, state)
	if reschedule {
		g.schedule(s)
	}
	g.logger.Info(fmt.Sprintf("restarted game for %s (new loop: %t)", id, reschedule))
}

func (g *GameSessionManager) Sessions() []i.SessionInfo {
	all := g.registry.All()
	infos := make([]i.SessionInfo, 0, len(all))
	for _, s := range all {
		infos = append(infos, s.info())
	}
	return infos
}

// StopAll removes every session and waits for their loops to return.
// Connects after StopAll do not start loops.
func (g *GameSessionManager) StopAll() {
	g.Lock()
	g.stopped = true
	g.Unlock()

	g.registry.Clear()
	g.wg.Wait()
	g.logger.Info("all game loops stopped")
}

func (g *GameSessionManager) emit(s *Session, state snake.State) {
	if err := s.sink.SendState(state); err != nil {
		g.logger.Warning(fmt.Sprintf("sending state to %s: %s", s.id, err))
	}
}
