package service

import (
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/beka-birhanu/vinom-snake-server/snake"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type recordingSink struct {
	mu     sync.Mutex
	states []snake.State

	// When set, every call after the first blocks until release is closed.
	blocked chan struct{}
	release chan struct{}
}

func (r *recordingSink) SendState(s snake.State) error {
	r.mu.Lock()
	r.states = append(r.states, s)
	n := len(r.states)
	r.mu.Unlock()

	if r.release != nil && n > 1 {
		select {
		case r.blocked <- struct{}{}:
		default:
		}
		<-r.release
	}
	return nil
}

func (r *recordingSink) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *recordingSink) States() []snake.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]snake.State(nil), r.states...)
}

func (r *recordingSink) Last() snake.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[len(r.states)-1]
}

func newTestManager(t *testing.T, w, h int, speed float64) *GameSessionManager {
	t.Helper()
	lg, err := logger.New("TEST", "", os.Stdout)
	require.NoError(t, err)

	m, err := NewGameSessionManager(&Config{
		Width:        w,
		Height:       h,
		InitialSpeed: speed,
		Logger:       lg,
	})
	require.NoError(t, err)
	t.Cleanup(m.StopAll)
	return m
}

func TestNewGameSessionManagerValidatesConfig(t *testing.T) {
	lg, err := logger.New("TEST", "", os.Stdout)
	require.NoError(t, err)

	_, err = NewGameSessionManager(&Config{Width: 0, Height: 10, Logger: lg})
	assert.ErrorIs(t, err, snake.ErrInvalidDimension)
}

func TestConnectSendsInitialStateThenTicks(t *testing.T) {
	m := newTestManager(t, 30, 20, 0.005)
	sink := &recordingSink{}
	id := uuid.New()

	m.Connect(id, sink)

	require.GreaterOrEqual(t, sink.Len(), 1)
	first := sink.States()[0]
	assert.Equal(t, []snake.Point{{15, 10}, {14, 10}, {13, 10}}, first.Snake)
	assert.True(t, first.Alive)
	assert.Zero(t, first.Score)

	require.Eventually(t, func() bool { return sink.Len() >= 5 }, waitFor, tick)
	states := sink.States()
	assert.Equal(t, snake.Point{X: 16, Y: 10}, states[1].Snake[0])
	assert.Equal(t, snake.Point{X: 17, Y: 10}, states[2].Snake[0])

	m.Disconnect(id)
	require.Eventually(t, func() bool { return m.running.Load() == 0 }, waitFor, tick)
	assert.Zero(t, m.registry.Count())
}

func TestChangeDirectionAppliesOnNextTick(t *testing.T) {
	m := newTestManager(t, 30, 20, 0.02)
	sink := &recordingSink{}
	id := uuid.New()

	m.Connect(id, sink)
	require.Eventually(t, func() bool { return sink.Len() >= 2 }, waitFor, tick)

	m.ChangeDirection(id, 0, 1)
	require.Eventually(t, func() bool {
		for _, s := range sink.States() {
			if s.Snake[0].Y == 11 {
				return true
			}
		}
		return false
	}, waitFor, tick)

	m.ChangeDirection(id, 0, -1) // reverse of down, ignored
	n := sink.Len()
	require.Eventually(t, func() bool { return sink.Len() > n+1 }, waitFor, tick)
	assert.Greater(t, sink.Last().Snake[0].Y, 11)
}

func TestEventsForUnknownSessionAreIgnored(t *testing.T) {
	m := newTestManager(t, 10, 10, 0.01)
	id := uuid.New()

	assert.NotPanics(t, func() {
		m.ChangeDirection(id, 1, 0)
		m.Restart(id)
		m.Disconnect(id)
	})
	assert.Empty(t, m.Sessions())
	assert.Zero(t, m.running.Load())
}

// A 3x1 grid is full with the initial snake, so every game dies on its
// first step.
func TestRestartAfterGameOverStartsOneLoop(t *testing.T) {
	m := newTestManager(t, 3, 1, 0.005)
	sink := &recordingSink{}
	id := uuid.New()

	m.Connect(id, sink)
	require.Eventually(t, func() bool { return sink.Len() == 2 && m.running.Load() == 0 }, waitFor, tick)
	assert.True(t, sink.States()[0].Alive)
	assert.False(t, sink.States()[1].Alive)

	infos := m.Sessions()
	require.Len(t, infos, 1)
	assert.False(t, infos[0].LoopActive)

	m.Restart(id)
	require.Eventually(t, func() bool { return sink.Len() == 4 && m.running.Load() == 0 }, waitFor, tick)
	states := sink.States()
	assert.True(t, states[2].Alive)
	assert.False(t, states[3].Alive)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 4, sink.Len())
}

func TestConcurrentRestartsNeverRunTwoLoops(t *testing.T) {
	m := newTestManager(t, 3, 1, 0.001)
	sink := &recordingSink{}
	id := uuid.New()
	m.Connect(id, sink)

	var (
		maxRunning atomic.Int32
		stop       = make(chan struct{})
		sampler    sync.WaitGroup
	)
	sampler.Add(1)
	go func() {
		defer sampler.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if n := m.running.Load(); n > maxRunning.Load() {
				maxRunning.Store(n)
			}
		}
	}()

	var restarters sync.WaitGroup
	for range 8 {
		restarters.Add(1)
		go func() {
			defer restarters.Done()
			for range 50 {
				m.Restart(id)
				time.Sleep(time.Millisecond)
			}
		}()
	}
	restarters.Wait()
	close(stop)
	sampler.Wait()

	assert.LessOrEqual(t, maxRunning.Load(), int32(1))
	require.Eventually(t, func() bool { return m.running.Load() == 0 }, waitFor, tick)
}

func TestRestartOfLiveGameKeepsLoop(t *testing.T) {
	m := newTestManager(t, 30, 20, 0.01)
	sink := &recordingSink{}
	id := uuid.New()

	m.Connect(id, sink)
	require.Eventually(t, func() bool { return sink.Len() >= 3 }, waitFor, tick)

	m.Restart(id)
	assert.Equal(t, int32(1), m.running.Load())

	infos := m.Sessions()
	require.Len(t, infos, 1)
	assert.True(t, infos[0].LoopActive)
	assert.True(t, infos[0].Alive)
}

func TestDisconnectDuringInFlightTick(t *testing.T) {
	m := newTestManager(t, 30, 20, 0.005)
	sink := &recordingSink{
		blocked: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	id := uuid.New()

	m.Connect(id, sink)
	select {
	case <-sink.blocked:
	case <-time.After(waitFor):
		t.Fatal("loop never emitted")
	}

	m.Disconnect(id)
	close(sink.release)

	require.Eventually(t, func() bool { return m.running.Load() == 0 }, waitFor, tick)
	assert.Empty(t, m.Sessions())
}

func TestReconnectReplacesSession(t *testing.T) {
	m := newTestManager(t, 30, 20, 0.005)
	id := uuid.New()
	oldSink := &recordingSink{}
	newSink := &recordingSink{}

	m.Connect(id, oldSink)
	require.Eventually(t, func() bool { return oldSink.Len() >= 2 }, waitFor, tick)

	m.Connect(id, newSink)
	require.Eventually(t, func() bool { return m.running.Load() == 1 }, waitFor, tick)

	stale := oldSink.Len()
	require.Eventually(t, func() bool { return newSink.Len() >= 3 }, waitFor, tick)
	assert.Equal(t, stale, oldSink.Len())
	assert.Len(t, m.Sessions(), 1)
}

func TestStopAllWaitsForLoops(t *testing.T) {
	m := newTestManager(t, 30, 20, 0.005)
	for range 5 {
		m.Connect(uuid.New(), &recordingSink{})
	}
	require.Equal(t, int32(5), m.running.Load())

	m.StopAll()
	assert.Zero(t, m.running.Load())
	assert.Empty(t, m.Sessions())

	m.Connect(uuid.New(), &recordingSink{})
	assert.Zero(t, m.running.Load())
}
