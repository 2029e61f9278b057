package snake

import (
	"errors"
	"math/rand/v2"
)

// Game-related errors.
var (
	ErrInvalidDimension = errors.New("grid dimension must be positive")
	ErrInvalidSpeed     = errors.New("initial speed must be positive")
)

// Game constants for speed and layout.
const (
	DefaultWidth        = 30
	DefaultHeight       = 20
	DefaultInitialSpeed = 0.12 // Seconds per tick.

	minSpeed     = 0.04
	speedDecay   = 0.98
	initialBody  = 3
	minDimension = 1
)

// Point is a grid cell. It is encoded on the wire as [x, y].
type Point struct {
	X int
	Y int
}

// Direction is a unit step on the grid.
type Direction struct {
	DX int
	DY int
}

var (
	Right = Direction{DX: 1}
	Left  = Direction{DX: -1}
	Down  = Direction{DY: 1}
	Up    = Direction{DY: -1}
)

// IsUnit reports whether d moves exactly one cell along one axis.
func (d Direction) IsUnit() bool {
	return d == Right || d == Left || d == Down || d == Up
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

// Game is the rules engine of a single snake game on a toroidal grid.
// It is not safe for concurrent use; callers serialize access.
type Game struct {
	w, h         int
	snake        []Point // Head first.
	direction    Direction
	pending      *Direction
	food         *Point
	score        int
	alive        bool
	speed        float64
	initialSpeed float64
	rng          *rand.Rand
}

// Option configures a Game.
type Option func(*Game)

// WithInitialSpeed sets the seconds-per-tick a game starts with.
func WithInitialSpeed(seconds float64) Option {
	return func(g *Game) {
		g.initialSpeed = seconds
	}
}

// WithRand sets the random source used for food placement.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.rng = r
	}
}

// New creates a w by h game and resets it.
func New(w, h int, opts ...Option) (*Game, error) {
	if w < minDimension || h < minDimension {
		return nil, ErrInvalidDimension
	}

	g := &Game{
		w:            w,
		h:            h,
		initialSpeed: DefaultInitialSpeed,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.initialSpeed <= 0 {
		return nil, ErrInvalidSpeed
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g.Reset()
	return g, nil
}

// Reset puts a three segment snake in the middle of the grid heading right.
// Segments that would overlap on a narrow grid are dropped.
func (g *Game) Reset() {
	midX, midY := g.w/2, g.h/2
	g.snake = g.snake[:0]
	for i := 0; i < initialBody && i < g.w; i++ {
		g.snake = append(g.snake, Point{X: wrap(midX-i, g.w), Y: midY})
	}

	g.direction = Right
	g.pending = nil
	g.score = 0
	g.alive = true
	g.speed = g.initialSpeed
	g.spawnFood()
}

// SetPendingDirection buffers a direction change for the next step.
// Reversals and non-unit vectors are ignored; a later call within the
// same tick overwrites an earlier one.
func (g *Game) SetPendingDirection(dx, dy int) {
	d := Direction{DX: dx, DY: dy}
	if !d.IsUnit() || d == g.direction.Reverse() {
		return
	}
	g.pending = &d
}

// Step advances the game by one tick. It does nothing once the game is over.
func (g *Game) Step() {
	if !g.alive {
		return
	}

	if g.pending != nil {
		g.direction = *g.pending
		g.pending = nil
	}

	head := g.snake[0]
	next := Point{
		X: wrap(head.X+g.direction.DX, g.w),
		Y: wrap(head.Y+g.direction.DY, g.h),
	}

	// The body is left untouched so the final snapshot shows the last valid position.
	if g.occupied(next) {
		g.alive = false
		return
	}

	g.snake = append(g.snake, Point{})
	copy(g.snake[1:], g.snake)
	g.snake[0] = next

	if g.food != nil && next == *g.food {
		g.score++
		if g.speed > minSpeed {
			g.speed = max(minSpeed, g.speed*speedDecay)
		}
		g.spawnFood()
		return
	}
	g.snake = g.snake[:len(g.snake)-1]
}

// Alive reports whether the game is still running.
func (g *Game) Alive() bool {
	return g.alive
}

// Speed returns the current seconds-per-tick.
func (g *Game) Speed() float64 {
	return g.speed
}

// spawnFood places food uniformly over the free cells, or clears it when
// the snake fills the grid.
func (g *Game) spawnFood() {
	taken := make(map[Point]struct{}, len(g.snake))
	for _, p := range g.snake {
		taken[p] = struct{}{}
	}

	free := g.w*g.h - len(taken)
	if free <= 0 {
		g.food = nil
		return
	}

	n := g.rng.IntN(free)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			p := Point{X: x, Y: y}
			if _, ok := taken[p]; ok {
				continue
			}
			if n == 0 {
				g.food = &p
				return
			}
			n--
		}
	}
}

func (g *Game) occupied(p Point) bool {
	for _, s := range g.snake {
		if s == p {
			return true
		}
	}
	return false
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}
