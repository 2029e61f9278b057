package snake

import (
	"encoding/json"
	"fmt"
)

// State is a point-in-time copy of a game, safe to hand to other goroutines.
type State struct {
	W     int     `json:"w"`
	H     int     `json:"h"`
	Snake []Point `json:"snake"`
	Food  *Point  `json:"food"`
	Score int     `json:"score"`
	Alive bool    `json:"alive"`
	Speed float64 `json:"speed"`
}

// Snapshot copies every field of the game.
func (g *Game) Snapshot() State {
	s := State{
		W:     g.w,
		H:     g.h,
		Snake: make([]Point, len(g.snake)),
		Score: g.score,
		Alive: g.alive,
		Speed: g.speed,
	}
	copy(s.Snake, g.snake)
	if g.food != nil {
		food := *g.food
		s.Food = &food
	}
	return s
}

// MarshalJSON encodes p as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes a [x, y] pair.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("point must have 2 coordinates, got %d", len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}
