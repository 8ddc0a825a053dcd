package state

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/overland/pkg/world"
)

// Direction is a compass step on the map grid.
type Direction string

const (
	North Direction = "north"
	East  Direction = "east"
	South Direction = "south"
	West  Direction = "west"
)

var directionDeltas = map[Direction]world.Point{
	North: {X: 0, Y: -1},
	East:  {X: 1, Y: 0},
	South: {X: 0, Y: 1},
	West:  {X: -1, Y: 0},
}

var directionAliases = map[string]Direction{
	"n": North, "up": North,
	"e": East, "right": East,
	"s": South, "down": South,
	"w": West, "left": West,
}

// ParseDirection accepts full names, single letters, and arrow-key words.
func ParseDirection(s string) (Direction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := directionDeltas[Direction(key)]; ok {
		return Direction(key), nil
	}
	if d, ok := directionAliases[key]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownDirection)
}

// Step returns p moved one tile in d.
func (d Direction) Step(p world.Point) (world.Point, bool) {
	delta, ok := directionDeltas[d]
	if !ok {
		return p, false
	}
	return world.Point{X: p.X + delta.X, Y: p.Y + delta.Y}, true
}

func directionBetween(from, to world.Point) (Direction, bool) {
	for d, delta := range directionDeltas {
		if from.X+delta.X == to.X && from.Y+delta.Y == to.Y {
			return d, true
		}
	}
	return "", false
}
