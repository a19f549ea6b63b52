package host

import (
	"errors"
	"fmt"
)

// ErrOccupied is returned when placing an object on a taken cell.
var ErrOccupied = errors.New("cell occupied")

// Point is a grid cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Unit moves.
var (
	Up    = Point{X: 0, Y: -1}
	Down  = Point{X: 0, Y: 1}
	Left  = Point{X: -1, Y: 0}
	Right = Point{X: 1, Y: 0}
)

// Object is anything that occupies a grid cell.
type Object interface {
	Kind() string
}

// Grid maps cells to their single occupant. The grid is unbounded.
type Grid struct {
	cells map[Point]Object
}

// NewGrid creates an empty grid.
func NewGrid() *Grid {
	return &Grid{cells: make(map[Point]Object)}
}

// Add places obj at p.
func (g *Grid) Add(obj Object, p Point) error {
	if occupant, ok := g.cells[p]; ok {
		return fmt.Errorf("place %s at %s: %w by %s", obj.Kind(), p, ErrOccupied, occupant.Kind())
	}
	g.cells[p] = obj
	return nil
}

// Remove clears p.
func (g *Grid) Remove(p Point) {
	delete(g.cells, p)
}

// ObjectAt returns the occupant of p, if any.
func (g *Grid) ObjectAt(p Point) (Object, bool) {
	obj, ok := g.cells[p]
	return obj, ok
}

// Move shifts the occupant of from by delta.
//
// If the target cell is taken nothing moves, and the blocking object is
// returned with ok=false. Moving from an empty cell is also refused.
func (g *Grid) Move(from, delta Point) (to Point, hit Object, ok bool) {
	obj, exists := g.cells[from]
	if !exists {
		return from, nil, false
	}
	to = from.Add(delta)
	if occupant, taken := g.cells[to]; taken {
		return from, occupant, false
	}
	delete(g.cells, from)
	g.cells[to] = obj
	return to, nil, true
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	return len(g.cells)
}
