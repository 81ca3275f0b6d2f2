package main

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidGridConfig is returned by NewGrid for unusable dimensions
var ErrInvalidGridConfig = errors.New("invalid grid config")

// Cell is an integer grid coordinate. The grid is unbounded in both directions.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ObstacleID identifies one obstacle occupying grid cells
type ObstacleID uint64

// Occupants is the set of obstacles covering a cell. A nil or empty set means free.
type Occupants map[ObstacleID]struct{}

func (o Occupants) Empty() bool { return len(o) == 0 }

func (o Occupants) Has(id ObstacleID) bool {
	_, ok := o[id]
	return ok
}

// IDs returns the occupant ids in ascending order
func (o Occupants) IDs() []ObstacleID {
	ids := make([]ObstacleID, 0, len(o))
	for id := range o {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Navigable is the view of the grid a pathfinder needs
type Navigable interface {
	IsFree(x, y int) bool
	Step() float64
}

// CellStore is the write side used by the obstacle adapter. Bounds is the
// addressable range; writes outside it are dropped.
type CellStore interface {
	Get(x, y int) Occupants
	Set(x, y int, v Occupants) bool
	Remove(x, y int) bool
	Step() float64
	Bounds() CellBounds
}

// GridConfig holds the construction parameters of a Grid
type GridConfig struct {
	Step           float64 `json:"step"`           // World units per cell
	Width          int     `json:"width"`          // Dense view width in cells
	Height         int     `json:"height"`         // Dense view height in cells
	QuadrantExtent int     `json:"quadrantExtent"` // Max |coordinate| addressable per quadrant
}

// Grid stores cell occupancy twice over: a dense width×height view for callers
// that never leave the positive quadrant, and four sign-partitioned quadrant
// stores that address arbitrary signed coordinates within QuadrantExtent.
type Grid struct {
	step          float64
	width, height int
	dense         []Occupants
	denseCount    int
	quadrants     [4]*quadrantStore
}

// NewGrid creates an empty grid
func NewGrid(cfg GridConfig) (*Grid, error) {
	if cfg.Step <= 0 || math.IsNaN(cfg.Step) || math.IsInf(cfg.Step, 0) {
		return nil, fmt.Errorf("%w: step must be positive, got %v", ErrInvalidGridConfig, cfg.Step)
	}
	if cfg.Width < 0 || cfg.Height < 0 || cfg.QuadrantExtent < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d extent %d",
			ErrInvalidGridConfig, cfg.Width, cfg.Height, cfg.QuadrantExtent)
	}
	// flat indices must not wrap around
	if cfg.Height > 0 && cfg.Width > math.MaxInt/cfg.Height {
		return nil, fmt.Errorf("%w: dense size %dx%d overflows", ErrInvalidGridConfig, cfg.Width, cfg.Height)
	}
	if cfg.QuadrantExtent > 0 && cfg.QuadrantExtent > math.MaxInt/cfg.QuadrantExtent {
		return nil, fmt.Errorf("%w: quadrant extent %d overflows", ErrInvalidGridConfig, cfg.QuadrantExtent)
	}

	g := &Grid{
		step:   cfg.Step,
		width:  cfg.Width,
		height: cfg.Height,
		dense:  make([]Occupants, cfg.Width*cfg.Height),
	}
	for i := range g.quadrants {
		g.quadrants[i] = newQuadrantStore(cfg.QuadrantExtent)
	}
	return g, nil
}

// Step returns the world size of one cell
func (g *Grid) Step() float64 { return g.step }

// Shape returns the dense view dimensions
func (g *Grid) Shape() (width, height int) { return g.width, g.height }

// Bounds returns the dense view as a cell range
func (g *Grid) Bounds() CellBounds {
	return CellBounds{Hi: Cell{X: g.width, Y: g.height}}
}

// InBounds reports whether (x, y) lies inside the dense view
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) denseIndex(x, y int) int { return x*g.height + y }

// Get returns the occupants of a dense cell, nil when free or out of bounds
func (g *Grid) Get(x, y int) Occupants {
	if !g.InBounds(x, y) {
		return nil
	}
	return g.dense[g.denseIndex(x, y)]
}

// Binary returns 1 for an occupied dense cell and 0 otherwise
func (g *Grid) Binary(x, y int) int {
	if g.Get(x, y).Empty() {
		return 0
	}
	return 1
}

// IsFree reports whether (x, y) is inside the dense view and unoccupied
func (g *Grid) IsFree(x, y int) bool {
	return g.InBounds(x, y) && g.Get(x, y).Empty()
}

// Set stores v at a dense cell. Writes outside the bounds are dropped and
// reported as false. Storing an empty set clears the cell.
func (g *Grid) Set(x, y int, v Occupants) bool {
	if !g.InBounds(x, y) {
		return false
	}
	i := g.denseIndex(x, y)
	// Empty sets are never stored, so a non-nil slot was counted as occupied
	// even if the caller emptied the set in place before writing it back.
	wasStored := g.dense[i] != nil
	if v.Empty() {
		v = nil
	}
	g.dense[i] = v
	switch {
	case !wasStored && v != nil:
		g.denseCount++
	case wasStored && v == nil:
		g.denseCount--
	}
	return true
}

// Remove clears a dense cell
func (g *Grid) Remove(x, y int) bool {
	return g.Set(x, y, nil)
}

// OccupiedCount returns the number of occupied dense cells
func (g *Grid) OccupiedCount() int { return g.denseCount }

// ObstacleBlob flood-fills the blocked dense cells 4-connected to origin
func (g *Grid) ObstacleBlob(origin Cell, maxIterations int) []Cell {
	return obstacleBlob(func(x, y int) bool { return g.Binary(x, y) == 1 }, origin, maxIterations)
}

// Fragment returns a read-only window onto the dense view covering b, clipped
// to the grid. The window is addressed from its own low corner.
func (g *Grid) Fragment(b CellBounds) *Fragment {
	return &Fragment{g: g, bounds: b.Intersect(g.Bounds())}
}

// Fragment is a sub-view of the dense grid. It implements Navigable, so a
// finder can be confined to the window.
type Fragment struct {
	g      *Grid
	bounds CellBounds
}

// Bounds returns the window in grid coordinates
func (f *Fragment) Bounds() CellBounds { return f.bounds }

func (f *Fragment) Step() float64 { return f.g.step }

// Shape returns the window dimensions, zero when it lies outside the grid
func (f *Fragment) Shape() (width, height int) {
	if f.bounds.Empty() {
		return 0, 0
	}
	return f.bounds.Hi.X - f.bounds.Lo.X, f.bounds.Hi.Y - f.bounds.Lo.Y
}

func (f *Fragment) contains(x, y int) bool {
	w, h := f.Shape()
	return x >= 0 && y >= 0 && x < w && y < h
}

// Get returns the occupants at window coordinates (x, y)
func (f *Fragment) Get(x, y int) Occupants {
	if !f.contains(x, y) {
		return nil
	}
	return f.g.Get(f.bounds.Lo.X+x, f.bounds.Lo.Y+y)
}

func (f *Fragment) IsFree(x, y int) bool {
	return f.contains(x, y) && f.Get(x, y).Empty()
}

// Sparse returns the quadrant-backed view of the grid
func (g *Grid) Sparse() *SparseView { return &SparseView{g: g} }

// SparseView addresses the grid through its four quadrant stores. Anything
// beyond the quadrant extent reads as blocked and ignores writes.
type SparseView struct {
	g *Grid
}

func (s *SparseView) Step() float64 { return s.g.step }

// Bounds returns the addressable range, -(extent-1) to extent-1 on both axes
func (s *SparseView) Bounds() CellBounds {
	e := s.g.quadrants[0].extent
	return CellBounds{Lo: Cell{X: 1 - e, Y: 1 - e}, Hi: Cell{X: e, Y: e}}
}

func (s *SparseView) store(x, y int) (*quadrantStore, int, int) {
	return s.g.quadrants[Quadrant(x, y)], abs(x), abs(y)
}

// InExtent reports whether (x, y) is addressable
func (s *SparseView) InExtent(x, y int) bool {
	q, ax, ay := s.store(x, y)
	_, ok := q.index(ax, ay)
	return ok
}

func (s *SparseView) Get(x, y int) Occupants {
	q, ax, ay := s.store(x, y)
	return q.get(ax, ay)
}

func (s *SparseView) Set(x, y int, v Occupants) bool {
	q, ax, ay := s.store(x, y)
	return q.set(ax, ay, v)
}

func (s *SparseView) Remove(x, y int) bool {
	q, ax, ay := s.store(x, y)
	return q.remove(ax, ay)
}

func (s *SparseView) IsFree(x, y int) bool {
	return s.InExtent(x, y) && s.Get(x, y).Empty()
}

// OccupiedCount returns the number of occupied cells across all quadrants
func (s *SparseView) OccupiedCount() int {
	n := 0
	for _, q := range s.g.quadrants {
		n += len(q.cells)
	}
	return n
}

// ObstacleBlob flood-fills the blocked sparse cells 4-connected to origin.
// Cells past the extent are never part of a blob.
func (s *SparseView) ObstacleBlob(origin Cell, maxIterations int) []Cell {
	return obstacleBlob(func(x, y int) bool { return !s.Get(x, y).Empty() }, origin, maxIterations)
}
