package main

import (
	"fmt"
	"math"
)

// bendPenalty is added to h whenever reaching a jump point turns away from the
// direction the expanding node was entered with. It is deliberately not
// admissible: it breaks ties between equally short paths in favour of fewer bends.
const bendPenalty = 1

// errDiagonalJump is the panic value for a jump request that is not axis-aligned
var errDiagonalJump = fmt.Errorf("jps: only horizontal and vertical jumps are allowed")

// Result contains the outcome of one search
type Result struct {
	Path          []Point // World-space waypoints with snapped endpoints
	Cells         []Cell  // Jump points from start cell to goal cell
	Cost          float64 // Final g of the goal node, in cells
	ExpandedNodes int
	Found         bool
}

// FinderOptions defines the configuration of a JumpPointFinder
type FinderOptions struct {
	Heuristic Heuristic
}

// FinderOption is a function that modifies FinderOptions
type FinderOption func(*FinderOptions)

// WithHeuristic replaces the default Manhattan heuristic
func WithHeuristic(h Heuristic) FinderOption {
	return func(o *FinderOptions) {
		if h != nil {
			o.Heuristic = h
		}
	}
}

// JumpPointFinder computes 4-directional shortest paths with Jump Point Search.
// It keeps no state between calls other than the grid and the heuristic.
type JumpPointFinder struct {
	grid      Navigable
	heuristic Heuristic
}

// NewJumpPointFinder creates a finder over grid
func NewJumpPointFinder(grid Navigable, options ...FinderOption) *JumpPointFinder {
	opts := FinderOptions{Heuristic: Manhattan}
	for _, option := range options {
		option(&opts)
	}
	return &JumpPointFinder{grid: grid, heuristic: opts.Heuristic}
}

// FindPath returns world-space waypoints from start to end, or an empty slice
// when the goal cannot be reached.
func (f *JumpPointFinder) FindPath(start, end Point) []Point {
	return f.Search(start, end).Path
}

// Search runs one JPS query and reports the path along with its cost
func (f *JumpPointFinder) Search(start, end Point) Result {
	step := f.grid.Step()
	s := &jpsSearch{
		grid:      f.grid,
		heuristic: f.heuristic,
		arena:     newNodeArena(),
		goal:      toCell(end, step),
	}
	s.open = NewPriorityQueue(func(a, b int) bool {
		return s.arena.nodes[a].F < s.arena.nodes[b].F
	})

	startCell := toCell(start, step)
	if !f.grid.IsFree(startCell.X, startCell.Y) || !f.grid.IsFree(s.goal.X, s.goal.Y) {
		return Result{Path: []Point{}}
	}

	startIdx := s.arena.at(startCell, s.grid)
	goalIdx := s.arena.at(s.goal, s.grid)

	startNode := s.arena.node(startIdx)
	startNode.G = 0
	startNode.F = 0
	startNode.Opened = true
	s.open.Push(startIdx)

	expanded := 0
	for !s.open.Empty() {
		current := s.open.Pop()
		s.arena.node(current).Closed = true
		expanded++

		if current == goalIdx {
			cells := s.backtrace(goalIdx)
			return Result{
				Path:          adjustEndpoints(cellsToPoints(cells, step), start, end),
				Cells:         cells,
				Cost:          s.arena.node(goalIdx).G,
				ExpandedNodes: expanded,
				Found:         true,
			}
		}

		s.identifySuccessors(current)
	}

	return Result{Path: []Point{}, ExpandedNodes: expanded}
}

// jpsSearch is the state of a single FindPath call
type jpsSearch struct {
	grid      Navigable
	heuristic Heuristic
	arena     *nodeArena
	open      *PriorityQueue[int]
	goal      Cell
}

func (s *jpsSearch) free(x, y int) bool { return s.grid.IsFree(x, y) }

// identifySuccessors jumps from the node in every pruned direction and relaxes
// each jump point found
func (s *jpsSearch) identifySuccessors(idx int) {
	node := *s.arena.node(idx)
	x, y := node.Cell.X, node.Cell.Y

	for _, neighbor := range s.findNeighbors(idx) {
		jp, ok := s.jump(neighbor.X, neighbor.Y, x, y)
		if !ok {
			continue
		}

		jumpIdx := s.arena.at(jp, s.grid)
		jumpNode := s.arena.node(jumpIdx)
		if jumpNode.Closed {
			continue
		}

		// jump points may be several cells away from their parent
		ng := node.G + Octile(abs(jp.X-x), abs(jp.Y-y))

		if !jumpNode.Opened || ng < jumpNode.G {
			jumpNode.G = ng
			if !jumpNode.HasH {
				jumpNode.H = s.heuristic(abs(jp.X-s.goal.X), abs(jp.Y-s.goal.Y))
				jumpNode.HasH = true
			}
			h := jumpNode.H
			if s.isBend(idx, jp) {
				h += bendPenalty
			}
			jumpNode.F = jumpNode.G + h
			jumpNode.Parent = idx

			if !jumpNode.Opened {
				jumpNode.Opened = true
				s.open.Push(jumpIdx)
			} else {
				s.open.Update(jumpIdx)
			}
		}
	}
}

// findNeighbors returns the cells worth jumping to from the node. The start
// node considers all four free neighbors; any other node only continues in its
// direction of travel or turns sideways.
func (s *jpsSearch) findNeighbors(idx int) []Cell {
	node := s.arena.node(idx)
	x, y := node.Cell.X, node.Cell.Y
	neighbors := make([]Cell, 0, 4)

	parent, ok := s.arena.parentOf(idx)
	if !ok {
		for _, c := range [4]Cell{{x, y - 1}, {x + 1, y}, {x, y + 1}, {x - 1, y}} {
			if s.free(c.X, c.Y) {
				neighbors = append(neighbors, c)
			}
		}
		return neighbors
	}

	dx := sign(x - parent.Cell.X)
	dy := sign(y - parent.Cell.Y)

	if dx != 0 {
		if s.free(x, y-1) {
			neighbors = append(neighbors, Cell{x, y - 1})
		}
		if s.free(x, y+1) {
			neighbors = append(neighbors, Cell{x, y + 1})
		}
		if s.free(x+dx, y) {
			neighbors = append(neighbors, Cell{x + dx, y})
		}
	} else if dy != 0 {
		if s.free(x-1, y) {
			neighbors = append(neighbors, Cell{x - 1, y})
		}
		if s.free(x+1, y) {
			neighbors = append(neighbors, Cell{x + 1, y})
		}
		if s.free(x, y+dy) {
			neighbors = append(neighbors, Cell{x, y + dy})
		}
	}

	return neighbors
}

// jump scans from (px, py) through (x, y) and onwards in the same direction
// until it reaches the goal, a cell with a forced neighbor, or a wall. While
// moving vertically each cell also probes sideways, since a horizontal corridor
// leading to a jump point makes the cell itself a jump point.
func (s *jpsSearch) jump(x, y, px, py int) (Cell, bool) {
	dx, dy := x-px, y-py
	if (dx != 0) == (dy != 0) || abs(dx) > 1 || abs(dy) > 1 {
		panic(fmt.Errorf("%w: direction (%d,%d)", errDiagonalJump, dx, dy))
	}

	for {
		if !s.free(x, y) {
			return Cell{}, false
		}
		if x == s.goal.X && y == s.goal.Y {
			return Cell{x, y}, true
		}

		if dx != 0 {
			if (s.free(x, y-1) && !s.free(x-dx, y-1)) ||
				(s.free(x, y+1) && !s.free(x-dx, y+1)) {
				return Cell{x, y}, true
			}
		} else {
			if (s.free(x-1, y) && !s.free(x-1, y-dy)) ||
				(s.free(x+1, y) && !s.free(x+1, y-dy)) {
				return Cell{x, y}, true
			}
			if _, ok := s.jump(x+1, y, x, y); ok {
				return Cell{x, y}, true
			}
			if _, ok := s.jump(x-1, y, x, y); ok {
				return Cell{x, y}, true
			}
		}

		x += dx
		y += dy
	}
}

// isBend reports whether moving from the node to jp changes the direction the
// node was entered with
func (s *jpsSearch) isBend(idx int, jp Cell) bool {
	parent, ok := s.arena.parentOf(idx)
	if !ok {
		return false
	}
	c := s.arena.node(idx).Cell
	return (parent.Cell.X == c.X && c.X != jp.X) ||
		(parent.Cell.Y == c.Y && c.Y != jp.Y)
}

// backtrace walks parent links from the goal and returns cells start first
func (s *jpsSearch) backtrace(idx int) []Cell {
	var cells []Cell
	for i := idx; i != noParent; i = s.arena.node(i).Parent {
		cells = append(cells, s.arena.node(i).Cell)
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

// toCell quantizes a world point to the cell containing it
func toCell(p Point, step float64) Cell {
	return Cell{
		X: quantize(math.Floor(p.X / step)),
		Y: quantize(math.Floor(p.Y / step)),
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

