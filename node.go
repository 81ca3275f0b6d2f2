package main

const noParent = -1

// searchNode is the per-search record of one referenced cell
type searchNode struct {
	Cell     Cell
	Walkable bool
	G        float64 // Best known cost from start
	H        float64 // Cached heuristic to goal, bend penalty excluded
	F        float64 // G + H + bend penalty of the latest improvement
	HasH     bool
	Opened   bool
	Closed   bool
	Parent   int // Arena index of the predecessor, noParent for the start
}

// nodeArena owns every node of one search. Parent links are arena indices, so
// the whole tree is dropped together with the arena.
type nodeArena struct {
	nodes []searchNode
	index map[Cell]int
}

func newNodeArena() *nodeArena {
	return &nodeArena{index: make(map[Cell]int)}
}

// at returns the arena index of the node for c, creating it on first use
func (a *nodeArena) at(c Cell, grid Navigable) int {
	if i, ok := a.index[c]; ok {
		return i
	}
	i := len(a.nodes)
	a.nodes = append(a.nodes, searchNode{
		Cell:     c,
		Walkable: grid.IsFree(c.X, c.Y),
		Parent:   noParent,
	})
	a.index[c] = i
	return i
}

func (a *nodeArena) node(i int) *searchNode {
	return &a.nodes[i]
}

func (a *nodeArena) parentOf(i int) (*searchNode, bool) {
	p := a.nodes[i].Parent
	if p == noParent {
		return nil, false
	}
	return &a.nodes[p], true
}
