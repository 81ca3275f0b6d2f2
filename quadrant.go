package main

// Quadrant layout, looking down on the grid with y growing downwards:
//
//	 3 | 2
//	---|---
//	 1 | 0
//
// A quadrant is selected by the sign of each coordinate: x<0 adds 1, y<0 adds 2.
func Quadrant(x, y int) int {
	q := 0
	if x < 0 {
		q |= 1
	}
	if y < 0 {
		q |= 2
	}
	return q
}

// quadrantStore is one sign-partition of the sparse grid. Cells are addressed
// by (|x|, |y|) through a flat index bounded by extent; only occupied cells are
// materialised.
type quadrantStore struct {
	extent int
	cells  map[int]Occupants
}

func newQuadrantStore(extent int) *quadrantStore {
	return &quadrantStore{
		extent: extent,
		cells:  make(map[int]Occupants),
	}
}

// index maps absolute coordinates to the flat index; ok is false past the extent
func (q *quadrantStore) index(ax, ay int) (int, bool) {
	if ax < 0 || ay < 0 || ax >= q.extent || ay >= q.extent {
		return 0, false
	}
	return ax*q.extent + ay, true
}

func (q *quadrantStore) get(ax, ay int) Occupants {
	i, ok := q.index(ax, ay)
	if !ok {
		return nil
	}
	return q.cells[i]
}

func (q *quadrantStore) set(ax, ay int, v Occupants) bool {
	i, ok := q.index(ax, ay)
	if !ok {
		return false
	}
	if v.Empty() {
		delete(q.cells, i)
		return true
	}
	q.cells[i] = v
	return true
}

func (q *quadrantStore) remove(ax, ay int) bool {
	i, ok := q.index(ax, ay)
	if !ok {
		return false
	}
	delete(q.cells, i)
	return true
}

// abs returns |v|, or -1 when v cannot be negated without overflow so that the
// caller's extent check rejects it.
func abs(v int) int {
	if v >= 0 {
		return v
	}
	if -v < 0 {
		return -1
	}
	return -v
}
