package main

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// minRectSide keeps degenerate (zero-width) rectangles valid for rtreego
const minRectSide = 1e-9

// obstacleEntry wraps an obstacle rectangle for R-tree storage
type obstacleEntry struct {
	ID   ObstacleID
	BBox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// SpatialIndex answers "which obstacles touch this region" queries
type SpatialIndex struct {
	tree    *rtreego.Rtree
	entries map[ObstacleID]*obstacleEntry
}

// NewSpatialIndex creates an empty index
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{
		tree:    rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		entries: make(map[ObstacleID]*obstacleEntry),
	}
}

// Put inserts or replaces the rectangle stored for id
func (si *SpatialIndex) Put(id ObstacleID, b orb.Bound) error {
	rect, err := boundToRect(b)
	if err != nil {
		return err
	}
	si.Delete(id)
	entry := &obstacleEntry{ID: id, BBox: rect}
	si.tree.Insert(entry)
	si.entries[id] = entry
	return nil
}

// Delete removes id from the index; unknown ids are ignored
func (si *SpatialIndex) Delete(id ObstacleID) {
	if entry, ok := si.entries[id]; ok {
		si.tree.Delete(entry)
		delete(si.entries, id)
	}
}

// QueryRegion returns the ids of obstacles intersecting b
func (si *SpatialIndex) QueryRegion(b orb.Bound) []ObstacleID {
	rect, err := boundToRect(b)
	if err != nil {
		return []ObstacleID{}
	}

	results := si.tree.SearchIntersect(rect)
	ids := make([]ObstacleID, 0, len(results))
	for _, item := range results {
		ids = append(ids, item.(*obstacleEntry).ID)
	}
	return ids
}

func (si *SpatialIndex) Size() int { return si.tree.Size() }

// boundToRect converts an orb bound to an rtreego rectangle
func boundToRect(b orb.Bound) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{b.Min.X(), b.Min.Y()},
		[]float64{
			math.Max(b.Max.X()-b.Min.X(), minRectSide),
			math.Max(b.Max.Y()-b.Min.Y(), minRectSide),
		},
	)
}
