package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/paulmach/orb"
)

// ErrUnknownObstacle is returned for operations on ids the scene does not hold
var ErrUnknownObstacle = errors.New("unknown obstacle")

// IDSource hands out process-unique obstacle ids
type IDSource interface {
	NextID() ObstacleID
}

// SequentialIDs is an IDSource counting up from 1
type SequentialIDs struct {
	last ObstacleID
}

func (s *SequentialIDs) NextID() ObstacleID {
	s.last++
	return s.last
}

// Skip makes sure future ids are greater than id
func (s *SequentialIDs) Skip(id ObstacleID) {
	if id > s.last {
		s.last = id
	}
}

// Obstacle is a rectangle rasterised into the cells it covers
type Obstacle struct {
	ID     ObstacleID
	Rect   orb.Bound  // As supplied, before padding
	Bounds CellBounds // Cells currently holding ID, clipped to the store
}

// Scene keeps a set of obstacles and their cell occupancy in sync. Every cell
// covered by an obstacle holds its id; overlapping obstacles share cells and a
// cell is blocked while at least one id remains.
type Scene struct {
	store     CellStore
	ids       IDSource
	padding   float64
	obstacles map[ObstacleID]*Obstacle
	index     *SpatialIndex
}

// NewScene creates an empty scene writing into store. Each rectangle is grown
// by padding world units on every side before rasterisation.
func NewScene(store CellStore, ids IDSource, padding float64) *Scene {
	if ids == nil {
		ids = &SequentialIDs{}
	}
	return &Scene{
		store:     store,
		ids:       ids,
		padding:   padding,
		obstacles: make(map[ObstacleID]*Obstacle),
		index:     NewSpatialIndex(),
	}
}

// Add rasterises a new obstacle
func (s *Scene) Add(rect orb.Bound) (*Obstacle, error) {
	return s.insert(s.ids.NextID(), rect)
}

func (s *Scene) insert(id ObstacleID, rect orb.Bound) (*Obstacle, error) {
	if _, exists := s.obstacles[id]; exists {
		return nil, fmt.Errorf("obstacle %d already exists", id)
	}
	o := &Obstacle{ID: id}
	if err := s.place(o, rect); err != nil {
		return nil, err
	}
	s.obstacles[id] = o
	return o, nil
}

// Update moves an obstacle to rect: its id is cleared from the old cells and
// written into the new ones
func (s *Scene) Update(id ObstacleID, rect orb.Bound) (*Obstacle, error) {
	o, ok := s.obstacles[id]
	if !ok {
		return nil, fmt.Errorf("update %d: %w", id, ErrUnknownObstacle)
	}
	s.clear(o)
	if err := s.place(o, rect); err != nil {
		return nil, err
	}
	return o, nil
}

// Remove clears an obstacle from every cell it covers
func (s *Scene) Remove(id ObstacleID) error {
	o, ok := s.obstacles[id]
	if !ok {
		return fmt.Errorf("remove %d: %w", id, ErrUnknownObstacle)
	}
	s.clear(o)
	s.index.Delete(id)
	delete(s.obstacles, id)
	return nil
}

// Get returns the obstacle with id
func (s *Scene) Get(id ObstacleID) (*Obstacle, bool) {
	o, ok := s.obstacles[id]
	return o, ok
}

// Obstacles returns every obstacle ordered by id
func (s *Scene) Obstacles() []*Obstacle {
	list := make([]*Obstacle, 0, len(s.obstacles))
	for _, o := range s.obstacles {
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Query returns the ids of obstacles whose padded rectangle intersects region
func (s *Scene) Query(region orb.Bound) []ObstacleID {
	ids := s.index.QueryRegion(region)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Scene) Len() int { return len(s.obstacles) }

func (s *Scene) padded(rect orb.Bound) orb.Bound {
	if s.padding == 0 {
		return rect
	}
	return rect.Pad(s.padding)
}

// place writes o's id into every cell covered by rect
func (s *Scene) place(o *Obstacle, rect orb.Bound) error {
	padded := s.padded(rect)
	if err := s.index.Put(o.ID, padded); err != nil {
		return fmt.Errorf("index obstacle %d: %w", o.ID, err)
	}

	o.Rect = rect
	// cells the store cannot hold are never visited
	o.Bounds = RectToBounds(padded, s.store.Step()).Intersect(s.store.Bounds())
	o.Bounds.Each(func(x, y int) {
		occ := s.store.Get(x, y)
		if occ == nil {
			occ = make(Occupants)
		}
		occ[o.ID] = struct{}{}
		s.store.Set(x, y, occ)
	})
	return nil
}

// clear removes o's id from the cells it currently covers
func (s *Scene) clear(o *Obstacle) {
	o.Bounds.Each(func(x, y int) {
		occ := s.store.Get(x, y)
		if occ == nil {
			return
		}
		delete(occ, o.ID)
		if occ.Empty() {
			s.store.Remove(x, y)
		}
	})
	o.Bounds = CellBounds{}
}
