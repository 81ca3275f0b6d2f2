package main

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is a position in world units
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned world rectangle as exchanged over the API
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PathLength sums the segment lengths of a polyline
func PathLength(path []Point) float64 {
	var length float64
	for i := 1; i < len(path); i++ {
		length += path[i-1].Distance(path[i])
	}
	return length
}

// Bound converts the rectangle to an orb.Bound, normalising inverted corners
func (r Rect) Bound() orb.Bound {
	return orb.MultiPoint{{r.MinX, r.MinY}, {r.MaxX, r.MaxY}}.Bound()
}

// RectFromBound is the inverse of Rect.Bound
func RectFromBound(b orb.Bound) Rect {
	return Rect{MinX: b.Min.X(), MinY: b.Min.Y(), MaxX: b.Max.X(), MaxY: b.Max.Y()}
}

// CellBounds is a half-open cell range: Lo inclusive, Hi exclusive
type CellBounds struct {
	Lo Cell `json:"lo"`
	Hi Cell `json:"hi"`
}

// Empty reports whether the range covers no cells
func (b CellBounds) Empty() bool {
	return b.Hi.X <= b.Lo.X || b.Hi.Y <= b.Lo.Y
}

// Each calls fn for every cell in the range, column by column
func (b CellBounds) Each(fn func(x, y int)) {
	for x := b.Lo.X; x < b.Hi.X; x++ {
		for y := b.Lo.Y; y < b.Hi.Y; y++ {
			fn(x, y)
		}
	}
}

// Intersect returns the cells covered by both ranges. Disjoint ranges give an
// empty result.
func (b CellBounds) Intersect(o CellBounds) CellBounds {
	return CellBounds{
		Lo: Cell{X: max(b.Lo.X, o.Lo.X), Y: max(b.Lo.Y, o.Lo.Y)},
		Hi: Cell{X: min(b.Hi.X, o.Hi.X), Y: min(b.Hi.Y, o.Hi.Y)},
	}
}

// cellLimit bounds quantized coordinates so huge or infinite world values
// still convert to a valid int
const cellLimit = math.MaxInt32

// quantize converts an already floored or ceiled world/step ratio to a cell
// coordinate, saturating at ±cellLimit. NaN maps to 0.
func quantize(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= cellLimit:
		return cellLimit
	case v <= -cellLimit:
		return -cellLimit
	}
	return int(v)
}

// RectToBounds converts a world rectangle to the cells it touches: the low
// corner is floored and the high corner ceiled.
func RectToBounds(rect orb.Bound, step float64) CellBounds {
	return CellBounds{
		Lo: Cell{
			X: quantize(math.Floor(rect.Min.X() / step)),
			Y: quantize(math.Floor(rect.Min.Y() / step)),
		},
		Hi: Cell{
			X: quantize(math.Ceil(rect.Max.X() / step)),
			Y: quantize(math.Ceil(rect.Max.Y() / step)),
		},
	}
}
