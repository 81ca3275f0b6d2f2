package main

import (
	"fmt"
	"math"
	"strings"
)

// Heuristic estimates the remaining cost from absolute cell offsets (dx, dy >= 0).
// It must be admissible and consistent for FindPath to stay optimal before the
// bend penalty is applied; this is not checked.
type Heuristic func(dx, dy int) float64

// Manhattan is the default heuristic for 4-directional movement
func Manhattan(dx, dy int) float64 {
	return float64(dx + dy)
}

func Euclidean(dx, dy int) float64 {
	return math.Sqrt(float64(dx*dx + dy*dy))
}

func Chebyshev(dx, dy int) float64 {
	return float64(max(dx, dy))
}

// Octile is the cost of the shortest 8-connected path between two cells
func Octile(dx, dy int) float64 {
	const f = math.Sqrt2 - 1
	if dx < dy {
		return f*float64(dx) + float64(dy)
	}
	return f*float64(dy) + float64(dx)
}

var heuristics = map[string]Heuristic{
	"manhattan": Manhattan,
	"euclidean": Euclidean,
	"chebyshev": Chebyshev,
	"octile":    Octile,
}

// HeuristicByName resolves a heuristic by its lower-case name
func HeuristicByName(name string) (Heuristic, error) {
	h, ok := heuristics[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q", name)
	}
	return h, nil
}
