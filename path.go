package main

// cellsToPoints converts cells to the world position of their low corner
func cellsToPoints(cells []Cell, step float64) []Point {
	path := make([]Point, len(cells))
	for i, c := range cells {
		path[i] = Point{X: float64(c.X) * step, Y: float64(c.Y) * step}
	}
	return path
}

type axis int

const (
	axisX axis = iota
	axisY
)

func (p Point) on(a axis) float64 {
	if a == axisX {
		return p.X
	}
	return p.Y
}

func (p *Point) setOn(a axis, v float64) {
	if a == axisX {
		p.X = v
	} else {
		p.Y = v
	}
}

func (a axis) other() axis { return 1 - a }

// segmentAxis is the axis two consecutive waypoints share: X for a vertical
// segment, Y for a horizontal one
func segmentAxis(a, b Point) axis {
	if a.X == b.X {
		return axisX
	}
	return axisY
}

// adjustEndpoints moves the cell-corner endpoints of path onto the exact start
// and end points. The leading run of waypoints that share the first segment's
// axis value is shifted onto start's coordinate; the trailing run is shifted
// onto end's, never touching waypoints the leading run already moved.
func adjustEndpoints(path []Point, start, end Point) []Point {
	switch len(path) {
	case 0:
		return path
	case 1:
		if start == end {
			return []Point{start}
		}
		return []Point{start, end}
	}

	// axes and run values come from the unadjusted corners
	orig := make([]Point, len(path))
	copy(orig, path)
	last := len(path) - 1

	startAxis := segmentAxis(orig[0], orig[1])
	startVal := orig[0].on(startAxis)
	si := 0
	for si < len(path) && orig[si].on(startAxis) == startVal {
		path[si].setOn(startAxis, start.on(startAxis))
		si++
	}
	path[0].setOn(startAxis.other(), start.on(startAxis.other()))

	endAxis := segmentAxis(orig[last], orig[last-1])
	endVal := orig[last].on(endAxis)
	for ei := last; ei >= si && orig[ei].on(endAxis) == endVal; ei-- {
		path[ei].setOn(endAxis, end.on(endAxis))
	}
	path[last].setOn(endAxis.other(), end.on(endAxis.other()))

	// the leading run swallowed the whole path, so the last waypoint could not
	// move onto end along endAxis; finish with a short axis-aligned leg
	if path[last] != end {
		path = append(path, end)
	}

	return path
}
