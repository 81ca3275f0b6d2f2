package main

// defaultBlobIterations caps ObstacleBlob when the caller passes no limit
const defaultBlobIterations = 1000

var blobDirections = [4]Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// obstacleBlob collects the 4-connected blocked region around origin. At most
// maxIterations cells are expanded; a capped result is partial.
func obstacleBlob(blocked func(x, y int) bool, origin Cell, maxIterations int) []Cell {
	if !blocked(origin.X, origin.Y) {
		return nil
	}
	if maxIterations <= 0 {
		maxIterations = defaultBlobIterations
	}

	seen := map[Cell]bool{origin: true}
	frontier := []Cell{origin}
	var nodes []Cell

	for len(frontier) > 0 && len(nodes) < maxIterations {
		c := frontier[0]
		frontier = frontier[1:]
		nodes = append(nodes, c)

		for _, d := range blobDirections {
			n := Cell{c.X + d.X, c.Y + d.Y}
			if seen[n] {
				continue
			}
			seen[n] = true
			if blocked(n.X, n.Y) {
				frontier = append(frontier, n)
			}
		}
	}

	return nodes
}
