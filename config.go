package main

import (
	"flag"
	"fmt"
)

// Config represents the command-line parameters of the routing server.
type Config struct {
	Addr           string
	Step           float64
	Width          int
	Height         int
	QuadrantExtent int
	Padding        float64
	Heuristic      string
	Sparse         bool
	SceneFile      string
	ObstaclesDir   string
	BlobMax        int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Addr:           ":8080",
		Step:           10,
		Width:          500,
		Height:         500,
		QuadrantExtent: 1000,
		Heuristic:      "manhattan",
		SceneFile:      "scene.json",
		BlobMax:        defaultBlobIterations,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.Float64Var(&c.Step, "step", c.Step, "world units per grid cell")
	fs.IntVar(&c.Width, "width", c.Width, "dense grid width in cells")
	fs.IntVar(&c.Height, "height", c.Height, "dense grid height in cells")
	fs.IntVar(&c.QuadrantExtent, "quadrant-extent", c.QuadrantExtent, "max |cell coordinate| of the sparse grid")
	fs.Float64Var(&c.Padding, "padding", c.Padding, "world units added around every obstacle")
	fs.StringVar(&c.Heuristic, "heuristic", c.Heuristic, "manhattan, euclidean, chebyshev or octile")
	fs.BoolVar(&c.Sparse, "sparse", c.Sparse, "route on the signed quadrant grid instead of the dense one")
	fs.StringVar(&c.SceneFile, "scene", c.SceneFile, "scene snapshot loaded at startup and written on save")
	fs.StringVar(&c.ObstaclesDir, "obstacles-dir", c.ObstaclesDir, "directory of GeoJSON obstacle files loaded at startup")
	fs.IntVar(&c.BlobMax, "blob-max", c.BlobMax, "default iteration cap for obstacle blob queries")
}

// Validate checks the values flags cannot constrain
func (c *Config) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive, got %v", c.Step)
	}
	if _, err := HeuristicByName(c.Heuristic); err != nil {
		return err
	}
	return nil
}

// GridConfig returns the grid parameters of the configuration
func (c *Config) GridConfig() GridConfig {
	return GridConfig{
		Step:           c.Step,
		Width:          c.Width,
		Height:         c.Height,
		QuadrantExtent: c.QuadrantExtent,
	}
}
