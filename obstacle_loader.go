package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadObstaclesFromDir reads every *.geojson file in dir and returns the
// bounding rectangle of each feature. Files that cannot be read or parsed are
// logged and skipped.
func LoadObstaclesFromDir(dir string) ([]orb.Bound, error) {
	var rects []orb.Bound

	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	log.Printf("Loading obstacles from %d GeoJSON files...\n", len(files))

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("⚠️  Failed to read %s: %v\n", file, err)
			continue
		}

		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			log.Printf("⚠️  Failed to parse %s: %v\n", file, err)
			continue
		}

		count := 0
		for _, feature := range fc.Features {
			if feature.Geometry == nil {
				continue
			}
			rects = append(rects, feature.Geometry.Bound())
			count++
		}

		log.Printf("   ✅ Loaded %d obstacles from %s\n", count, filepath.Base(file))
	}

	log.Printf("Total obstacles loaded: %d\n", len(rects))
	return rects, nil
}
