package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

// sceneFile is the on-disk form of a Scene
type sceneFile struct {
	Padding   float64          `json:"padding"`
	Obstacles []storedObstacle `json:"obstacles"`
}

type storedObstacle struct {
	ID   ObstacleID `json:"id"`
	Rect Rect       `json:"rect"`
}

// SaveScene serializes the scene's obstacles to a JSON file
func SaveScene(scene *Scene, filename string) error {
	log.Printf("💾 Saving scene to %s...\n", filename)

	file := sceneFile{Padding: scene.padding}
	for _, o := range scene.Obstacles() {
		file.Obstacles = append(file.Obstacles, storedObstacle{ID: o.ID, Rect: RectFromBound(o.Rect)})
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Printf("   ✅ Scene saved (%d obstacles, %d bytes)\n", len(file.Obstacles), len(data))
	return nil
}

// ErrPaddingMismatch is returned when a scene file would mix paddings in one scene
var ErrPaddingMismatch = errors.New("scene padding mismatch")

// LoadScene adds the obstacles stored in filename to scene, keeping their ids.
// An empty scene adopts the file's padding so restored obstacles rasterise as
// they were saved. A *SequentialIDs source is advanced past the restored ids.
// Loading is all or nothing: on error no obstacle from the file remains.
func LoadScene(scene *Scene, filename string) error {
	log.Printf("📂 Loading scene from %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var file sceneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal scene: %w", err)
	}

	padding := scene.padding
	if file.Padding != padding {
		if scene.Len() > 0 {
			return fmt.Errorf("%w: file %.2f, scene %.2f", ErrPaddingMismatch, file.Padding, padding)
		}
		log.Printf("⚠️  Scene file padding %.2f replaces configured padding %.2f\n", file.Padding, padding)
		scene.padding = file.Padding
	}

	seq, _ := scene.ids.(*SequentialIDs)
	restored := make([]ObstacleID, 0, len(file.Obstacles))
	for _, stored := range file.Obstacles {
		if _, err := scene.insert(stored.ID, stored.Rect.Bound()); err != nil {
			for _, id := range restored {
				scene.Remove(id)
			}
			scene.padding = padding
			return fmt.Errorf("failed to restore obstacle %d: %w", stored.ID, err)
		}
		restored = append(restored, stored.ID)
		if seq != nil {
			seq.Skip(stored.ID)
		}
	}

	log.Printf("   ✅ Scene loaded: %d obstacles\n", len(file.Obstacles))
	return nil
}
