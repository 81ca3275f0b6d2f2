package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// loadStartupObstacles restores the saved scene and then adds any GeoJSON obstacles
func (s *server) loadStartupObstacles() {
	log.Println("Checking for existing scene file...")
	err := LoadScene(s.scene, s.cfg.SceneFile)
	switch {
	case err == nil:
		log.Printf("✅ Loaded existing scene from file\n")
		log.Printf("   Obstacles: %d\n", s.scene.Len())
	case errors.Is(err, os.ErrNotExist):
		log.Println("ℹ️  No existing scene found (this is normal on first run)")
		log.Println("   POST /obstacles to add obstacles")
	default:
		log.Printf("❌ Scene file %s not loaded: %v\n", s.cfg.SceneFile, err)
		log.Println("   Starting with an empty scene")
	}

	if s.cfg.ObstaclesDir != "" {
		rects, err := LoadObstaclesFromDir(s.cfg.ObstaclesDir)
		if err != nil {
			log.Printf("⚠️  Failed to load obstacles from %s: %v\n", s.cfg.ObstaclesDir, err)
		}
		for _, rect := range rects {
			if _, err := s.scene.Add(rect); err != nil {
				log.Printf("⚠️  Skipping obstacle: %v\n", err)
			}
		}
	}
	obstacleCount.Set(float64(s.scene.Len()))
}

func main() {
	cfg := NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	log.Println("========================================")
	log.Println("🚀 Grid Router Server (jump point search)")
	log.Println("========================================")
	log.Printf("   Cell size: %.2f, dense grid: %dx%d, quadrant extent: %d\n",
		cfg.Step, cfg.Width, cfg.Height, cfg.QuadrantExtent)
	log.Printf("   Heuristic: %s, sparse grid: %v, padding: %.2f\n", cfg.Heuristic, cfg.Sparse, cfg.Padding)

	srv, err := newServer(cfg)
	if err != nil {
		log.Fatal(err)
	}
	srv.loadStartupObstacles()
	log.Println("")

	mux := http.NewServeMux()
	srv.routes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	log.Printf("Server starting on %s\n", cfg.Addr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST   /route       - Compute route between start and end points")
	log.Println("  GET    /obstacles   - List obstacles (minX/minY/maxX/maxY to filter)")
	log.Println("  POST   /obstacles   - Add an obstacle, or update one by id")
	log.Println("  DELETE /obstacles   - Remove an obstacle by id")
	log.Println("  GET    /blob        - Blocked region around a point")
	log.Println("  GET    /health      - Check server status")
	log.Println("  GET    /metrics     - Prometheus metrics")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatal(err)
	}
}
