package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// gridView is the grid surface the server routes on and writes obstacles into
type gridView interface {
	Navigable
	CellStore
	ObstacleBlob(origin Cell, maxIterations int) []Cell
	OccupiedCount() int
}

type RouteRequest struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

type RouteResponse struct {
	Path          []Point `json:"path"`
	Success       bool    `json:"success"`
	Message       string  `json:"message,omitempty"`
	Cost          float64 `json:"cost"`   // In cells
	Length        float64 `json:"length"` // In world units, snapped endpoints included
	ExpandedNodes int     `json:"expandedNodes"`
}

type ObstacleRequest struct {
	ID         ObstacleID `json:"id,omitempty"` // Zero adds a new obstacle
	Rect       Rect       `json:"rect"`
	SaveToFile bool       `json:"saveToFile,omitempty"`
}

type ObstacleResponse struct {
	ID     ObstacleID `json:"id"`
	Rect   Rect       `json:"rect"`
	Bounds CellBounds `json:"bounds"`
}

// server owns the grid and scene. Searches take the read lock and obstacle
// edits the write lock, so the grid never changes under a running search.
type server struct {
	mu     sync.RWMutex
	cfg    *Config
	grid   *Grid
	view   gridView
	scene  *Scene
	finder *JumpPointFinder
}

func newServer(cfg *Config) (*server, error) {
	grid, err := NewGrid(cfg.GridConfig())
	if err != nil {
		return nil, err
	}
	heuristic, err := HeuristicByName(cfg.Heuristic)
	if err != nil {
		return nil, err
	}

	var view gridView = grid
	if cfg.Sparse {
		view = grid.Sparse()
	}

	return &server{
		cfg:    cfg,
		grid:   grid,
		view:   view,
		scene:  NewScene(view, &SequentialIDs{}, cfg.Padding),
		finder: NewJumpPointFinder(view, WithHeuristic(heuristic)),
	}, nil
}

func (s *server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/route", corsMiddleware(s.routeHandler))
	mux.HandleFunc("/obstacles", corsMiddleware(s.obstaclesHandler))
	mux.HandleFunc("/blob", corsMiddleware(s.blobHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to encode response: %v\n", err)
	}
}

// POST /route - Compute a route between two world points
func (s *server) routeHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Route request received")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		routeQueryTotal.WithLabelValues("invalid").Inc()
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	log.Printf("   Start: (%.3f, %.3f)\n", req.Start.X, req.Start.Y)
	log.Printf("   End:   (%.3f, %.3f)\n", req.End.X, req.End.Y)

	began := time.Now()
	s.mu.RLock()
	result := s.finder.Search(req.Start, req.End)
	s.mu.RUnlock()
	routeQueryDuration.Observe(time.Since(began).Seconds())
	routeExpandedNodes.Observe(float64(result.ExpandedNodes))

	response := RouteResponse{
		Path:          result.Path,
		Success:       result.Found,
		Cost:          result.Cost,
		Length:        PathLength(result.Path),
		ExpandedNodes: result.ExpandedNodes,
	}

	if !result.Found {
		routeQueryTotal.WithLabelValues("unreachable").Inc()
		log.Println("❌ No path found")
		response.Message = "No path found"
	} else {
		routeQueryTotal.WithLabelValues("found").Inc()
		log.Printf("✅ Path found with %d waypoints\n", len(result.Path))
		log.Printf("   Cost: %.2f cells, length: %.2f\n", result.Cost, response.Length)
		log.Printf("   Expanded jump points: %d\n", result.ExpandedNodes)
	}

	writeJSON(w, http.StatusOK, response)
	log.Println("========================================")
}

// /obstacles - GET lists (optionally within a region), POST adds or updates,
// DELETE removes
func (s *server) obstaclesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listObstacles(w, r)
	case http.MethodPost:
		s.putObstacle(w, r)
	case http.MethodDelete:
		s.deleteObstacle(w, r)
	default:
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func obstacleResponse(o *Obstacle) ObstacleResponse {
	return ObstacleResponse{ID: o.ID, Rect: RectFromBound(o.Rect), Bounds: o.Bounds}
}

func (s *server) listObstacles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*Obstacle
	if q.Has("minX") {
		region, err := parseRect(q.Get("minX"), q.Get("minY"), q.Get("maxX"), q.Get("maxY"))
		if err != nil {
			http.Error(w, "Invalid region", http.StatusBadRequest)
			return
		}
		for _, id := range s.scene.Query(region.Bound()) {
			if o, ok := s.scene.Get(id); ok {
				list = append(list, o)
			}
		}
	} else {
		list = s.scene.Obstacles()
	}

	out := make([]ObstacleResponse, 0, len(list))
	for _, o := range list {
		out = append(out, obstacleResponse(o))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"obstacles": out,
	})
}

func (s *server) putObstacle(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🧱 Obstacle request received")

	var req ObstacleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	var (
		o   *Obstacle
		err error
		op  = "add"
	)
	if req.ID == 0 {
		o, err = s.scene.Add(req.Rect.Bound())
	} else {
		op = "update"
		o, err = s.scene.Update(req.ID, req.Rect.Bound())
	}
	var resp ObstacleResponse
	if err == nil {
		resp = obstacleResponse(o)
		obstacleMutationTotal.WithLabelValues(op).Inc()
		obstacleCount.Set(float64(s.scene.Len()))
		if req.SaveToFile {
			if saveErr := SaveScene(s.scene, s.cfg.SceneFile); saveErr != nil {
				log.Printf("⚠️  Failed to save scene: %v\n", saveErr)
			}
		}
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("❌ Obstacle %s failed: %v\n", op, err)
		status := http.StatusBadRequest
		if errors.Is(err, ErrUnknownObstacle) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		log.Println("========================================")
		return
	}

	log.Printf("✅ Obstacle %d stored (%s), cells (%d,%d) to (%d,%d)\n", resp.ID, op,
		resp.Bounds.Lo.X, resp.Bounds.Lo.Y, resp.Bounds.Hi.X, resp.Bounds.Hi.Y)
	log.Println("========================================")
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) deleteObstacle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid obstacle id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err = s.scene.Remove(ObstacleID(id))
	if err == nil {
		obstacleMutationTotal.WithLabelValues("remove").Inc()
		obstacleCount.Set(float64(s.scene.Len()))
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("❌ %v\n", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	log.Printf("🗑️  Obstacle %d removed\n", id)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

// GET /blob - Cells of the blocked region containing a world point
func (s *server) blobHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		http.Error(w, "Invalid point", http.StatusBadRequest)
		return
	}
	maxIterations := s.cfg.BlobMax
	if v := q.Get("maxIterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid maxIterations", http.StatusBadRequest)
			return
		}
		maxIterations = n
	}
	if maxIterations <= 0 {
		maxIterations = defaultBlobIterations
	}

	origin := toCell(Point{X: x, Y: y}, s.view.Step())

	s.mu.RLock()
	cells := s.view.ObstacleBlob(origin, maxIterations)
	s.mu.RUnlock()

	if cells == nil {
		cells = []Cell{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"origin":  origin,
		"cells":   cells,
		// a full cap means the region may continue past what was visited
		"partial": len(cells) >= maxIterations,
	})
}

// GET /health - Health check endpoint
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	numObstacles := s.scene.Len()
	occupied := s.view.OccupiedCount()
	s.mu.RUnlock()

	width, height := s.grid.Shape()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ready",
		"numObstacles":  numObstacles,
		"occupiedCells": occupied,
		"step":          s.view.Step(),
		"width":         width,
		"height":        height,
		"sparse":        s.cfg.Sparse,
	})
}

func parseRect(minX, minY, maxX, maxY string) (Rect, error) {
	var r Rect
	var err error
	for _, f := range []struct {
		dst *float64
		src string
	}{{&r.MinX, minX}, {&r.MinY, minY}, {&r.MaxX, maxX}, {&r.MaxY, maxY}} {
		if *f.dst, err = strconv.ParseFloat(f.src, 64); err != nil {
			return Rect{}, err
		}
	}
	return r, nil
}
