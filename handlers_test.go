package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, configure ...func(*Config)) (*server, *httptest.Server) {
	t.Helper()
	cfg := NewConfig()
	cfg.Width, cfg.Height = 10, 10
	cfg.SceneFile = filepath.Join(t.TempDir(), "scene.json")
	for _, fn := range configure {
		fn(cfg)
	}

	srv, err := newServer(cfg)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	mux := http.NewServeMux()
	srv.routes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return srv, ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func doRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestRouteHandler(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/route", `{"start":{"x":5,"y":5},"end":{"x":85,"y":5}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var route RouteResponse
	decode(t, resp, &route)

	if !route.Success || route.Cost != 8 || route.Length != 80 {
		t.Errorf("route = %+v, want success with cost 8 and length 80", route)
	}
	assertPath(t, route.Path, []Point{{5, 5}, {85, 5}})
}

func TestRouteHandler_AroundObstacle(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/obstacles", `{"rect":{"minX":30,"minY":0,"maxX":40,"maxY":50}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add obstacle status = %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/route", `{"start":{"x":5,"y":5},"end":{"x":85,"y":5}}`)
	var route RouteResponse
	decode(t, resp, &route)
	if !route.Success {
		t.Fatalf("no route around the wall: %+v", route)
	}
	// down to row 5, across, and back up: 8 across plus 5 each way
	if route.Cost != 18 {
		t.Errorf("cost = %v, want 18", route.Cost)
	}

	// closing the gap makes the goal unreachable
	postJSON(t, ts.URL+"/obstacles", `{"rect":{"minX":30,"minY":50,"maxX":40,"maxY":100}}`)
	resp = postJSON(t, ts.URL+"/route", `{"start":{"x":5,"y":5},"end":{"x":85,"y":5}}`)
	route = RouteResponse{}
	decode(t, resp, &route)
	if route.Success || len(route.Path) != 0 || route.Message == "" {
		t.Errorf("route through a closed wall = %+v", route)
	}
}

func TestRouteHandler_BadRequests(t *testing.T) {
	_, ts := newTestServer(t)

	if resp := doRequest(t, http.MethodGet, ts.URL+"/route"); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /route status = %d", resp.StatusCode)
	}
	if resp := postJSON(t, ts.URL+"/route", `{"start":`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", resp.StatusCode)
	}
	if resp := doRequest(t, http.MethodOptions, ts.URL+"/route"); resp.StatusCode != http.StatusOK ||
		resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight status = %d", resp.StatusCode)
	}
}

func TestObstaclesHandler_Lifecycle(t *testing.T) {
	srv, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/obstacles", `{"rect":{"minX":15,"minY":15,"maxX":25,"maxY":35},"saveToFile":true}`)
	var added ObstacleResponse
	decode(t, resp, &added)
	if added.ID == 0 || added.Bounds != (CellBounds{Cell{1, 1}, Cell{3, 4}}) {
		t.Fatalf("added = %+v", added)
	}
	if _, err := os.Stat(srv.cfg.SceneFile); err != nil {
		t.Errorf("scene not saved: %v", err)
	}

	body := `{"id":` + jsonNumber(added.ID) + `,"rect":{"minX":60,"minY":60,"maxX":70,"maxY":70}}`
	resp = postJSON(t, ts.URL+"/obstacles", body)
	var updated ObstacleResponse
	decode(t, resp, &updated)
	if updated.ID != added.ID || updated.Bounds != (CellBounds{Cell{6, 6}, Cell{7, 7}}) {
		t.Errorf("updated = %+v", updated)
	}
	if !srv.grid.IsFree(2, 2) || srv.grid.IsFree(6, 6) {
		t.Error("grid not updated with the obstacle")
	}

	resp = doRequest(t, http.MethodGet, ts.URL+"/obstacles?minX=55&minY=55&maxX=65&maxY=65")
	var list struct {
		Obstacles []ObstacleResponse `json:"obstacles"`
	}
	decode(t, resp, &list)
	if len(list.Obstacles) != 1 || list.Obstacles[0].ID != added.ID {
		t.Errorf("region listing = %+v", list.Obstacles)
	}

	resp = doRequest(t, http.MethodGet, ts.URL+"/obstacles?minX=0&minY=0&maxX=10&maxY=10")
	list.Obstacles = nil
	decode(t, resp, &list)
	if len(list.Obstacles) != 0 {
		t.Errorf("empty region listing = %+v", list.Obstacles)
	}

	if resp := doRequest(t, http.MethodDelete, ts.URL+"/obstacles?id="+jsonNumber(added.ID)); resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	if resp := doRequest(t, http.MethodDelete, ts.URL+"/obstacles?id="+jsonNumber(added.ID)); resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d", resp.StatusCode)
	}
	if srv.grid.OccupiedCount() != 0 {
		t.Errorf("%d cells still occupied", srv.grid.OccupiedCount())
	}
}

func TestObstaclesHandler_Errors(t *testing.T) {
	_, ts := newTestServer(t)

	if resp := postJSON(t, ts.URL+"/obstacles", `{"id":99,"rect":{"minX":0,"minY":0,"maxX":1,"maxY":1}}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("update unknown status = %d", resp.StatusCode)
	}
	if resp := postJSON(t, ts.URL+"/obstacles", `nope`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body status = %d", resp.StatusCode)
	}
	if resp := doRequest(t, http.MethodDelete, ts.URL+"/obstacles?id=abc"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id status = %d", resp.StatusCode)
	}
	if resp := doRequest(t, http.MethodGet, ts.URL+"/obstacles?minX=a"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad region status = %d", resp.StatusCode)
	}
	if resp := doRequest(t, http.MethodPut, ts.URL+"/obstacles"); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("PUT status = %d", resp.StatusCode)
	}
}

func TestBlobHandler(t *testing.T) {
	_, ts := newTestServer(t)
	postJSON(t, ts.URL+"/obstacles", `{"rect":{"minX":30,"minY":0,"maxX":40,"maxY":50}}`)

	resp := doRequest(t, http.MethodGet, ts.URL+"/blob?x=35&y=5")
	var blob struct {
		Cells   []Cell `json:"cells"`
		Partial bool   `json:"partial"`
	}
	decode(t, resp, &blob)
	if len(blob.Cells) != 5 || blob.Partial {
		t.Errorf("blob = %+v, want 5 complete cells", blob)
	}

	resp = doRequest(t, http.MethodGet, ts.URL+"/blob?x=35&y=5&maxIterations=2")
	blob.Cells = nil
	decode(t, resp, &blob)
	if len(blob.Cells) != 2 || !blob.Partial {
		t.Errorf("capped blob = %+v", blob)
	}

	resp = doRequest(t, http.MethodGet, ts.URL+"/blob?x=85&y=85")
	blob.Cells = nil
	decode(t, resp, &blob)
	if blob.Cells == nil || len(blob.Cells) != 0 {
		t.Errorf("free point blob = %+v, want empty list", blob.Cells)
	}

	if resp := doRequest(t, http.MethodGet, ts.URL+"/blob?x=zz&y=1"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad point status = %d", resp.StatusCode)
	}
}

func TestBlobHandler_DefaultCapIsPartial(t *testing.T) {
	_, ts := newTestServer(t, func(cfg *Config) {
		cfg.Width, cfg.Height = 40, 40
	})
	postJSON(t, ts.URL+"/obstacles", `{"rect":{"minX":0,"minY":0,"maxX":400,"maxY":400}}`)

	for _, query := range []string{"", "&maxIterations=-1", "&maxIterations=0"} {
		resp := doRequest(t, http.MethodGet, ts.URL+"/blob?x=5&y=5"+query)
		var blob struct {
			Cells   []Cell `json:"cells"`
			Partial bool   `json:"partial"`
		}
		decode(t, resp, &blob)
		if len(blob.Cells) != defaultBlobIterations || !blob.Partial {
			t.Errorf("blob%s: %d cells partial=%v, want %d partial", query, len(blob.Cells), blob.Partial, defaultBlobIterations)
		}
	}
}

func TestObstaclesHandler_HugeRectangleIsClipped(t *testing.T) {
	srv, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/obstacles", `{"rect":{"minX":-1e12,"minY":-1e12,"maxX":1e12,"maxY":1e12}}`)
	var added ObstacleResponse
	decode(t, resp, &added)
	if added.Bounds != (CellBounds{Cell{0, 0}, Cell{10, 10}}) {
		t.Errorf("bounds = %+v, want the whole 10x10 grid", added.Bounds)
	}
	if srv.grid.OccupiedCount() != 100 {
		t.Errorf("OccupiedCount = %d, want 100", srv.grid.OccupiedCount())
	}
}

func TestHealthHandler(t *testing.T) {
	_, ts := newTestServer(t)
	postJSON(t, ts.URL+"/obstacles", `{"rect":{"minX":0,"minY":0,"maxX":20,"maxY":10}}`)

	var health struct {
		Status        string `json:"status"`
		NumObstacles  int    `json:"numObstacles"`
		OccupiedCells int    `json:"occupiedCells"`
		Width         int    `json:"width"`
	}
	decode(t, doRequest(t, http.MethodGet, ts.URL+"/health"), &health)
	if health.Status != "ready" || health.NumObstacles != 1 || health.OccupiedCells != 2 || health.Width != 10 {
		t.Errorf("health = %+v", health)
	}
}

func TestNewServer_SparseView(t *testing.T) {
	cfg := NewConfig()
	cfg.Sparse = true
	cfg.QuadrantExtent = 20
	srv, err := newServer(cfg)
	if err != nil {
		t.Fatal(err)
	}

	res := srv.finder.Search(Point{-55, -5}, Point{45, -5})
	if !res.Found || res.Cost != 10 {
		t.Errorf("sparse search = found %v cost %v, want cost 10", res.Found, res.Cost)
	}

	cfg.Heuristic = "bogus"
	if _, err := newServer(cfg); err == nil {
		t.Error("unknown heuristic accepted")
	}
}

func jsonNumber(id ObstacleID) string {
	b, _ := json.Marshal(id)
	return string(b)
}
