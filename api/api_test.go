package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/softwarenerd/GreatCircle/api/model"
	"github.com/softwarenerd/GreatCircle/fleet"
	"github.com/softwarenerd/GreatCircle/latlon"
	"github.com/softwarenerd/GreatCircle/route"
)

func newRouter() http.Handler {
	routes := map[string]route.Route{
		"equator": {
			Name: "equator",
			Waypoints: []route.Waypoint{
				{Name: "A", Latlon: latlon.LatLon{Lat: 0, Lon: 0}},
				{Name: "B", Latlon: latlon.LatLon{Lat: 0, Lon: 1}},
			},
		},
		"meridian": {
			Name: "meridian",
			Waypoints: []route.Waypoint{
				{Name: "S", Latlon: latlon.LatLon{Lat: 0, Lon: 0}},
				{Name: "N", Latlon: latlon.LatLon{Lat: 1, Lon: 0}},
			},
		},
	}
	return InitServer(fleet.New(routes, 1000, nil))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, newRouter(), http.MethodGet, "/greatcircle/-/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"Ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestDistance(t *testing.T) {
	rec := do(t, newRouter(), http.MethodPost, "/greatcircle/api/v1/distance",
		`{"from": {"lat": 50.0663, "lon": -5.7148}, "to": {"lat": 58.6440, "lon": -3.0700}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("distance = %d %s", rec.Code, rec.Body.String())
	}

	var d model.Distance
	decodeBody(t, rec, &d)
	if math.Abs(d.Distance-968900) > 300 || math.Abs(d.InitialBearing-9.1) > 0.5 || math.Round(d.FinalBearing*10) != 113 {
		t.Errorf("distance = %+v", d)
	}
}

func TestDistanceFormula(t *testing.T) {
	h := newRouter()
	body := `{"from": {"lat": 48.858158, "lon": 2.294825}, "to": {"lat": 48.804766, "lon": 2.120339}}`

	rec := do(t, h, http.MethodPost, "/greatcircle/api/v1/distance?formula=cosines", body)
	var d model.Distance
	decodeBody(t, rec, &d)
	if math.Abs(d.Distance-14084.281) > 0.5 {
		t.Errorf("cosines distance = %f; want 14084.281", d.Distance)
	}

	if rec := do(t, h, http.MethodPost, "/greatcircle/api/v1/distance?formula=vincenty", body); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown formula = %d; want 400", rec.Code)
	}
}

func TestMidpoint(t *testing.T) {
	rec := do(t, newRouter(), http.MethodPost, "/greatcircle/api/v1/midpoint",
		`{"from": {"lat": 48.858158, "lon": 2.294825}, "to": {"lat": 48.804766, "lon": 2.120339}}`)

	var p latlon.LatLon
	decodeBody(t, rec, &p)
	if math.Round(p.Lat*1e6) != 48831495 || math.Round(p.Lon*1e6) != 2207536 {
		t.Errorf("midpoint = %+v; want {48.831495,2.207536}", p)
	}
}

func TestDestination(t *testing.T) {
	rec := do(t, newRouter(), http.MethodPost, "/greatcircle/api/v1/destination",
		`{"from": {"lat": 51.4778, "lon": -0.0015}, "bearing": 300.7, "distance": 7794}`)

	var p latlon.LatLon
	decodeBody(t, rec, &p)
	if math.Round(p.Lat*1e4) != 515135 || math.Round(p.Lon*1e4) != -983 {
		t.Errorf("destination = %+v; want {51.5135,-0.0983}", p)
	}
}

func TestIntersection(t *testing.T) {
	h := newRouter()

	rec := do(t, h, http.MethodPost, "/greatcircle/api/v1/intersection",
		`{"first": {"latlon": {"lat": 51.8853, "lon": 0.2545}, "bearing": 108.55},
		  "second": {"latlon": {"lat": 49.0034, "lon": 2.5735}, "bearing": 32.44}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("intersection = %d %s", rec.Code, rec.Body.String())
	}
	var p latlon.LatLon
	decodeBody(t, rec, &p)
	if math.Abs(p.Lat-50.9078) > 0.05 || math.Abs(p.Lon-4.5084) > 0.05 {
		t.Errorf("intersection = %+v; want {50.9078,4.5084}", p)
	}

	rec = do(t, h, http.MethodPost, "/greatcircle/api/v1/intersection",
		`{"first": {"latlon": {"lat": 51, "lon": 1}, "bearing": 90},
		  "second": {"latlon": {"lat": 51, "lon": 1}, "bearing": 270}}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("parallel intersection = %d %s; want 404", rec.Code, rec.Body.String())
	}
}

func TestCrossTrack(t *testing.T) {
	rec := do(t, newRouter(), http.MethodPost, "/greatcircle/api/v1/crosstrack",
		`{"point": {"lat": 1, "lon": 0.5}, "start": {"lat": 0, "lon": 0}, "end": {"lat": 0, "lon": 1}}`)

	var c model.CrossTrackResult
	decodeBody(t, rec, &c)
	if math.Round(c.CrossTrack) != -111195 || math.Round(c.AlongTrack) != 55597 {
		t.Errorf("crosstrack = %+v", c)
	}
	if math.Abs(c.Location.Lat) > 1e-9 || math.Round(c.Location.Lon*1e6) != 500000 {
		t.Errorf("crosstrack location = %+v; want {0,0.5}", c.Location)
	}
}

func TestBadRequest(t *testing.T) {
	rec := do(t, newRouter(), http.MethodPost, "/greatcircle/api/v1/distance", `{"from":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d; want 400", rec.Code)
	}
}

func TestRoutes(t *testing.T) {
	rec := do(t, newRouter(), http.MethodGet, "/greatcircle/api/v1/routes", "")

	var rs []model.Route
	decodeBody(t, rec, &rs)
	if len(rs) != 2 || rs[0].Name != "equator" || len(rs[0].Legs) != 1 || math.Round(rs[0].Length) != 111195 {
		t.Errorf("routes = %+v", rs)
	}
}

func TestVessels(t *testing.T) {
	h := newRouter()

	rec := do(t, h, http.MethodPost, "/greatcircle/api/v1/vessels/v1/position",
		`{"route": "equator", "latlon": {"lat": 0.02, "lon": 0.5}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("position = %d %s", rec.Code, rec.Body.String())
	}
	var s fleet.Status
	decodeBody(t, rec, &s)
	if s.ID != "v1" || !s.OffCourse || s.Progress.Waypoint != "B" || s.UpdatedAt.IsZero() {
		t.Errorf("status = %+v", s)
	}

	rec = do(t, h, http.MethodGet, "/greatcircle/api/v1/vessels/v1", "")
	if rec.Code != http.StatusOK {
		t.Errorf("vessel = %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/greatcircle/api/v1/vessels", "")
	var statuses []fleet.Status
	decodeBody(t, rec, &statuses)
	if len(statuses) != 1 {
		t.Errorf("vessels = %+v", statuses)
	}

	if rec := do(t, h, http.MethodGet, "/greatcircle/api/v1/vessels/v2", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown vessel = %d; want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/greatcircle/api/v1/vessels/v1/position", `{"route": "nowhere", "latlon": {}}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route = %d; want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/greatcircle/api/v1/vessels/v1/position", `{"route": "meridian", "latlon": {}}`); rec.Code != http.StatusConflict {
		t.Errorf("route change = %d; want 409", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	h := newRouter()
	do(t, h, http.MethodGet, "/greatcircle/-/healthz", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "greatcircle_http_requests_total") {
		t.Errorf("metrics = %d, missing request counter", rec.Code)
	}
}

func TestGetIp(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-FORWARDED-FOR", "bogus, 10.0.0.7")
	if ip, err := getIp(req); err != nil || ip != "10.0.0.7" {
		t.Errorf("getIp() = %s, %v; want 10.0.0.7", ip, err)
	}

	req.Header.Set("X-REAL-IP", "192.168.1.2")
	if ip, _ := getIp(req); ip != "192.168.1.2" {
		t.Errorf("getIp() = %s; want 192.168.1.2", ip)
	}
}
