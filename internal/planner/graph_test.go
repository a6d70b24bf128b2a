package planner

import (
	"math"
	"testing"
)

func TestWalkMinutes(t *testing.T) {
	cfg := DefaultConfig()

	// 1 km en línea recta: 1.4 km reales a 5 km/h son 16.8 min, por 1.5 de
	// penalización da 25.2 min.
	if got := walkMinutes(1.0, cfg); math.Abs(got-25.2) > 1e-9 {
		t.Errorf("walkMinutes(1.0) = %v, esperaba 25.2", got)
	}
	if got := walkMinutes(0, cfg); got != 0 {
		t.Errorf("walkMinutes(0) = %v, esperaba 0", got)
	}
	if got := walkMinutes(-3, cfg); got != 0 {
		t.Errorf("walkMinutes(-3) = %v, esperaba 0", got)
	}
}

func TestBuildGraphEmptySnapshot(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := buildGraph(nil, Coordinate{}, Coordinate{}, cfg, nopTrace); err != ErrNoPoints {
		t.Errorf("snapshot nil: err = %v, esperaba ErrNoPoints", err)
	}
	if _, err := buildGraph(&Snapshot{}, Coordinate{}, Coordinate{}, cfg, nopTrace); err != ErrNoPoints {
		t.Errorf("snapshot vacío: err = %v, esperaba ErrNoPoints", err)
	}
}

func TestBuildGraphNoSegments(t *testing.T) {
	cfg := DefaultConfig()
	// Hay puntos pero ningún sentido con al menos dos paradas.
	snap := &Snapshot{
		Points: []Point{{ID: 1, Lat: 0, Lon: 0}},
		Routes: []Route{{ID: 1, LineID: 1, LineCode: "18", Stops: []RouteStop{
			{PointID: 1, Order: 1},
		}}},
	}
	if _, err := buildGraph(snap, Coordinate{}, Coordinate{Lat: 1, Lon: 1}, cfg, nopTrace); err != ErrNoSegments {
		t.Errorf("err = %v, esperaba ErrNoSegments", err)
	}
}

func TestBuildGraphEdgeFamilies(t *testing.T) {
	cfg := DefaultConfig()
	// Dos paradas de la línea 18 y una tercera parada de la 210 a 111 m de la
	// segunda (dentro del radio de trasbordo caminando).
	snap := &Snapshot{
		Points: []Point{
			{ID: 1, Lat: 0, Lon: 0, Description: "A"},
			{ID: 2, Lat: 0, Lon: 0.01, Description: "B"},
			{ID: 3, Lat: 0.001, Lon: 0.01, Description: "C"},
			{ID: 4, Lat: 0.001, Lon: 0.02, Description: "D"},
		},
		Routes: []Route{
			{ID: 1, LineID: 1, LineCode: "18", LineName: "Linea 18", Direction: 1, Stops: []RouteStop{
				{PointID: 1, Lat: 0, Lon: 0, Order: 1},
				{PointID: 2, Lat: 0, Lon: 0.01, Order: 2, Distance: 1.1, Time: 2},
			}},
			{ID: 2, LineID: 2, LineCode: "210", LineName: "Linea 210", Direction: 1, Stops: []RouteStop{
				{PointID: 3, Lat: 0.001, Lon: 0.01, Order: 1},
				{PointID: 4, Lat: 0.001, Lon: 0.02, Order: 2, Distance: 1.1, Time: 2},
			}},
		},
	}
	origin := Coordinate{Lat: 0.0005, Lon: 0}
	dest := Coordinate{Lat: 0.001, Lon: 0.021}

	g, err := buildGraph(snap, origin, dest, cfg, nopTrace)
	if err != nil {
		t.Fatalf("buildGraph: %v", err)
	}

	// Caminatas de origen: hacia las dos paradas con salida de bus (1 y 3).
	if got := len(g.edges[originNode]); got != 2 {
		t.Errorf("aristas de origen = %d, esperaba 2", got)
	}
	for _, e := range g.edges[originNode] {
		if !e.Walk || e.LineCode != "CAMINAR_ORIGEN" || e.BaseCode != "CAMINAR" {
			t.Errorf("arista de origen mal formada: %+v", e)
		}
	}

	// Trasbordo caminando: B <-> C están a ~111 m; debe existir el par.
	foundBC, foundCB := false, false
	for _, e := range g.edges[stopNode(2)] {
		if e.To == stopNode(3) && e.Walk {
			foundBC = true
		}
	}
	for _, e := range g.edges[stopNode(3)] {
		if e.To == stopNode(2) && e.Walk {
			foundCB = true
		}
	}
	if !foundBC || !foundCB {
		t.Errorf("falta el par de trasbordo caminando B<->C (B->C=%v, C->B=%v)", foundBC, foundCB)
	}

	// Caminata al destino: D está a ~111 m del destino.
	foundDest := false
	for _, e := range g.edges[stopNode(4)] {
		if e.To == destNode && e.LineCode == "CAMINAR_DESTINO" {
			foundDest = true
			// Distancia corregida por calles, no en línea recta.
			straight := math.Sqrt(squaredDistance(0.001, 0.02, dest.Lat, dest.Lon)) * cfg.DegToKm
			if math.Abs(e.Distance-straight*cfg.WalkDistanceFactor) > 1e-9 {
				t.Errorf("distancia de caminata al destino = %v, esperaba %v", e.Distance, straight*cfg.WalkDistanceFactor)
			}
		}
	}
	if !foundDest {
		t.Error("falta la caminata parada D -> destino")
	}

	// A está fuera del radio de destino: no debe tener caminata final.
	for _, e := range g.edges[stopNode(1)] {
		if e.To == destNode {
			t.Error("la parada A no debería alcanzar el destino caminando")
		}
	}
}
