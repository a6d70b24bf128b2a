package planner

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
)

// Red de prueba: paradas separadas ~1.11 km (0.01 grados), fuera del radio de
// trasbordo caminando, con el origen a ~55 m de la primera parada y el destino
// a ~111 m de la última.

func singleLineSnapshot() *Snapshot {
	return &Snapshot{
		Points: []Point{
			{ID: 1, Lat: 0, Lon: 0, Description: "Parada 1"},
			{ID: 2, Lat: 0, Lon: 0.01, Description: "Parada 2"},
			{ID: 3, Lat: 0, Lon: 0.02, Description: "Parada 3"},
		},
		Routes: []Route{
			{ID: 1, LineID: 1, LineCode: "18", LineName: "Linea 18", Direction: 1, Stops: []RouteStop{
				{PointID: 1, Lat: 0, Lon: 0, Order: 1},
				{PointID: 2, Lat: 0, Lon: 0.01, Order: 2, Distance: 1.1, Time: 1},
				{PointID: 3, Lat: 0, Lon: 0.02, Order: 3, Distance: 1.1, Time: 1},
			}},
		},
	}
}

func twoLinesSnapshot() *Snapshot {
	snap := singleLineSnapshot()
	snap.Points = append(snap.Points,
		Point{ID: 4, Lat: 0, Lon: 0.03, Description: "Parada 4"},
		Point{ID: 5, Lat: 0, Lon: 0.04, Description: "Parada 5"},
	)
	snap.Routes = append(snap.Routes, Route{
		ID: 2, LineID: 2, LineCode: "210", LineName: "Linea 210", Direction: 1, Stops: []RouteStop{
			{PointID: 3, Lat: 0, Lon: 0.02, Order: 1},
			{PointID: 4, Lat: 0, Lon: 0.03, Order: 2, Distance: 1.1, Time: 1},
			{PointID: 5, Lat: 0, Lon: 0.04, Order: 3, Distance: 1.1, Time: 1},
		}},
	)
	return snap
}

var (
	testOrigin = Coordinate{Lat: 0.0005, Lon: 0}
)

func TestPlanExactStops(t *testing.T) {
	// Origen y destino exactamente sobre las paradas: las caminatas sintéticas
	// existen pero miden cero, y los totales son los del tramo de bus.
	snap := &Snapshot{
		Points: []Point{
			{ID: 1, Lat: 0, Lon: 0, Description: "S1"},
			{ID: 2, Lat: 0, Lon: 0.02, Description: "S2"},
		},
		Routes: []Route{
			{ID: 1, LineID: 1, LineCode: "18", LineName: "Linea 18", Direction: 1, Stops: []RouteStop{
				{PointID: 1, Lat: 0, Lon: 0, Order: 1},
				{PointID: 2, Lat: 0, Lon: 0.02, Order: 2, Distance: 2, Time: 5},
			}},
		},
	}

	itineraries, err := Plan(context.Background(), snap,
		Coordinate{Lat: 0, Lon: 0}, Coordinate{Lat: 0, Lon: 0.02}, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	it := itineraries[0]
	if it.Transfers != 0 {
		t.Errorf("trasbordos = %d, esperaba 0", it.Transfers)
	}
	if math.Abs(it.TotalTime-5) > 1e-9 {
		t.Errorf("tiempo total = %v, esperaba 5", it.TotalTime)
	}
	if math.Abs(it.TotalDistance-2) > 1e-9 {
		t.Errorf("distancia total = %v, esperaba 2", it.TotalDistance)
	}
}

func TestPlanWalkLegsAtBothEnds(t *testing.T) {
	// Origen a 0.3 km de la primera parada y destino a 0.3 km de la última:
	// el tiempo total es el tramo de bus más dos caminatas iguales.
	const walkDeg = 0.3 / 111.0
	snap := &Snapshot{
		Points: []Point{
			{ID: 1, Lat: 0, Lon: 0, Description: "S1"},
			{ID: 2, Lat: 0, Lon: 0.02, Description: "S2"},
		},
		Routes: []Route{
			{ID: 1, LineID: 1, LineCode: "18", LineName: "Linea 18", Direction: 1, Stops: []RouteStop{
				{PointID: 1, Lat: 0, Lon: 0, Order: 1},
				{PointID: 2, Lat: 0, Lon: 0.02, Order: 2, Distance: 2, Time: 5},
			}},
		},
	}
	cfg := DefaultConfig()

	itineraries, err := Plan(context.Background(), snap,
		Coordinate{Lat: walkDeg, Lon: 0}, Coordinate{Lat: walkDeg, Lon: 0.02}, cfg, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	it := itineraries[0]
	if it.Transfers != 0 {
		t.Errorf("trasbordos = %d, esperaba 0", it.Transfers)
	}
	wantTime := 5 + 2*walkMinutes(0.3, cfg)
	if math.Abs(it.TotalTime-wantTime) > 1e-6 {
		t.Errorf("tiempo total = %v, esperaba %v", it.TotalTime, wantTime)
	}
	first, last := it.Stops[1], it.Stops[len(it.Stops)-1]
	if first.LegTime <= 0 || last.LegTime <= 0 {
		t.Errorf("las caminatas de los extremos deben tener tiempo > 0: %v y %v",
			first.LegTime, last.LegTime)
	}
	wantDist := 2 + 2*0.3*cfg.WalkDistanceFactor
	if math.Abs(it.TotalDistance-wantDist) > 1e-6 {
		t.Errorf("distancia total = %v, esperaba %v", it.TotalDistance, wantDist)
	}
}

func TestPlanSingleLine(t *testing.T) {
	snap := singleLineSnapshot()
	dest := Coordinate{Lat: 0, Lon: 0.0201}

	itineraries, err := Plan(context.Background(), snap, testOrigin, dest, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(itineraries) == 0 {
		t.Fatal("esperaba al menos un itinerario")
	}

	it := itineraries[0]
	if it.Transfers != 0 {
		t.Errorf("trasbordos = %d, esperaba 0", it.Transfers)
	}
	if len(it.Lines) != 1 || it.Lines[0].Code != "18" || it.Lines[0].Direction != 1 {
		t.Errorf("líneas inesperadas: %+v", it.Lines)
	}
	if len(it.Stops) != 5 {
		t.Fatalf("paradas = %d, esperaba 5 (origen, 3 paradas, destino)", len(it.Stops))
	}
	want := "Ruta desde Origen hasta Destino, utilizando la línea 18 y como máximo 2 trasbordos."
	if it.Description != want {
		t.Errorf("descripción = %q, esperaba %q", it.Description, want)
	}
	for i, s := range it.Stops {
		if s.Order != i+1 {
			t.Errorf("parada %d: orden = %d", i, s.Order)
		}
		if s.TransferLine != "" {
			t.Errorf("parada %d: linea_trasbordo = %q, no esperaba trasbordos", i, s.TransferLine)
		}
	}
	last := it.Stops[len(it.Stops)-1]
	if math.Abs(last.CumTime-it.TotalTime) > 1e-9 {
		t.Errorf("tiempo acumulado final %v != tiempo total %v", last.CumTime, it.TotalTime)
	}
	if math.Abs(last.CumDistance-it.TotalDistance) > 1e-9 {
		t.Errorf("distancia acumulada final %v != distancia total %v", last.CumDistance, it.TotalDistance)
	}
}

func TestPlanOffersWalkingAlternative(t *testing.T) {
	// La Parada 2 queda dentro del radio de caminata final: además del bus
	// existe una alternativa a pie (más lenta).
	snap := singleLineSnapshot()
	dest := Coordinate{Lat: 0, Lon: 0.0201}

	itineraries, err := Plan(context.Background(), snap, testOrigin, dest, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(itineraries) != 2 {
		t.Fatalf("alternativas = %d, esperaba 2 (bus y a pie)", len(itineraries))
	}
	if itineraries[0].TotalTime >= itineraries[1].TotalTime {
		t.Errorf("la primera alternativa debe ser la más rápida: %v >= %v",
			itineraries[0].TotalTime, itineraries[1].TotalTime)
	}
	walk := itineraries[1]
	if len(walk.Lines) != 0 {
		t.Errorf("la alternativa a pie no debe usar líneas: %+v", walk.Lines)
	}
	wantDesc := "Ruta desde Origen hasta Destino, sin utilizar líneas y como máximo 2 trasbordos."
	if walk.Description != wantDesc {
		t.Errorf("descripción = %q, esperaba %q", walk.Description, wantDesc)
	}
}

func TestPlanTransferBetweenLines(t *testing.T) {
	snap := twoLinesSnapshot()
	dest := Coordinate{Lat: 0, Lon: 0.0401}

	itineraries, err := Plan(context.Background(), snap, testOrigin, dest, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	it := itineraries[0]
	if it.Transfers != 1 {
		t.Fatalf("trasbordos = %d, esperaba 1", it.Transfers)
	}
	if len(it.Lines) != 2 || it.Lines[0].Code != "18" || it.Lines[1].Code != "210" {
		t.Fatalf("líneas inesperadas: %+v", it.Lines)
	}
	want := "Ruta desde Origen hasta Destino, utilizando las líneas 18 y 210 y como máximo 2 trasbordos."
	if it.Description != want {
		t.Errorf("descripción = %q, esperaba %q", it.Description, want)
	}

	// El trasbordo se marca en la primera parada alcanzada con la línea nueva.
	if len(it.Stops) != 7 {
		t.Fatalf("paradas = %d, esperaba 7", len(it.Stops))
	}
	for i, s := range it.Stops {
		switch i {
		case 4: // Parada 4: llegó en la 210 viniendo de la 18
			if s.TransferLine != "210" {
				t.Errorf("parada %d: linea_trasbordo = %q, esperaba \"210\"", i, s.TransferLine)
			}
		default:
			if s.TransferLine != "" {
				t.Errorf("parada %d: linea_trasbordo = %q, esperaba vacío", i, s.TransferLine)
			}
		}
	}
}

func TestPlanDirectionChangeDoesNotCountTransfer(t *testing.T) {
	// Dos sentidos de la misma línea encadenados: paga penalización de tiempo
	// en la búsqueda pero no consume trasbordo ni se marca en las paradas.
	snap := &Snapshot{
		Points: []Point{
			{ID: 1, Lat: 0, Lon: 0, Description: "X1"},
			{ID: 2, Lat: 0, Lon: 0.01, Description: "X2"},
			{ID: 3, Lat: 0.01, Lon: 0.01, Description: "X3"},
		},
		Routes: []Route{
			{ID: 1, LineID: 1, LineCode: "18", LineName: "Linea 18", Direction: 1, Stops: []RouteStop{
				{PointID: 1, Lat: 0, Lon: 0, Order: 1},
				{PointID: 2, Lat: 0, Lon: 0.01, Order: 2, Distance: 1.1, Time: 1},
			}},
			{ID: 2, LineID: 1, LineCode: "18", LineName: "Linea 18", Direction: 2, Stops: []RouteStop{
				{PointID: 2, Lat: 0, Lon: 0.01, Order: 1},
				{PointID: 3, Lat: 0.01, Lon: 0.01, Order: 2, Distance: 1.1, Time: 1},
			}},
		},
	}
	dest := Coordinate{Lat: 0.0101, Lon: 0.01}

	itineraries, err := Plan(context.Background(), snap, testOrigin, dest, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	it := itineraries[0]
	if it.Transfers != 0 {
		t.Errorf("trasbordos = %d, esperaba 0 (cambio de sentido)", it.Transfers)
	}
	if len(it.Lines) != 2 {
		t.Fatalf("usos de línea = %d, esperaba 2 (un uso por sentido)", len(it.Lines))
	}
	if it.Lines[0].Direction != 1 || it.Lines[1].Direction != 2 {
		t.Errorf("sentidos inesperados: %+v", it.Lines)
	}
	want := "Ruta desde Origen hasta Destino, utilizando la línea 18 y como máximo 2 trasbordos."
	if it.Description != want {
		t.Errorf("descripción = %q, esperaba %q", it.Description, want)
	}
	for i, s := range it.Stops {
		if s.TransferLine != "" {
			t.Errorf("parada %d: linea_trasbordo = %q, el cambio de sentido no se marca", i, s.TransferLine)
		}
	}
}

func TestPlanTransferCap(t *testing.T) {
	// Cadena de cuatro líneas distintas: llegar exige tres trasbordos. Con el
	// límite por defecto (2) no hay ruta; con límite 3 sí.
	snap := &Snapshot{
		Points: []Point{
			{ID: 1, Lat: 0, Lon: 0},
			{ID: 2, Lat: 0, Lon: 0.01},
			{ID: 3, Lat: 0, Lon: 0.02},
			{ID: 4, Lat: 0, Lon: 0.03},
			{ID: 5, Lat: 0, Lon: 0.04},
			{ID: 6, Lat: 0, Lon: 0.05},
		},
		Routes: []Route{
			{ID: 1, LineID: 1, LineCode: "L1", Direction: 1, Stops: []RouteStop{
				{PointID: 1, Lat: 0, Lon: 0, Order: 1},
				{PointID: 2, Lat: 0, Lon: 0.01, Order: 2, Distance: 1.1, Time: 1},
			}},
			{ID: 2, LineID: 2, LineCode: "L2", Direction: 1, Stops: []RouteStop{
				{PointID: 2, Lat: 0, Lon: 0.01, Order: 1},
				{PointID: 3, Lat: 0, Lon: 0.02, Order: 2, Distance: 1.1, Time: 1},
			}},
			{ID: 3, LineID: 3, LineCode: "L3", Direction: 1, Stops: []RouteStop{
				{PointID: 3, Lat: 0, Lon: 0.02, Order: 1},
				{PointID: 4, Lat: 0, Lon: 0.03, Order: 2, Distance: 1.1, Time: 1},
			}},
			{ID: 4, LineID: 4, LineCode: "L4", Direction: 1, Stops: []RouteStop{
				{PointID: 4, Lat: 0, Lon: 0.03, Order: 1},
				{PointID: 5, Lat: 0, Lon: 0.04, Order: 2, Distance: 1.1, Time: 1},
				{PointID: 6, Lat: 0, Lon: 0.05, Order: 3, Distance: 1.1, Time: 1},
			}},
		},
	}
	dest := Coordinate{Lat: 0, Lon: 0.0501}

	cfg := DefaultConfig()
	// Solo la parada más cercana al origen, para forzar la cadena completa.
	cfg.MaxOriginNeighbors = 1

	_, err := Plan(context.Background(), snap, testOrigin, dest, cfg, nil)
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("con 2 trasbordos máximo: err = %v, esperaba ErrNoRoute", err)
	}

	cfg.MaxTransfers = 3
	itineraries, err := Plan(context.Background(), snap, testOrigin, dest, cfg, nil)
	if err != nil {
		t.Fatalf("con 3 trasbordos máximo: %v", err)
	}
	if itineraries[0].Transfers != 3 {
		t.Errorf("trasbordos = %d, esperaba 3", itineraries[0].Transfers)
	}
}

func TestPlanNoRouteToFarDestination(t *testing.T) {
	snap := singleLineSnapshot()
	dest := Coordinate{Lat: 10, Lon: 10}
	_, err := Plan(context.Background(), snap, testOrigin, dest, DefaultConfig(), nil)
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("err = %v, esperaba ErrNoRoute", err)
	}
}

func TestPlanEmptyData(t *testing.T) {
	dest := Coordinate{Lat: 0, Lon: 0.02}
	if _, err := Plan(context.Background(), &Snapshot{}, testOrigin, dest, DefaultConfig(), nil); !errors.Is(err, ErrNoPoints) {
		t.Errorf("sin puntos: err = %v, esperaba ErrNoPoints", err)
	}

	snap := &Snapshot{Points: []Point{{ID: 1}}}
	if _, err := Plan(context.Background(), snap, testOrigin, dest, DefaultConfig(), nil); !errors.Is(err, ErrNoSegments) {
		t.Errorf("sin tramos: err = %v, esperaba ErrNoSegments", err)
	}
}

func TestPlanDeterministic(t *testing.T) {
	snap := twoLinesSnapshot()
	dest := Coordinate{Lat: 0, Lon: 0.0401}
	cfg := DefaultConfig()

	first, err := Plan(context.Background(), snap, testOrigin, dest, cfg, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Plan(context.Background(), snap, testOrigin, dest, cfg, nil)
		if err != nil {
			t.Fatalf("Plan (repetición %d): %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("resultado no determinista en la repetición %d", i)
		}
	}
}

func TestPlanTotalsMatchLegs(t *testing.T) {
	snap := twoLinesSnapshot()
	dest := Coordinate{Lat: 0, Lon: 0.0401}

	itineraries, err := Plan(context.Background(), snap, testOrigin, dest, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for n, it := range itineraries {
		var sumTime, sumDist float64
		for _, s := range it.Stops {
			sumTime += s.LegTime
			sumDist += s.LegDistance
		}
		if math.Abs(sumTime-it.TotalTime) > 1e-9 {
			t.Errorf("itinerario %d: suma de tramos %v != tiempo total %v", n, sumTime, it.TotalTime)
		}
		if math.Abs(sumDist-it.TotalDistance) > 1e-9 {
			t.Errorf("itinerario %d: suma de tramos %v != distancia total %v", n, sumDist, it.TotalDistance)
		}
		for i := 1; i < len(it.Stops); i++ {
			if it.Stops[i].CumTime < it.Stops[i-1].CumTime {
				t.Errorf("itinerario %d: tiempo acumulado decrece en la parada %d", n, i)
			}
		}
	}
}

func TestPlanSearchBudget(t *testing.T) {
	snap := singleLineSnapshot()
	dest := Coordinate{Lat: 0, Lon: 0.0201}
	cfg := DefaultConfig()
	cfg.MaxSearchSteps = 1

	_, err := Plan(context.Background(), snap, testOrigin, dest, cfg, nil)
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("presupuesto agotado: err = %v, esperaba ErrNoRoute", err)
	}
}

func TestPlanCancelledContext(t *testing.T) {
	snap := singleLineSnapshot()
	dest := Coordinate{Lat: 0, Lon: 0.0201}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Plan(ctx, snap, testOrigin, dest, DefaultConfig(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, esperaba context.Canceled", err)
	}
}

func TestPlanTraceEvents(t *testing.T) {
	snap := singleLineSnapshot()
	dest := Coordinate{Lat: 0, Lon: 0.0201}

	var events []string
	trace := func(event string, fields map[string]interface{}) {
		events = append(events, event)
	}
	if _, err := Plan(context.Background(), snap, testOrigin, dest, DefaultConfig(), trace); err != nil {
		t.Fatalf("Plan: %v", err)
	}

	seen := make(map[string]bool)
	for _, e := range events {
		seen[e] = true
	}
	for _, want := range []string{"grafo.linea_ruta", "grafo.aristas", "dijkstra.destino", "dijkstra.fin"} {
		if !seen[want] {
			t.Errorf("falta el evento de traza %q (eventos: %v)", want, events)
		}
	}
}
