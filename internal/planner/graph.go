package planner

import "math"

// walkMinutes convierte una distancia en línea recta (km) a minutos de
// caminata. Primero corrige la distancia hacia la real por calles (no se
// camina en línea recta) y después aplica una penalización moderada para
// preferir el bus cuando existe una alternativa de tiempo comparable.
func walkMinutes(distKm float64, cfg Config) float64 {
	if distKm <= 0 {
		return 0
	}
	realKm := distKm * cfg.WalkDistanceFactor
	return (realKm / cfg.WalkSpeedKmh) * 60.0 * cfg.WalkPenaltyFactor
}

// buildGraph arma la estructura de adyacencia de una consulta: aristas de bus
// desde los tramos almacenados más tres familias de caminatas sintéticas
// (origen->paradas cercanas, parada<->parada dentro del radio de trasbordo,
// parada->destino).
func buildGraph(snap *Snapshot, origin, dest Coordinate, cfg Config, trace TraceFunc) (*Graph, error) {
	if snap == nil || len(snap.Points) == 0 {
		return nil, ErrNoPoints
	}

	g := &Graph{
		edges:     make(map[NodeID][]Edge),
		points:    make(map[NodeID]Point, len(snap.Points)+2),
		routeBase: make(map[int64]string, len(snap.Routes)),
		origin:    originNode,
		dest:      destNode,
	}
	for _, p := range snap.Points {
		g.points[stopNode(p.ID)] = p
	}
	g.points[originNode] = Point{Lat: origin.Lat, Lon: origin.Lon, Description: "Origen"}
	g.points[destNode] = Point{Lat: dest.Lat, Lon: dest.Lon, Description: "Destino"}

	// Aristas de bus: una por cada par consecutivo de paradas de cada
	// sentido, copiando el tiempo/distancia precalculado del tramo.
	busEdges := 0
	for _, r := range snap.Routes {
		base := BaseLineCode(r.LineCode)
		g.routeBase[r.ID] = base
		for i := 1; i < len(r.Stops); i++ {
			prev := r.Stops[i-1]
			curr := r.Stops[i]
			e := Edge{
				From:      stopNode(prev.PointID),
				To:        stopNode(curr.PointID),
				Time:      curr.Time,
				Distance:  curr.Distance,
				LineID:    r.LineID,
				LineCode:  r.LineCode,
				BaseCode:  base,
				LineName:  r.LineName,
				RouteID:   r.ID,
				Direction: r.Direction,
			}
			g.edges[e.From] = append(g.edges[e.From], e)
			busEdges++
		}
		trace("grafo.linea_ruta", map[string]interface{}{
			"linea_ruta": r.ID,
			"linea":      r.LineCode,
			"sentido":    r.Direction,
			"puntos":     len(r.Stops),
		})
	}
	if busEdges == 0 {
		return nil, ErrNoSegments
	}

	// Pool de salida: puntos con al menos una arista de bus saliente
	// (inicios reales posibles). Pool de bus: todo punto que aparece en
	// alguna arista de bus (candidatos a caminatas y trasbordos). Ambos
	// conservan el orden del snapshot para que la selección sea determinista.
	busIDs := make(map[int64]bool)
	for from, lst := range g.edges {
		busIDs[from.Stop] = true
		for _, e := range lst {
			busIDs[e.To.Stop] = true
		}
	}
	departurePool := make([]Point, 0, len(snap.Points))
	busPool := make([]Point, 0, len(busIDs))
	for _, p := range snap.Points {
		if _, ok := g.edges[stopNode(p.ID)]; ok {
			departurePool = append(departurePool, p)
		}
		if busIDs[p.ID] {
			busPool = append(busPool, p)
		}
	}

	// Caminatas origen -> paradas de salida más cercanas. El corte es solo
	// por número de vecinos, sin radio duro.
	originEdges := 0
	for _, p := range Nearest(origin.Lat, origin.Lon, departurePool, cfg.MaxOriginNeighbors) {
		d2 := squaredDistance(origin.Lat, origin.Lon, p.Lat, p.Lon)
		distKm := math.Sqrt(d2) * cfg.DegToKm
		g.edges[originNode] = append(g.edges[originNode], Edge{
			From:     originNode,
			To:       stopNode(p.ID),
			Time:     walkMinutes(distKm, cfg),
			Distance: distKm * cfg.WalkDistanceFactor,
			LineCode: "CAMINAR_ORIGEN",
			BaseCode: "CAMINAR",
			LineName: "Caminata desde origen",
			Walk:     true,
		})
		originEdges++
	}

	// Trasbordos caminando: par bidireccional por cada pareja de paradas de
	// bus dentro del radio.
	transferEdges := 0
	for i := 0; i < len(busPool); i++ {
		pi := busPool[i]
		for j := i + 1; j < len(busPool); j++ {
			pj := busPool[j]
			d2 := squaredDistance(pi.Lat, pi.Lon, pj.Lat, pj.Lon)
			if d2 > cfg.MaxTransferWalkD2 {
				continue
			}
			distKm := math.Sqrt(d2) * cfg.DegToKm
			forward := Edge{
				From:     stopNode(pi.ID),
				To:       stopNode(pj.ID),
				Time:     walkMinutes(distKm, cfg),
				Distance: distKm * cfg.WalkDistanceFactor,
				LineCode: "CAMINAR",
				BaseCode: "CAMINAR",
				LineName: "Caminata entre paradas",
				Walk:     true,
			}
			backward := forward
			backward.From, backward.To = forward.To, forward.From
			g.edges[forward.From] = append(g.edges[forward.From], forward)
			g.edges[backward.From] = append(g.edges[backward.From], backward)
			transferEdges += 2
		}
	}

	// Caminatas parada -> destino dentro del radio de caminata final.
	destEdges := 0
	for _, p := range busPool {
		d2 := squaredDistance(p.Lat, p.Lon, dest.Lat, dest.Lon)
		if d2 > cfg.MaxDestWalkD2 {
			continue
		}
		distKm := math.Sqrt(d2) * cfg.DegToKm
		g.edges[stopNode(p.ID)] = append(g.edges[stopNode(p.ID)], Edge{
			From:     stopNode(p.ID),
			To:       destNode,
			Time:     walkMinutes(distKm, cfg),
			Distance: distKm * cfg.WalkDistanceFactor,
			LineCode: "CAMINAR_DESTINO",
			BaseCode: "CAMINAR",
			LineName: "Caminata al destino",
			Walk:     true,
		})
		destEdges++
	}

	trace("grafo.aristas", map[string]interface{}{
		"bus":       busEdges,
		"origen":    originEdges,
		"trasbordo": transferEdges,
		"destino":   destEdges,
		"total":     busEdges + originEdges + transferEdges + destEdges,
	})
	return g, nil
}
