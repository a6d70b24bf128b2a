// Package planner implementa el motor de planificación de rutas: construye un
// grafo multimodal con los tramos de bus almacenados más caminatas sintéticas
// (al inicio, al final y entre paradas cercanas) y busca hasta K alternativas
// con un Dijkstra restringido por cantidad de trasbordos.
package planner

import (
	"context"
	"errors"
)

// Errores esperados del planificador. No son fallas del sistema: el handler
// los traduce a respuestas HTTP concretas.
var (
	ErrNoPoints   = errors.New("no hay puntos cargados en el sistema")
	ErrNoSegments = errors.New("no hay tramos cargados en el sistema")
	ErrNoRoute    = errors.New("no se encontró una ruta entre los puntos dentro del límite de trasbordos")
)

// Config agrupa las constantes del modelo de caminata y de la búsqueda.
type Config struct {
	DegToKm            float64 // aproximación: 1 grado ~ 111 km
	WalkSpeedKmh       float64
	WalkDistanceFactor float64 // línea recta -> distancia por calles
	WalkPenaltyFactor  float64 // >1 para preferir bus ante tiempos comparables
	TransferPenaltyMin float64 // minutos extra por trasbordo o cambio de sentido
	MaxTransferWalkD2  float64 // ~400 m, en grados²
	MaxDestWalkD2      float64 // ~1.5 km, en grados²
	MaxOriginNeighbors int
	MaxTransfers       int
	MaxRoutes          int // K alternativas a extraer
	MaxSearchSteps     int // 0 = sin presupuesto; agotarlo cuenta como no encontrado
}

// DefaultConfig devuelve los valores calibrados del sistema.
func DefaultConfig() Config {
	return Config{
		DegToKm:            111.0,
		WalkSpeedKmh:       5.0,
		WalkDistanceFactor: 1.4,
		WalkPenaltyFactor:  1.5,
		TransferPenaltyMin: 8.0,
		MaxTransferWalkD2:  1.5e-5,
		MaxDestWalkD2:      2e-4,
		MaxOriginNeighbors: 10,
		MaxTransfers:       2,
		MaxRoutes:          3,
	}
}

// Plan construye el grafo para una consulta y devuelve hasta K itinerarios
// ordenados por tiempo total. El snapshot es de solo lectura y el grafo vive
// únicamente durante esta llamada, por lo que peticiones concurrentes pueden
// planificar en paralelo sobre el mismo snapshot.
func Plan(ctx context.Context, snap *Snapshot, origin, dest Coordinate, cfg Config, trace TraceFunc) ([]Itinerary, error) {
	if trace == nil {
		trace = nopTrace
	}

	g, err := buildGraph(snap, origin, dest, cfg, trace)
	if err != nil {
		return nil, err
	}

	arrivals, prev, err := search(ctx, g, cfg, trace)
	if err != nil {
		return nil, err
	}

	itineraries := make([]Itinerary, 0, len(arrivals))
	for _, arr := range arrivals {
		itineraries = append(itineraries, reconstruct(g, prev, arr, cfg))
	}
	return itineraries, nil
}
