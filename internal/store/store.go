// Package store carga desde la base de datos los snapshots de solo lectura
// que consume el planificador, y resuelve las consultas de líneas y puntos
// de los endpoints informativos.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yourorg/rutabus/internal/models"
	"github.com/yourorg/rutabus/internal/planner"
)

// ErrNotFound se devuelve cuando una línea o un sentido no existe.
var ErrNotFound = errors.New("no encontrado")

// Store envuelve la conexión a la base de datos.
type Store struct {
	db *sql.DB
}

// New crea un Store sobre una conexión existente.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Snapshot lee todos los puntos y todos los sentidos de línea con sus paradas
// ordenadas. El resultado es inmutable para el planificador: varias consultas
// concurrentes pueden compartirlo.
func (s *Store) Snapshot(ctx context.Context) (*planner.Snapshot, error) {
	snap := &planner.Snapshot{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, latitud, longitud, descripcion
		FROM puntos
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: query puntos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p planner.Point
		if err := rows.Scan(&p.ID, &p.Lat, &p.Lon, &p.Description); err != nil {
			return nil, fmt.Errorf("store: scan punto: %w", err)
		}
		snap.Points = append(snap.Points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate puntos: %w", err)
	}

	routeRows, err := s.db.QueryContext(ctx, `
		SELECT lr.id, lr.linea_id, l.codigo, l.nombre, lr.numero_ruta
		FROM linea_rutas lr
		JOIN lineas l ON l.id = lr.linea_id
		ORDER BY lr.id`)
	if err != nil {
		return nil, fmt.Errorf("store: query linea_rutas: %w", err)
	}
	defer routeRows.Close()

	index := make(map[int64]int)
	for routeRows.Next() {
		var r planner.Route
		if err := routeRows.Scan(&r.ID, &r.LineID, &r.LineCode, &r.LineName, &r.Direction); err != nil {
			return nil, fmt.Errorf("store: scan linea_ruta: %w", err)
		}
		index[r.ID] = len(snap.Routes)
		snap.Routes = append(snap.Routes, r)
	}
	if err := routeRows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate linea_rutas: %w", err)
	}

	stopRows, err := s.db.QueryContext(ctx, `
		SELECT linea_ruta_id, punto_id, orden, latitud, longitud, distancia, tiempo
		FROM linea_puntos
		ORDER BY linea_ruta_id, orden`)
	if err != nil {
		return nil, fmt.Errorf("store: query linea_puntos: %w", err)
	}
	defer stopRows.Close()
	for stopRows.Next() {
		var routeID int64
		var st planner.RouteStop
		if err := stopRows.Scan(&routeID, &st.PointID, &st.Order, &st.Lat, &st.Lon, &st.Distance, &st.Time); err != nil {
			return nil, fmt.Errorf("store: scan linea_punto: %w", err)
		}
		if i, ok := index[routeID]; ok {
			snap.Routes[i].Stops = append(snap.Routes[i].Stops, st)
		}
	}
	if err := stopRows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate linea_puntos: %w", err)
	}

	return snap, nil
}

// Lines lista todas las líneas ordenadas por código.
func (s *Store) Lines(ctx context.Context) ([]models.Line, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, codigo, nombre, color
		FROM lineas
		ORDER BY codigo`)
	if err != nil {
		return nil, fmt.Errorf("store: query lineas: %w", err)
	}
	defer rows.Close()

	lines := make([]models.Line, 0)
	for rows.Next() {
		var l models.Line
		if err := rows.Scan(&l.ID, &l.Code, &l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("store: scan linea: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate lineas: %w", err)
	}
	return lines, nil
}

// RoutePoints devuelve los puntos ordenados de un sentido de una línea, con
// tiempo y distancia acumulados hasta cada parada.
func (s *Store) RoutePoints(ctx context.Context, code string, direction int) (*models.RouteWithPoints, error) {
	var (
		routeID  int64
		resp     models.RouteWithPoints
		lineName string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT lr.id, l.codigo, l.nombre, lr.descripcion, lr.distancia, lr.tiempo
		FROM linea_rutas lr
		JOIN lineas l ON l.id = lr.linea_id
		WHERE l.codigo = ? AND lr.numero_ruta = ?`,
		code, direction,
	).Scan(&routeID, &resp.LineCode, &lineName, &resp.Description, &resp.TotalDistance, &resp.TotalTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: query linea_ruta: %w", err)
	}
	resp.LineName = lineName
	resp.Direction = direction

	rows, err := s.db.QueryContext(ctx, `
		SELECT lp.orden, lp.latitud, lp.longitud, p.descripcion, lp.distancia, lp.tiempo
		FROM linea_puntos lp
		JOIN puntos p ON p.id = lp.punto_id
		WHERE lp.linea_ruta_id = ?
		ORDER BY lp.orden`,
		routeID)
	if err != nil {
		return nil, fmt.Errorf("store: query puntos de ruta: %w", err)
	}
	defer rows.Close()

	var cumTime, cumDist float64
	for rows.Next() {
		var p models.RoutePoint
		if err := rows.Scan(&p.Order, &p.Latitude, &p.Longitude, &p.Description, &p.LegDistance, &p.LegTime); err != nil {
			return nil, fmt.Errorf("store: scan punto de ruta: %w", err)
		}
		cumTime += p.LegTime
		cumDist += p.LegDistance
		p.CumTime = cumTime
		p.CumDistance = cumDist
		resp.Points = append(resp.Points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate puntos de ruta: %w", err)
	}
	return &resp, nil
}
