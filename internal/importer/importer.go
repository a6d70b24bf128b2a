// Package importer carga el libro DatosLineas.xlsx (hojas Lineas, Puntos,
// LineaRuta y LineasPuntos) dentro de la base de datos, en una sola
// transacción. Reemplaza el contenido anterior completo: es la fuente de
// verdad de la red de líneas.
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yourorg/rutabus/internal/debug"
)

// Summary describe el resultado de una importación.
type Summary struct {
	Lines       int       `json:"lineas"`
	Points      int       `json:"puntos"`
	Routes      int       `json:"lineas_ruta"`
	RoutePoints int       `json:"lineas_puntos"`
	ImportedAt  time.Time `json:"imported_at"`
	Source      string    `json:"source"`
}

type lineRow struct {
	ID    int64
	Code  string
	Color string
}

type pointRow struct {
	ID          int64
	Lat         float64
	Lon         float64
	Description string
}

type routeRow struct {
	ID          int64
	LineID      int64
	Direction   int
	Description string
	Distance    float64
	Time        float64
}

type routePointRow struct {
	RouteID  int64
	PointID  int64
	Order    int
	Lat      float64
	Lon      float64
	Distance float64
	Time     float64
}

type dataset struct {
	lines       []lineRow
	points      []pointRow
	routes      []routeRow
	routePoints []routePointRow
}

// ImportFile abre el xlsx y vuelca su contenido en la base de datos.
func ImportFile(ctx context.Context, db *sql.DB, path string) (*Summary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("importer: abrir %s: %w", path, err)
	}
	defer f.Close()

	ds, err := parseWorkbook(f)
	if err != nil {
		return nil, err
	}
	summary, err := apply(ctx, db, ds)
	if err != nil {
		return nil, err
	}
	summary.Source = path
	return summary, nil
}

// parseWorkbook lee las cuatro hojas del libro a memoria.
func parseWorkbook(f *excelize.File) (*dataset, error) {
	ds := &dataset{}

	if err := eachRow(f, "Lineas", func(row rowReader) error {
		id, err := row.intCell("IdLinea")
		if err != nil {
			return err
		}
		code := row.strCell("NombreLinea")
		if code == "" {
			return fmt.Errorf("NombreLinea vacío")
		}
		color := row.strCell("ColorLinea")
		if color == "" {
			color = "#000000"
		}
		ds.lines = append(ds.lines, lineRow{ID: id, Code: code, Color: color})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, "Puntos", func(row rowReader) error {
		id, err := row.intCell("IdPunto")
		if err != nil {
			return err
		}
		lat, err := row.floatCell("Latitud")
		if err != nil {
			return err
		}
		lon, err := row.floatCell("Longitud")
		if err != nil {
			return err
		}
		ds.points = append(ds.points, pointRow{
			ID:          id,
			Lat:         lat,
			Lon:         lon,
			Description: row.strCell("Descripcion"),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, "LineaRuta", func(row rowReader) error {
		id, err := row.intCell("IdLineaRuta")
		if err != nil {
			return err
		}
		lineID, err := row.intCell("IdLinea")
		if err != nil {
			return err
		}
		direction, err := row.intCell("IdRuta") // 1 = salida, 2 = retorno
		if err != nil {
			return err
		}
		dist, _ := row.floatCell("Distancia")
		tm, _ := row.floatCell("Tiempo")
		ds.routes = append(ds.routes, routeRow{
			ID:          id,
			LineID:      lineID,
			Direction:   int(direction),
			Description: row.strCell("Descripcion"),
			Distance:    dist,
			Time:        tm,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, "LineasPuntos", func(row rowReader) error {
		routeID, err := row.intCell("IdLineaRuta")
		if err != nil {
			return err
		}
		pointID, err := row.intCell("IdPunto")
		if err != nil {
			return err
		}
		order, err := row.intCell("Orden")
		if err != nil {
			return err
		}
		lat, _ := row.floatCell("Latitud")
		lon, _ := row.floatCell("Longitud")
		dist, _ := row.floatCell("Distancia")
		tm, _ := row.floatCell("Tiempo")
		ds.routePoints = append(ds.routePoints, routePointRow{
			RouteID:  routeID,
			PointID:  pointID,
			Order:    int(order),
			Lat:      lat,
			Lon:      lon,
			Distance: dist,
			Time:     tm,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return ds, nil
}

// apply reemplaza el contenido de las tablas dentro de una transacción,
// limpiando en orden de foreign keys.
func apply(ctx context.Context, db *sql.DB, ds *dataset) (*Summary, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("importer: begin tx: %w", err)
	}
	defer tx.Rollback()

	log.Println("importer: limpiando datos anteriores...")
	for _, table := range []string{"linea_puntos", "linea_rutas", "puntos", "lineas"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return nil, fmt.Errorf("importer: limpiar %s: %w", table, err)
		}
	}

	debug.SendImportStatus("lineas", 0, 0, 0, 0)
	for _, l := range ds.lines {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO lineas (id, codigo, nombre, color) VALUES (?, ?, ?, ?)",
			l.ID, l.Code, l.Code, l.Color,
		); err != nil {
			return nil, fmt.Errorf("importer: insertar linea %s: %w", l.Code, err)
		}
	}

	debug.SendImportStatus("puntos", len(ds.lines), 0, 0, 0)
	for _, p := range ds.points {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO puntos (id, latitud, longitud, descripcion) VALUES (?, ?, ?, ?)",
			p.ID, p.Lat, p.Lon, p.Description,
		); err != nil {
			return nil, fmt.Errorf("importer: insertar punto %d: %w", p.ID, err)
		}
	}

	debug.SendImportStatus("lineas_ruta", len(ds.lines), len(ds.points), 0, 0)
	for _, r := range ds.routes {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO linea_rutas (id, linea_id, numero_ruta, descripcion, distancia, tiempo) VALUES (?, ?, ?, ?, ?, ?)",
			r.ID, r.LineID, r.Direction, r.Description, r.Distance, r.Time,
		); err != nil {
			return nil, fmt.Errorf("importer: insertar linea_ruta %d: %w", r.ID, err)
		}
	}

	debug.SendImportStatus("lineas_puntos", len(ds.lines), len(ds.points), len(ds.routes), 0)
	for _, rp := range ds.routePoints {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO linea_puntos (linea_ruta_id, punto_id, orden, latitud, longitud, distancia, tiempo) VALUES (?, ?, ?, ?, ?, ?, ?)",
			rp.RouteID, rp.PointID, rp.Order, rp.Lat, rp.Lon, rp.Distance, rp.Time,
		); err != nil {
			return nil, fmt.Errorf("importer: insertar linea_punto (ruta=%d orden=%d): %w", rp.RouteID, rp.Order, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("importer: commit: %w", err)
	}

	summary := &Summary{
		Lines:       len(ds.lines),
		Points:      len(ds.points),
		Routes:      len(ds.routes),
		RoutePoints: len(ds.routePoints),
		ImportedAt:  time.Now(),
	}
	debug.SendImportStatus("completado", summary.Lines, summary.Points, summary.Routes, summary.RoutePoints)
	log.Printf("importer: %d líneas, %d puntos, %d sentidos, %d paradas de ruta",
		summary.Lines, summary.Points, summary.Routes, summary.RoutePoints)
	return summary, nil
}

// ============================================================================
// Lectura de hojas: cabecera en la primera fila, acceso por nombre de columna
// ============================================================================

type rowReader struct {
	header map[string]int
	cells  []string
	sheet  string
	number int
}

func (r rowReader) strCell(column string) string {
	idx, ok := r.header[column]
	if !ok || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

func (r rowReader) intCell(column string) (int64, error) {
	raw := r.strCell(column)
	if raw == "" {
		return 0, fmt.Errorf("hoja %s fila %d: columna %s vacía", r.sheet, r.number, column)
	}
	// Excel suele exportar enteros como "12.0"
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("hoja %s fila %d: columna %s: %w", r.sheet, r.number, column, err)
	}
	return int64(v), nil
}

func (r rowReader) floatCell(column string) (float64, error) {
	raw := r.strCell(column)
	if raw == "" {
		return 0, fmt.Errorf("hoja %s fila %d: columna %s vacía", r.sheet, r.number, column)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("hoja %s fila %d: columna %s: %w", r.sheet, r.number, column, err)
	}
	return v, nil
}

// eachRow recorre las filas de datos de una hoja, saltando filas vacías.
func eachRow(f *excelize.File, sheet string, fn func(rowReader) error) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("importer: hoja %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("importer: hoja %s vacía", sheet)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}

	for i, cells := range rows[1:] {
		empty := true
		for _, c := range cells {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		if err := fn(rowReader{header: header, cells: cells, sheet: sheet, number: i + 2}); err != nil {
			return fmt.Errorf("importer: %w", err)
		}
	}
	return nil
}
