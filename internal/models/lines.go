package models

// Line representa una línea de microbús.
type Line struct {
	ID    int64  `json:"id"`
	Code  string `json:"codigo"`
	Name  string `json:"nombre"`
	Color string `json:"color"`
}

// RoutePoint es una parada de un sentido con tiempo y distancia del tramo y
// acumulados hasta ella.
type RoutePoint struct {
	Order       int     `json:"orden"`
	Latitude    float64 `json:"latitud"`
	Longitude   float64 `json:"longitud"`
	Description string  `json:"descripcion"`
	LegDistance float64 `json:"distancia_tramo"`
	CumDistance float64 `json:"distancia_acumulada"`
	LegTime     float64 `json:"tiempo_tramo"`
	CumTime     float64 `json:"tiempo_acumulado"`
}

// RouteWithPoints es la respuesta de los puntos de una línea por sentido.
type RouteWithPoints struct {
	LineCode      string       `json:"linea_codigo"`
	LineName      string       `json:"linea_nombre"`
	Direction     int          `json:"sentido"`
	Description   string       `json:"descripcion_ruta"`
	TotalDistance float64      `json:"distancia_total"`
	TotalTime     float64      `json:"tiempo_total"`
	Points        []RoutePoint `json:"puntos"`
}
