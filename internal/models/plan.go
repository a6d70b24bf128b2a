package models

// Coordinate es un par lat/lon en grados decimales.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlanRequest es el cuerpo aceptado por el endpoint de planificación.
type PlanRequest struct {
	Start Coordinate `json:"inicio"`
	End   Coordinate `json:"fin"`
}

// PlannedPoint es una parada de un itinerario planificado. TransferLine lleva
// el código de la línea a la que se trasborda en esta parada, o null si no
// hay trasbordo.
type PlannedPoint struct {
	Order        int     `json:"orden"`
	Latitude     float64 `json:"latitud"`
	Longitude    float64 `json:"longitud"`
	Description  string  `json:"descripcion"`
	LegDistance  float64 `json:"distancia_tramo"`
	CumDistance  float64 `json:"distancia_acumulada"`
	LegTime      float64 `json:"tiempo_tramo"`
	CumTime      float64 `json:"tiempo_acumulado"`
	TransferLine *string `json:"linea_trasbordo"`
}

// TripLine es una línea usada por el trayecto, con su sentido.
type TripLine struct {
	Code      string `json:"codigo"`
	Name      string `json:"nombre"`
	Direction int    `json:"sentido"`
}

// PlannedRoute es una alternativa completa de origen a destino.
type PlannedRoute struct {
	Lines         []TripLine     `json:"lineas"`
	Description   string         `json:"descripcion_ruta"`
	TotalDistance float64        `json:"distancia_total"`
	TotalTime     float64        `json:"tiempo_total"`
	Points        []PlannedPoint `json:"puntos"`
}

// PlanResponse devuelve las alternativas ordenadas por tiempo.
type PlanResponse struct {
	Routes []PlannedRoute `json:"rutas"`
}

// DetailResponse es la forma de error de los endpoints de rutas.
type DetailResponse struct {
	Detail string `json:"detail"`
}
