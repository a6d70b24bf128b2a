package planner

// Coordinate es una coordenada WGS84 en grados decimales.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Point es una parada real del sistema (tabla puntos).
type Point struct {
	ID          int64
	Lat         float64
	Lon         float64
	Description string
}

// RouteStop es una parada ordenada dentro de un sentido de línea.
// Time y Distance son el costo del tramo que llega a esta parada desde la
// anterior, tal como viene precalculado en linea_puntos (no se recalcula
// geométricamente).
type RouteStop struct {
	PointID  int64
	Lat      float64
	Lon      float64
	Order    int
	Distance float64 // km
	Time     float64 // minutos
}

// Route es un sentido (ida/vuelta) de una línea con sus paradas ordenadas.
type Route struct {
	ID        int64
	LineID    int64
	LineCode  string
	LineName  string
	Direction int
	Stops     []RouteStop
}

// Snapshot es la foto de solo lectura de la BD sobre la que se planifica.
// El planificador nunca la modifica, por lo que varias peticiones pueden
// compartir el mismo snapshot en paralelo.
type Snapshot struct {
	Points []Point
	Routes []Route
}

// NodeKind distingue paradas reales de los extremos virtuales de una consulta.
type NodeKind uint8

const (
	NodeStop NodeKind = iota
	NodeOrigin
	NodeDestination
)

// NodeID identifica un nodo del grafo. Los extremos virtuales van etiquetados
// por Kind en vez de usar IDs numéricos centinela, así no pueden chocar con
// datos reales. Existen solo durante una consulta.
type NodeID struct {
	Kind NodeKind
	Stop int64 // válido solo cuando Kind == NodeStop
}

func stopNode(id int64) NodeID { return NodeID{Kind: NodeStop, Stop: id} }

var (
	originNode = NodeID{Kind: NodeOrigin}
	destNode   = NodeID{Kind: NodeDestination}
)

// Edge es un arco dirigido del grafo multimodal. Las aristas de bus derivan
// 1:1 de pares consecutivos de paradas; las caminatas son sintéticas y llevan
// RouteID == 0 (el contexto de línea lo hereda el estado de la búsqueda, no
// la arista).
type Edge struct {
	From      NodeID
	To        NodeID
	Time      float64 // minutos
	Distance  float64 // km; en caminatas, distancia corregida por calles
	LineID    int64
	LineCode  string
	BaseCode  string
	LineName  string
	RouteID   int64
	Direction int
	Walk      bool
}

// Graph es la estructura de adyacencia de una sola consulta. Se reconstruye
// desde cero en cada petición y se descarta al terminar.
type Graph struct {
	edges     map[NodeID][]Edge
	points    map[NodeID]Point // incluye origen/destino virtuales
	routeBase map[int64]string // linea_ruta -> código base de su línea
	origin    NodeID
	dest      NodeID
}
