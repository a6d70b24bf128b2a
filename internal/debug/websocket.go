package debug

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// WebSocketHub maneja las conexiones WebSocket del dashboard de debugging
type WebSocketHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex
}

var Hub *WebSocketHub

func init() {
	Hub = &WebSocketHub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		clients:    make(map[*websocket.Conn]bool),
	}
	go Hub.run()
}

func (h *WebSocketHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("🔌 Dashboard conectado. Total clientes: %d", len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()
			log.Printf("🔌 Dashboard desconectado. Total clientes: %d", len(h.clients))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				err := client.WriteMessage(websocket.TextMessage, message)
				if err != nil {
					log.Printf("Error enviando mensaje al dashboard: %v", err)
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// HandleWebSocketFiber maneja las conexiones WebSocket de Fiber
func HandleWebSocketFiber(conn *websocket.Conn) {
	Hub.register <- conn

	defer func() {
		Hub.unregister <- conn
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

func (h *WebSocketHub) send(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		// Canal lleno, saltar mensaje
	}
}

func (h *WebSocketHub) hasClients() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients) > 0
}

// LogMessage representa un mensaje de log para el dashboard
type LogMessage struct {
	Type     string                 `json:"type"`
	Source   string                 `json:"source"`
	Level    string                 `json:"level"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SendLog envía un log al dashboard
func SendLog(source, level, message string, metadata map[string]interface{}) {
	if Hub == nil || !Hub.hasClients() {
		return
	}

	msg := LogMessage{
		Type:     "log",
		Source:   source,
		Level:    level,
		Message:  message,
		Metadata: metadata,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error al serializar log para dashboard: %v", err)
		return
	}
	Hub.send(data)
}

// PlannerEventMessage es un evento estructurado del motor de planificación
// (construcción del grafo o búsqueda), asociado a la petición que lo generó.
type PlannerEventMessage struct {
	Type      string                 `json:"type"`
	RequestID string                 `json:"request_id"`
	Event     string                 `json:"event"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// SendPlannerEvent envía un evento del planificador al dashboard
func SendPlannerEvent(requestID, event string, fields map[string]interface{}) {
	if Hub == nil || !Hub.hasClients() {
		return
	}

	msg := PlannerEventMessage{
		Type:      "planner",
		RequestID: requestID,
		Event:     event,
		Fields:    fields,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error al serializar evento del planificador: %v", err)
		return
	}
	Hub.send(data)
}

// ImportStatusMessage representa el avance de una importación de datos
type ImportStatusMessage struct {
	Type        string `json:"type"`
	Stage       string `json:"stage"`
	Lines       int    `json:"lines"`
	Points      int    `json:"points"`
	Routes      int    `json:"routes"`
	RoutePoints int    `json:"route_points"`
}

// SendImportStatus envía el avance de la importación al dashboard
func SendImportStatus(stage string, lines, points, routes, routePoints int) {
	if Hub == nil || !Hub.hasClients() {
		return
	}

	msg := ImportStatusMessage{
		Type:        "import_status",
		Stage:       stage,
		Lines:       lines,
		Points:      points,
		Routes:      routes,
		RoutePoints: routePoints,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error al serializar estado de importación: %v", err)
		return
	}
	Hub.send(data)
}
