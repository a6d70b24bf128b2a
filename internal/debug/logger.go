package debug

import (
	"log"
	"os"
)

var enabled = false

func init() {
	// Leer la variable de entorno RUTABUS_DEBUG_DASHBOARD
	enabled = os.Getenv("RUTABUS_DEBUG_DASHBOARD") == "true"
	if enabled {
		log.Println("🐛 Debug Dashboard habilitado")
	}
}

// IsEnabled retorna si el dashboard de debugging está habilitado
func IsEnabled() bool {
	return enabled
}

// LogDebug envía un log de nivel debug al dashboard
func LogDebug(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "debug", message, metadata)
}

// LogInfo envía un log de nivel info al dashboard
func LogInfo(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "info", message, metadata)
}

// LogWarn envía un log de nivel warn al dashboard
func LogWarn(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "warn", message, metadata)
}

// LogError envía un log de nivel error al dashboard
func LogError(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "error", message, metadata)
}

// PlannerTrace devuelve el callback de traza que el handler de planificación
// conecta al motor. Cada evento sale por el canal lateral del dashboard,
// etiquetado con el id de la petición; con el dashboard apagado el callback
// no hace nada.
func PlannerTrace(requestID string) func(event string, fields map[string]interface{}) {
	return func(event string, fields map[string]interface{}) {
		if !enabled {
			return
		}
		SendPlannerEvent(requestID, event, fields)
	}
}
