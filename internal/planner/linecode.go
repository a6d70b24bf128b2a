package planner

import "strings"

// Sufijos que indican sentido, en orden fijo de prioridad.
var directionSuffixes = []string{" IDA", " VUELTA", " RETORNO", " A", " B", "-IDA", "-VUELTA"}

// BaseLineCode extrae el código base de una línea quitando sufijos de
// sentido: "18" -> "18", "18 IDA" -> "18", "207-VUELTA" -> "207".
// El recorte se repite hasta que ningún sufijo aplique, así la función es
// idempotente. Se usa para distinguir un trasbordo real (cambia el código
// base) de un simple cambio de sentido en la misma línea.
func BaseLineCode(code string) string {
	base := strings.ToUpper(strings.TrimSpace(code))
	for {
		stripped := false
		for _, suffix := range directionSuffixes {
			if strings.HasSuffix(base, suffix) {
				base = strings.TrimSpace(strings.TrimSuffix(base, suffix))
				stripped = true
			}
		}
		if !stripped {
			return base
		}
	}
}
