package planner

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// StopVisit es una parada del itinerario con sus acumulados de tiempo y
// distancia. TransferLine lleva el código de la línea a la que se trasborda
// en esta parada, o vacío si no hay trasbordo real aquí.
type StopVisit struct {
	Order        int
	Lat          float64
	Lon          float64
	Description  string
	LegDistance  float64
	CumDistance  float64
	LegTime      float64
	CumTime      float64
	TransferLine string
}

// LineUse es una línea usada por el itinerario, con su sentido.
type LineUse struct {
	LineID    int64
	Code      string
	Name      string
	Direction int
}

// Itinerary es una alternativa completa reconstruida de origen a destino.
type Itinerary struct {
	Lines         []LineUse
	Description   string
	TotalTime     float64
	TotalDistance float64
	Transfers     int
	Stops         []StopVisit
}

// reconstruct camina la cadena de predecesores desde la llegada hasta el
// origen, la invierte y emite las paradas con tramos y acumulados.
func reconstruct(g *Graph, prev map[state]step, arr arrival, cfg Config) Itinerary {
	states := []state{arr.st}
	var legs []Edge
	st := arr.st
	for {
		sp, ok := prev[st]
		if !ok {
			break
		}
		legs = append(legs, sp.edge)
		states = append(states, sp.prev)
		st = sp.prev
	}
	slices.Reverse(states)
	slices.Reverse(legs)

	// Marcar trasbordos en paradas intermedias: cambió la linea_ruta, la
	// arista entrante es de bus y el código base es distinto. Los cambios de
	// sentido no se marcan.
	n := len(states)
	flags := make([]string, n)
	for i := 1; i < n-1; i++ {
		prevRoute := states[i-1].route
		currRoute := states[i].route
		if prevRoute == 0 || currRoute == 0 || prevRoute == currRoute {
			continue
		}
		in := legs[i-1]
		if in.Walk {
			continue
		}
		if pb := g.routeBase[prevRoute]; pb != "" && in.BaseCode != "" && pb != in.BaseCode {
			flags[i] = in.LineCode
		}
	}

	var cumTime, cumDist float64
	stops := make([]StopVisit, 0, n)
	for i, s := range states {
		p := g.points[s.node]
		v := StopVisit{
			Order:        i + 1,
			Lat:          p.Lat,
			Lon:          p.Lon,
			Description:  p.Description,
			TransferLine: flags[i],
		}
		if i > 0 {
			leg := legs[i-1]
			cumTime += leg.Time
			cumDist += leg.Distance
			v.LegTime = leg.Time
			v.LegDistance = leg.Distance
		}
		v.CumTime = cumTime
		v.CumDistance = cumDist
		stops = append(stops, v)
	}

	// Líneas usadas por (línea, sentido), en orden de primer uso.
	var lines []LineUse
	seen := make(map[[2]int64]bool)
	for _, leg := range legs {
		if leg.Walk {
			continue
		}
		key := [2]int64{leg.LineID, int64(leg.Direction)}
		if seen[key] {
			continue
		}
		seen[key] = true
		lines = append(lines, LineUse{
			LineID:    leg.LineID,
			Code:      leg.LineCode,
			Name:      leg.LineName,
			Direction: leg.Direction,
		})
	}

	return Itinerary{
		Lines:         lines,
		Description:   describeItinerary(stops, lines, cfg.MaxTransfers),
		TotalTime:     cumTime,
		TotalDistance: cumDist,
		Transfers:     arr.st.transfers,
		Stops:         stops,
	}
}

func describeStop(v StopVisit) string {
	if v.Description != "" {
		return v.Description
	}
	return strconv.FormatFloat(v.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(v.Lon, 'f', -1, 64)
}

// describeItinerary arma el resumen textual enumerando cada línea una sola
// vez, sin importar el sentido.
func describeItinerary(stops []StopVisit, lines []LineUse, maxTransfers int) string {
	var uniques []LineUse
	seen := make(map[int64]bool)
	for _, l := range lines {
		if seen[l.LineID] {
			continue
		}
		seen[l.LineID] = true
		uniques = append(uniques, l)
	}

	var usingText string
	switch {
	case len(uniques) == 0:
		usingText = "sin utilizar líneas"
	case len(uniques) == 1:
		usingText = "utilizando la línea " + uniques[0].Code
	default:
		codes := make([]string, len(uniques))
		for i, l := range uniques {
			codes[i] = l.Code
		}
		usingText = "utilizando las líneas " +
			strings.Join(codes[:len(codes)-1], ", ") + " y " + codes[len(codes)-1]
	}

	return fmt.Sprintf("Ruta desde %s hasta %s, %s y como máximo %d trasbordos.",
		describeStop(stops[0]), describeStop(stops[len(stops)-1]), usingText, maxTransfers)
}
