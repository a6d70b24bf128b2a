package planner

import (
	"container/heap"
	"context"
)

// state es el espacio de búsqueda aumentado: posición × sentido de línea
// activo × trasbordos acumulados. route == 0 significa que todavía no se ha
// subido a ninguna línea.
type state struct {
	node      NodeID
	route     int64
	transfers int
}

type arrival struct {
	st   state
	cost float64
}

type step struct {
	prev state
	edge Edge
}

// pqItem lleva un número de secuencia de inserción como desempate: con costos
// iguales gana el que entró antes, así la búsqueda es determinista.
type pqItem struct {
	cost float64
	seq  int
	st   state
}

type pqueue []pqItem

func (q pqueue) Len() int { return len(q) }
func (q pqueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}
func (q pqueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pqueue) Push(x interface{}) { *q = append(*q, x.(pqItem)) }
func (q *pqueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// search corre Dijkstra sobre el espacio de estados aumentado y extrae hasta
// K llegadas al destino en orden de costo creciente. El destino es sumidero:
// al sacarlo de la cola se registra la llegada y no se expande. Estados que
// difieren solo en (línea activa, trasbordos) cuentan como llegadas
// distintas; no se deduplican caminos geométricamente iguales.
func search(ctx context.Context, g *Graph, cfg Config, trace TraceFunc) ([]arrival, map[state]step, error) {
	dist := make(map[state]float64)
	prev := make(map[state]step)

	start := state{node: g.origin}
	dist[start] = 0

	pq := &pqueue{}
	seq := 0
	push := func(st state, cost float64) {
		heap.Push(pq, pqItem{cost: cost, seq: seq, st: st})
		seq++
	}
	push(start, 0)

	var arrivals []arrival
	steps := 0

	for pq.Len() > 0 && len(arrivals) < cfg.MaxRoutes {
		if steps%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		if cfg.MaxSearchSteps > 0 && steps >= cfg.MaxSearchSteps {
			trace("dijkstra.presupuesto_agotado", map[string]interface{}{"pasos": steps})
			break
		}
		steps++

		it := heap.Pop(pq).(pqItem)
		st, cost := it.st, it.cost

		// Entrada desactualizada: ya se relajó este estado con costo menor.
		if best, ok := dist[st]; ok && cost > best {
			continue
		}

		if st.node == g.dest {
			arrivals = append(arrivals, arrival{st: st, cost: cost})
			trace("dijkstra.destino", map[string]interface{}{
				"numero":     len(arrivals),
				"costo":      cost,
				"trasbordos": st.transfers,
			})
			continue
		}

		for _, e := range g.edges[st.node] {
			next, penalty, ok := transition(g, st, e, cfg, trace)
			if !ok {
				continue
			}
			newCost := cost + e.Time + penalty
			if best, seen := dist[next]; !seen || newCost < best {
				dist[next] = newCost
				prev[next] = step{prev: st, edge: e}
				push(next, newCost)
			}
		}
	}

	trace("dijkstra.fin", map[string]interface{}{
		"estados":  len(dist),
		"llegadas": len(arrivals),
	})
	if len(arrivals) == 0 {
		return nil, nil, ErrNoRoute
	}
	return arrivals, prev, nil
}

// transition aplica la política de trasbordos al tomar la arista e desde el
// estado st. Caminar conserva el contexto de línea. Subir por primera vez a
// una línea no cuesta nada. Cambiar de sentido dentro de la misma línea
// (mismo código base, distinta linea_ruta) paga la penalización de tiempo
// pero no consume trasbordo; cambiar de código base consume uno. Devuelve
// ok == false cuando el estado resultante supera el límite de trasbordos.
func transition(g *Graph, st state, e Edge, cfg Config, trace TraceFunc) (next state, penalty float64, ok bool) {
	next = state{node: e.To, route: st.route, transfers: st.transfers}

	if !e.Walk {
		switch {
		case st.route == 0:
			next.route = e.RouteID
		case st.route != e.RouteID:
			currBase := g.routeBase[st.route]
			if currBase != "" && e.BaseCode != "" && currBase != e.BaseCode {
				next.transfers = st.transfers + 1
				penalty = cfg.TransferPenaltyMin
				trace("dijkstra.trasbordo", map[string]interface{}{
					"de":    currBase,
					"a":     e.BaseCode,
					"linea": e.LineCode,
				})
			} else {
				penalty = cfg.TransferPenaltyMin
				trace("dijkstra.cambio_sentido", map[string]interface{}{
					"linea_ruta_anterior": st.route,
					"linea_ruta_nueva":    e.RouteID,
					"base":                e.BaseCode,
				})
			}
			next.route = e.RouteID
		}
	}

	if next.transfers > cfg.MaxTransfers {
		return state{}, 0, false
	}
	return next, penalty, true
}
