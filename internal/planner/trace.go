package planner

// TraceFunc recibe los eventos estructurados que emiten el constructor del
// grafo y la búsqueda (conteos de aristas, pops, trasbordos detectados,
// llegadas al destino). Es un canal lateral de observación: la lógica del
// planificador nunca depende de él. Un TraceFunc nil desactiva la traza.
type TraceFunc func(event string, fields map[string]interface{})

func nopTrace(string, map[string]interface{}) {}
