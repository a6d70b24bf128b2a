package planner

import "sort"

// squaredDistance es la distancia cuadrada en grados². Para ordenar por
// cercanía no hace falta la raíz cuadrada.
func squaredDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dlat := lat1 - lat2
	dlon := lon1 - lon2
	return dlat*dlat + dlon*dlon
}

// Nearest devuelve los k puntos del pool más cercanos a (lat, lon), ordenados
// por distancia cuadrada ascendente. En empates exactos se conserva el orden
// del pool. El pool no se modifica.
func Nearest(lat, lon float64, pool []Point, k int) []Point {
	ranked := make([]Point, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return squaredDistance(ranked[i].Lat, ranked[i].Lon, lat, lon) <
			squaredDistance(ranked[j].Lat, ranked[j].Lon, lat, lon)
	})
	if k < 0 {
		k = 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}
