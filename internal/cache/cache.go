package cache

import (
	"log"
	"sync"
	"time"
)

// ============================================================================
// CACHE SERVICE - IN-MEMORY CACHING CON TTL
// ============================================================================
// Caché thread-safe con expiración automática. Se usa para el snapshot de
// planificación (puntos + rutas) y para los listados de líneas, que cambian
// muy poco entre importaciones.
//
// Uso:
//   cache := NewCache(5*time.Minute, 10*time.Minute)
//   cache.Set("lineas", data)
//   if data, found := cache.Get("lineas"); found {
//       return data
//   }

// CacheItem representa un elemento en caché con timestamp de expiración
type CacheItem struct {
	Value      interface{}
	Expiration int64 // Unix timestamp
}

// Cache es un almacén thread-safe de key-value con TTL
type Cache struct {
	items             map[string]CacheItem
	mu                sync.RWMutex
	defaultExpiration time.Duration
	cleanupInterval   time.Duration
	stopCleanup       chan bool
}

// NewCache crea una nueva instancia de caché con TTL por defecto.
// cleanupInterval ejecuta limpieza periódica de items expirados.
func NewCache(defaultExpiration, cleanupInterval time.Duration) *Cache {
	cache := &Cache{
		items:             make(map[string]CacheItem),
		defaultExpiration: defaultExpiration,
		cleanupInterval:   cleanupInterval,
		stopCleanup:       make(chan bool),
	}

	go cache.startCleanupTimer()

	return cache
}

// Set almacena un valor con la expiración por defecto
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultExpiration)
}

// SetWithTTL almacena un valor con una duración de expiración específica
func (c *Cache) SetWithTTL(key string, value interface{}, duration time.Duration) {
	var expiration int64

	if duration > 0 {
		expiration = time.Now().Add(duration).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = CacheItem{
		Value:      value,
		Expiration: expiration,
	}
	c.mu.Unlock()
}

// Get recupera un valor del caché.
// Retorna (valor, true) si existe y no ha expirado.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()

	if !found {
		return nil, false
	}

	if item.Expiration > 0 && time.Now().UnixNano() > item.Expiration {
		c.Delete(key)
		return nil, false
	}

	return item.Value, true
}

// Delete elimina un key del caché
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear limpia completamente el caché
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]CacheItem)
	c.mu.Unlock()
}

// Count retorna el número de items en caché (incluye expirados)
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// startCleanupTimer ejecuta limpieza periódica de items expirados
func (c *Cache) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

// deleteExpired elimina todos los items expirados
func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, item := range c.items {
		if item.Expiration > 0 && now > item.Expiration {
			delete(c.items, key)
		}
	}
}

// Stop detiene la limpieza automática
func (c *Cache) Stop() {
	c.stopCleanup <- true
}

// ============================================================================
// CACHE PRESETS
// ============================================================================

var (
	// SnapshotCache - snapshot de planificación (TTL: 1 minuto).
	// El grafo se reconstruye en cada petición; lo único que se cachea es
	// la foto de solo lectura de la BD.
	SnapshotCache = NewCache(1*time.Minute, 5*time.Minute)

	// LinesCache - listados de líneas y puntos por sentido (TTL: 5 minutos)
	LinesCache = NewCache(5*time.Minute, 10*time.Minute)
)

// InitCaches deja constancia en el log de los cachés activos
func InitCaches() {
	log.Printf("📦 Cachés inicializados: snapshot (1m), líneas (5m)")
}

// StopCaches detiene todos los cachés
func StopCaches() {
	if SnapshotCache != nil {
		SnapshotCache.Stop()
	}
	if LinesCache != nil {
		LinesCache.Stop()
	}
}

// ClearAllCaches limpia todos los cachés. Se llama después de una
// importación para que las peticiones vean los datos nuevos de inmediato.
func ClearAllCaches() {
	if SnapshotCache != nil {
		SnapshotCache.Clear()
	}
	if LinesCache != nil {
		LinesCache.Clear()
	}
}
