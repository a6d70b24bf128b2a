package handlers

import (
	"context"
	"database/sql"
	"log"
	"os"
	"sync"
	"time"

	"github.com/yourorg/rutabus/internal/cache"
	"github.com/yourorg/rutabus/internal/planner"
	"github.com/yourorg/rutabus/internal/store"
)

// package-level dependencies
var (
	setupOnce  sync.Once    // Garantiza inicialización única
	setupMu    sync.RWMutex // Protege acceso a variables globales
	dbConn     *sql.DB
	dataStore  *store.Store
	jwtSecret  []byte
	tokenTTL   = 24 * time.Hour
	plannerCfg planner.Config
)

// Setup wires shared dependencies for handlers. Call this during app bootstrap.
func Setup(db *sql.DB) {
	setupOnce.Do(func() {
		setupMu.Lock()
		defer setupMu.Unlock()

		dbConn = db
		dataStore = store.New(db)
		plannerCfg = planner.DefaultConfig()

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			if os.Getenv("ENV") == "production" || os.Getenv("ENVIRONMENT") == "production" {
				log.Fatal("❌ CRITICAL: JWT_SECRET must be set in production environment")
			}
			log.Println("⚠️ WARNING: Using default JWT secret (development only)")
			secret = "dev-secret-change-me-0123456789abcdef"
		}
		if len(secret) < 32 {
			log.Fatalf("❌ CRITICAL: JWT_SECRET must be at least 32 characters long (current: %d)", len(secret))
		}
		jwtSecret = []byte(secret)

		if ttl := os.Getenv("JWT_TTL"); ttl != "" {
			dur, err := time.ParseDuration(ttl)
			if err != nil || dur <= 0 {
				log.Printf("invalid JWT_TTL=%q, using default %s", ttl, tokenTTL)
			} else {
				tokenTTL = dur
			}
		}
	})
}

// getDBConn retorna la conexión de base de datos de forma segura
func getDBConn() *sql.DB {
	setupMu.RLock()
	defer setupMu.RUnlock()
	return dbConn
}

// getStore retorna el acceso a datos de forma segura
func getStore() *store.Store {
	setupMu.RLock()
	defer setupMu.RUnlock()
	return dataStore
}

// getJWTSecret retorna el secret JWT de forma segura
func getJWTSecret() []byte {
	setupMu.RLock()
	defer setupMu.RUnlock()
	return jwtSecret
}

func getPlannerConfig() planner.Config {
	setupMu.RLock()
	defer setupMu.RUnlock()
	return plannerCfg
}

const snapshotCacheKey = "snapshot"

// getSnapshot obtiene la red de líneas, cacheada por un minuto para no
// recargar puntos y tramos en cada planificación.
func getSnapshot(ctx context.Context) (*planner.Snapshot, error) {
	if cached, ok := cache.SnapshotCache.Get(snapshotCacheKey); ok {
		if snap, ok := cached.(*planner.Snapshot); ok {
			return snap, nil
		}
	}
	st := getStore()
	if st == nil {
		return nil, store.ErrNotFound
	}
	snap, err := st.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	cache.SnapshotCache.Set(snapshotCacheKey, snap)
	return snap, nil
}

// InvalidateSnapshot descarta la red cacheada. Se llama tras una importación.
func InvalidateSnapshot() {
	cache.SnapshotCache.Delete(snapshotCacheKey)
	cache.LinesCache.Clear()
}
