package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// Connect returns a MariaDB connection using env vars.
func Connect() (*sql.DB, error) {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3306"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4,utf8", user, pass, host, port, name)
	return sql.Open("mysql", dsn)
}

// EnsureSchema creates required tables if not exist.
func EnsureSchema(db *sql.DB) error {
	if skip := strings.TrimSpace(os.Getenv("DB_SKIP_SCHEMA")); strings.EqualFold(skip, "true") || skip == "1" {
		log.Printf("EnsureSchema: skipped (DB_SKIP_SCHEMA=%q)", skip)
		return nil
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`); err != nil {
		return err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lineas (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			codigo VARCHAR(20) NOT NULL UNIQUE,
			nombre VARCHAR(100) NOT NULL DEFAULT '',
			color VARCHAR(7) NOT NULL DEFAULT '#000000',
			fecha_creacion TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`); err != nil {
		return err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS puntos (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			latitud DECIMAL(9,6) NOT NULL,
			longitud DECIMAL(9,6) NOT NULL,
			descripcion VARCHAR(255) NOT NULL DEFAULT ''
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`); err != nil {
		return err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS linea_rutas (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			linea_id BIGINT NOT NULL,
			numero_ruta INT NOT NULL,
			descripcion VARCHAR(255) NOT NULL DEFAULT '',
			distancia DECIMAL(10,2) NOT NULL DEFAULT 0,
			tiempo DECIMAL(6,2) NOT NULL DEFAULT 0,
			UNIQUE KEY uq_linea_ruta (linea_id, numero_ruta),
			FOREIGN KEY (linea_id) REFERENCES lineas(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`); err != nil {
		return err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS linea_puntos (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			linea_ruta_id BIGINT NOT NULL,
			punto_id BIGINT NOT NULL,
			orden INT NOT NULL,
			latitud DECIMAL(9,6) NOT NULL,
			longitud DECIMAL(9,6) NOT NULL,
			distancia DECIMAL(10,2) NOT NULL DEFAULT 0,
			tiempo DECIMAL(6,2) NOT NULL DEFAULT 0,
			UNIQUE KEY uq_linea_punto (linea_ruta_id, orden),
			FOREIGN KEY (linea_ruta_id) REFERENCES linea_rutas(id) ON DELETE CASCADE,
			FOREIGN KEY (punto_id) REFERENCES puntos(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`); err != nil {
		return err
	}

	if _, err := db.Exec(`
		CREATE INDEX idx_puntos_latlon ON puntos(latitud, longitud);
	`); err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") {
			// index already exists, nothing to do
		} else if strings.Contains(errMsg, "permission denied") {
			log.Printf("EnsureSchema: unable to create puntos index (permission denied): %v", err)
		} else {
			return err
		}
	}

	return nil
}
