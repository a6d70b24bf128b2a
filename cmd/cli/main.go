package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	appdb "github.com/yourorg/rutabus/internal/db"
	"github.com/yourorg/rutabus/internal/importer"
	"github.com/yourorg/rutabus/internal/planner"
	"github.com/yourorg/rutabus/internal/store"
)

func main() {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== RutaBus CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Seed database (create sample user)")
		fmt.Println("3) Import lines workbook (xlsx)")
		fmt.Println("4) Plan route from console")
		fmt.Println("5) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck()
		case "2":
			doSeed()
		case "3":
			doImport(reader)
		case "4":
			doPlan(reader)
		case "5":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func doHealthCheck() {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	url := strings.TrimRight(base, "/") + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("Health status:", resp.Status)
}

func doSeed() {
	db, err := appdb.Connect()
	if err != nil {
		log.Println("DB connect error:", err)
		return
	}
	defer db.Close()
	if err := appdb.EnsureSchema(db); err != nil {
		log.Println("Ensure schema error:", err)
		return
	}
	seedUser(db)
}

func doImport(reader *bufio.Reader) {
	fmt.Print("Path to xlsx workbook [DatosLineas.xlsx]: ")
	path, _ := reader.ReadString('\n')
	path = strings.TrimSpace(path)
	if path == "" {
		path = "DatosLineas.xlsx"
	}

	db, err := appdb.Connect()
	if err != nil {
		log.Println("Import: db connect error:", err)
		return
	}
	defer db.Close()
	if err := appdb.EnsureSchema(db); err != nil {
		log.Println("Import: ensure schema error:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := importer.ImportFile(ctx, db, path)
	if err != nil {
		log.Println("Import: error:", err)
		return
	}
	fmt.Printf("Import OK: %d líneas, %d puntos, %d sentidos, %d paradas de ruta [%s]\n",
		summary.Lines, summary.Points, summary.Routes, summary.RoutePoints,
		summary.ImportedAt.Format(time.RFC3339))
}

func doPlan(reader *bufio.Reader) {
	origin, ok := readCoordinate(reader, "origen")
	if !ok {
		return
	}
	dest, ok := readCoordinate(reader, "destino")
	if !ok {
		return
	}

	db, err := appdb.Connect()
	if err != nil {
		log.Println("Plan: db connect error:", err)
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := store.New(db).Snapshot(ctx)
	if err != nil {
		log.Println("Plan: snapshot error:", err)
		return
	}

	itineraries, err := planner.Plan(ctx, snap, origin, dest, planner.DefaultConfig(), nil)
	if err != nil {
		log.Println("Plan: error:", err)
		return
	}

	for i, it := range itineraries {
		fmt.Printf("--- Alternativa %d ---\n", i+1)
		fmt.Println(it.Description)
		fmt.Printf("Tiempo total: %.1f min | Distancia total: %.2f km | Trasbordos: %d\n",
			it.TotalTime, it.TotalDistance, it.Transfers)
		for _, s := range it.Stops {
			marker := ""
			if s.TransferLine != "" {
				marker = "  [trasbordo a " + s.TransferLine + "]"
			}
			fmt.Printf("  %2d. (%.6f, %.6f) %s%s\n", s.Order, s.Lat, s.Lon, s.Description, marker)
		}
	}
}

func readCoordinate(reader *bufio.Reader, label string) (planner.Coordinate, bool) {
	fmt.Printf("Latitud %s: ", label)
	latRaw, _ := reader.ReadString('\n')
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		fmt.Println("Latitud inválida:", err)
		return planner.Coordinate{}, false
	}
	fmt.Printf("Longitud %s: ", label)
	lonRaw, _ := reader.ReadString('\n')
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if err != nil {
		fmt.Println("Longitud inválida:", err)
		return planner.Coordinate{}, false
	}
	return planner.Coordinate{Lat: lat, Lon: lon}, true
}

func seedUser(db *sql.DB) {
	// Creates a sample user if not exists
	username := "demo"
	email := "demo@example.com"
	name := "Demo"
	password := "demo1234"
	var exists int
	_ = db.QueryRow("SELECT 1 FROM users WHERE username = ?", username).Scan(&exists)
	if exists == 1 {
		fmt.Println("Seed: user 'demo' already exists")
		return
	}
	hash, err := bcryptHash(password)
	if err != nil {
		fmt.Println("Seed: bcrypt error:", err)
		return
	}
	_, err = db.Exec("INSERT INTO users (username,email,name,password_hash) VALUES (?,?,?,?)", username, email, name, hash)
	if err != nil {
		fmt.Println("Seed: insert error:", err)
		return
	}
	fmt.Println("Seed: created user 'demo' with password 'demo1234'")
}

func bcryptHash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}
