package handlers

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/rutabus/internal/importer"
	"github.com/yourorg/rutabus/internal/models"
)

const importTimeout = 5 * time.Minute

// ImportWorkbook handles POST /api/admin/importar. Acepta el libro xlsx como
// archivo multipart ("archivo") y reemplaza la red de líneas completa.
func ImportWorkbook(c *fiber.Ctx) error {
	db := getDBConn()
	if db == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.DetailResponse{Detail: "server not ready"})
	}

	file, err := c.FormFile("archivo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.DetailResponse{
			Detail: "Debe adjuntar el libro xlsx en el campo 'archivo'.",
		})
	}
	if ext := filepath.Ext(file.Filename); ext != ".xlsx" {
		return c.Status(fiber.StatusBadRequest).JSON(models.DetailResponse{
			Detail: "El archivo debe tener extensión .xlsx.",
		})
	}

	tmp := filepath.Join(os.TempDir(), "rutabus-import-"+time.Now().Format("20060102-150405")+".xlsx")
	if err := c.SaveFile(file, tmp); err != nil {
		log.Printf("❌ Error guardando archivo de importación: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.DetailResponse{Detail: "error guardando el archivo"})
	}
	defer os.Remove(tmp)

	ctx, cancel := context.WithTimeout(c.Context(), importTimeout)
	defer cancel()

	summary, err := importer.ImportFile(ctx, db, tmp)
	if err != nil {
		log.Printf("❌ Error importando %s: %v", file.Filename, err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.DetailResponse{Detail: err.Error()})
	}
	summary.Source = file.Filename

	InvalidateSnapshot()
	log.Printf("✅ Importación completada: %d líneas, %d puntos, %d sentidos, %d paradas",
		summary.Lines, summary.Points, summary.Routes, summary.RoutePoints)
	return c.JSON(summary)
}
