package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/rutabus/internal/models"
)

func planApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/rutas/planificar", PlanRoute)
	return app
}

func postPlan(t *testing.T, app *fiber.App, body string) (int, models.DetailResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/rutas/planificar", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var detail models.DetailResponse
	_ = json.NewDecoder(resp.Body).Decode(&detail)
	return resp.StatusCode, detail
}

func TestPlanRouteRejectsInvalidJSON(t *testing.T) {
	status, detail := postPlan(t, planApp(), "{not json")
	if status != fiber.StatusBadRequest {
		t.Errorf("status = %d, esperaba 400", status)
	}
	if detail.Detail == "" {
		t.Error("la respuesta debe llevar el campo detail")
	}
}

func TestPlanRouteRejectsOutOfRangeCoordinates(t *testing.T) {
	body := `{"inicio":{"lat":-91,"lon":-70.66},"fin":{"lat":-33.45,"lon":-70.60}}`
	status, detail := postPlan(t, planApp(), body)
	if status != fiber.StatusBadRequest {
		t.Errorf("status = %d, esperaba 400", status)
	}
	if !strings.Contains(detail.Detail, "inicio_lat") {
		t.Errorf("detail = %q, esperaba mención a inicio_lat", detail.Detail)
	}
}

func TestPlanRouteRejectsZeroCoordinates(t *testing.T) {
	body := `{"inicio":{"lat":0,"lon":0},"fin":{"lat":-33.45,"lon":-70.60}}`
	status, detail := postPlan(t, planApp(), body)
	if status != fiber.StatusBadRequest {
		t.Errorf("status = %d, esperaba 400", status)
	}
	if !strings.Contains(detail.Detail, "(0, 0)") {
		t.Errorf("detail = %q, esperaba el rechazo de (0, 0)", detail.Detail)
	}
}
