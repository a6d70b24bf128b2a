package validation

import (
	"math"
	"testing"
)

func TestValidateLatitude(t *testing.T) {
	valid := []float64{0, -33.45, 90, -90}
	for _, lat := range valid {
		if err := ValidateLatitude(lat, "lat"); err != nil {
			t.Errorf("ValidateLatitude(%v) = %v, esperaba nil", lat, err)
		}
	}
	invalid := []float64{90.1, -90.1, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, lat := range invalid {
		if err := ValidateLatitude(lat, "lat"); err == nil {
			t.Errorf("ValidateLatitude(%v) = nil, esperaba error", lat)
		}
	}
}

func TestValidateLongitude(t *testing.T) {
	valid := []float64{0, -70.66, 180, -180}
	for _, lon := range valid {
		if err := ValidateLongitude(lon, "lon"); err != nil {
			t.Errorf("ValidateLongitude(%v) = %v, esperaba nil", lon, err)
		}
	}
	invalid := []float64{180.1, -180.1, math.NaN(), math.Inf(1)}
	for _, lon := range invalid {
		if err := ValidateLongitude(lon, "lon"); err == nil {
			t.Errorf("ValidateLongitude(%v) = nil, esperaba error", lon)
		}
	}
}

func TestValidateCoordinatePair(t *testing.T) {
	if err := ValidateCoordinatePair(-33.45, -70.66, "inicio"); err != nil {
		t.Errorf("par válido: %v", err)
	}

	err := ValidateCoordinatePair(-91, -70.66, "inicio")
	if err == nil {
		t.Fatal("latitud fuera de rango: esperaba error")
	}
	ce, ok := err.(*CoordinateError)
	if !ok {
		t.Fatalf("tipo de error = %T, esperaba *CoordinateError", err)
	}
	if ce.Field != "inicio_lat" {
		t.Errorf("campo = %q, esperaba \"inicio_lat\"", ce.Field)
	}

	err = ValidateCoordinatePair(-33.45, 181, "fin")
	if err == nil {
		t.Fatal("longitud fuera de rango: esperaba error")
	}
	if ce, ok := err.(*CoordinateError); !ok || ce.Field != "fin_lon" {
		t.Errorf("error inesperado: %v", err)
	}
}

func TestIsZeroCoordinate(t *testing.T) {
	if !IsZeroCoordinate(0, 0) {
		t.Error("(0, 0) debe detectarse como coordenada cero")
	}
	if IsZeroCoordinate(-33.45, 0) || IsZeroCoordinate(0, -70.66) {
		t.Error("solo el par exacto (0, 0) es coordenada cero")
	}
}
