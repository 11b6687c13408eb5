package entity

import (
	"math"

	"github.com/tu-usuario/logistica-pro/internal/domain"
)

// Rangos válidos de geocoordenadas (contrato exacto del API).
const (
	LatMin = -90.0
	LatMax = 90.0
	LonMin = -180.0
	LonMax = 180.0
)

// Location representa un punto con nombre dentro de una ruta o entrega
// (origen, destino o cliente).
type Location struct {
	Name    string
	Address string
	Lat     float64
	Lon     float64
}

// Validate verifica que las coordenadas estén dentro de los rangos válidos.
func (l Location) Validate() error {
	return ValidateCoordinates(l.Lat, l.Lon)
}

// ValidateCoordinates verifica latitud en [-90,90] y longitud en [-180,180].
func ValidateCoordinates(lat, lon float64) error {
	if lat < LatMin || lat > LatMax || lon < LonMin || lon > LonMax {
		return domain.ErrInvalidInput
	}
	return nil
}

// DistanceKm calcula la distancia haversine en kilómetros entre dos puntos.
func (l Location) DistanceKm(other Location) float64 {
	const earthRadiusKm = 6371.0

	lat1 := l.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - l.Lat) * math.Pi / 180
	dLon := (other.Lon - l.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Interpolate devuelve el punto intermedio entre l y other a la fracción dada
// (0 = l, 1 = other). Interpolación lineal, suficiente para el rastreo simulado.
func (l Location) Interpolate(other Location, fraction float64) (lat, lon float64) {
	lat = l.Lat + (other.Lat-l.Lat)*fraction
	lon = l.Lon + (other.Lon-l.Lon)*fraction
	return lat, lon
}
