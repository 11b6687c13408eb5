// Package tracking provee colaboradores del rastreo simulado.
package tracking

import (
	"math/rand"
	"sync"

	"github.com/tu-usuario/logistica-pro/internal/application/deliveries"
)

// locationNames lista fija de referencias viales para etiquetar puntos del
// rastreo simulado. Puramente cosmética.
var locationNames = []string{
	"Av. Caracas",
	"Autopista Norte",
	"Calle 80",
	"Carrera Séptima",
	"Av. Boyacá",
	"Calle 26",
	"Av. de las Américas",
	"Autopista Sur",
	"Carrera 68",
	"Av. Ciudad de Cali",
	"Calle 100",
	"Av. Primero de Mayo",
	"NQS",
	"Av. Suba",
	"Calle 13",
}

var _ deliveries.LocationNameLookup = (*LocationNames)(nil)

// LocationNames implementa deliveries.LocationNameLookup sobre la lista fija.
// Es dueño exclusivo de su rand.Rand: no se comparte con ningún otro
// componente, así el mutex propio basta para serializar el acceso.
type LocationNames struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocationNames construye la búsqueda con la semilla dada (fijable en tests).
func NewLocationNames(seed int64) *LocationNames {
	return &LocationNames{rng: rand.New(rand.NewSource(seed))}
}

// RandomLabel devuelve una referencia vial al azar.
func (l *LocationNames) RandomLabel() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return locationNames[l.rng.Intn(len(locationNames))]
}
