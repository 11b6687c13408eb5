package repository

import (
	"time"

	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
)

// RouteRepository define el puerto de persistencia para rutas (DIP).
// Los puntos de rastreo son append-only y se devuelven en orden de inserción.
type RouteRepository interface {
	Create(route *entity.Route) error
	GetByID(id string) (*entity.Route, error)
	List(state string, limit, offset int) ([]*entity.Route, error)
	Update(route *entity.Route) error
	// GetForUpdate bloquea la fila de la ruta dentro de la transacción en curso.
	GetForUpdate(id string) (*entity.Route, error)
	// NextNumber devuelve el siguiente consecutivo de la secuencia de rutas.
	NextNumber() (int64, error)
	// HasActiveRouteForDriverOn indica si el conductor ya tiene una ruta
	// planificada o en tránsito programada para el mismo día calendario.
	HasActiveRouteForDriverOn(driverID string, day time.Time) (bool, error)
	AppendTracking(routeID string, point *entity.TrackingPoint) error
}
