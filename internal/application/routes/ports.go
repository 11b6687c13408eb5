package routes

import (
	"context"

	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con
// repositorios atados a esa tx. La escritura del estado de la ruta y la del
// estado del vehículo (y la entrega sembrada al completar) se aplican como una
// sola unidad: dos transiciones concurrentes no pueden reclamar el mismo
// vehículo disponible.
type TxRunner interface {
	RunRoutes(ctx context.Context, fn func(
		routeRepo repository.RouteRepository,
		vehicleRepo repository.VehicleRepository,
		deliveryRepo repository.DeliveryRepository,
	) error) error
}
