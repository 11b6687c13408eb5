package repository

import "github.com/tu-usuario/logistica-pro/internal/domain/entity"

// DeliveryRepository define el puerto de persistencia para entregas (DIP).
type DeliveryRepository interface {
	Create(delivery *entity.Delivery) error
	GetByID(id string) (*entity.Delivery, error)
	List(state string, limit, offset int) ([]*entity.Delivery, error)
	Update(delivery *entity.Delivery) error
	// GetForUpdate bloquea la fila de la entrega dentro de la transacción en
	// curso. Mantiene el orden monotónico de los puntos de rastreo bajo
	// llamadas concurrentes a simulate-step.
	GetForUpdate(id string) (*entity.Delivery, error)
	// NextNumber devuelve el siguiente consecutivo de la secuencia de entregas.
	NextNumber() (int64, error)
	AppendTracking(deliveryID string, point *entity.TrackingPoint) error
	// ListActiveTracking devuelve los IDs de entregas con rastreo activo
	// (consumido por el poller externo del simulador).
	ListActiveTracking() ([]string, error)
}
