package deliveries

import (
	"context"

	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con el
// repositorio de entregas atado a esa tx. Dos simulate-step concurrentes sobre
// la misma entrega se serializan por el bloqueo de fila, así el progreso y el
// orden de los puntos se mantienen monotónicos.
type TxRunner interface {
	RunDeliveries(ctx context.Context, fn func(deliveryRepo repository.DeliveryRepository) error) error
}

// LocationNameLookup provee nombres cosméticos de referencia para los puntos
// del rastreo simulado. Es un colaborador inyectado para poderlo sustituir en
// tests.
type LocationNameLookup interface {
	RandomLabel() string
}

// ReceiptGenerator produce el comprobante de entrega en PDF.
type ReceiptGenerator interface {
	Generate(delivery *entity.Delivery) ([]byte, error)
}
