package repository

import (
	"time"

	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
)

// MovementSummary totales agregados de un tipo de movimiento.
type MovementSummary struct {
	Type          string
	TotalQuantity int64
	Count         int64
}

// MovementRepository define el puerto de persistencia para movimientos de
// inventario. Los movimientos son append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// ListByProduct devuelve el historial de un producto, más reciente primero.
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	// SummarizeByType agrega cantidad total y conteo por tipo en el rango dado.
	SummarizeByType(from, to *time.Time) ([]MovementSummary, error)
}
