package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/logistica-pro/internal/domain"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

// HistoryUseCase consultas de solo lectura sobre el libro de movimientos.
type HistoryUseCase struct {
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(movRepo repository.MovementRepository, productRepo repository.ProductRepository) *HistoryUseCase {
	return &HistoryUseCase{movRepo: movRepo, productRepo: productRepo}
}

// TypeSummary totales de un tipo de movimiento en el rango consultado.
type TypeSummary struct {
	TotalQuantity int64
	Count         int64
}

// GetMovement obtiene un movimiento del libro por su ID.
func (uc *HistoryUseCase) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	movement, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	return movement, nil
}

// ObtainHistory devuelve los movimientos de un producto, más reciente primero,
// con paginación y rango de fechas opcional.
func (uc *HistoryUseCase) ObtainHistory(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movRepo.ListByProduct(productID, from, to, limit, offset)
}

// SummarizeByType agrega cantidad total y conteo por tipo de movimiento en el
// rango de fechas dado (nil = sin límite).
func (uc *HistoryUseCase) SummarizeByType(ctx context.Context, from, to *time.Time) (map[string]TypeSummary, error) {
	rows, err := uc.movRepo.SummarizeByType(from, to)
	if err != nil {
		return nil, err
	}
	summary := make(map[string]TypeSummary, len(rows))
	for _, r := range rows {
		summary[r.Type] = TypeSummary{TotalQuantity: r.TotalQuantity, Count: r.Count}
	}
	return summary, nil
}
