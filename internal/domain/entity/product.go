package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario. Stock solo se modifica a
// través del libro de movimientos (RegisterMovementUseCase), nunca por el
// CRUD: el update de producto no toca stock.
type Product struct {
	ID           string
	Code         string // código único
	Name         string
	Description  string
	Price        decimal.Decimal
	Stock        int // siempre >= 0, invariante del libro de movimientos
	StockMinimum int
	WarehouseID  string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LowStock indica si el producto está en o por debajo de su stock mínimo.
// Calculado, nunca almacenado, para evitar valores obsoletos.
func (p *Product) LowStock() bool {
	return p.Stock <= p.StockMinimum
}
