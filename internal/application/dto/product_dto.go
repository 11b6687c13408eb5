package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Code         string          `json:"code" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	StockInitial int             `json:"stock_initial" validate:"gte=0"`
	StockMinimum int             `json:"stock_minimum" validate:"gte=0"`
	WarehouseID  string          `json:"warehouse_id" validate:"required"`
}

// UpdateProductRequest body para PUT /api/products/:id. Stock no se actualiza
// por aquí: solo a través de movimientos.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	StockMinimum *int             `json:"stock_minimum,omitempty" validate:"omitempty,gte=0"`
	Active       *bool            `json:"active,omitempty"`
}

// ProductResponse representación de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	StockMinimum int             `json:"stock_minimum"`
	LowStock     bool            `json:"low_stock"` // calculado: stock <= stock_minimum
	WarehouseID  string          `json:"warehouse_id"`
	Active       bool            `json:"active"`
	CreatedAt    string          `json:"created_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Total int               `json:"total"`
	Items []ProductResponse `json:"items"`
}
