package dto

// RegisterMovementRequest body para POST /api/inventory/movements.
// Para entrada/salida: product_id, quantity, responsible_id, motive.
// Para transferencia: además origin_warehouse_id y destination_warehouse_id, distintos.
type RegisterMovementRequest struct {
	Type                   string `json:"type" validate:"required,oneof=entrada salida transferencia"`
	ProductID              string `json:"product_id" validate:"required"`
	Quantity               int    `json:"quantity" validate:"required,gt=0"`
	ResponsibleID          string `json:"responsible_id" validate:"required"`
	Motive                 string `json:"motive" validate:"required"`
	OriginWarehouseID      string `json:"origin_warehouse_id,omitempty"`
	DestinationWarehouseID string `json:"destination_warehouse_id,omitempty"`
}

// MovementResponse movimiento registrado, con sus instantáneas de stock.
type MovementResponse struct {
	ID                     string `json:"id"`
	Type                   string `json:"type"`
	ProductID              string `json:"product_id"`
	Quantity               int    `json:"quantity"`
	ResponsibleID          string `json:"responsible_id"`
	Motive                 string `json:"motive"`
	OriginWarehouseID      string `json:"origin_warehouse_id,omitempty"`
	DestinationWarehouseID string `json:"destination_warehouse_id,omitempty"`
	StockAnterior          int    `json:"stock_anterior"`
	StockNuevo             int    `json:"stock_nuevo"`
	CreatedAt              string `json:"created_at"`
}

// MovementListResponse historial paginado de movimientos de un producto.
type MovementListResponse struct {
	Total int                `json:"total"`
	Items []MovementResponse `json:"items"`
}

// MovementTypeSummary totales de un tipo de movimiento.
type MovementTypeSummary struct {
	TotalQuantity int64 `json:"total_quantity"`
	Count         int64 `json:"count"`
}

// MovementSummaryResponse resumen por tipo en un rango de fechas.
type MovementSummaryResponse struct {
	Summary map[string]MovementTypeSummary `json:"summary"`
}
