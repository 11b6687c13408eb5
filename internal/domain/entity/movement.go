package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada       = "entrada"
	MovementTypeSalida        = "salida"
	MovementTypeTransferencia = "transferencia"
)

// Motivos reconocidos para un movimiento.
const (
	MotiveCompra     = "compra"
	MotiveVenta      = "venta"
	MotiveAjuste     = "ajuste"
	MotiveDevolucion = "devolucion"
	MotiveTraslado   = "traslado"
	MotiveMerma      = "merma"
	MotiveProduccion = "produccion"
)

// ValidMovementType indica si el tipo es reconocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntrada, MovementTypeSalida, MovementTypeTransferencia:
		return true
	}
	return false
}

// ValidMotive indica si el motivo es reconocido.
func ValidMotive(m string) bool {
	switch m {
	case MotiveCompra, MotiveVenta, MotiveAjuste, MotiveDevolucion,
		MotiveTraslado, MotiveMerma, MotiveProduccion:
		return true
	}
	return false
}

// Movement es el registro inmutable de un cambio de stock. StockAnterior y
// StockNuevo son instantáneas escritas una sola vez al crear el movimiento;
// el historial de un producto forma una cadena: el StockAnterior de cada
// movimiento es el StockNuevo del anterior.
type Movement struct {
	ID                     string
	Type                   string // entrada, salida, transferencia
	ProductID              string
	Quantity               int // siempre > 0; el signo lo da el tipo
	ResponsibleID          string
	Motive                 string
	OriginWarehouseID      *string // solo transferencia
	DestinationWarehouseID *string // solo transferencia
	StockAnterior          int
	StockNuevo             int
	CreatedAt              time.Time
}

// Delta devuelve el efecto del movimiento sobre el stock (positivo para
// entrada, negativo para salida y transferencia).
func (m *Movement) Delta() int {
	if m.Type == MovementTypeEntrada {
		return m.Quantity
	}
	return -m.Quantity
}

// CheckChain verifica la invariante StockNuevo = StockAnterior + Delta.
func (m *Movement) CheckChain() bool {
	return m.StockNuevo == m.StockAnterior+m.Delta()
}
