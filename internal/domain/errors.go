package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInactiveEntity    = errors.New("entidad inactiva")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidState      = errors.New("estado inválido para la operación")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrTrackingNotActive = errors.New("el rastreo no está activo")
	ErrBusy              = errors.New("recurso ocupado, reintente")
)

// InsufficientStockError detalla un intento de salida o traslado que dejaría
// el stock en negativo. Envuelve ErrInsufficientStock para errors.Is.
type InsufficientStockError struct {
	Available int // stock disponible al momento de la verificación
	Requested int // cantidad solicitada
}

// Shortfall devuelve cuántas unidades faltaron para cubrir la solicitud.
func (e *InsufficientStockError) Shortfall() int {
	return e.Requested - e.Available
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d, faltante %d",
		e.Available, e.Requested, e.Shortfall())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidTransitionError detalla una transición de estado rechazada por la
// tabla de transiciones. Envuelve ErrInvalidTransition para errors.Is.
type InvalidTransitionError struct {
	Entity string // "ruta", "entrega"
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transición no permitida en %s: %s -> %s", e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
