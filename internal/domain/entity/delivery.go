package entity

import (
	"time"

	"github.com/tu-usuario/logistica-pro/internal/domain/statemachine"
)

// DeliveryState estado del ciclo de vida de una entrega.
type DeliveryState string

const (
	DeliveryPendiente DeliveryState = "pendiente"
	DeliveryEnProceso DeliveryState = "en_proceso"
	DeliveryEntregado DeliveryState = "entregado"
	DeliveryRetrasado DeliveryState = "retrasado"
	DeliveryCancelado DeliveryState = "cancelado"
)

// deliveryMachine tabla de transiciones de entregas. entregado y cancelado son
// terminales. retrasado puede retomar en_proceso, completarse o cancelarse.
var deliveryMachine = statemachine.New("entrega", map[DeliveryState][]DeliveryState{
	DeliveryPendiente: {DeliveryEnProceso, DeliveryRetrasado, DeliveryCancelado},
	DeliveryEnProceso: {DeliveryEntregado, DeliveryRetrasado, DeliveryCancelado},
	DeliveryRetrasado: {DeliveryEnProceso, DeliveryEntregado, DeliveryCancelado},
	DeliveryEntregado: {},
	DeliveryCancelado: {},
})

// DeliveryMachine devuelve la máquina de estados compartida de entregas.
func DeliveryMachine() *statemachine.Machine[DeliveryState] {
	return deliveryMachine
}

// DeliveryItem es un producto programado dentro de una entrega.
type DeliveryItem struct {
	ProductID          string
	QuantityProgrammed int
	QuantityDelivered  int
}

// Delivery representa una entrega a cliente, creada explícitamente o sembrada
// al completar una ruta. Tracking es append-only y ordenado; el avance del
// rastreo simulado lo disparan llamadas externas, nunca un timer interno.
type Delivery struct {
	ID               string
	Number           string  // ENT-000123, secuencial
	RouteID          *string // ruta de origen (nil si fue creada directamente)
	DriverID         string
	VehicleID        string
	Client           Location
	Origin           Location
	Items            []DeliveryItem
	State            DeliveryState
	ScheduledAt      time.Time
	StartedAt        *time.Time
	DeliveredAt      *time.Time
	TrackingActive   bool
	Tracking         []TrackingPoint
	CurrentLat       float64
	CurrentLon       float64
	TotalDistance    float64 // km, origen -> cliente
	TraveledDistance float64 // km recorridos según progreso
	Signature        string
	Photo            string
	Rating           *int // 1-5
	DelayReason      string
	CancelReason     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Progress devuelve el porcentaje de avance (0-100) según el último punto de
// rastreo. Calculado, nunca almacenado.
func (d *Delivery) Progress() float64 {
	if d.State == DeliveryEntregado {
		return 100
	}
	if len(d.Tracking) == 0 {
		return 0
	}
	return d.Tracking[len(d.Tracking)-1].Progress
}

// IsLate indica si la entrega está vencida: explícitamente retrasada, o aún
// abierta después de su fecha programada. Calculado, nunca almacenado.
func (d *Delivery) IsLate(now time.Time) bool {
	if d.State == DeliveryRetrasado {
		return true
	}
	if d.IsTerminal() {
		return false
	}
	return now.After(d.ScheduledAt)
}

// IsTerminal indica si la entrega está en un estado sin salida.
func (d *Delivery) IsTerminal() bool {
	return deliveryMachine.IsTerminal(d.State)
}
