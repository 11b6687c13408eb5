package entity

import (
	"time"

	"github.com/tu-usuario/logistica-pro/internal/domain/statemachine"
)

// RouteState estado del ciclo de vida de una ruta.
type RouteState string

const (
	RoutePlanificada RouteState = "planificada"
	RouteEnTransito  RouteState = "en_transito"
	RouteCompletada  RouteState = "completada"
	RouteCancelada   RouteState = "cancelada"
)

// routeMachine tabla de transiciones de rutas. completada y cancelada son
// terminales: aparecen sin aristas salientes.
var routeMachine = statemachine.New("ruta", map[RouteState][]RouteState{
	RoutePlanificada: {RouteEnTransito, RouteCancelada},
	RouteEnTransito:  {RouteCompletada, RouteCancelada},
	RouteCompletada:  {},
	RouteCancelada:   {},
})

// RouteMachine devuelve la máquina de estados compartida de rutas.
func RouteMachine() *statemachine.Machine[RouteState] {
	return routeMachine
}

// RouteItem es un producto planificado dentro de una ruta.
type RouteItem struct {
	ProductID         string
	QuantityPlanned   int
	QuantityDelivered int // <= QuantityPlanned
}

// Route representa un viaje planificado de un vehículo con conductor. El campo
// State solo lo escribe el ciclo de vida de rutas; Tracking es append-only.
type Route struct {
	ID            string
	Number        string // RUT-000123, secuencial
	Origin        Location
	Destination   Location
	ScheduledDate time.Time
	VehicleID     string
	DriverID      string
	Items         []RouteItem
	State         RouteState
	StartedAt     *time.Time
	EndedAt       *time.Time
	Tracking      []TrackingPoint
	CancelReason  string // requerido si y solo si State == cancelada
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AllDelivered indica si cada ítem alcanzó su cantidad planificada.
func (r *Route) AllDelivered() bool {
	for _, it := range r.Items {
		if it.QuantityDelivered < it.QuantityPlanned {
			return false
		}
	}
	return len(r.Items) > 0
}

// IsTerminal indica si la ruta está en un estado sin salida.
func (r *Route) IsTerminal() bool {
	return routeMachine.IsTerminal(r.State)
}
