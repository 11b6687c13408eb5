package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/logistica-pro/internal/domain"
)

func TestMovement_Delta(t *testing.T) {
	entrada := &Movement{Type: MovementTypeEntrada, Quantity: 10}
	salida := &Movement{Type: MovementTypeSalida, Quantity: 10}
	transferencia := &Movement{Type: MovementTypeTransferencia, Quantity: 10}

	assert.Equal(t, 10, entrada.Delta())
	assert.Equal(t, -10, salida.Delta())
	assert.Equal(t, -10, transferencia.Delta())
}

func TestMovement_CheckChain(t *testing.T) {
	ok := &Movement{Type: MovementTypeSalida, Quantity: 30, StockAnterior: 50, StockNuevo: 20}
	assert.True(t, ok.CheckChain())

	roto := &Movement{Type: MovementTypeSalida, Quantity: 30, StockAnterior: 50, StockNuevo: 25}
	assert.False(t, roto.CheckChain())
}

func TestProduct_LowStock(t *testing.T) {
	p := &Product{Stock: 10, StockMinimum: 10}
	assert.True(t, p.LowStock(), "en el mínimo cuenta como stock bajo")

	p.Stock = 11
	assert.False(t, p.LowStock())
}

func TestVehicle_ChangeState(t *testing.T) {
	v := &Vehicle{State: VehicleDisponible}

	assert.ErrorIs(t, v.ChangeState(VehicleEnRuta), domain.ErrInvalidState)
	assert.Equal(t, VehicleDisponible, v.State, "el estado no cambia si falla la invariante")

	driver := "d1"
	v.DriverID = &driver
	require.NoError(t, v.ChangeState(VehicleEnRuta))
	assert.Equal(t, VehicleEnRuta, v.State)

	require.NoError(t, v.ChangeState(VehicleMantenimiento))
	assert.ErrorIs(t, v.ChangeState("volando"), domain.ErrInvalidInput)
}

func TestLocation_Validate(t *testing.T) {
	assert.NoError(t, Location{Lat: 4.6, Lon: -74.08}.Validate())
	assert.NoError(t, Location{Lat: 90, Lon: 180}.Validate())
	assert.NoError(t, Location{Lat: -90, Lon: -180}.Validate())
	assert.ErrorIs(t, Location{Lat: 90.1, Lon: 0}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, Location{Lat: 0, Lon: -180.1}.Validate(), domain.ErrInvalidInput)
}

func TestLocation_DistanceKm(t *testing.T) {
	bogota := Location{Lat: 4.711, Lon: -74.0721}
	medellin := Location{Lat: 6.2442, Lon: -75.5812}

	d := bogota.DistanceKm(medellin)
	// distancia real ~ 246 km en línea recta
	assert.InDelta(t, 246, d, 5)
	assert.Zero(t, bogota.DistanceKm(bogota))
}

func TestLocation_Interpolate(t *testing.T) {
	a := Location{Lat: 0, Lon: 0}
	b := Location{Lat: 10, Lon: 20}

	lat, lon := a.Interpolate(b, 0)
	assert.Equal(t, 0.0, lat)
	assert.Equal(t, 0.0, lon)

	lat, lon = a.Interpolate(b, 0.5)
	assert.Equal(t, 5.0, lat)
	assert.Equal(t, 10.0, lon)

	lat, lon = a.Interpolate(b, 1)
	assert.Equal(t, 10.0, lat)
	assert.Equal(t, 20.0, lon)
}

func TestRoute_AllDelivered(t *testing.T) {
	r := &Route{}
	assert.False(t, r.AllDelivered(), "sin ítems no hay nada entregado")

	r.Items = []RouteItem{
		{ProductID: "p1", QuantityPlanned: 10, QuantityDelivered: 10},
		{ProductID: "p2", QuantityPlanned: 5, QuantityDelivered: 4},
	}
	assert.False(t, r.AllDelivered())

	r.Items[1].QuantityDelivered = 5
	assert.True(t, r.AllDelivered())
}

func TestRouteMachine_Tabla(t *testing.T) {
	m := RouteMachine()

	assert.True(t, m.Can(RoutePlanificada, RouteEnTransito))
	assert.True(t, m.Can(RoutePlanificada, RouteCancelada))
	assert.True(t, m.Can(RouteEnTransito, RouteCompletada))
	assert.True(t, m.Can(RouteEnTransito, RouteCancelada))
	assert.False(t, m.Can(RoutePlanificada, RouteCompletada), "no se salta en_transito")

	assert.True(t, m.IsTerminal(RouteCompletada))
	assert.True(t, m.IsTerminal(RouteCancelada))
	assert.False(t, m.IsTerminal(RoutePlanificada))
}

func TestDeliveryMachine_Tabla(t *testing.T) {
	m := DeliveryMachine()

	assert.True(t, m.Can(DeliveryPendiente, DeliveryEnProceso))
	assert.True(t, m.Can(DeliveryPendiente, DeliveryRetrasado))
	assert.True(t, m.Can(DeliveryRetrasado, DeliveryEnProceso), "retrasado puede retomarse")
	assert.True(t, m.Can(DeliveryRetrasado, DeliveryEntregado))
	assert.False(t, m.Can(DeliveryPendiente, DeliveryEntregado), "no se entrega sin iniciar")

	assert.True(t, m.IsTerminal(DeliveryEntregado))
	assert.True(t, m.IsTerminal(DeliveryCancelado))
	assert.False(t, m.IsTerminal(DeliveryRetrasado))
}

func TestDelivery_Progress(t *testing.T) {
	d := &Delivery{State: DeliveryEnProceso}
	assert.Zero(t, d.Progress())

	d.Tracking = []TrackingPoint{{Progress: 10}, {Progress: 35}}
	assert.Equal(t, 35.0, d.Progress())

	d.State = DeliveryEntregado
	assert.Equal(t, 100.0, d.Progress(), "entregado siempre reporta 100")
}

func TestDelivery_IsLate(t *testing.T) {
	scheduled := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	d := &Delivery{State: DeliveryPendiente, ScheduledAt: scheduled}

	assert.False(t, d.IsLate(scheduled.Add(-time.Hour)))
	assert.True(t, d.IsLate(scheduled.Add(time.Hour)), "abierta después de lo programado")

	d.State = DeliveryRetrasado
	assert.True(t, d.IsLate(scheduled.Add(-time.Hour)), "retrasado explícito siempre es tarde")

	d.State = DeliveryEntregado
	assert.False(t, d.IsLate(scheduled.Add(time.Hour)), "terminal nunca es tarde")
}
