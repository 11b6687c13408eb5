package routes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/logistica-pro/internal/domain"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

// ---- fakes en memoria ----

type memRouteRepo struct {
	routes map[string]*entity.Route
	seq    int64
}

func (r *memRouteRepo) Create(route *entity.Route) error { r.routes[route.ID] = route; return nil }
func (r *memRouteRepo) GetByID(id string) (*entity.Route, error) {
	if route, ok := r.routes[id]; ok {
		return route, nil
	}
	return nil, nil
}
func (r *memRouteRepo) List(state string, limit, offset int) ([]*entity.Route, error) {
	out := make([]*entity.Route, 0)
	for _, route := range r.routes {
		if state == "" || string(route.State) == state {
			out = append(out, route)
		}
	}
	return out, nil
}
func (r *memRouteRepo) Update(route *entity.Route) error          { r.routes[route.ID] = route; return nil }
func (r *memRouteRepo) GetForUpdate(id string) (*entity.Route, error) { return r.GetByID(id) }
func (r *memRouteRepo) NextNumber() (int64, error)                { r.seq++; return r.seq, nil }
func (r *memRouteRepo) HasActiveRouteForDriverOn(driverID string, day time.Time) (bool, error) {
	y, m, d := day.Date()
	for _, route := range r.routes {
		if route.DriverID != driverID {
			continue
		}
		if route.State != entity.RoutePlanificada && route.State != entity.RouteEnTransito {
			continue
		}
		ry, rm, rd := route.ScheduledDate.Date()
		if ry == y && rm == m && rd == d {
			return true, nil
		}
	}
	return false, nil
}
func (r *memRouteRepo) AppendTracking(routeID string, point *entity.TrackingPoint) error {
	route := r.routes[routeID]
	route.Tracking = append(route.Tracking, *point)
	return nil
}

type memVehicleRepo struct {
	vehicles map[string]*entity.Vehicle
}

func (r *memVehicleRepo) Create(v *entity.Vehicle) error { r.vehicles[v.ID] = v; return nil }
func (r *memVehicleRepo) GetByID(id string) (*entity.Vehicle, error) {
	if v, ok := r.vehicles[id]; ok {
		return v, nil
	}
	return nil, nil
}
func (r *memVehicleRepo) GetByPlate(plate string) (*entity.Vehicle, error) { return nil, nil }
func (r *memVehicleRepo) List(limit, offset int) ([]*entity.Vehicle, error) { return nil, nil }
func (r *memVehicleRepo) Update(v *entity.Vehicle) error                   { r.vehicles[v.ID] = v; return nil }
func (r *memVehicleRepo) GetForUpdate(id string) (*entity.Vehicle, error)  { return r.GetByID(id) }

type memUserRepo struct {
	users map[string]*entity.User
}

func (r *memUserRepo) Create(u *entity.User) error { r.users[u.ID] = u; return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, nil
}
func (r *memUserRepo) GetByEmail(email string) (*entity.User, error)  { return nil, nil }
func (r *memUserRepo) List(limit, offset int) ([]*entity.User, error) { return nil, nil }
func (r *memUserRepo) Update(u *entity.User) error                    { return nil }

type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, nil
}
func (r *memProductRepo) GetByCode(code string) (*entity.Product, error)   { return nil, nil }
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Update(p *entity.Product) error                   { return nil }
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error)  { return r.GetByID(id) }
func (r *memProductRepo) UpdateStock(id string, stock int) error           { return nil }

type memDeliveryRepo struct {
	deliveries map[string]*entity.Delivery
	seq        int64
}

func (r *memDeliveryRepo) Create(d *entity.Delivery) error { r.deliveries[d.ID] = d; return nil }
func (r *memDeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	if d, ok := r.deliveries[id]; ok {
		return d, nil
	}
	return nil, nil
}
func (r *memDeliveryRepo) List(state string, limit, offset int) ([]*entity.Delivery, error) {
	return nil, nil
}
func (r *memDeliveryRepo) Update(d *entity.Delivery) error              { r.deliveries[d.ID] = d; return nil }
func (r *memDeliveryRepo) GetForUpdate(id string) (*entity.Delivery, error) { return r.GetByID(id) }
func (r *memDeliveryRepo) NextNumber() (int64, error)                   { r.seq++; return r.seq, nil }
func (r *memDeliveryRepo) AppendTracking(deliveryID string, point *entity.TrackingPoint) error {
	d := r.deliveries[deliveryID]
	d.Tracking = append(d.Tracking, *point)
	return nil
}
func (r *memDeliveryRepo) ListActiveTracking() ([]string, error) { return nil, nil }

// memTxRunner pasa los repos tal cual; en estos tests no hay concurrencia y la
// atomicidad la cubren los tests de infraestructura.
type memTxRunner struct {
	routeRepo    *memRouteRepo
	vehicleRepo  *memVehicleRepo
	deliveryRepo *memDeliveryRepo
}

func (tx *memTxRunner) RunRoutes(ctx context.Context, fn func(
	routeRepo repository.RouteRepository,
	vehicleRepo repository.VehicleRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	return fn(tx.routeRepo, tx.vehicleRepo, tx.deliveryRepo)
}

type routesFixture struct {
	uc         *UseCase
	routes     *memRouteRepo
	vehicles   *memVehicleRepo
	deliveries *memDeliveryRepo
	products   *memProductRepo
}

func setupRoutes(t *testing.T) *routesFixture {
	t.Helper()
	routes := &memRouteRepo{routes: map[string]*entity.Route{}}
	vehicles := &memVehicleRepo{vehicles: map[string]*entity.Vehicle{
		"v1": {ID: "v1", Plate: "ABC-123", State: entity.VehicleDisponible},
	}}
	users := &memUserRepo{users: map[string]*entity.User{
		"d1": {ID: "d1", Name: "Carlos", Role: entity.RoleConductor, Active: true},
		"d2": {ID: "d2", Name: "Lucía", Role: entity.RoleConductor, Active: true},
		"a1": {ID: "a1", Name: "Admin", Role: entity.RoleAdmin, Active: true},
	}}
	products := &memProductRepo{products: map[string]*entity.Product{
		"p1": {ID: "p1", Code: "PRD-001", Name: "Cemento 50kg", Stock: 100, Active: true},
	}}
	deliveries := &memDeliveryRepo{deliveries: map[string]*entity.Delivery{}}
	tx := &memTxRunner{routeRepo: routes, vehicleRepo: vehicles, deliveryRepo: deliveries}
	uc := NewUseCase(tx, routes, vehicles, users, products)
	return &routesFixture{uc: uc, routes: routes, vehicles: vehicles, deliveries: deliveries, products: products}
}

func validInput() CreateRouteInput {
	return CreateRouteInput{
		Origin:        entity.Location{Name: "Bodega Norte", Address: "Calle 1", Lat: 4.60, Lon: -74.08},
		Destination:   entity.Location{Name: "Cliente Sur", Address: "Calle 99", Lat: 4.55, Lon: -74.10},
		ScheduledDate: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		VehicleID:     "v1",
		DriverID:      "d1",
		Items:         []RouteItemInput{{ProductID: "p1", Quantity: 10}},
	}
}

// ---- creación ----

func TestCreate_OK(t *testing.T) {
	f := setupRoutes(t)

	route, err := f.uc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "RUT-000001", route.Number)
	assert.Equal(t, entity.RoutePlanificada, route.State)
	assert.Len(t, route.Items, 1)
	assert.Equal(t, 10, route.Items[0].QuantityPlanned)
	assert.Zero(t, route.Items[0].QuantityDelivered)
	// crear no reclama el vehículo ni reserva stock
	assert.Equal(t, entity.VehicleDisponible, f.vehicles.vehicles["v1"].State)
	assert.Equal(t, 100, f.products.products["p1"].Stock)
}

func TestCreate_VehiculoNoDisponible(t *testing.T) {
	f := setupRoutes(t)
	f.vehicles.vehicles["v1"].State = entity.VehicleMantenimiento

	_, err := f.uc.Create(context.Background(), validInput())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreate_RolNoConductor(t *testing.T) {
	f := setupRoutes(t)
	input := validInput()
	input.DriverID = "a1"

	_, err := f.uc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ConflictoDeAgenda(t *testing.T) {
	f := setupRoutes(t)

	_, err := f.uc.Create(context.Background(), validInput())
	require.NoError(t, err)

	// mismo conductor, mismo día calendario, otra hora
	input := validInput()
	input.ScheduledDate = time.Date(2025, 3, 10, 16, 30, 0, 0, time.UTC)
	_, err = f.uc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// otro día: sin conflicto
	input.ScheduledDate = time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	_, err = f.uc.Create(context.Background(), input)
	assert.NoError(t, err)
}

func TestCreate_StockInsuficiente(t *testing.T) {
	f := setupRoutes(t)
	input := validInput()
	input.Items = []RouteItemInput{{ProductID: "p1", Quantity: 150}}

	_, err := f.uc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCreate_CoordenadasInvalidas(t *testing.T) {
	f := setupRoutes(t)
	input := validInput()
	input.Destination.Lat = 91

	_, err := f.uc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ---- transiciones ----

func createRoute(t *testing.T, f *routesFixture) *entity.Route {
	t.Helper()
	route, err := f.uc.Create(context.Background(), validInput())
	require.NoError(t, err)
	return route
}

func TestTransition_EnTransitoReclamaVehiculo(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)

	updated, err := f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	require.NoError(t, err)
	assert.Equal(t, entity.RouteEnTransito, updated.State)
	require.NotNil(t, updated.StartedAt)

	vehicle := f.vehicles.vehicles["v1"]
	assert.Equal(t, entity.VehicleEnRuta, vehicle.State)
	require.NotNil(t, vehicle.DriverID)
	assert.Equal(t, "d1", *vehicle.DriverID)
}

func TestTransition_EnTransitoVehiculoOcupado(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)
	driver := "otro"
	f.vehicles.vehicles["v1"].DriverID = &driver
	f.vehicles.vehicles["v1"].State = entity.VehicleEnRuta

	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransition_CompletadaLiberaVehiculoYSiembraEntrega(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)

	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	require.NoError(t, err)

	updated, err := f.uc.Transition(context.Background(), route.ID, entity.RouteCompletada, TransitionOptions{})
	require.NoError(t, err)
	assert.Equal(t, entity.RouteCompletada, updated.State)
	require.NotNil(t, updated.EndedAt)
	assert.Equal(t, entity.VehicleDisponible, f.vehicles.vehicles["v1"].State)

	require.Len(t, f.deliveries.deliveries, 1)
	for _, d := range f.deliveries.deliveries {
		assert.Equal(t, "ENT-000001", d.Number)
		assert.Equal(t, entity.DeliveryEntregado, d.State)
		require.NotNil(t, d.RouteID)
		assert.Equal(t, route.ID, *d.RouteID)
		assert.Equal(t, "d1", d.DriverID)
		require.Len(t, d.Items, 1)
		// sin cantidades registradas: se da por entregado completo
		assert.Equal(t, 10, d.Items[0].QuantityProgrammed)
		assert.Equal(t, 10, d.Items[0].QuantityDelivered)
		require.NotNil(t, d.DeliveredAt)
		assert.InDelta(t, d.TotalDistance, d.TraveledDistance, 1e-9)
	}
}

func TestTransition_CompletadaConservaParciales(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)

	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	require.NoError(t, err)
	_, err = f.uc.RegisterDeliveredQuantities(context.Background(), route.ID, []DeliveredQuantity{
		{ProductID: "p1", QuantityDelivered: 7},
	})
	require.NoError(t, err)

	_, err = f.uc.Transition(context.Background(), route.ID, entity.RouteCompletada, TransitionOptions{})
	require.NoError(t, err)

	for _, d := range f.deliveries.deliveries {
		require.Len(t, d.Items, 1)
		// la entrega parcial registrada sobrevive a la completación
		assert.Equal(t, 7, d.Items[0].QuantityDelivered)
	}
}

func TestTransition_CanceladaRequiereRazon(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)

	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteCancelada, TransitionOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.RoutePlanificada, f.routes.routes[route.ID].State)
}

func TestTransition_CanceladaLiberaVehiculoSiEstabaEnTransito(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)

	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	require.NoError(t, err)

	updated, err := f.uc.Transition(context.Background(), route.ID, entity.RouteCancelada, TransitionOptions{Reason: "cliente cerró"})
	require.NoError(t, err)
	assert.Equal(t, entity.RouteCancelada, updated.State)
	assert.Equal(t, "cliente cerró", updated.CancelReason)
	assert.Equal(t, entity.VehicleDisponible, f.vehicles.vehicles["v1"].State)
	// cancelar no siembra entrega
	assert.Empty(t, f.deliveries.deliveries)
}

func TestTransition_DesdePlanificadaNoTocaVehiculo(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)
	// simula que otra ruta tiene el vehículo reclamado
	otherDriver := "d2"
	f.vehicles.vehicles["v1"].DriverID = &otherDriver
	f.vehicles.vehicles["v1"].State = entity.VehicleEnRuta

	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteCancelada, TransitionOptions{Reason: "reprogramada"})
	require.NoError(t, err)
	// la cancelación desde planificada no libera un vehículo ajeno
	assert.Equal(t, entity.VehicleEnRuta, f.vehicles.vehicles["v1"].State)
}

func TestTransition_InvalidaDesdeTerminal(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)

	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteCancelada, TransitionOptions{Reason: "sin conductor"})
	require.NoError(t, err)

	_, err = f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	var transErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, "cancelada", transErr.From)
	assert.Equal(t, "en_transito", transErr.To)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_SaltoPlanificadaACompletada(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)

	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteCompletada, TransitionOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, f.deliveries.deliveries)
}

func TestTransition_RutaInexistente(t *testing.T) {
	f := setupRoutes(t)

	_, err := f.uc.Transition(context.Background(), uuid.New().String(), entity.RouteEnTransito, TransitionOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- rastreo manual ----

func TestRegisterTracking_SoloEnTransito(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)

	_, err := f.uc.RegisterTracking(context.Background(), route.ID, 4.58, -74.09, 45, "peaje")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	require.NoError(t, err)

	point, err := f.uc.RegisterTracking(context.Background(), route.ID, 4.58, -74.09, 45, "peaje")
	require.NoError(t, err)
	assert.Equal(t, 45.0, point.Speed)
	require.Len(t, f.routes.routes[route.ID].Tracking, 1)
	assert.Equal(t, "peaje", f.routes.routes[route.ID].Tracking[0].Label)
}

func TestRegisterTracking_CoordenadasFueraDeRango(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)
	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	require.NoError(t, err)

	_, err = f.uc.RegisterTracking(context.Background(), route.ID, -91, 0, 10, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RegisterTracking(context.Background(), route.ID, 0, 181, 10, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ---- cantidades entregadas ----

func TestRegisterDelivered_ParcialNoCompleta(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)
	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	require.NoError(t, err)

	updated, err := f.uc.RegisterDeliveredQuantities(context.Background(), route.ID, []DeliveredQuantity{
		{ProductID: "p1", QuantityDelivered: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RouteEnTransito, updated.State)
	assert.Equal(t, 4, updated.Items[0].QuantityDelivered)
	assert.Empty(t, f.deliveries.deliveries)
}

func TestRegisterDelivered_CompletaEnCascada(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)
	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	require.NoError(t, err)

	updated, err := f.uc.RegisterDeliveredQuantities(context.Background(), route.ID, []DeliveredQuantity{
		{ProductID: "p1", QuantityDelivered: 10},
	})
	require.NoError(t, err)
	// todos los ítems completos: completada automática en cascada
	assert.Equal(t, entity.RouteCompletada, updated.State)
	require.NotNil(t, updated.EndedAt)
	assert.Equal(t, entity.VehicleDisponible, f.vehicles.vehicles["v1"].State)
	require.Len(t, f.deliveries.deliveries, 1)
	for _, d := range f.deliveries.deliveries {
		assert.Equal(t, 10, d.Items[0].QuantityDelivered)
	}
}

func TestRegisterDelivered_ExcedeLoPlaneado(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)
	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	require.NoError(t, err)

	_, err = f.uc.RegisterDeliveredQuantities(context.Background(), route.ID, []DeliveredQuantity{
		{ProductID: "p1", QuantityDelivered: 11},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.routes.routes[route.ID].Items[0].QuantityDelivered)
}

func TestRegisterDelivered_ProductoAjeno(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)
	_, err := f.uc.Transition(context.Background(), route.ID, entity.RouteEnTransito, TransitionOptions{})
	require.NoError(t, err)

	_, err = f.uc.RegisterDeliveredQuantities(context.Background(), route.ID, []DeliveredQuantity{
		{ProductID: "p999", QuantityDelivered: 1},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterDelivered_SoloEnTransito(t *testing.T) {
	f := setupRoutes(t)
	route := createRoute(t, f)

	_, err := f.uc.RegisterDeliveredQuantities(context.Background(), route.ID, []DeliveredQuantity{
		{ProductID: "p1", QuantityDelivered: 5},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
