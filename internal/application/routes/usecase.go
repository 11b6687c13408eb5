// Package routes implementa el ciclo de vida de rutas: creación validada,
// máquina de estados con efectos sobre la flota, rastreo manual y registro de
// cantidades entregadas con autocompletado.
package routes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/logistica-pro/internal/domain"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

// UseCase casos de uso del ciclo de vida de rutas.
type UseCase struct {
	txRunner    TxRunner
	routeRepo   repository.RouteRepository
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	routeRepo repository.RouteRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		routeRepo:   routeRepo,
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// RouteItemInput producto planificado al crear la ruta.
type RouteItemInput struct {
	ProductID string
	Quantity  int
}

// CreateRouteInput entrada para crear una ruta.
type CreateRouteInput struct {
	Origin        entity.Location
	Destination   entity.Location
	ScheduledDate time.Time
	VehicleID     string
	DriverID      string
	Items         []RouteItemInput
}

// TransitionOptions opciones de una transición (razón para cancelada).
type TransitionOptions struct {
	Reason string
}

// DeliveredQuantity cantidad entregada de un ítem de la ruta.
type DeliveredQuantity struct {
	ProductID         string
	QuantityDelivered int
}

// Create valida y registra una ruta en estado planificada. La verificación de
// stock por ítem es informativa, no una reserva: la ruta no descuenta stock
// del libro de movimientos (ver DESIGN.md).
func (uc *UseCase) Create(ctx context.Context, input CreateRouteInput) (*entity.Route, error) {
	if len(input.Items) == 0 || input.VehicleID == "" || input.DriverID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.ScheduledDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if err := input.Origin.Validate(); err != nil {
		return nil, err
	}
	if err := input.Destination.Validate(); err != nil {
		return nil, err
	}

	vehicle, err := uc.vehicleRepo.GetByID(input.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, domain.ErrNotFound
	}
	if vehicle.State != entity.VehicleDisponible {
		return nil, domain.ErrInvalidState
	}

	driver, err := uc.userRepo.GetByID(input.DriverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, domain.ErrNotFound
	}
	if !driver.Active {
		return nil, domain.ErrInactiveEntity
	}
	if driver.Role != entity.RoleConductor {
		return nil, domain.ErrInvalidInput
	}

	// Conflicto de agenda: el conductor no puede tener otra ruta activa el
	// mismo día calendario. Es una verificación, no un lock.
	busy, err := uc.routeRepo.HasActiveRouteForDriverOn(input.DriverID, input.ScheduledDate)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, domain.ErrConflict
	}

	items := make([]entity.RouteItem, 0, len(input.Items))
	for _, it := range input.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if !product.Active {
			return nil, domain.ErrInactiveEntity
		}
		if product.Stock < it.Quantity {
			return nil, &domain.InsufficientStockError{Available: product.Stock, Requested: it.Quantity}
		}
		items = append(items, entity.RouteItem{ProductID: it.ProductID, QuantityPlanned: it.Quantity})
	}

	n, err := uc.routeRepo.NextNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	route := &entity.Route{
		ID:            uuid.New().String(),
		Number:        fmt.Sprintf("RUT-%06d", n),
		Origin:        input.Origin,
		Destination:   input.Destination,
		ScheduledDate: input.ScheduledDate,
		VehicleID:     input.VehicleID,
		DriverID:      input.DriverID,
		Items:         items,
		State:         entity.RoutePlanificada,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.routeRepo.Create(route); err != nil {
		return nil, err
	}
	return route, nil
}

// GetByID obtiene una ruta con su rastreo.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Route, error) {
	route, err := uc.routeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, domain.ErrNotFound
	}
	return route, nil
}

// List lista rutas, opcionalmente filtradas por estado.
func (uc *UseCase) List(ctx context.Context, state string, limit, offset int) ([]*entity.Route, error) {
	if state != "" && !entity.RouteMachine().Known(entity.RouteState(state)) {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.routeRepo.List(state, limit, offset)
}

// Transition aplica una transición de la máquina de estados. La escritura del
// estado de la ruta y los efectos sobre el vehículo (y la entrega sembrada al
// completar) ocurren en la misma transacción: o se aplica todo, o nada.
func (uc *UseCase) Transition(ctx context.Context, routeID string, target entity.RouteState, opts TransitionOptions) (*entity.Route, error) {
	var updated *entity.Route
	err := uc.txRunner.RunRoutes(ctx, func(
		routeRepo repository.RouteRepository,
		vehicleRepo repository.VehicleRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		route, err := routeRepo.GetForUpdate(routeID)
		if err != nil {
			return err
		}
		if route == nil {
			return domain.ErrNotFound
		}
		if err := uc.applyTransition(routeRepo, vehicleRepo, deliveryRepo, route, target, opts.Reason, time.Now()); err != nil {
			return err
		}
		updated = route
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyTransition ejecuta una transición validada sobre una ruta ya bloqueada,
// usando los repositorios de la transacción en curso. Lo comparten Transition
// y el autocompletado de RegisterDeliveredQuantities.
func (uc *UseCase) applyTransition(
	routeRepo repository.RouteRepository,
	vehicleRepo repository.VehicleRepository,
	deliveryRepo repository.DeliveryRepository,
	route *entity.Route,
	target entity.RouteState,
	reason string,
	now time.Time,
) error {
	if err := entity.RouteMachine().Transition(route.State, target); err != nil {
		return err
	}

	switch target {
	case entity.RouteEnTransito:
		vehicle, err := vehicleRepo.GetForUpdate(route.VehicleID)
		if err != nil {
			return err
		}
		if vehicle == nil {
			return domain.ErrNotFound
		}
		// Bajo el bloqueo de fila: si otro proceso ya reclamó el vehículo,
		// esta transición pierde la carrera.
		if vehicle.State != entity.VehicleDisponible {
			return domain.ErrConflict
		}
		vehicle.DriverID = &route.DriverID
		if err := vehicle.ChangeState(entity.VehicleEnRuta); err != nil {
			return err
		}
		vehicle.UpdatedAt = now
		if err := vehicleRepo.Update(vehicle); err != nil {
			return err
		}
		route.State = entity.RouteEnTransito
		route.StartedAt = &now

	case entity.RouteCompletada:
		if err := uc.releaseVehicle(vehicleRepo, route.VehicleID, now); err != nil {
			return err
		}
		route.State = entity.RouteCompletada
		route.EndedAt = &now
		if err := uc.seedDelivery(deliveryRepo, route, now); err != nil {
			return err
		}

	case entity.RouteCancelada:
		if reason == "" {
			return domain.ErrInvalidInput
		}
		// Solo se libera el vehículo si la ruta lo tenía reclamado.
		if route.State == entity.RouteEnTransito {
			if err := uc.releaseVehicle(vehicleRepo, route.VehicleID, now); err != nil {
				return err
			}
		}
		route.State = entity.RouteCancelada
		route.CancelReason = reason

	default:
		return &domain.InvalidTransitionError{Entity: "ruta", From: string(route.State), To: string(target)}
	}

	route.UpdatedAt = now
	return routeRepo.Update(route)
}

// releaseVehicle devuelve el vehículo a disponible si estaba en ruta.
func (uc *UseCase) releaseVehicle(vehicleRepo repository.VehicleRepository, vehicleID string, now time.Time) error {
	vehicle, err := vehicleRepo.GetForUpdate(vehicleID)
	if err != nil {
		return err
	}
	if vehicle == nil {
		return domain.ErrNotFound
	}
	if vehicle.State == entity.VehicleEnRuta {
		if err := vehicle.ChangeState(entity.VehicleDisponible); err != nil {
			return err
		}
		vehicle.UpdatedAt = now
		if err := vehicleRepo.Update(vehicle); err != nil {
			return err
		}
	}
	return nil
}

// seedDelivery construye la entrega derivada de una ruta completada. Si la
// ruta tiene cantidades entregadas registradas se copian tal cual (la entrega
// parcial sobrevive a la completación); si no hay ninguna registrada, cada
// ítem se da por entregado completo.
func (uc *UseCase) seedDelivery(deliveryRepo repository.DeliveryRepository, route *entity.Route, now time.Time) error {
	n, err := deliveryRepo.NextNumber()
	if err != nil {
		return err
	}

	anyRegistered := false
	for _, it := range route.Items {
		if it.QuantityDelivered > 0 {
			anyRegistered = true
			break
		}
	}

	items := make([]entity.DeliveryItem, 0, len(route.Items))
	for _, it := range route.Items {
		delivered := it.QuantityDelivered
		if !anyRegistered {
			delivered = it.QuantityPlanned
		}
		items = append(items, entity.DeliveryItem{
			ProductID:          it.ProductID,
			QuantityProgrammed: it.QuantityPlanned,
			QuantityDelivered:  delivered,
		})
	}

	distance := route.Origin.DistanceKm(route.Destination)
	delivery := &entity.Delivery{
		ID:               uuid.New().String(),
		Number:           fmt.Sprintf("ENT-%06d", n),
		RouteID:          &route.ID,
		DriverID:         route.DriverID,
		VehicleID:        route.VehicleID,
		Client:           route.Destination,
		Origin:           route.Origin,
		Items:            items,
		State:            entity.DeliveryEntregado,
		ScheduledAt:      route.ScheduledDate,
		StartedAt:        route.StartedAt,
		DeliveredAt:      &now,
		TotalDistance:    distance,
		TraveledDistance: distance,
		CurrentLat:       route.Destination.Lat,
		CurrentLon:       route.Destination.Lon,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return deliveryRepo.Create(delivery)
}

// RegisterTracking agrega un punto de rastreo manual. Solo mientras la ruta
// está en tránsito; el historial es append-only.
func (uc *UseCase) RegisterTracking(ctx context.Context, routeID string, lat, lon, speed float64, note string) (*entity.TrackingPoint, error) {
	if err := entity.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if speed < 0 {
		return nil, domain.ErrInvalidInput
	}
	route, err := uc.routeRepo.GetByID(routeID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, domain.ErrNotFound
	}
	if route.State != entity.RouteEnTransito {
		return nil, domain.ErrInvalidState
	}

	point := &entity.TrackingPoint{
		ID:        uuid.New().String(),
		Lat:       lat,
		Lon:       lon,
		Speed:     speed,
		Label:     note,
		CreatedAt: time.Now(),
	}
	if err := uc.routeRepo.AppendTracking(routeID, point); err != nil {
		return nil, err
	}
	return point, nil
}

// RegisterDeliveredQuantities actualiza las cantidades entregadas por ítem
// (tope: la cantidad planificada). Si todos los ítems quedan completos, la
// ruta se completa automáticamente en la misma transacción, con la liberación
// del vehículo y la siembra de la entrega en cascada.
func (uc *UseCase) RegisterDeliveredQuantities(ctx context.Context, routeID string, quantities []DeliveredQuantity) (*entity.Route, error) {
	if len(quantities) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Route
	err := uc.txRunner.RunRoutes(ctx, func(
		routeRepo repository.RouteRepository,
		vehicleRepo repository.VehicleRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		route, err := routeRepo.GetForUpdate(routeID)
		if err != nil {
			return err
		}
		if route == nil {
			return domain.ErrNotFound
		}
		if route.State != entity.RouteEnTransito {
			return domain.ErrInvalidState
		}

		byProduct := make(map[string]int, len(route.Items))
		for i, it := range route.Items {
			byProduct[it.ProductID] = i
		}
		for _, q := range quantities {
			idx, ok := byProduct[q.ProductID]
			if !ok {
				return domain.ErrInvalidInput
			}
			if q.QuantityDelivered < 0 || q.QuantityDelivered > route.Items[idx].QuantityPlanned {
				return domain.ErrInvalidInput
			}
			route.Items[idx].QuantityDelivered = q.QuantityDelivered
		}

		now := time.Now()
		if route.AllDelivered() {
			if err := uc.applyTransition(routeRepo, vehicleRepo, deliveryRepo, route, entity.RouteCompletada, "", now); err != nil {
				return err
			}
		} else {
			route.UpdatedAt = now
			if err := routeRepo.Update(route); err != nil {
				return err
			}
		}
		updated = route
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
