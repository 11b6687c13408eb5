// Package deliveries implementa el ciclo de vida de entregas: creación,
// rastreo simulado paso a paso, retraso, completación y cancelación. El
// simulador no tiene timers propios; cada avance lo dispara una llamada
// externa a SimulateStep.
package deliveries

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/logistica-pro/internal/domain"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

// Incrementos del simulador: progreso U[5,15) por paso, velocidad U[20,80) km/h.
const (
	progressStepMin = 5.0
	progressStepMax = 15.0
	speedMin        = 20.0
	speedMax        = 80.0
)

// UseCase casos de uso del ciclo de vida de entregas.
type UseCase struct {
	txRunner     TxRunner
	deliveryRepo repository.DeliveryRepository
	vehicleRepo  repository.VehicleRepository
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
	names        LocationNameLookup
	receipts     ReceiptGenerator

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewUseCase construye el caso de uso. El rng se inyecta para que los tests
// puedan sembrarlo.
func NewUseCase(
	txRunner TxRunner,
	deliveryRepo repository.DeliveryRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	names LocationNameLookup,
	receipts ReceiptGenerator,
	rng *rand.Rand,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		deliveryRepo: deliveryRepo,
		vehicleRepo:  vehicleRepo,
		userRepo:     userRepo,
		productRepo:  productRepo,
		names:        names,
		receipts:     receipts,
		rng:          rng,
	}
}

// DeliveryItemInput producto programado al crear la entrega.
type DeliveryItemInput struct {
	ProductID string
	Quantity  int
}

// CreateDeliveryInput entrada para crear una entrega directa (sin ruta).
type CreateDeliveryInput struct {
	Client      entity.Location
	Origin      entity.Location
	ScheduledAt time.Time
	DriverID    string
	VehicleID   string
	Items       []DeliveryItemInput
}

// DeliveredItem cantidad entregada de un producto al completar.
type DeliveredItem struct {
	ProductID         string
	QuantityDelivered int
}

// CompleteInput evidencia y cantidades al completar una entrega.
type CompleteInput struct {
	Signature string
	Photo     string
	Rating    *int // 1-5
	Items     []DeliveredItem
}

// Create valida y registra una entrega en estado pendiente.
func (uc *UseCase) Create(ctx context.Context, input CreateDeliveryInput) (*entity.Delivery, error) {
	if len(input.Items) == 0 || input.DriverID == "" || input.VehicleID == "" || input.ScheduledAt.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if err := input.Client.Validate(); err != nil {
		return nil, err
	}
	if err := input.Origin.Validate(); err != nil {
		return nil, err
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

	vehicle, err := uc.vehicleRepo.GetByID(input.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, domain.ErrNotFound
	}

	items := make([]entity.DeliveryItem, 0, len(input.Items))
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
		items = append(items, entity.DeliveryItem{ProductID: it.ProductID, QuantityProgrammed: it.Quantity})
	}

	n, err := uc.deliveryRepo.NextNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	delivery := &entity.Delivery{
		ID:            uuid.New().String(),
		Number:        fmt.Sprintf("ENT-%06d", n),
		DriverID:      input.DriverID,
		VehicleID:     input.VehicleID,
		Client:        input.Client,
		Origin:        input.Origin,
		Items:         items,
		State:         entity.DeliveryPendiente,
		ScheduledAt:   input.ScheduledAt,
		CurrentLat:    input.Origin.Lat,
		CurrentLon:    input.Origin.Lon,
		TotalDistance: input.Origin.DistanceKm(input.Client),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.deliveryRepo.Create(delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

// GetByID obtiene una entrega con su rastreo.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	delivery, err := uc.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, domain.ErrNotFound
	}
	return delivery, nil
}

// List lista entregas, opcionalmente filtradas por estado.
func (uc *UseCase) List(ctx context.Context, state string, limit, offset int) ([]*entity.Delivery, error) {
	if state != "" && !entity.DeliveryMachine().Known(entity.DeliveryState(state)) {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.deliveryRepo.List(state, limit, offset)
}

// StartTracking activa el rastreo simulado. Válido desde pendiente (pasa a
// en_proceso) o en_proceso; agrega el punto inicial en el origen con progreso 0.
func (uc *UseCase) StartTracking(ctx context.Context, id string) (*entity.Delivery, error) {
	var updated *entity.Delivery
	err := uc.txRunner.RunDeliveries(ctx, func(deliveryRepo repository.DeliveryRepository) error {
		delivery, err := deliveryRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if delivery == nil {
			return domain.ErrNotFound
		}
		if delivery.TrackingActive {
			return domain.ErrConflict
		}
		now := time.Now()
		if delivery.State == entity.DeliveryPendiente {
			if err := entity.DeliveryMachine().Transition(delivery.State, entity.DeliveryEnProceso); err != nil {
				return err
			}
			delivery.State = entity.DeliveryEnProceso
			delivery.StartedAt = &now
		} else if delivery.State != entity.DeliveryEnProceso {
			return domain.ErrInvalidState
		}

		delivery.TrackingActive = true
		delivery.CurrentLat = delivery.Origin.Lat
		delivery.CurrentLon = delivery.Origin.Lon
		point := entity.TrackingPoint{
			ID:        uuid.New().String(),
			Lat:       delivery.Origin.Lat,
			Lon:       delivery.Origin.Lon,
			Speed:     0,
			Progress:  0,
			Label:     delivery.Origin.Name,
			CreatedAt: now,
		}
		delivery.Tracking = append(delivery.Tracking, point)
		delivery.UpdatedAt = now
		if err := deliveryRepo.Update(delivery); err != nil {
			return err
		}
		if err := deliveryRepo.AppendTracking(delivery.ID, &point); err != nil {
			return err
		}
		updated = delivery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SimulateStep avanza el rastreo simulado un paso: progreso += U[5,15) con
// tope 100, posición interpolada linealmente origen→cliente, velocidad
// U[20,80) y nombre de referencia aleatorio. Al alcanzar 100 la entrega se
// completa sola: entregado, rastreo apagado, ítems entregados completos.
func (uc *UseCase) SimulateStep(ctx context.Context, id string) (*entity.Delivery, error) {
	var updated *entity.Delivery
	err := uc.txRunner.RunDeliveries(ctx, func(deliveryRepo repository.DeliveryRepository) error {
		delivery, err := deliveryRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if delivery == nil {
			return domain.ErrNotFound
		}
		if !delivery.TrackingActive {
			return domain.ErrTrackingNotActive
		}

		progress := delivery.Progress() + uc.uniform(progressStepMin, progressStepMax)
		if progress > 100 {
			progress = 100
		}
		lat, lon := delivery.Origin.Interpolate(delivery.Client, progress/100)
		speed := uc.uniform(speedMin, speedMax)

		now := time.Now()
		point := entity.TrackingPoint{
			ID:        uuid.New().String(),
			Lat:       lat,
			Lon:       lon,
			Speed:     speed,
			Progress:  progress,
			Label:     uc.names.RandomLabel(),
			CreatedAt: now,
		}
		delivery.Tracking = append(delivery.Tracking, point)
		delivery.CurrentLat = lat
		delivery.CurrentLon = lon
		delivery.TraveledDistance = delivery.TotalDistance * progress / 100

		if progress >= 100 {
			if err := entity.DeliveryMachine().Transition(delivery.State, entity.DeliveryEntregado); err != nil {
				return err
			}
			delivery.State = entity.DeliveryEntregado
			delivery.TrackingActive = false
			delivery.DeliveredAt = &now
			for i := range delivery.Items {
				delivery.Items[i].QuantityDelivered = delivery.Items[i].QuantityProgrammed
			}
		}

		delivery.UpdatedAt = now
		if err := deliveryRepo.Update(delivery); err != nil {
			return err
		}
		if err := deliveryRepo.AppendTracking(delivery.ID, &point); err != nil {
			return err
		}
		updated = delivery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkDelayed marca la entrega como retrasada. Requiere razón; válido solo
// desde pendiente o en_proceso.
func (uc *UseCase) MarkDelayed(ctx context.Context, id, reason string) (*entity.Delivery, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Delivery
	err := uc.txRunner.RunDeliveries(ctx, func(deliveryRepo repository.DeliveryRepository) error {
		delivery, err := deliveryRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if delivery == nil {
			return domain.ErrNotFound
		}
		if err := entity.DeliveryMachine().Transition(delivery.State, entity.DeliveryRetrasado); err != nil {
			return err
		}
		delivery.State = entity.DeliveryRetrasado
		delivery.DelayReason = reason
		delivery.UpdatedAt = time.Now()
		if err := deliveryRepo.Update(delivery); err != nil {
			return err
		}
		updated = delivery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Resume retoma una entrega retrasada a en_proceso.
func (uc *UseCase) Resume(ctx context.Context, id string) (*entity.Delivery, error) {
	var updated *entity.Delivery
	err := uc.txRunner.RunDeliveries(ctx, func(deliveryRepo repository.DeliveryRepository) error {
		delivery, err := deliveryRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if delivery == nil {
			return domain.ErrNotFound
		}
		if err := entity.DeliveryMachine().Transition(delivery.State, entity.DeliveryEnProceso); err != nil {
			return err
		}
		delivery.State = entity.DeliveryEnProceso
		delivery.DelayReason = ""
		delivery.UpdatedAt = time.Now()
		if err := deliveryRepo.Update(delivery); err != nil {
			return err
		}
		updated = delivery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Complete termina la entrega con evidencia opcional. Los ítems no
// especificados se dan por entregados completos; los especificados no pueden
// exceder lo programado. Agrega el punto final en el cliente con progreso 100.
func (uc *UseCase) Complete(ctx context.Context, id string, input CompleteInput) (*entity.Delivery, error) {
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Delivery
	err := uc.txRunner.RunDeliveries(ctx, func(deliveryRepo repository.DeliveryRepository) error {
		delivery, err := deliveryRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if delivery == nil {
			return domain.ErrNotFound
		}
		if err := entity.DeliveryMachine().Transition(delivery.State, entity.DeliveryEntregado); err != nil {
			return err
		}

		byProduct := make(map[string]int, len(delivery.Items))
		for i, it := range delivery.Items {
			byProduct[it.ProductID] = i
		}
		specified := make(map[string]bool, len(input.Items))
		for _, it := range input.Items {
			idx, ok := byProduct[it.ProductID]
			if !ok {
				return domain.ErrInvalidInput
			}
			if it.QuantityDelivered < 0 || it.QuantityDelivered > delivery.Items[idx].QuantityProgrammed {
				return domain.ErrInvalidInput
			}
			delivery.Items[idx].QuantityDelivered = it.QuantityDelivered
			specified[it.ProductID] = true
		}
		for i := range delivery.Items {
			if !specified[delivery.Items[i].ProductID] {
				delivery.Items[i].QuantityDelivered = delivery.Items[i].QuantityProgrammed
			}
		}

		now := time.Now()
		point := entity.TrackingPoint{
			ID:        uuid.New().String(),
			Lat:       delivery.Client.Lat,
			Lon:       delivery.Client.Lon,
			Speed:     0,
			Progress:  100,
			Label:     delivery.Client.Name,
			CreatedAt: now,
		}
		delivery.Tracking = append(delivery.Tracking, point)
		delivery.State = entity.DeliveryEntregado
		delivery.TrackingActive = false
		delivery.DeliveredAt = &now
		delivery.CurrentLat = delivery.Client.Lat
		delivery.CurrentLon = delivery.Client.Lon
		delivery.TraveledDistance = delivery.TotalDistance
		delivery.Signature = input.Signature
		delivery.Photo = input.Photo
		delivery.Rating = input.Rating
		delivery.UpdatedAt = now
		if err := deliveryRepo.Update(delivery); err != nil {
			return err
		}
		if err := deliveryRepo.AppendTracking(delivery.ID, &point); err != nil {
			return err
		}
		updated = delivery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel cancela la entrega. Requiere razón; apaga el rastreo.
func (uc *UseCase) Cancel(ctx context.Context, id, reason string) (*entity.Delivery, error) {
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Delivery
	err := uc.txRunner.RunDeliveries(ctx, func(deliveryRepo repository.DeliveryRepository) error {
		delivery, err := deliveryRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if delivery == nil {
			return domain.ErrNotFound
		}
		if err := entity.DeliveryMachine().Transition(delivery.State, entity.DeliveryCancelado); err != nil {
			return err
		}
		delivery.State = entity.DeliveryCancelado
		delivery.CancelReason = reason
		delivery.TrackingActive = false
		delivery.UpdatedAt = time.Now()
		if err := deliveryRepo.Update(delivery); err != nil {
			return err
		}
		updated = delivery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Receipt genera el comprobante de entrega en PDF. Solo para entregas en
// estado entregado.
func (uc *UseCase) Receipt(ctx context.Context, id string) ([]byte, error) {
	delivery, err := uc.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, domain.ErrNotFound
	}
	if delivery.State != entity.DeliveryEntregado {
		return nil, domain.ErrInvalidState
	}
	return uc.receipts.Generate(delivery)
}

// ActiveTrackingIDs devuelve los IDs con rastreo activo; lo consume el poller
// externo del simulador.
func (uc *UseCase) ActiveTrackingIDs(ctx context.Context) ([]string, error) {
	return uc.deliveryRepo.ListActiveTracking()
}

// uniform muestrea U[min,max). El rng compartido se protege con mutex porque
// el poller y los handlers pueden simular pasos en paralelo.
func (uc *UseCase) uniform(min, max float64) float64 {
	uc.rngMu.Lock()
	defer uc.rngMu.Unlock()
	return min + uc.rng.Float64()*(max-min)
}
