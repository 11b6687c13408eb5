// Package fleet gestiona la disponibilidad de vehículos: estado operativo y
// conductor asignado. Las rutas mutan el estado del vehículo a través de este
// paquete, nunca directamente.
package fleet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/logistica-pro/internal/domain"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

// UseCase casos de uso de disponibilidad de vehículos.
type UseCase struct {
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(vehicleRepo repository.VehicleRepository, userRepo repository.UserRepository) *UseCase {
	return &UseCase{vehicleRepo: vehicleRepo, userRepo: userRepo}
}

// Create registra un vehículo nuevo en estado disponible.
func (uc *UseCase) Create(ctx context.Context, plate, model string) (*entity.Vehicle, error) {
	if plate == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.vehicleRepo.GetByPlate(plate)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	vehicle := &entity.Vehicle{
		ID:        uuid.New().String(),
		Plate:     plate,
		Model:     model,
		State:     entity.VehicleDisponible,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.vehicleRepo.Create(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// GetByID obtiene un vehículo.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	vehicle, err := uc.vehicleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, domain.ErrNotFound
	}
	return vehicle, nil
}

// List lista vehículos con paginación.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.Vehicle, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.vehicleRepo.List(limit, offset)
}

// AssignDriver asigna un conductor a un vehículo disponible. El conductor debe
// tener rol conductor y estar activo.
func (uc *UseCase) AssignDriver(ctx context.Context, vehicleID, driverID string) (*entity.Vehicle, error) {
	vehicle, err := uc.vehicleRepo.GetByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, domain.ErrNotFound
	}
	if vehicle.State != entity.VehicleDisponible {
		return nil, domain.ErrInvalidState
	}

	driver, err := uc.userRepo.GetByID(driverID)
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

	vehicle.DriverID = &driverID
	vehicle.UpdatedAt = time.Now()
	if err := uc.vehicleRepo.Update(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// ChangeState cambia el estado operativo del vehículo. No es una máquina
// estricta; la única regla es en_ruta => conductor asignado.
func (uc *UseCase) ChangeState(ctx context.Context, vehicleID string, newState entity.VehicleState) (*entity.Vehicle, error) {
	vehicle, err := uc.vehicleRepo.GetByID(vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, domain.ErrNotFound
	}
	if err := vehicle.ChangeState(newState); err != nil {
		return nil, err
	}
	vehicle.UpdatedAt = time.Now()
	if err := uc.vehicleRepo.Update(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}
