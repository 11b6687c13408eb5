package repository

import "github.com/tu-usuario/logistica-pro/internal/domain/entity"

// VehicleRepository define el puerto de persistencia para vehículos (DIP).
type VehicleRepository interface {
	Create(vehicle *entity.Vehicle) error
	GetByID(id string) (*entity.Vehicle, error)
	GetByPlate(plate string) (*entity.Vehicle, error)
	List(limit, offset int) ([]*entity.Vehicle, error)
	Update(vehicle *entity.Vehicle) error
	// GetForUpdate bloquea la fila del vehículo dentro de la transacción en
	// curso. Evita que dos rutas concurrentes reclamen el mismo vehículo.
	GetForUpdate(id string) (*entity.Vehicle, error)
}
