package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/logistica-pro/internal/domain"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

const vehicleColumns = `id, plate, model, state, driver_id, created_at, updated_at`

// VehicleRepo implementación del puerto VehicleRepository sobre PostgreSQL.
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

// Create persiste un vehículo. La placa es única.
func (r *VehicleRepo) Create(vehicle *entity.Vehicle) error {
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		vehicle.ID, vehicle.Plate, vehicle.Model, vehicle.State, vehicle.DriverID,
		vehicle.CreatedAt, vehicle.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// GetByID obtiene un vehículo por ID.
func (r *VehicleRepo) GetByID(id string) (*entity.Vehicle, error) {
	return r.getWhere(`id = $1`, id, "")
}

// GetByPlate obtiene un vehículo por placa.
func (r *VehicleRepo) GetByPlate(plate string) (*entity.Vehicle, error) {
	return r.getWhere(`plate = $1`, plate, "")
}

// GetForUpdate bloquea la fila del vehículo dentro de la transacción en curso.
func (r *VehicleRepo) GetForUpdate(id string) (*entity.Vehicle, error) {
	return r.getWhere(`id = $1`, id, " FOR UPDATE")
}

func (r *VehicleRepo) getWhere(where, arg, suffix string) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE ` + where + suffix
	var v entity.Vehicle
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&v.ID, &v.Plate, &v.Model, &v.State, &v.DriverID, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return &v, nil
}

// List lista vehículos con paginación.
func (r *VehicleRepo) List(limit, offset int) ([]*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var list []*entity.Vehicle
	for rows.Next() {
		var v entity.Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.Model, &v.State, &v.DriverID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// Update actualiza un vehículo (estado y conductor incluidos).
func (r *VehicleRepo) Update(vehicle *entity.Vehicle) error {
	query := `UPDATE vehicles SET plate = $2, model = $3, state = $4, driver_id = $5, updated_at = $6 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		vehicle.ID, vehicle.Plate, vehicle.Model, vehicle.State, vehicle.DriverID, vehicle.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update vehicle: %w", err)
	}
	return nil
}
