package entity

import (
	"time"

	"github.com/tu-usuario/logistica-pro/internal/domain"
)

// VehicleState estado operativo de un vehículo. No es una máquina de estados
// estricta: cualquier estado es alcanzable desde cualquier otro porque los
// vehículos se liberan reactivamente desde el ciclo de vida de rutas. La única
// regla es que en_ruta exige conductor asignado.
type VehicleState string

const (
	VehicleDisponible    VehicleState = "disponible"
	VehicleEnRuta        VehicleState = "en_ruta"
	VehicleMantenimiento VehicleState = "mantenimiento"
)

// ValidVehicleState indica si el valor es un estado reconocido.
func ValidVehicleState(s VehicleState) bool {
	switch s {
	case VehicleDisponible, VehicleEnRuta, VehicleMantenimiento:
		return true
	}
	return false
}

// Vehicle representa un vehículo de la flota.
type Vehicle struct {
	ID        string
	Plate     string // placa única
	Model     string
	State     VehicleState
	DriverID  *string // conductor asignado (nil si no tiene)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChangeState aplica el cambio de estado verificando la invariante
// en_ruta => conductor asignado.
func (v *Vehicle) ChangeState(newState VehicleState) error {
	if !ValidVehicleState(newState) {
		return domain.ErrInvalidInput
	}
	if newState == VehicleEnRuta && v.DriverID == nil {
		return domain.ErrInvalidState
	}
	v.State = newState
	return nil
}
