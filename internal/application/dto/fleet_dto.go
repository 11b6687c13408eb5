package dto

// CreateVehicleRequest body para POST /api/vehicles.
type CreateVehicleRequest struct {
	Plate string `json:"plate" validate:"required"`
	Model string `json:"model,omitempty"`
}

// ChangeVehicleStateRequest body para PATCH /api/vehicles/:id/state.
type ChangeVehicleStateRequest struct {
	State string `json:"state" validate:"required,oneof=disponible en_ruta mantenimiento"`
}

// AssignDriverRequest body para POST /api/vehicles/:id/driver.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id" validate:"required"`
}

// VehicleResponse representación de un vehículo.
type VehicleResponse struct {
	ID        string  `json:"id"`
	Plate     string  `json:"plate"`
	Model     string  `json:"model,omitempty"`
	State     string  `json:"state"`
	DriverID  *string `json:"driver_id,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// VehicleListResponse listado paginado de vehículos.
type VehicleListResponse struct {
	Total int               `json:"total"`
	Items []VehicleResponse `json:"items"`
}
