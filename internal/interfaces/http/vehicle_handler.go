package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/logistica-pro/internal/application/dto"
	"github.com/tu-usuario/logistica-pro/internal/application/fleet"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
)

// VehicleHandler maneja las peticiones HTTP de la flota.
type VehicleHandler struct {
	uc *fleet.UseCase
}

// NewVehicleHandler construye el handler.
func NewVehicleHandler(uc *fleet.UseCase) *VehicleHandler {
	return &VehicleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar vehículo
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVehicleRequest  true  "vehículo"
// @Success      201  {object}  dto.VehicleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vehicles [post]
func (h *VehicleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVehicleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}
	vehicle, err := h.uc.Create(c.Context(), in.Plate, in.Model)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toVehicleResponse(vehicle))
}

// GetByID godoc
// @Summary      Obtener vehículo
// @Tags         vehicles
// @Produce      json
// @Param        id  path  string  true  "ID del vehículo"
// @Success      200  {object}  dto.VehicleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vehicles/{id} [get]
func (h *VehicleHandler) GetByID(c *fiber.Ctx) error {
	vehicle, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toVehicleResponse(vehicle))
}

// List godoc
// @Summary      Listar vehículos
// @Tags         vehicles
// @Produce      json
// @Param        limit   query  int  false  "límite (default 20)"
// @Param        offset  query  int  false  "offset"
// @Success      200  {object}  dto.VehicleListResponse
// @Router       /api/vehicles [get]
func (h *VehicleHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		items = append(items, toVehicleResponse(v))
	}
	return c.JSON(dto.VehicleListResponse{Total: len(items), Items: items})
}

// ChangeState godoc
// @Summary      Cambiar estado operativo del vehículo
// @Description  en_ruta exige conductor asignado.
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del vehículo"
// @Param        body  body  dto.ChangeVehicleStateRequest true  "state"
// @Success      200  {object}  dto.VehicleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vehicles/{id}/state [patch]
func (h *VehicleHandler) ChangeState(c *fiber.Ctx) error {
	var in dto.ChangeVehicleStateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}
	vehicle, err := h.uc.ChangeState(c.Context(), c.Params("id"), entity.VehicleState(in.State))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toVehicleResponse(vehicle))
}

// AssignDriver godoc
// @Summary      Asignar conductor a un vehículo disponible
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del vehículo"
// @Param        body  body  dto.AssignDriverRequest true  "driver_id"
// @Success      200  {object}  dto.VehicleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/vehicles/{id}/driver [post]
func (h *VehicleHandler) AssignDriver(c *fiber.Ctx) error {
	var in dto.AssignDriverRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}
	vehicle, err := h.uc.AssignDriver(c.Context(), c.Params("id"), in.DriverID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toVehicleResponse(vehicle))
}
