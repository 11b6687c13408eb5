package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/logistica-pro/internal/application/dto"
	"github.com/tu-usuario/logistica-pro/internal/application/routes"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
)

// RouteHandler maneja las peticiones HTTP del ciclo de vida de rutas.
type RouteHandler struct {
	uc *routes.UseCase
}

// NewRouteHandler construye el handler.
func NewRouteHandler(uc *routes.UseCase) *RouteHandler {
	return &RouteHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ruta
// @Description  Requiere vehículo disponible, conductor sin otra ruta activa el mismo día y stock suficiente (verificación informativa).
// @Tags         routes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRouteRequest  true  "ruta"
// @Success      201  {object}  dto.RouteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/routes [post]
func (h *RouteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRouteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}
	scheduled, err := time.Parse(time.RFC3339, in.ScheduledDate)
	if err != nil {
		return badBody(c, "scheduled_date debe ser RFC 3339")
	}

	items := make([]routes.RouteItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, routes.RouteItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	route, err := h.uc.Create(c.Context(), routes.CreateRouteInput{
		Origin:        toLocation(in.Origin),
		Destination:   toLocation(in.Destination),
		ScheduledDate: scheduled,
		VehicleID:     in.VehicleID,
		DriverID:      in.DriverID,
		Items:         items,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRouteResponse(route))
}

// GetByID godoc
// @Summary      Obtener ruta
// @Tags         routes
// @Produce      json
// @Param        id  path  string  true  "ID de la ruta"
// @Success      200  {object}  dto.RouteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/routes/{id} [get]
func (h *RouteHandler) GetByID(c *fiber.Ctx) error {
	route, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRouteResponse(route))
}

// List godoc
// @Summary      Listar rutas
// @Tags         routes
// @Produce      json
// @Param        state   query  string  false  "filtrar por estado"
// @Param        limit   query  int     false  "límite (default 20)"
// @Param        offset  query  int     false  "offset"
// @Success      200  {object}  dto.RouteListResponse
// @Router       /api/routes [get]
func (h *RouteHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("state"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.RouteResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toRouteResponse(r))
	}
	return c.JSON(dto.RouteListResponse{Total: len(items), Items: items})
}

// Transition godoc
// @Summary      Transicionar ruta
// @Description  en_transito reclama el vehículo; completada lo libera y siembra la entrega; cancelada requiere razón.
// @Tags         routes
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la ruta"
// @Param        body  body  dto.TransitionRouteRequest true  "target, reason"
// @Success      200  {object}  dto.RouteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/routes/{id}/transition [post]
func (h *RouteHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRouteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}
	route, err := h.uc.Transition(c.Context(), c.Params("id"),
		entity.RouteState(in.Target), routes.TransitionOptions{Reason: in.Reason})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRouteResponse(route))
}

// RegisterTracking godoc
// @Summary      Registrar punto de rastreo manual
// @Tags         routes
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la ruta"
// @Param        body  body  dto.RouteTrackingRequest true  "lat, lon, speed, note"
// @Success      201  {object}  dto.TrackingPointResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/routes/{id}/tracking [post]
func (h *RouteHandler) RegisterTracking(c *fiber.Ctx) error {
	var in dto.RouteTrackingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}
	point, err := h.uc.RegisterTracking(c.Context(), c.Params("id"), in.Lat, in.Lon, in.Speed, in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TrackingPointResponse{
		ID:        point.ID,
		Lat:       point.Lat,
		Lon:       point.Lon,
		Speed:     point.Speed,
		Label:     point.Label,
		CreatedAt: point.CreatedAt.Format(time.RFC3339),
	})
}

// RegisterDelivered godoc
// @Summary      Registrar cantidades entregadas
// @Description  Tope por ítem: lo planificado. Si todo queda completo, la ruta se completa automáticamente.
// @Tags         routes
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la ruta"
// @Param        body  body  dto.RegisterDeliveredRequest true  "items"
// @Success      200  {object}  dto.RouteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/routes/{id}/delivered [put]
func (h *RouteHandler) RegisterDelivered(c *fiber.Ctx) error {
	var in dto.RegisterDeliveredRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}
	quantities := make([]routes.DeliveredQuantity, 0, len(in.Items))
	for _, it := range in.Items {
		quantities = append(quantities, routes.DeliveredQuantity{
			ProductID:         it.ProductID,
			QuantityDelivered: it.QuantityDelivered,
		})
	}
	route, err := h.uc.RegisterDeliveredQuantities(c.Context(), c.Params("id"), quantities)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRouteResponse(route))
}
