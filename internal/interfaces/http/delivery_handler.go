package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/logistica-pro/internal/application/deliveries"
	"github.com/tu-usuario/logistica-pro/internal/application/dto"
)

// DeliveryHandler maneja las peticiones HTTP del ciclo de vida de entregas.
type DeliveryHandler struct {
	uc *deliveries.UseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *deliveries.UseCase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear entrega directa
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "entrega"
// @Success      201  {object}  dto.DeliveryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}
	scheduled, err := time.Parse(time.RFC3339, in.ScheduledAt)
	if err != nil {
		return badBody(c, "scheduled_at debe ser RFC 3339")
	}

	items := make([]deliveries.DeliveryItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, deliveries.DeliveryItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	delivery, err := h.uc.Create(c.Context(), deliveries.CreateDeliveryInput{
		Client:      toLocation(in.Client),
		Origin:      toLocation(in.Origin),
		ScheduledAt: scheduled,
		DriverID:    in.DriverID,
		VehicleID:   in.VehicleID,
		Items:       items,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDeliveryResponse(delivery))
}

// GetByID godoc
// @Summary      Obtener entrega
// @Tags         deliveries
// @Produce      json
// @Param        id  path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	delivery, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDeliveryResponse(delivery))
}

// List godoc
// @Summary      Listar entregas
// @Tags         deliveries
// @Produce      json
// @Param        state   query  string  false  "filtrar por estado"
// @Param        limit   query  int     false  "límite (default 20)"
// @Param        offset  query  int     false  "offset"
// @Success      200  {object}  dto.DeliveryListResponse
// @Router       /api/deliveries [get]
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("state"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.DeliveryResponse, 0, len(list))
	for _, d := range list {
		items = append(items, toDeliveryResponse(d))
	}
	return c.JSON(dto.DeliveryListResponse{Total: len(items), Items: items})
}

// StartTracking godoc
// @Summary      Activar rastreo simulado
// @Tags         deliveries
// @Produce      json
// @Param        id  path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/start-tracking [post]
func (h *DeliveryHandler) StartTracking(c *fiber.Ctx) error {
	delivery, err := h.uc.StartTracking(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDeliveryResponse(delivery))
}

// SimulateStep godoc
// @Summary      Avanzar un paso del rastreo simulado
// @Description  Progreso += U[5,15) con tope 100; al llegar a 100 la entrega se completa sola.
// @Tags         deliveries
// @Produce      json
// @Param        id  path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/simulate-step [post]
func (h *DeliveryHandler) SimulateStep(c *fiber.Ctx) error {
	delivery, err := h.uc.SimulateStep(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDeliveryResponse(delivery))
}

// Delay godoc
// @Summary      Marcar entrega como retrasada
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la entrega"
// @Param        body  body  dto.DelayDeliveryRequest true  "reason"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/delay [post]
func (h *DeliveryHandler) Delay(c *fiber.Ctx) error {
	var in dto.DelayDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}
	delivery, err := h.uc.MarkDelayed(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDeliveryResponse(delivery))
}

// Resume godoc
// @Summary      Retomar entrega retrasada
// @Tags         deliveries
// @Produce      json
// @Param        id  path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/resume [post]
func (h *DeliveryHandler) Resume(c *fiber.Ctx) error {
	delivery, err := h.uc.Resume(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDeliveryResponse(delivery))
}

// Complete godoc
// @Summary      Completar entrega
// @Description  Ítems no especificados se dan por entregados completos.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la entrega"
// @Param        body  body  dto.CompleteDeliveryRequest true  "evidencia y cantidades"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/complete [post]
func (h *DeliveryHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}
	items := make([]deliveries.DeliveredItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, deliveries.DeliveredItem{
			ProductID:         it.ProductID,
			QuantityDelivered: it.QuantityDelivered,
		})
	}
	delivery, err := h.uc.Complete(c.Context(), c.Params("id"), deliveries.CompleteInput{
		Signature: in.Signature,
		Photo:     in.Photo,
		Rating:    in.Rating,
		Items:     items,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDeliveryResponse(delivery))
}

// Cancel godoc
// @Summary      Cancelar entrega
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la entrega"
// @Param        body  body  dto.CancelDeliveryRequest true  "reason"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/cancel [post]
func (h *DeliveryHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}
	delivery, err := h.uc.Cancel(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDeliveryResponse(delivery))
}

// Receipt godoc
// @Summary      Comprobante de entrega en PDF
// @Tags         deliveries
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la entrega"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/receipt [get]
func (h *DeliveryHandler) Receipt(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.Receipt(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdfBytes)
}
