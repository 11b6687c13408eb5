package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/logistica-pro/internal/application/dto"
	"github.com/tu-usuario/logistica-pro/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del libro de movimientos.
type InventoryHandler struct {
	register *inventory.RegisterMovementUseCase
	history  *inventory.HistoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(register *inventory.RegisterMovementUseCase, history *inventory.HistoryUseCase) *InventoryHandler {
	return &InventoryHandler{register: register, history: history}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Registra entrada, salida o transferencia. El stock nunca queda negativo.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "")
	}
	if msg := validateBody(in); msg != "" {
		return badBody(c, msg)
	}

	movement, err := h.register.RegisterMovement(c.Context(), inventory.MovementInput{
		Type:                   in.Type,
		ProductID:              in.ProductID,
		Quantity:               in.Quantity,
		ResponsibleID:          in.ResponsibleID,
		Motive:                 in.Motive,
		OriginWarehouseID:      in.OriginWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(movement))
}

// GetMovement godoc
// @Summary      Obtener un movimiento por ID
// @Tags         inventory
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	movement, err := h.history.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementResponse(movement))
}

// History godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "desde (RFC 3339)"
// @Param        to      query  string  false  "hasta (RFC 3339)"
// @Param        limit   query  int     false  "límite (default 50)"
// @Param        offset  query  int     false  "offset"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/product/{id} [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return badBody(c, "rango de fechas inválido")
	}
	movements, err := h.history.ObtainHistory(
		c.Context(), c.Params("id"), from, to,
		c.QueryInt("limit", 50), c.QueryInt("offset", 0),
	)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{Total: len(items), Items: items})
}

// Summary godoc
// @Summary      Resumen de movimientos por tipo
// @Tags         inventory
// @Produce      json
// @Param        from  query  string  false  "desde (RFC 3339)"
// @Param        to    query  string  false  "hasta (RFC 3339)"
// @Success      200  {object}  dto.MovementSummaryResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return badBody(c, "rango de fechas inválido")
	}
	summary, err := h.history.SummarizeByType(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	out := make(map[string]dto.MovementTypeSummary, len(summary))
	for t, s := range summary {
		out[t] = dto.MovementTypeSummary{TotalQuantity: s.TotalQuantity, Count: s.Count}
	}
	return c.JSON(dto.MovementSummaryResponse{Summary: out})
}

// parseDateRange lee from/to en RFC 3339 del query string (nil si ausentes).
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
