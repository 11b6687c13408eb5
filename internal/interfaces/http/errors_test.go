package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/logistica-pro/internal/application/dto"
	"github.com/tu-usuario/logistica-pro/internal/domain"
)

// appConError monta una ruta que devuelve el error dado a través de writeError.
func appConError(err error) *fiber.App {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		return writeError(c, err)
	})
	return app
}

func TestWriteError_MapeoDeSentinelas(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"entrada inválida", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"entidad inactiva", domain.ErrInactiveEntity, fiber.StatusUnprocessableEntity, "INACTIVE"},
		{"duplicado", domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{"stock insuficiente", &domain.InsufficientStockError{Available: 2, Requested: 5}, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"transición inválida", &domain.InvalidTransitionError{Entity: "ruta", From: "completada", To: "en_transito"}, fiber.StatusConflict, "INVALID_TRANSITION"},
		{"estado inválido", domain.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE"},
		{"rastreo inactivo", domain.ErrTrackingNotActive, fiber.StatusConflict, "TRACKING_NOT_ACTIVE"},
		{"conflicto", domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{"ocupado", domain.ErrBusy, fiber.StatusServiceUnavailable, "BUSY"},
		{"desconocido", io.ErrUnexpectedEOF, fiber.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := appConError(tc.err)
			resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestValidateBody(t *testing.T) {
	t.Run("cuerpo válido", func(t *testing.T) {
		in := dto.DelayDeliveryRequest{Reason: "tráfico"}
		assert.Empty(t, validateBody(in))
	})

	t.Run("campo requerido ausente", func(t *testing.T) {
		in := dto.DelayDeliveryRequest{}
		assert.NotEmpty(t, validateBody(in))
	})

	t.Run("coordenadas fuera de rango", func(t *testing.T) {
		in := dto.LocationDTO{Name: "Bodega", Lat: 95, Lon: 0}
		assert.NotEmpty(t, validateBody(in))
	})

	t.Run("estado de vehículo no permitido", func(t *testing.T) {
		in := dto.ChangeVehicleStateRequest{State: "volando"}
		assert.NotEmpty(t, validateBody(in))
	})
}
