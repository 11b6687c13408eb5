package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// validate instancia compartida del validador de structs; los tags validate de
// los DTOs se verifican después del BodyParser y antes del caso de uso.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validateBody valida los tags del DTO y devuelve el mensaje del primer fallo.
func validateBody(in any) string {
	err := validate.Struct(in)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "campo inválido: " + verrs[0].Namespace()
	}
	return err.Error()
}
