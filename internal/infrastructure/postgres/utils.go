package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tu-usuario/logistica-pro/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isLockTimeout verifica si un error es un lock_not_available (55P03): la
// espera por un bloqueo de fila superó el lock_timeout de la transacción.
func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "55P03" // lock_not_available
	}
	return strings.Contains(err.Error(), "55P03")
}

// translateLockErr convierte el timeout de bloqueo en domain.ErrBusy para que
// la capa HTTP lo exponga como 503 reintentable.
func translateLockErr(err error) error {
	if err != nil && isLockTimeout(err) {
		return domain.ErrBusy
	}
	return err
}
