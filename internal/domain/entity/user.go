package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleConductor = "conductor"
)

// ValidRole indica si el rol es reconocido.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleBodeguero, RoleConductor:
		return true
	}
	return false
}

// User representa un usuario del sistema. La autenticación vive fuera de este
// servicio; aquí solo importan rol y estado para las reglas de negocio
// (responsable de movimientos, conductor de rutas).
type User struct {
	ID        string
	Email     string
	Name      string
	Role      string // admin, bodeguero, conductor
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
