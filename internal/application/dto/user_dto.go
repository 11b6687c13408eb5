package dto

// CreateUserRequest body para POST /api/users.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"required,oneof=admin bodeguero conductor"`
}

// UpdateUserRequest body para PUT /api/users/:id.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=admin bodeguero conductor"`
	Active *bool   `json:"active,omitempty"`
}

// UserResponse representación de un usuario.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

// UserListResponse listado paginado de usuarios.
type UserListResponse struct {
	Total int            `json:"total"`
	Items []UserResponse `json:"items"`
}
