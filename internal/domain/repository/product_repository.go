package repository

import "github.com/tu-usuario/logistica-pro/internal/domain/entity"

// ProductRepository define el puerto de persistencia para productos (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// GetForUpdate bloquea la fila del producto dentro de la transacción en
	// curso (SELECT FOR UPDATE). Solo tiene sentido con un repo atado a tx.
	GetForUpdate(id string) (*entity.Product, error)
	// UpdateStock escribe el nuevo stock. Solo lo invoca el libro de
	// movimientos; el CRUD de productos nunca toca stock.
	UpdateStock(id string, stock int) error
}
