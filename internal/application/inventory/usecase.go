package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/logistica-pro/internal/domain"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

// RegisterMovementUseCase es el libro de movimientos: la única vía por la que
// cambia el stock de un producto. Cada registro abre una transacción, bloquea
// la fila del producto (SELECT FOR UPDATE), verifica que una salida o traslado
// no deje el stock en negativo y escribe la actualización de stock junto con
// el movimiento como una sola unidad. Dos salidas concurrentes sobre el mismo
// producto quedan serializadas por el bloqueo de fila; movimientos sobre
// productos distintos no se bloquean entre sí.
type RegisterMovementUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	userRepo      repository.UserRepository
	warehouseRepo repository.WarehouseRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	warehouseRepo repository.WarehouseRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		userRepo:      userRepo,
		warehouseRepo: warehouseRepo,
	}
}

// MovementInput entrada para registrar un movimiento.
// Para entrada/salida: ProductID, Quantity, ResponsibleID, Motive.
// Para transferencia: además OriginWarehouseID y DestinationWarehouseID, distintos.
type MovementInput struct {
	Type                   string
	ProductID              string
	Quantity               int
	ResponsibleID          string
	Motive                 string
	OriginWarehouseID      string
	DestinationWarehouseID string
}

// RegisterMovement valida la entrada, abre la transacción y registra el
// movimiento con sus instantáneas StockAnterior/StockNuevo. Falla sin efectos
// parciales: o se persisten stock y movimiento juntos, o nada.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	if err := uc.validateInput(input); err != nil {
		return nil, err
	}

	// Validaciones de referencias fuera de la transacción: son lecturas
	// simples y el estado del producto se re-verifica bajo el bloqueo.
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.Active {
		return nil, domain.ErrInactiveEntity
	}

	responsible, err := uc.userRepo.GetByID(input.ResponsibleID)
	if err != nil {
		return nil, err
	}
	if responsible == nil {
		return nil, domain.ErrNotFound
	}
	if !responsible.Active {
		return nil, domain.ErrInactiveEntity
	}

	if input.Type == entity.MovementTypeTransferencia {
		if err := uc.validateWarehouse(input.OriginWarehouseID); err != nil {
			return nil, err
		}
		if err := uc.validateWarehouse(input.DestinationWarehouseID); err != nil {
			return nil, err
		}
	}

	var movement *entity.Movement

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila del producto: serializa movimientos concurrentes
		// sobre el mismo producto y hace confiable la lectura de stock.
		locked, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if !locked.Active {
			return domain.ErrInactiveEntity
		}

		stockAnterior := locked.Stock
		var stockNuevo int
		switch input.Type {
		case entity.MovementTypeEntrada:
			stockNuevo = stockAnterior + input.Quantity
		case entity.MovementTypeSalida, entity.MovementTypeTransferencia:
			if stockAnterior < input.Quantity {
				return &domain.InsufficientStockError{
					Available: stockAnterior,
					Requested: input.Quantity,
				}
			}
			stockNuevo = stockAnterior - input.Quantity
		}

		if err := productRepo.UpdateStock(input.ProductID, stockNuevo); err != nil {
			return err
		}

		// El instante se captura bajo el bloqueo de fila: el orden de los
		// CreatedAt coincide con el orden de commit y el historial ordenado
		// por fecha preserva la cadena de instantáneas.
		now := time.Now()
		movement = &entity.Movement{
			Type:          input.Type,
			ProductID:     input.ProductID,
			Quantity:      input.Quantity,
			ResponsibleID: input.ResponsibleID,
			Motive:        input.Motive,
			StockAnterior: stockAnterior,
			StockNuevo:    stockNuevo,
			CreatedAt:     now,
		}
		if input.Type == entity.MovementTypeTransferencia {
			origin, dest := input.OriginWarehouseID, input.DestinationWarehouseID
			movement.OriginWarehouseID = &origin
			movement.DestinationWarehouseID = &dest
		}
		return movRepo.Create(movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// validateInput verifica forma del movimiento antes de tocar la BD.
func (uc *RegisterMovementUseCase) validateInput(input MovementInput) error {
	if !entity.ValidMovementType(input.Type) {
		return domain.ErrInvalidInput
	}
	if input.ProductID == "" || input.ResponsibleID == "" {
		return domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if !entity.ValidMotive(input.Motive) {
		return domain.ErrInvalidInput
	}
	if input.Type == entity.MovementTypeTransferencia {
		if input.OriginWarehouseID == "" || input.DestinationWarehouseID == "" {
			return domain.ErrInvalidInput
		}
		if input.OriginWarehouseID == input.DestinationWarehouseID {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func (uc *RegisterMovementUseCase) validateWarehouse(id string) error {
	warehouse, err := uc.warehouseRepo.GetByID(id)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return domain.ErrNotFound
	}
	if !warehouse.Active {
		return domain.ErrInactiveEntity
	}
	return nil
}
