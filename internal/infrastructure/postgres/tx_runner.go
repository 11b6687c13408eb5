package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/logistica-pro/internal/application/deliveries"
	"github.com/tu-usuario/logistica-pro/internal/application/inventory"
	"github.com/tu-usuario/logistica-pro/internal/application/routes"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
	"github.com/tu-usuario/logistica-pro/pkg/config"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ routes.TxRunner = (*TxRunner)(nil)
var _ deliveries.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Cada
// transacción arranca con SET LOCAL lock_timeout: una espera por fila que
// supere el límite termina en domain.ErrBusy en lugar de colgarse.
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMS int
}

// NewTxRunner construye el runner con el pool y el lock_timeout configurado.
func NewTxRunner(pool *pgxpool.Pool, cfg config.DBConfig) *TxRunner {
	return &TxRunner{pool: pool, lockTimeoutMS: cfg.LockTimeout}
}

func (r *TxRunner) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	if r.lockTimeoutMS > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeoutMS)); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("set lock_timeout: %w", err)
		}
	}
	return tx, nil
}

// Run inicia una transacción con los repos del libro de movimientos y hace
// Commit o Rollback según el resultado del callback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(movRepo, productRepo); err != nil {
		return translateLockErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunRoutes inicia una transacción con los repos del ciclo de vida de rutas
// (ruta, vehículo y entrega sembrada al completar).
func (r *TxRunner) RunRoutes(ctx context.Context, fn func(
	routeRepo repository.RouteRepository,
	vehicleRepo repository.VehicleRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	routeRepo := NewRouteRepository(tx)
	vehicleRepo := NewVehicleRepository(tx)
	deliveryRepo := NewDeliveryRepository(tx)

	if err := fn(routeRepo, vehicleRepo, deliveryRepo); err != nil {
		return translateLockErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunDeliveries inicia una transacción con el repo de entregas (rastreo
// simulado y transiciones de entrega).
func (r *TxRunner) RunDeliveries(ctx context.Context, fn func(
	deliveryRepo repository.DeliveryRepository,
) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	deliveryRepo := NewDeliveryRepository(tx)

	if err := fn(deliveryRepo); err != nil {
		return translateLockErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
