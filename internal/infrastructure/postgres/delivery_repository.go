package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

const deliveryColumns = `id, number, route_id, driver_id, vehicle_id,
	client_name, client_address, client_lat, client_lon,
	origin_name, origin_address, origin_lat, origin_lon,
	state, scheduled_at, started_at, delivered_at,
	tracking_active, current_lat, current_lon, total_distance, traveled_distance,
	signature, photo, rating, delay_reason, cancel_reason, created_at, updated_at`

// DeliveryRepo implementación del puerto DeliveryRepository sobre PostgreSQL.
// Igual que las rutas: deliveries, delivery_items y delivery_tracking.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste la entrega con sus ítems.
func (r *DeliveryRepo) Create(delivery *entity.Delivery) error {
	ctx := context.Background()
	query := `
		INSERT INTO deliveries (` + deliveryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)`
	_, err := r.q.Exec(ctx, query,
		delivery.ID, delivery.Number, delivery.RouteID, delivery.DriverID, delivery.VehicleID,
		delivery.Client.Name, delivery.Client.Address, delivery.Client.Lat, delivery.Client.Lon,
		delivery.Origin.Name, delivery.Origin.Address, delivery.Origin.Lat, delivery.Origin.Lon,
		delivery.State, delivery.ScheduledAt, delivery.StartedAt, delivery.DeliveredAt,
		delivery.TrackingActive, delivery.CurrentLat, delivery.CurrentLon,
		delivery.TotalDistance, delivery.TraveledDistance,
		delivery.Signature, delivery.Photo, delivery.Rating,
		delivery.DelayReason, delivery.CancelReason,
		delivery.CreatedAt, delivery.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return r.insertItems(ctx, delivery)
}

func (r *DeliveryRepo) insertItems(ctx context.Context, delivery *entity.Delivery) error {
	for _, it := range delivery.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO delivery_items (delivery_id, product_id, quantity_programmed, quantity_delivered)
			VALUES ($1, $2, $3, $4)`,
			delivery.ID, it.ProductID, it.QuantityProgrammed, it.QuantityDelivered,
		)
		if err != nil {
			return fmt.Errorf("insert delivery item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la entrega con ítems y rastreo.
func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	return r.getWhere(id, "")
}

// GetForUpdate bloquea la fila de la entrega dentro de la transacción en curso.
func (r *DeliveryRepo) GetForUpdate(id string) (*entity.Delivery, error) {
	return r.getWhere(id, " FOR UPDATE")
}

func (r *DeliveryRepo) getWhere(id, suffix string) (*entity.Delivery, error) {
	ctx := context.Background()
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1` + suffix
	delivery, err := scanDelivery(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	if err := r.loadItems(ctx, delivery); err != nil {
		return nil, err
	}
	if err := r.loadTracking(ctx, delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

func scanDelivery(row pgx.Row) (*entity.Delivery, error) {
	var d entity.Delivery
	var signature, photo, delayReason, cancelReason *string
	err := row.Scan(
		&d.ID, &d.Number, &d.RouteID, &d.DriverID, &d.VehicleID,
		&d.Client.Name, &d.Client.Address, &d.Client.Lat, &d.Client.Lon,
		&d.Origin.Name, &d.Origin.Address, &d.Origin.Lat, &d.Origin.Lon,
		&d.State, &d.ScheduledAt, &d.StartedAt, &d.DeliveredAt,
		&d.TrackingActive, &d.CurrentLat, &d.CurrentLon,
		&d.TotalDistance, &d.TraveledDistance,
		&signature, &photo, &d.Rating, &delayReason, &cancelReason,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if signature != nil {
		d.Signature = *signature
	}
	if photo != nil {
		d.Photo = *photo
	}
	if delayReason != nil {
		d.DelayReason = *delayReason
	}
	if cancelReason != nil {
		d.CancelReason = *cancelReason
	}
	return &d, nil
}

func (r *DeliveryRepo) loadItems(ctx context.Context, delivery *entity.Delivery) error {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, quantity_programmed, quantity_delivered
		FROM delivery_items WHERE delivery_id = $1 ORDER BY product_id`, delivery.ID)
	if err != nil {
		return fmt.Errorf("load delivery items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.DeliveryItem
		if err := rows.Scan(&it.ProductID, &it.QuantityProgrammed, &it.QuantityDelivered); err != nil {
			return fmt.Errorf("scan delivery item: %w", err)
		}
		delivery.Items = append(delivery.Items, it)
	}
	return rows.Err()
}

func (r *DeliveryRepo) loadTracking(ctx context.Context, delivery *entity.Delivery) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, lat, lon, speed, progress, label, created_at
		FROM delivery_tracking WHERE delivery_id = $1 ORDER BY created_at`, delivery.ID)
	if err != nil {
		return fmt.Errorf("load delivery tracking: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.TrackingPoint
		if err := rows.Scan(&p.ID, &p.Lat, &p.Lon, &p.Speed, &p.Progress, &p.Label, &p.CreatedAt); err != nil {
			return fmt.Errorf("scan tracking point: %w", err)
		}
		delivery.Tracking = append(delivery.Tracking, p)
	}
	return rows.Err()
}

// List lista entregas con ítems, opcionalmente filtradas por estado.
func (r *DeliveryRepo) List(state string, limit, offset int) ([]*entity.Delivery, error) {
	ctx := context.Background()
	query := `SELECT ` + deliveryColumns + ` FROM deliveries`
	args := []any{}
	pos := 1
	if state != "" {
		query += fmt.Sprintf(" WHERE state = $%d", pos)
		args = append(args, state)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var list []*entity.Delivery
	for rows.Next() {
		delivery, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, delivery)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, delivery := range list {
		if err := r.loadItems(ctx, delivery); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Update actualiza la entrega y reescribe sus ítems. El rastreo es append-only
// vía AppendTracking.
func (r *DeliveryRepo) Update(delivery *entity.Delivery) error {
	ctx := context.Background()
	query := `
		UPDATE deliveries SET state = $2, started_at = $3, delivered_at = $4,
			tracking_active = $5, current_lat = $6, current_lon = $7,
			traveled_distance = $8, signature = $9, photo = $10, rating = $11,
			delay_reason = $12, cancel_reason = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		delivery.ID, delivery.State, delivery.StartedAt, delivery.DeliveredAt,
		delivery.TrackingActive, delivery.CurrentLat, delivery.CurrentLon,
		delivery.TraveledDistance, delivery.Signature, delivery.Photo, delivery.Rating,
		delivery.DelayReason, delivery.CancelReason, delivery.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM delivery_items WHERE delivery_id = $1`, delivery.ID); err != nil {
		return fmt.Errorf("clear delivery items: %w", err)
	}
	return r.insertItems(ctx, delivery)
}

// NextNumber devuelve el siguiente consecutivo de la secuencia de entregas.
func (r *DeliveryRepo) NextNumber() (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('delivery_number_seq')`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next delivery number: %w", err)
	}
	return n, nil
}

// AppendTracking agrega un punto al historial de la entrega.
func (r *DeliveryRepo) AppendTracking(deliveryID string, point *entity.TrackingPoint) error {
	if point.ID == "" {
		point.ID = uuid.New().String()
	}
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO delivery_tracking (id, delivery_id, lat, lon, speed, progress, label, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		point.ID, deliveryID, point.Lat, point.Lon, point.Speed, point.Progress, point.Label, point.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append delivery tracking: %w", err)
	}
	return nil
}

// ListActiveTracking devuelve los IDs de entregas con rastreo activo.
func (r *DeliveryRepo) ListActiveTracking() ([]string, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id FROM deliveries WHERE tracking_active ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list active tracking: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan delivery id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
