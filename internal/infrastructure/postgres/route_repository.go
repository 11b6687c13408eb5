package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/logistica-pro/internal/domain/entity"
	"github.com/tu-usuario/logistica-pro/internal/domain/repository"
)

var _ repository.RouteRepository = (*RouteRepo)(nil)

const routeColumns = `id, number, origin_name, origin_address, origin_lat, origin_lon,
	destination_name, destination_address, destination_lat, destination_lon,
	scheduled_date, vehicle_id, driver_id, state, started_at, ended_at, cancel_reason,
	created_at, updated_at`

// RouteRepo implementación del puerto RouteRepository sobre PostgreSQL. La ruta
// se persiste en tres tablas: routes, route_items y route_tracking
// (append-only, ordenada por created_at).
type RouteRepo struct {
	q Querier
}

// NewRouteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRouteRepository(q Querier) *RouteRepo {
	return &RouteRepo{q: q}
}

// Create persiste la ruta con sus ítems.
func (r *RouteRepo) Create(route *entity.Route) error {
	ctx := context.Background()
	query := `
		INSERT INTO routes (` + routeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		route.ID, route.Number,
		route.Origin.Name, route.Origin.Address, route.Origin.Lat, route.Origin.Lon,
		route.Destination.Name, route.Destination.Address, route.Destination.Lat, route.Destination.Lon,
		route.ScheduledDate, route.VehicleID, route.DriverID, route.State,
		route.StartedAt, route.EndedAt, route.CancelReason,
		route.CreatedAt, route.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert route: %w", err)
	}
	return r.insertItems(ctx, route)
}

func (r *RouteRepo) insertItems(ctx context.Context, route *entity.Route) error {
	for _, it := range route.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO route_items (route_id, product_id, quantity_planned, quantity_delivered)
			VALUES ($1, $2, $3, $4)`,
			route.ID, it.ProductID, it.QuantityPlanned, it.QuantityDelivered,
		)
		if err != nil {
			return fmt.Errorf("insert route item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la ruta con ítems y rastreo.
func (r *RouteRepo) GetByID(id string) (*entity.Route, error) {
	return r.getWhere(id, "")
}

// GetForUpdate bloquea la fila de la ruta dentro de la transacción en curso.
func (r *RouteRepo) GetForUpdate(id string) (*entity.Route, error) {
	return r.getWhere(id, " FOR UPDATE")
}

func (r *RouteRepo) getWhere(id, suffix string) (*entity.Route, error) {
	ctx := context.Background()
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1` + suffix
	route, err := scanRoute(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get route: %w", err)
	}
	if err := r.loadItems(ctx, route); err != nil {
		return nil, err
	}
	if err := r.loadTracking(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

func scanRoute(row pgx.Row) (*entity.Route, error) {
	var rt entity.Route
	var cancelReason *string
	err := row.Scan(
		&rt.ID, &rt.Number,
		&rt.Origin.Name, &rt.Origin.Address, &rt.Origin.Lat, &rt.Origin.Lon,
		&rt.Destination.Name, &rt.Destination.Address, &rt.Destination.Lat, &rt.Destination.Lon,
		&rt.ScheduledDate, &rt.VehicleID, &rt.DriverID, &rt.State,
		&rt.StartedAt, &rt.EndedAt, &cancelReason,
		&rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cancelReason != nil {
		rt.CancelReason = *cancelReason
	}
	return &rt, nil
}

func (r *RouteRepo) loadItems(ctx context.Context, route *entity.Route) error {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, quantity_planned, quantity_delivered
		FROM route_items WHERE route_id = $1 ORDER BY product_id`, route.ID)
	if err != nil {
		return fmt.Errorf("load route items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.RouteItem
		if err := rows.Scan(&it.ProductID, &it.QuantityPlanned, &it.QuantityDelivered); err != nil {
			return fmt.Errorf("scan route item: %w", err)
		}
		route.Items = append(route.Items, it)
	}
	return rows.Err()
}

func (r *RouteRepo) loadTracking(ctx context.Context, route *entity.Route) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, lat, lon, speed, progress, label, created_at
		FROM route_tracking WHERE route_id = $1 ORDER BY created_at`, route.ID)
	if err != nil {
		return fmt.Errorf("load route tracking: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.TrackingPoint
		if err := rows.Scan(&p.ID, &p.Lat, &p.Lon, &p.Speed, &p.Progress, &p.Label, &p.CreatedAt); err != nil {
			return fmt.Errorf("scan tracking point: %w", err)
		}
		route.Tracking = append(route.Tracking, p)
	}
	return rows.Err()
}

// List lista rutas con ítems, opcionalmente filtradas por estado.
func (r *RouteRepo) List(state string, limit, offset int) ([]*entity.Route, error) {
	ctx := context.Background()
	query := `SELECT ` + routeColumns + ` FROM routes`
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
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		list = append(list, route)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, route := range list {
		if err := r.loadItems(ctx, route); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Update actualiza la ruta y reescribe sus ítems. El rastreo no se toca aquí:
// es append-only vía AppendTracking.
func (r *RouteRepo) Update(route *entity.Route) error {
	ctx := context.Background()
	query := `
		UPDATE routes SET state = $2, started_at = $3, ended_at = $4, cancel_reason = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		route.ID, route.State, route.StartedAt, route.EndedAt, route.CancelReason, route.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM route_items WHERE route_id = $1`, route.ID); err != nil {
		return fmt.Errorf("clear route items: %w", err)
	}
	return r.insertItems(ctx, route)
}

// NextNumber devuelve el siguiente consecutivo de la secuencia de rutas.
func (r *RouteRepo) NextNumber() (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('route_number_seq')`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next route number: %w", err)
	}
	return n, nil
}

// HasActiveRouteForDriverOn indica si el conductor tiene una ruta planificada
// o en tránsito el mismo día calendario.
func (r *RouteRepo) HasActiveRouteForDriverOn(driverID string, day time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(), `
		SELECT EXISTS (
			SELECT 1 FROM routes
			WHERE driver_id = $1
			  AND state IN ('planificada', 'en_transito')
			  AND scheduled_date::date = $2::date
		)`, driverID, day).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check driver schedule: %w", err)
	}
	return exists, nil
}

// AppendTracking agrega un punto al historial de la ruta.
func (r *RouteRepo) AppendTracking(routeID string, point *entity.TrackingPoint) error {
	if point.ID == "" {
		point.ID = uuid.New().String()
	}
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO route_tracking (id, route_id, lat, lon, speed, progress, label, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		point.ID, routeID, point.Lat, point.Lon, point.Speed, point.Progress, point.Label, point.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append route tracking: %w", err)
	}
	return nil
}
