package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
)

var _ repository.RouteRepository = (*RouteRepo)(nil)

const routeColumns = `id, order_id, worker_id, route_date, status, created_at, updated_at`

// routeScanner lo satisfacen pgx.Row y pgx.Rows.
type routeScanner interface {
	Scan(dest ...any) error
}

// scanRoute lee una fila de delivery_routes. La columna route_date es date en la
// DB y pgx la entrega como time.Time (formato binario, nunca string): se formatea
// aquí de vuelta al YYYY-MM-DD que maneja el dominio.
func scanRoute(s routeScanner) (*entity.DeliveryRoute, error) {
	var route entity.DeliveryRoute
	var status string
	var routeDate time.Time
	if err := s.Scan(
		&route.ID, &route.OrderID, &route.WorkerID, &routeDate,
		&status, &route.CreatedAt, &route.UpdatedAt,
	); err != nil {
		return nil, err
	}
	route.RouteDate = routeDate.Format("2006-01-02")
	route.Status = entity.RouteStatus(status)
	return &route, nil
}

// RouteRepo implementación del puerto RouteRepository sobre PostgreSQL (usable con pool o tx).
type RouteRepo struct {
	q Querier
}

// NewRouteRepository construye el adaptador de persistencia para rutas. Pasar pool o tx (Querier).
func NewRouteRepository(q Querier) *RouteRepo {
	return &RouteRepo{q: q}
}

// Create inserta la ruta. La restricción única sobre (order_id, route_date) es la
// que garantiza a lo sumo una asignación por pedido y día: una violación se
// devuelve como domain.ErrDuplicate para que el caso de uso resuelva idempotente.
func (r *RouteRepo) Create(route *entity.DeliveryRoute) error {
	query := `
		INSERT INTO delivery_routes (` + routeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		route.ID, route.OrderID, route.WorkerID, route.RouteDate,
		string(route.Status), route.CreatedAt, route.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}

// GetByID obtiene una ruta por ID.
func (r *RouteRepo) GetByID(id string) (*entity.DeliveryRoute, error) {
	return r.findOne(`SELECT `+routeColumns+` FROM delivery_routes WHERE id = $1`, id)
}

// GetByOrderAndDate obtiene la ruta de un pedido para un día calendario.
func (r *RouteRepo) GetByOrderAndDate(orderID, routeDate string) (*entity.DeliveryRoute, error) {
	query := `SELECT ` + routeColumns + ` FROM delivery_routes WHERE order_id = $1 AND route_date = $2`
	route, err := scanRoute(r.q.QueryRow(context.Background(), query, orderID, routeDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get route by order and date: %w", err)
	}
	return route, nil
}

// GetActiveByOrder devuelve la ruta pending/in_progress del pedido, o nil.
func (r *RouteRepo) GetActiveByOrder(orderID string) (*entity.DeliveryRoute, error) {
	query := `
		SELECT ` + routeColumns + ` FROM delivery_routes
		WHERE order_id = $1 AND status IN ('pending', 'in_progress')
		ORDER BY created_at DESC LIMIT 1`
	return r.findOne(query, orderID)
}

func (r *RouteRepo) findOne(query string, arg any) (*entity.DeliveryRoute, error) {
	route, err := scanRoute(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get route: %w", err)
	}
	return route, nil
}

// UpdateStatus actualiza el estado de una ruta.
func (r *RouteRepo) UpdateStatus(id string, status entity.RouteStatus) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE delivery_routes SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("update route status: %w", err)
	}
	return nil
}

// ReassignWorker cambia el repartidor de una ruta.
func (r *RouteRepo) ReassignWorker(id, workerID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE delivery_routes SET worker_id = $2, updated_at = now() WHERE id = $1`,
		id, workerID)
	if err != nil {
		return fmt.Errorf("reassign route worker: %w", err)
	}
	return nil
}

// ListByWorkerAndDate rutas de un repartidor en un día.
func (r *RouteRepo) ListByWorkerAndDate(workerID, routeDate string) ([]*entity.DeliveryRoute, error) {
	query := `SELECT ` + routeColumns + ` FROM delivery_routes WHERE worker_id = $1 AND route_date = $2 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, workerID, routeDate)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()
	var list []*entity.DeliveryRoute
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		list = append(list, route)
	}
	return list, rows.Err()
}

// CountActiveByWorker cuenta rutas activas (pending/in_progress) del repartidor.
func (r *RouteRepo) CountActiveByWorker(workerID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM delivery_routes WHERE worker_id = $1 AND status IN ('pending', 'in_progress')`,
		workerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active routes: %w", err)
	}
	return n, nil
}
