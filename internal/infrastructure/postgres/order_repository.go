package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, seller_id, amount, status, delivery_assigned_to, address, latitude, longitude,
	notes, status_changed_at, status_changed_by, status_reason, created_at, updated_at`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste un nuevo pedido.
func (r *OrderRepo) Create(o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.SellerID, o.Amount, string(o.Status), o.DeliveryAssignedTo,
		o.Address, o.Latitude, o.Longitude, o.Notes,
		o.StatusChangedAt, o.StatusChangedBy, o.StatusReason, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.findOne(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la fila para serializar transiciones concurrentes.
// Solo tiene sentido dentro de una transacción.
func (r *OrderRepo) GetByIDForUpdate(id string) (*entity.Order, error) {
	return r.findOne(`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) findOne(query string, arg any) (*entity.Order, error) {
	var o entity.Order
	var status string
	var assignedTo, changedBy *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&o.ID, &o.SellerID, &o.Amount, &status, &assignedTo,
		&o.Address, &o.Latitude, &o.Longitude, &o.Notes,
		&o.StatusChangedAt, &changedBy, &o.StatusReason, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = entity.OrderStatus(status)
	if assignedTo != nil {
		o.DeliveryAssignedTo = *assignedTo
	}
	if changedBy != nil {
		o.StatusChangedBy = *changedBy
	}
	return &o, nil
}

// Update actualiza un pedido.
func (r *OrderRepo) Update(o *entity.Order) error {
	query := `
		UPDATE orders SET amount = $2, status = $3, delivery_assigned_to = NULLIF($4, ''),
			address = $5, latitude = $6, longitude = $7, notes = $8,
			status_changed_at = $9, status_changed_by = NULLIF($10, ''), status_reason = $11,
			updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Amount, string(o.Status), o.DeliveryAssignedTo,
		o.Address, o.Latitude, o.Longitude, o.Notes,
		o.StatusChangedAt, o.StatusChangedBy, o.StatusReason, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// ListBySeller lista pedidos de un vendedor con paginación.
func (r *OrderRepo) ListBySeller(sellerID string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE seller_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, sellerID, limit, offset)
}

// ListByStatus lista pedidos por estado con paginación.
func (r *OrderRepo) ListByStatus(status entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, string(status), limit, offset)
}

func (r *OrderRepo) list(query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		var status string
		var assignedTo, changedBy *string
		if err := rows.Scan(
			&o.ID, &o.SellerID, &o.Amount, &status, &assignedTo,
			&o.Address, &o.Latitude, &o.Longitude, &o.Notes,
			&o.StatusChangedAt, &changedBy, &o.StatusReason, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = entity.OrderStatus(status)
		if assignedTo != nil {
			o.DeliveryAssignedTo = *assignedTo
		}
		if changedBy != nil {
			o.StatusChangedBy = *changedBy
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
