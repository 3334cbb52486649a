package repository

import "github.com/jcastano/retail-ops-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	Create(o *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// transiciones concurrentes sobre el mismo pedido. Usar solo dentro de una tx.
	GetByIDForUpdate(id string) (*entity.Order, error)
	Update(o *entity.Order) error
	ListBySeller(sellerID string, limit, offset int) ([]*entity.Order, error)
	ListByStatus(status entity.OrderStatus, limit, offset int) ([]*entity.Order, error)
}
