package repository

import "github.com/jcastano/retail-ops-api/internal/domain/entity"

// RouteRepository define el puerto de persistencia para DeliveryRoute.
type RouteRepository interface {
	// Create inserta la ruta; si ya existe una para (order_id, route_date) devuelve
	// domain.ErrDuplicate (restricción única en la DB, no check-then-insert).
	Create(r *entity.DeliveryRoute) error
	GetByID(id string) (*entity.DeliveryRoute, error)
	GetByOrderAndDate(orderID, routeDate string) (*entity.DeliveryRoute, error)
	// GetActiveByOrder devuelve la ruta en estado pending/in_progress del pedido, o nil.
	GetActiveByOrder(orderID string) (*entity.DeliveryRoute, error)
	UpdateStatus(id string, status entity.RouteStatus) error
	// ReassignWorker cambia el repartidor de una ruta activa.
	ReassignWorker(id, workerID string) error
	ListByWorkerAndDate(workerID, routeDate string) ([]*entity.DeliveryRoute, error)
	// CountActiveByWorker cuenta rutas pending/in_progress del repartidor
	// (verificación del invariante de carga).
	CountActiveByWorker(workerID string) (int, error)
}
