package entity

import "time"

// RouteStatus estado de una ruta de entrega.
type RouteStatus string

// Estados de ruta. Una ruta está "activa" (cuenta para la carga del repartidor)
// solo en Pending o InProgress.
const (
	RoutePending    RouteStatus = "pending"
	RouteInProgress RouteStatus = "in_progress"
	RouteCompleted  RouteStatus = "completed"
	RouteCancelled  RouteStatus = "cancelled"
)

// IsActive indica si la ruta cuenta para current_load del repartidor.
func (s RouteStatus) IsActive() bool {
	return s == RoutePending || s == RouteInProgress
}

// DeliveryRoute vincula un pedido con un repartidor para un día calendario.
// Invariante: a lo sumo una ruta activa por (OrderID, RouteDate); la restricción
// única en la DB es la que garantiza la asignación idempotente.
type DeliveryRoute struct {
	ID        string
	OrderID   string
	WorkerID  string
	RouteDate string // día calendario YYYY-MM-DD
	Status    RouteStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
