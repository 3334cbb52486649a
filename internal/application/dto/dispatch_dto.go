package dto

import "time"

// AssignRequest asignar un pedido a un repartidor para un día.
type AssignRequest struct {
	OrderID   string `json:"order_id"`
	WorkerID  string `json:"worker_id"`
	RouteDate string `json:"route_date"` // YYYY-MM-DD; vacío = hoy
}

// TransitionRequest transicionar el estado de un pedido.
type TransitionRequest struct {
	OrderID  string `json:"order_id"`
	ToStatus string `json:"to_status"`
	Reason   string `json:"reason"`
}

// RouteResponse representación pública de una ruta de entrega.
type RouteResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	WorkerID  string    `json:"worker_id"`
	RouteDate string    `json:"route_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// BoardWorker fila del tablero de despacho: un repartidor y sus rutas del día.
type BoardWorker struct {
	WorkerID    string          `json:"worker_id"`
	Name        string          `json:"name"`
	CurrentLoad int             `json:"current_load"`
	Routes      []RouteResponse `json:"routes"`
}

// DispatchBoardResponse tablero de despacho de un día.
type DispatchBoardResponse struct {
	Date    string        `json:"date"`
	Workers []BoardWorker `json:"workers"`
	Traffic TrafficDTO    `json:"traffic,omitempty"`
}

// DeliveryStatsResponse agregado de entregas de un repartidor en un día.
type DeliveryStatsResponse struct {
	WorkerID   string         `json:"worker_id"`
	Date       string         `json:"date"`
	ByStatus   map[string]int `json:"by_status"`
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Efficiency float64        `json:"efficiency"` // completados / total, 0 si total es 0
}
