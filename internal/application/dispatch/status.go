package dispatch

import "github.com/jcastano/retail-ops-api/internal/domain/entity"

// transitions tabla de transiciones permitidas del ciclo de vida del pedido.
// Los estados terminales (confirmed, cancelled, returned, failed) no aparecen
// como origen: de ellos no sale nada.
var transitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderPending:        {entity.OrderAssigned, entity.OrderCancelled},
	entity.OrderAssigned:       {entity.OrderOutForDelivery, entity.OrderCancelled},
	entity.OrderOutForDelivery: {entity.OrderDelivered, entity.OrderFailed, entity.OrderCancelled},
	entity.OrderDelivered:      {entity.OrderConfirmed, entity.OrderReturned},
}

// CanTransition responde si from -> to está permitido. La cancelación es un
// override de operador: siempre procede desde cualquier estado no terminal.
func CanTransition(from, to entity.OrderStatus) bool {
	if to == entity.OrderCancelled {
		return !from.IsTerminal()
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ParseStatus valida una cadena de estado entrante.
func ParseStatus(s string) (entity.OrderStatus, bool) {
	switch entity.OrderStatus(s) {
	case entity.OrderPending, entity.OrderAssigned, entity.OrderOutForDelivery,
		entity.OrderDelivered, entity.OrderConfirmed, entity.OrderCancelled,
		entity.OrderReturned, entity.OrderFailed:
		return entity.OrderStatus(s), true
	}
	return "", false
}

// routeStatusFor estado de ruta que corresponde a un estado terminal del pedido.
// Todo estado terminal cierra la ruta para que deje de contar como carga activa.
func routeStatusFor(terminal entity.OrderStatus) entity.RouteStatus {
	if terminal == entity.OrderConfirmed {
		return entity.RouteCompleted
	}
	return entity.RouteCancelled
}
