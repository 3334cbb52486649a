package dispatch

import (
	"context"

	"github.com/jcastano/retail-ops-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción del almacén con repos atados a
// ella. Pedido, ruta y carga del repartidor mutan juntos o no mutan: esta es la
// única puerta de entrada a esas escrituras.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		routeRepo repository.RouteRepository,
		personRepo repository.PersonRepository,
	) error) error
}
