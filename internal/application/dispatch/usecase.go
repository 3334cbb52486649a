// Package dispatch implementa la máquina de estados del ciclo de vida del pedido
// y la asignación de rutas de entrega. Toda mutación de Order + DeliveryRoute +
// current_load del repartidor pasa por aquí, dentro de una sola transacción.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
	"github.com/jcastano/retail-ops-api/internal/domain/role"
)

// DeliveryStats agregado de solo lectura de entregas de un repartidor en un día.
type DeliveryStats struct {
	WorkerID   string
	Date       string
	ByStatus   map[entity.OrderStatus]int
	Total      int
	Completed  int // pedidos en delivered o confirmed
	Efficiency float64
}

// DispatchUseCase orquesta asignación, reasignación y transiciones de estado.
type DispatchUseCase struct {
	txRunner  TxRunner
	orderRepo repository.OrderRepository
	routeRepo repository.RouteRepository
}

// NewDispatchUseCase construye el caso de uso.
func NewDispatchUseCase(txRunner TxRunner, orderRepo repository.OrderRepository, routeRepo repository.RouteRepository) *DispatchUseCase {
	return &DispatchUseCase{txRunner: txRunner, orderRepo: orderRepo, routeRepo: routeRepo}
}

// Assign asigna un pedido pendiente a un repartidor activo de logística para un
// día calendario. Es idempotente: si ya existe la ruta (order_id, route_date)
// devuelve esa misma ruta (created=false) sin duplicar ni volver a incrementar
// la carga. La restricción única de la DB, no un check-then-insert, es la que
// serializa los intentos concurrentes: el perdedor de la carrera recibe la ruta
// del ganador.
func (uc *DispatchUseCase) Assign(ctx context.Context, orderID, workerID, routeDate string) (*entity.DeliveryRoute, bool, error) {
	if routeDate == "" {
		routeDate = time.Now().Format("2006-01-02")
	}
	var (
		result  *entity.DeliveryRoute
		created bool
	)

	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		routeRepo repository.RouteRepository,
		personRepo repository.PersonRepository,
	) error {
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}

		// Guardia de doble envío: la misma asignación repetida devuelve la existente.
		existing, err := routeRepo.GetByOrderAndDate(orderID, routeDate)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		if order.Status != entity.OrderPending {
			return domain.ErrInvalidTransition
		}

		worker, err := personRepo.GetByID(workerID)
		if err != nil {
			return err
		}
		if worker == nil || !worker.Active || role.Normalize(worker.RawRole) != role.Logistica {
			return domain.ErrWorkerInactive
		}

		now := time.Now()
		route := &entity.DeliveryRoute{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			WorkerID:  workerID,
			RouteDate: routeDate,
			Status:    entity.RoutePending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := routeRepo.Create(route); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				// Carrera perdida entre el chequeo y el insert: devolver la del ganador.
				winner, rerr := routeRepo.GetByOrderAndDate(orderID, routeDate)
				if rerr != nil {
					return rerr
				}
				result = winner
				return nil
			}
			return err
		}

		order.Status = entity.OrderAssigned
		order.DeliveryAssignedTo = workerID
		order.StatusChangedAt = now
		order.UpdatedAt = now
		if err := orderRepo.Update(order); err != nil {
			return err
		}
		if err := personRepo.AdjustLoad(workerID, +1); err != nil {
			return err
		}
		result = route
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// Reassign cambia el repartidor de un pedido ya asignado o en reparto. Revierte
// primero el incremento de carga del repartidor anterior y luego aplica el del
// nuevo: la carga siempre refleja exactamente las asignaciones activas.
func (uc *DispatchUseCase) Reassign(ctx context.Context, orderID, newWorkerID string) (*entity.DeliveryRoute, error) {
	var result *entity.DeliveryRoute

	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		routeRepo repository.RouteRepository,
		personRepo repository.PersonRepository,
	) error {
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if order.Status != entity.OrderAssigned && order.Status != entity.OrderOutForDelivery {
			return domain.ErrInvalidTransition
		}

		route, err := routeRepo.GetActiveByOrder(orderID)
		if err != nil {
			return err
		}
		if route == nil {
			return domain.ErrNotFound
		}
		if route.WorkerID == newWorkerID {
			result = route
			return nil
		}

		worker, err := personRepo.GetByID(newWorkerID)
		if err != nil {
			return err
		}
		if worker == nil || !worker.Active || role.Normalize(worker.RawRole) != role.Logistica {
			return domain.ErrWorkerInactive
		}

		if err := personRepo.AdjustLoad(route.WorkerID, -1); err != nil {
			return err
		}
		if err := routeRepo.ReassignWorker(route.ID, newWorkerID); err != nil {
			return err
		}
		if err := personRepo.AdjustLoad(newWorkerID, +1); err != nil {
			return err
		}

		now := time.Now()
		order.DeliveryAssignedTo = newWorkerID
		order.UpdatedAt = now
		if err := orderRepo.Update(order); err != nil {
			return err
		}

		route.WorkerID = newWorkerID
		route.UpdatedAt = now
		result = route
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Transition valida y aplica una transición de estado del pedido. Ante un estado
// terminal libera la carga del repartidor (con piso en cero: defensa contra el
// doble decremento de llamadas reentrantes) y cierra la ruta asociada.
func (uc *DispatchUseCase) Transition(ctx context.Context, orderID string, to entity.OrderStatus, actorID, reason string) (*entity.Order, error) {
	var result *entity.Order

	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		routeRepo repository.RouteRepository,
		personRepo repository.PersonRepository,
	) error {
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if !CanTransition(order.Status, to) {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		order.Status = to
		order.StatusChangedAt = now
		order.StatusChangedBy = actorID
		order.StatusReason = reason
		order.UpdatedAt = now
		if err := orderRepo.Update(order); err != nil {
			return err
		}

		route, err := routeRepo.GetActiveByOrder(orderID)
		if err != nil {
			return err
		}
		if route != nil {
			switch {
			case to == entity.OrderOutForDelivery:
				if err := routeRepo.UpdateStatus(route.ID, entity.RouteInProgress); err != nil {
					return err
				}
			case to.IsTerminal():
				if err := routeRepo.UpdateStatus(route.ID, routeStatusFor(to)); err != nil {
					return err
				}
				if err := personRepo.AdjustLoad(route.WorkerID, -1); err != nil {
					return err
				}
			}
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ComputeStats agrega las entregas de un repartidor en un día: conteo por estado
// del pedido y eficiencia (entregados+confirmados sobre total, 0 si no hay rutas).
func (uc *DispatchUseCase) ComputeStats(_ context.Context, workerID, date string) (*DeliveryStats, error) {
	routes, err := uc.routeRepo.ListByWorkerAndDate(workerID, date)
	if err != nil {
		return nil, err
	}
	stats := &DeliveryStats{
		WorkerID: workerID,
		Date:     date,
		ByStatus: make(map[entity.OrderStatus]int),
	}
	for _, r := range routes {
		order, err := uc.orderRepo.GetByID(r.OrderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			continue
		}
		stats.ByStatus[order.Status]++
		stats.Total++
		if order.Status == entity.OrderDelivered || order.Status == entity.OrderConfirmed {
			stats.Completed++
		}
	}
	if stats.Total > 0 {
		stats.Efficiency = float64(stats.Completed) / float64(stats.Total)
	}
	return stats, nil
}
