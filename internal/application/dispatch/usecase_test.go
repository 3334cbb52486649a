package dispatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastano/retail-ops-api/internal/application/dispatch"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria. Guarda entidades por valor y entrega copias: el caso de
// uso solo puede mutar el estado a través de Update/Create, igual que con la DB.
// El TxRunner falso toma una instantánea antes del callback y la restaura si
// falla, imitando el rollback transaccional.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	orders map[string]entity.Order
	routes map[string]entity.DeliveryRoute
	people map[string]entity.Person
}

func newMemStore() *memStore {
	return &memStore{
		orders: make(map[string]entity.Order),
		routes: make(map[string]entity.DeliveryRoute),
		people: make(map[string]entity.Person),
	}
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.routes {
		c.routes[k] = v
	}
	for k, v := range s.people {
		c.people[k] = v
	}
	return c
}

func (s *memStore) restore(snap *memStore) {
	s.orders, s.routes, s.people = snap.orders, snap.routes, snap.people
}

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) Create(o *entity.Order) error {
	r.s.orders[o.ID] = *o
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*entity.Order, error) {
	if o, ok := r.s.orders[id]; ok {
		cp := o
		return &cp, nil
	}
	return nil, nil
}

func (r *memOrderRepo) GetByIDForUpdate(id string) (*entity.Order, error) { return r.GetByID(id) }

func (r *memOrderRepo) Update(o *entity.Order) error {
	r.s.orders[o.ID] = *o
	return nil
}

func (r *memOrderRepo) ListBySeller(sellerID string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.SellerID == sellerID {
			cp := o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListByStatus(status entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.Status == status {
			cp := o
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memRouteRepo struct{ s *memStore }

func (r *memRouteRepo) Create(route *entity.DeliveryRoute) error {
	for _, existing := range r.s.routes {
		if existing.OrderID == route.OrderID && existing.RouteDate == route.RouteDate {
			return domain.ErrDuplicate
		}
	}
	r.s.routes[route.ID] = *route
	return nil
}

func (r *memRouteRepo) GetByID(id string) (*entity.DeliveryRoute, error) {
	if rt, ok := r.s.routes[id]; ok {
		cp := rt
		return &cp, nil
	}
	return nil, nil
}

func (r *memRouteRepo) GetByOrderAndDate(orderID, routeDate string) (*entity.DeliveryRoute, error) {
	for _, rt := range r.s.routes {
		if rt.OrderID == orderID && rt.RouteDate == routeDate {
			cp := rt
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRouteRepo) GetActiveByOrder(orderID string) (*entity.DeliveryRoute, error) {
	for _, rt := range r.s.routes {
		if rt.OrderID == orderID && rt.Status.IsActive() {
			cp := rt
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRouteRepo) UpdateStatus(id string, status entity.RouteStatus) error {
	rt := r.s.routes[id]
	rt.Status = status
	rt.UpdatedAt = time.Now()
	r.s.routes[id] = rt
	return nil
}

func (r *memRouteRepo) ReassignWorker(id, workerID string) error {
	rt := r.s.routes[id]
	rt.WorkerID = workerID
	rt.UpdatedAt = time.Now()
	r.s.routes[id] = rt
	return nil
}

func (r *memRouteRepo) ListByWorkerAndDate(workerID, routeDate string) ([]*entity.DeliveryRoute, error) {
	var out []*entity.DeliveryRoute
	for _, rt := range r.s.routes {
		if rt.WorkerID == workerID && rt.RouteDate == routeDate {
			cp := rt
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRouteRepo) CountActiveByWorker(workerID string) (int, error) {
	n := 0
	for _, rt := range r.s.routes {
		if rt.WorkerID == workerID && rt.Status.IsActive() {
			n++
		}
	}
	return n, nil
}

type memPersonRepo struct{ s *memStore }

func (r *memPersonRepo) Create(p *entity.Person) error {
	r.s.people[p.ID] = *p
	return nil
}

func (r *memPersonRepo) GetByID(id string) (*entity.Person, error) {
	if p, ok := r.s.people[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *memPersonRepo) GetBySubjectID(subjectID string) (*entity.Person, error) {
	for _, p := range r.s.people {
		if p.SubjectID == subjectID {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memPersonRepo) GetByEmail(email string) (*entity.Person, error) { return nil, nil }

func (r *memPersonRepo) Update(p *entity.Person) error {
	r.s.people[p.ID] = *p
	return nil
}

func (r *memPersonRepo) Deactivate(id string) error {
	p := r.s.people[id]
	p.Active = false
	r.s.people[id] = p
	return nil
}

func (r *memPersonRepo) List(limit, offset int) ([]*entity.Person, error) { return nil, nil }

func (r *memPersonRepo) AdjustLoad(workerID string, delta int) error {
	p := r.s.people[workerID]
	p.CurrentLoad += delta
	if p.CurrentLoad < 0 {
		// Piso en cero, como el GREATEST de la DB.
		p.CurrentLoad = 0
	}
	r.s.people[workerID] = p
	return nil
}

type memTxRunner struct{ s *memStore }

func (tr *memTxRunner) Run(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	routeRepo repository.RouteRepository,
	personRepo repository.PersonRepository,
) error) error {
	snap := tr.s.snapshot()
	err := fn(&memOrderRepo{tr.s}, &memRouteRepo{tr.s}, &memPersonRepo{tr.s})
	if err != nil {
		tr.s.restore(snap)
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const (
	routeDate = "2026-08-29"
	sellerID  = "seller-1"
)

func buildUseCase(s *memStore) *dispatch.DispatchUseCase {
	return dispatch.NewDispatchUseCase(&memTxRunner{s}, &memOrderRepo{s}, &memRouteRepo{s})
}

func seedOrder(s *memStore, id string, status entity.OrderStatus) {
	now := time.Now()
	s.orders[id] = entity.Order{
		ID:              id,
		SellerID:        sellerID,
		Amount:          decimal.NewFromInt(45000),
		Status:          status,
		StatusChangedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func seedWorker(s *memStore, id, rawRole string, active bool) {
	s.people[id] = entity.Person{
		ID:        id,
		Name:      "Repartidor " + id,
		RawRole:   rawRole,
		Active:    active,
		SubjectID: id,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Asignación idempotente
// ──────────────────────────────────────────────────────────────────────────────

func TestAssign_CreaRutaYCargaExactamenteUnaVez(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", entity.OrderPending)
	seedWorker(s, "w1", "repartidor", true)
	uc := buildUseCase(s)

	route, created, err := uc.Assign(context.Background(), "o1", "w1", routeDate)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "w1", route.WorkerID)
	assert.Equal(t, entity.RoutePending, route.Status)

	assert.Equal(t, entity.OrderAssigned, s.orders["o1"].Status)
	assert.Equal(t, "w1", s.orders["o1"].DeliveryAssignedTo)
	assert.Equal(t, 1, s.people["w1"].CurrentLoad, "la carga sube exactamente una vez")
}

func TestAssign_RepetirDevuelveLaMismaRutaSinDuplicarCarga(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", entity.OrderPending)
	seedWorker(s, "w1", "repartidor", true)
	uc := buildUseCase(s)

	first, created, err := uc.Assign(context.Background(), "o1", "w1", routeDate)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := uc.Assign(context.Background(), "o1", "w1", routeDate)
	require.NoError(t, err)
	assert.False(t, created, "la repetición no crea nada nuevo")
	assert.Equal(t, first.ID, second.ID, "debe devolver la ruta existente")
	assert.Equal(t, 1, s.people["w1"].CurrentLoad, "la carga no se incrementa de nuevo")
	assert.Len(t, s.routes, 1)
}

func TestAssign_PedidoNoPendienteRechazado(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", entity.OrderOutForDelivery)
	seedWorker(s, "w1", "repartidor", true)
	uc := buildUseCase(s)

	_, _, err := uc.Assign(context.Background(), "o1", "w1", routeDate)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, s.routes)
}

func TestAssign_RepartidorInactivoODeOtroRol(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", entity.OrderPending)
	seedOrder(s, "o2", entity.OrderPending)
	seedWorker(s, "apagado", "repartidor", false)
	seedWorker(s, "vendedora", "VENDEDORA", true)
	uc := buildUseCase(s)

	_, _, err := uc.Assign(context.Background(), "o1", "apagado", routeDate)
	assert.ErrorIs(t, err, domain.ErrWorkerInactive)

	_, _, err = uc.Assign(context.Background(), "o2", "vendedora", routeDate)
	assert.ErrorIs(t, err, domain.ErrWorkerInactive,
		"solo personas activas con rol logística reciben rutas")
	assert.Empty(t, s.routes)
}

func TestAssign_PedidoInexistente(t *testing.T) {
	s := newMemStore()
	seedWorker(s, "w1", "repartidor", true)
	uc := buildUseCase(s)

	_, _, err := uc.Assign(context.Background(), "fantasma", "w1", routeDate)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestAssign_PerdedorDeLaCarreraRecibeLaRutaDelGanador(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", entity.OrderPending)
	seedWorker(s, "w1", "repartidor", true)

	// La ruta del ganador aparece después del chequeo previo: el insert choca
	// con la restricción única y el perdedor debe releer y devolverla.
	winner := entity.DeliveryRoute{
		ID: "ruta-ganadora", OrderID: "o1", WorkerID: "w1",
		RouteDate: routeDate, Status: entity.RoutePending,
	}
	tricky := &racingRouteRepo{memRouteRepo: &memRouteRepo{s}, inject: winner}
	uc := dispatch.NewDispatchUseCase(
		&racingTxRunner{s: s, routes: tricky},
		&memOrderRepo{s}, &memRouteRepo{s},
	)

	route, created, err := uc.Assign(context.Background(), "o1", "w1", routeDate)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "ruta-ganadora", route.ID)
}

// racingRouteRepo simula la carrera: el primer GetByOrderAndDate no ve nada,
// el Create devuelve ErrDuplicate y la relectura sí encuentra la del ganador.
type racingRouteRepo struct {
	*memRouteRepo
	inject entity.DeliveryRoute
	calls  int
}

func (r *racingRouteRepo) GetByOrderAndDate(orderID, date string) (*entity.DeliveryRoute, error) {
	r.calls++
	if r.calls == 1 {
		return nil, nil
	}
	cp := r.inject
	return &cp, nil
}

func (r *racingRouteRepo) Create(route *entity.DeliveryRoute) error {
	return domain.ErrDuplicate
}

type racingTxRunner struct {
	s      *memStore
	routes repository.RouteRepository
}

func (tr *racingTxRunner) Run(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	routeRepo repository.RouteRepository,
	personRepo repository.PersonRepository,
) error) error {
	return fn(&memOrderRepo{tr.s}, tr.routes, &memPersonRepo{tr.s})
}

// ──────────────────────────────────────────────────────────────────────────────
// Reasignación
// ──────────────────────────────────────────────────────────────────────────────

func TestReassign_TransfiereLaCargaEntreRepartidores(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", entity.OrderPending)
	seedWorker(s, "w1", "repartidor", true)
	seedWorker(s, "w2", "domiciliario", true)
	uc := buildUseCase(s)

	_, _, err := uc.Assign(context.Background(), "o1", "w1", routeDate)
	require.NoError(t, err)

	route, err := uc.Reassign(context.Background(), "o1", "w2")
	require.NoError(t, err)
	assert.Equal(t, "w2", route.WorkerID)
	assert.Equal(t, 0, s.people["w1"].CurrentLoad, "el anterior libera su carga")
	assert.Equal(t, 1, s.people["w2"].CurrentLoad, "el nuevo la asume")
	assert.Equal(t, "w2", s.orders["o1"].DeliveryAssignedTo)
}

func TestReassign_AlMismoRepartidorEsNoOp(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", entity.OrderPending)
	seedWorker(s, "w1", "repartidor", true)
	uc := buildUseCase(s)

	_, _, err := uc.Assign(context.Background(), "o1", "w1", routeDate)
	require.NoError(t, err)

	_, err = uc.Reassign(context.Background(), "o1", "w1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.people["w1"].CurrentLoad, "reasignar al mismo repartidor no toca la carga")
}

func TestReassign_SoloDesdeAsignadoOEnReparto(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", entity.OrderPending)
	seedWorker(s, "w1", "repartidor", true)
	uc := buildUseCase(s)

	_, err := uc.Reassign(context.Background(), "o1", "w1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_CaminoFelizHastaConfirmado(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", entity.OrderPending)
	seedWorker(s, "w1", "repartidor", true)
	uc := buildUseCase(s)
	ctx := context.Background()

	routeBefore, _, err := uc.Assign(ctx, "o1", "w1", routeDate)
	require.NoError(t, err)

	_, err = uc.Transition(ctx, "o1", entity.OrderOutForDelivery, "actor-1", "")
	require.NoError(t, err)
	assert.Equal(t, entity.RouteInProgress, s.routes[routeBefore.ID].Status,
		"salir a reparto pone la ruta en progreso")
	assert.Equal(t, 1, s.people["w1"].CurrentLoad, "en reparto la carga sigue activa")

	_, err = uc.Transition(ctx, "o1", entity.OrderDelivered, "actor-1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, s.people["w1"].CurrentLoad, "delivered no es terminal: la carga no se libera aún")

	order, err := uc.Transition(ctx, "o1", entity.OrderConfirmed, "actor-2", "cliente confirmó")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, order.Status)
	assert.Equal(t, "actor-2", order.StatusChangedBy)
	assert.Equal(t, entity.RouteCompleted, s.routes[routeBefore.ID].Status,
		"la confirmación cierra la ruta como completada")
	assert.Equal(t, 0, s.people["w1"].CurrentLoad, "el estado terminal libera la carga")
}

func TestTransition_TerminalRechazadoYSinEfectos(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", entity.OrderConfirmed)
	uc := buildUseCase(s)

	before := s.orders["o1"]
	for _, to := range []entity.OrderStatus{
		entity.OrderPending, entity.OrderAssigned, entity.OrderOutForDelivery,
		entity.OrderDelivered, entity.OrderCancelled, entity.OrderReturned, entity.OrderFailed,
	} {
		_, err := uc.Transition(context.Background(), "o1", to, "actor-1", "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition,
			"de confirmed no debe salir ninguna transición (intento: %s)", to)
	}
	assert.Equal(t, before, s.orders["o1"], "el pedido queda intacto tras los rechazos")
}

func TestTransition_CancelacionDesdeCualquierNoTerminal(t *testing.T) {
	for _, from := range []entity.OrderStatus{
		entity.OrderPending, entity.OrderAssigned, entity.OrderOutForDelivery, entity.OrderDelivered,
	} {
		s := newMemStore()
		seedOrder(s, "o1", from)
		uc := buildUseCase(s)

		order, err := uc.Transition(context.Background(), "o1", entity.OrderCancelled, "actor-1", "cliente desistió")
		require.NoError(t, err, "cancelar debe proceder desde %s", from)
		assert.Equal(t, entity.OrderCancelled, order.Status)
		assert.Equal(t, "cliente desistió", order.StatusReason)
	}
}

func TestTransition_FallidoCierraRutaComoCancelada(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "o1", entity.OrderPending)
	seedWorker(s, "w1", "repartidor", true)
	uc := buildUseCase(s)
	ctx := context.Background()

	route, _, err := uc.Assign(ctx, "o1", "w1", routeDate)
	require.NoError(t, err)
	_, err = uc.Transition(ctx, "o1", entity.OrderOutForDelivery, "actor-1", "")
	require.NoError(t, err)

	_, err = uc.Transition(ctx, "o1", entity.OrderFailed, "actor-1", "dirección no existe")
	require.NoError(t, err)
	assert.Equal(t, entity.RouteCancelled, s.routes[route.ID].Status,
		"solo la confirmación completa la ruta; los demás terminales la cancelan")
	assert.Equal(t, 0, s.people["w1"].CurrentLoad)
}

func TestTransition_TablaCompleta(t *testing.T) {
	all := []entity.OrderStatus{
		entity.OrderPending, entity.OrderAssigned, entity.OrderOutForDelivery,
		entity.OrderDelivered, entity.OrderConfirmed, entity.OrderCancelled,
		entity.OrderReturned, entity.OrderFailed,
	}
	allowed := map[entity.OrderStatus][]entity.OrderStatus{
		entity.OrderPending:        {entity.OrderAssigned, entity.OrderCancelled},
		entity.OrderAssigned:       {entity.OrderOutForDelivery, entity.OrderCancelled},
		entity.OrderOutForDelivery: {entity.OrderDelivered, entity.OrderFailed, entity.OrderCancelled},
		entity.OrderDelivered:      {entity.OrderConfirmed, entity.OrderReturned, entity.OrderCancelled},
	}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, dispatch.CanTransition(from, to),
				"transición %s -> %s", from, to)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante de carga y estadísticas
// ──────────────────────────────────────────────────────────────────────────────

func TestCargaSiempreIgualARutasActivas(t *testing.T) {
	s := newMemStore()
	seedWorker(s, "w1", "repartidor", true)
	for _, id := range []string{"o1", "o2", "o3"} {
		seedOrder(s, id, entity.OrderPending)
	}
	uc := buildUseCase(s)
	ctx := context.Background()
	routeRepo := &memRouteRepo{s}

	checkInvariant := func(moment string) {
		active, err := routeRepo.CountActiveByWorker("w1")
		require.NoError(t, err)
		assert.Equal(t, active, s.people["w1"].CurrentLoad,
			"current_load debe igualar las rutas activas (%s)", moment)
	}

	for _, id := range []string{"o1", "o2", "o3"} {
		_, _, err := uc.Assign(ctx, id, "w1", routeDate)
		require.NoError(t, err)
	}
	checkInvariant("tras asignar tres")

	_, err := uc.Transition(ctx, "o1", entity.OrderOutForDelivery, "a", "")
	require.NoError(t, err)
	checkInvariant("tras salir a reparto")

	_, err = uc.Transition(ctx, "o1", entity.OrderDelivered, "a", "")
	require.NoError(t, err)
	_, err = uc.Transition(ctx, "o1", entity.OrderConfirmed, "a", "")
	require.NoError(t, err)
	checkInvariant("tras confirmar o1")

	_, err = uc.Transition(ctx, "o2", entity.OrderCancelled, "a", "se arrepintió")
	require.NoError(t, err)
	checkInvariant("tras cancelar o2")
}

func TestComputeStats_ConteoYEficiencia(t *testing.T) {
	s := newMemStore()
	seedWorker(s, "w1", "repartidor", true)
	for _, id := range []string{"o1", "o2", "o3", "o4"} {
		seedOrder(s, id, entity.OrderPending)
	}
	uc := buildUseCase(s)
	ctx := context.Background()

	for _, id := range []string{"o1", "o2", "o3", "o4"} {
		_, _, err := uc.Assign(ctx, id, "w1", routeDate)
		require.NoError(t, err)
	}
	advance := func(id string, statuses ...entity.OrderStatus) {
		for _, st := range statuses {
			_, err := uc.Transition(ctx, id, st, "a", "")
			require.NoError(t, err)
		}
	}
	advance("o1", entity.OrderOutForDelivery, entity.OrderDelivered, entity.OrderConfirmed)
	advance("o2", entity.OrderOutForDelivery, entity.OrderDelivered)
	advance("o3", entity.OrderOutForDelivery, entity.OrderFailed)

	stats, err := uc.ComputeStats(ctx, "w1", routeDate)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Completed, "completados = delivered + confirmed")
	assert.InDelta(t, 0.5, stats.Efficiency, 1e-9)
	assert.Equal(t, 1, stats.ByStatus[entity.OrderConfirmed])
	assert.Equal(t, 1, stats.ByStatus[entity.OrderDelivered])
	assert.Equal(t, 1, stats.ByStatus[entity.OrderFailed])
	assert.Equal(t, 1, stats.ByStatus[entity.OrderAssigned])
}

func TestComputeStats_SinRutasEficienciaCero(t *testing.T) {
	s := newMemStore()
	uc := buildUseCase(s)

	stats, err := uc.ComputeStats(context.Background(), "sin-rutas", routeDate)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Zero(t, stats.Efficiency, "sin rutas la eficiencia es 0, no NaN")
}
