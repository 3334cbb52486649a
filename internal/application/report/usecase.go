// Package report implementa los agregados del tablero y la hoja de despacho PDF.
package report

import (
	"context"

	"github.com/jcastano/retail-ops-api/internal/application/dispatch"
	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
	"github.com/jcastano/retail-ops-api/internal/domain/repository"
	"github.com/jcastano/retail-ops-api/internal/domain/role"
	"github.com/shopspring/decimal"
)

// SheetGenerator puerto del generador de la hoja de despacho (PDF).
type SheetGenerator interface {
	GenerateDispatchSheet(
		ctx context.Context,
		worker *entity.Person,
		date string,
		routes []*entity.DeliveryRoute,
		orders map[string]*entity.Order,
		weather dto.WeatherDTO,
	) ([]byte, error)
}

// WeatherProvider puerto del enriquecimiento climático. No crítico: si falla
// devuelve (WeatherDTO{}, false) y el reporte sale sin clima.
type WeatherProvider interface {
	CurrentAt(ctx context.Context, lat, lng float64) (dto.WeatherDTO, bool)
}

// TrafficProvider puerto del enriquecimiento de tráfico. No crítico: si falla
// devuelve (TrafficDTO{}, false) y el tablero sale sin tráfico.
type TrafficProvider interface {
	CongestionAt(ctx context.Context, lat, lng float64) (dto.TrafficDTO, bool)
}

// ReportUseCase reportes de operación: estadísticas, resumen de ventas y PDF.
type ReportUseCase struct {
	dispatchUC *dispatch.DispatchUseCase
	orderRepo  repository.OrderRepository
	routeRepo  repository.RouteRepository
	personRepo repository.PersonRepository
	siteRepo   repository.SiteRepository
	sheets     SheetGenerator
	weather    WeatherProvider
	traffic    TrafficProvider
}

// NewReportUseCase construye el caso de uso. sheets, weather y traffic pueden ser nil.
func NewReportUseCase(
	dispatchUC *dispatch.DispatchUseCase,
	orderRepo repository.OrderRepository,
	routeRepo repository.RouteRepository,
	personRepo repository.PersonRepository,
	siteRepo repository.SiteRepository,
	sheets SheetGenerator,
	weather WeatherProvider,
	traffic TrafficProvider,
) *ReportUseCase {
	return &ReportUseCase{
		dispatchUC: dispatchUC,
		orderRepo:  orderRepo,
		routeRepo:  routeRepo,
		personRepo: personRepo,
		siteRepo:   siteRepo,
		sheets:     sheets,
		weather:    weather,
		traffic:    traffic,
	}
}

// WorkerStats estadísticas de entregas de un repartidor en un día.
func (uc *ReportUseCase) WorkerStats(ctx context.Context, workerID, date string) (*dto.DeliveryStatsResponse, error) {
	stats, err := uc.dispatchUC.ComputeStats(ctx, workerID, date)
	if err != nil {
		return nil, err
	}
	byStatus := make(map[string]int, len(stats.ByStatus))
	for s, n := range stats.ByStatus {
		byStatus[string(s)] = n
	}
	return &dto.DeliveryStatsResponse{
		WorkerID:   stats.WorkerID,
		Date:       stats.Date,
		ByStatus:   byStatus,
		Total:      stats.Total,
		Completed:  stats.Completed,
		Efficiency: stats.Efficiency,
	}, nil
}

// DispatchBoard arma el tablero de despacho de un día: los repartidores activos
// con sus rutas, más el estado de tráfico cerca de la sede (si el proveedor responde).
func (uc *ReportUseCase) DispatchBoard(ctx context.Context, date, siteID string) (*dto.DispatchBoardResponse, error) {
	people, err := uc.personRepo.List(500, 0)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	board := &dto.DispatchBoardResponse{Date: date, Workers: []dto.BoardWorker{}}
	for _, p := range people {
		if !p.Active || role.Normalize(p.RawRole) != role.Logistica {
			continue
		}
		if siteID != "" && p.SiteID != siteID {
			continue
		}
		routes, err := uc.routeRepo.ListByWorkerAndDate(p.ID, date)
		if err != nil {
			return nil, err
		}
		worker := dto.BoardWorker{
			WorkerID:    p.ID,
			Name:        p.Name,
			CurrentLoad: p.CurrentLoad,
			Routes:      make([]dto.RouteResponse, 0, len(routes)),
		}
		for _, r := range routes {
			worker.Routes = append(worker.Routes, dto.RouteResponse{
				ID:        r.ID,
				OrderID:   r.OrderID,
				WorkerID:  r.WorkerID,
				RouteDate: r.RouteDate,
				Status:    string(r.Status),
				CreatedAt: r.CreatedAt,
			})
		}
		board.Workers = append(board.Workers, worker)
	}

	if uc.traffic != nil && siteID != "" {
		if site, err := uc.siteRepo.GetByID(siteID); err == nil && site != nil {
			if t, ok := uc.traffic.CongestionAt(ctx, site.Latitude, site.Longitude); ok {
				board.Traffic = t
			}
		}
	}
	return board, nil
}

// SalesSummary resumen de ventas confirmadas y pendientes (tablero).
func (uc *ReportUseCase) SalesSummary(date string) (*dto.SalesSummaryResponse, error) {
	summary := &dto.SalesSummaryResponse{
		Date:     date,
		Total:    decimal.Zero,
		ByStatus: make(map[string]int),
	}
	// Recorre por estado: el almacén no expone agregación arbitraria y los
	// volúmenes diarios son pequeños.
	statuses := []entity.OrderStatus{
		entity.OrderPending, entity.OrderAssigned, entity.OrderOutForDelivery,
		entity.OrderDelivered, entity.OrderConfirmed, entity.OrderCancelled,
		entity.OrderReturned, entity.OrderFailed,
	}
	for _, s := range statuses {
		orders, err := uc.orderRepo.ListByStatus(s, 500, 0)
		if err != nil {
			return nil, err
		}
		for _, o := range orders {
			if o.CreatedAt.Format("2006-01-02") != date {
				continue
			}
			summary.Orders++
			summary.ByStatus[string(s)]++
			if s != entity.OrderCancelled && s != entity.OrderReturned && s != entity.OrderFailed {
				summary.Total = summary.Total.Add(o.Amount)
			}
		}
	}
	return summary, nil
}

// DispatchSheet genera la hoja de despacho PDF del repartidor para un día:
// sus rutas, los pedidos y el clima de la sede (si el proveedor responde).
func (uc *ReportUseCase) DispatchSheet(ctx context.Context, workerID, date string) ([]byte, error) {
	worker, err := uc.personRepo.GetByID(workerID)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if worker == nil {
		return nil, domain.ErrPersonNotFound
	}
	routes, err := uc.routeRepo.ListByWorkerAndDate(workerID, date)
	if err != nil {
		return nil, err
	}
	orders := make(map[string]*entity.Order, len(routes))
	for _, r := range routes {
		o, err := uc.orderRepo.GetByID(r.OrderID)
		if err != nil {
			return nil, err
		}
		if o != nil {
			orders[r.OrderID] = o
		}
	}

	var weather dto.WeatherDTO
	if uc.weather != nil {
		if site, err := uc.siteRepo.GetByID(worker.SiteID); err == nil && site != nil {
			if w, ok := uc.weather.CurrentAt(ctx, site.Latitude, site.Longitude); ok {
				weather = w
			}
		}
	}

	return uc.sheets.GenerateDispatchSheet(ctx, worker, date, routes, orders, weather)
}
