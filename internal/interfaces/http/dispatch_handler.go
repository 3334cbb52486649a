package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jcastano/retail-ops-api/internal/application/dispatch"
	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/application/report"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
)

// DispatchHandler maneja asignación, transiciones y el tablero de despacho (protegido).
type DispatchHandler struct {
	uc       *dispatch.DispatchUseCase
	reportUC *report.ReportUseCase
}

// NewDispatchHandler construye el handler.
func NewDispatchHandler(uc *dispatch.DispatchUseCase, reportUC *report.ReportUseCase) *DispatchHandler {
	return &DispatchHandler{uc: uc, reportUC: reportUC}
}

// Assign asigna un pedido a un repartidor para un día. Idempotente: repetir la
// misma asignación devuelve la ruta existente con 200 en vez de 201.
// POST /api/dispatch/assign
func (h *DispatchHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.OrderID == "" || in.WorkerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "order_id y worker_id son requeridos"})
	}
	if in.RouteDate == "" {
		in.RouteDate = time.Now().Format("2006-01-02")
	}
	route, created, err := h.uc.Assign(c.Context(), in.OrderID, in.WorkerID, in.RouteDate)
	if err != nil {
		return dispatchError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(toRouteResponse(route))
}

// Reassign cambia el repartidor de un pedido ya asignado.
// POST /api/dispatch/reassign
func (h *DispatchHandler) Reassign(c *fiber.Ctx) error {
	var in dto.AssignRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.OrderID == "" || in.WorkerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "order_id y worker_id son requeridos"})
	}
	route, err := h.uc.Reassign(c.Context(), in.OrderID, in.WorkerID)
	if err != nil {
		return dispatchError(c, err)
	}
	return c.JSON(toRouteResponse(route))
}

// Transition mueve un pedido a otro estado validando la máquina de estados.
// POST /api/dispatch/transition
func (h *DispatchHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	to, ok := dispatch.ParseStatus(in.ToStatus)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado destino desconocido: " + in.ToStatus})
	}
	order, err := h.uc.Transition(c.Context(), in.OrderID, to, GetPersonID(c), in.Reason)
	if err != nil {
		return dispatchError(c, err)
	}
	return c.JSON(toOrderStatusResponse(order))
}

// Stats estadísticas de entregas de un repartidor en un día.
// GET /api/dispatch/stats/:workerId?date=YYYY-MM-DD
func (h *DispatchHandler) Stats(c *fiber.Ctx) error {
	workerID := c.Params("workerId")
	date := c.Query("date", time.Now().Format("2006-01-02"))
	stats, err := h.reportUC.WorkerStats(c.Context(), workerID, date)
	if err != nil {
		return dispatchError(c, err)
	}
	return c.JSON(stats)
}

// Board tablero de despacho del día: repartidores activos, sus rutas y el tráfico.
// GET /api/dispatch/board?date=YYYY-MM-DD&site_id=
func (h *DispatchHandler) Board(c *fiber.Ctx) error {
	date := c.Query("date", time.Now().Format("2006-01-02"))
	siteID := c.Query("site_id", GetSiteID(c))
	board, err := h.reportUC.DispatchBoard(c.Context(), date, siteID)
	if err != nil {
		return dispatchError(c, err)
	}
	return c.JSON(board)
}

// dispatchError mapea los errores de dominio del despacho a HTTP.
func dispatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrWorkerInactive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "WORKER_INACTIVE", Message: "el repartidor no está activo o no es de logística"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "almacén no disponible, intente más tarde"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toRouteResponse(r *entity.DeliveryRoute) *dto.RouteResponse {
	return &dto.RouteResponse{
		ID:        r.ID,
		OrderID:   r.OrderID,
		WorkerID:  r.WorkerID,
		RouteDate: r.RouteDate,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func toOrderStatusResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:                 o.ID,
		SellerID:           o.SellerID,
		Amount:             o.Amount,
		Status:             string(o.Status),
		DeliveryAssignedTo: o.DeliveryAssignedTo,
		Address:            o.Address,
		Latitude:           o.Latitude,
		Longitude:          o.Longitude,
		Notes:              o.Notes,
		StatusChangedAt:    o.StatusChangedAt,
		StatusReason:       o.StatusReason,
		CreatedAt:          o.CreatedAt,
	}
}
