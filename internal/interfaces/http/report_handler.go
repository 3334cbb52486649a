package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/application/report"
	"github.com/jcastano/retail-ops-api/internal/domain"
)

// ReportHandler maneja los reportes de operación (protegido).
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// SalesSummary resumen de ventas del día para el tablero.
// GET /api/reports/sales?date=YYYY-MM-DD
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	date := c.Query("date", time.Now().Format("2006-01-02"))
	out, err := h.uc.SalesSummary(date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// DispatchSheet genera la hoja de despacho PDF de un repartidor para un día.
// GET /api/reports/dispatch-sheet/:workerId?date=YYYY-MM-DD
func (h *ReportHandler) DispatchSheet(c *fiber.Ctx) error {
	workerID := c.Params("workerId")
	date := c.Query("date", time.Now().Format("2006-01-02"))
	pdfBytes, err := h.uc.DispatchSheet(c.Context(), workerID, date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPersonNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "repartidor no encontrado"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "almacén no disponible, intente más tarde"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="despacho-%s-%s.pdf"`, workerID, date))
	return c.Send(pdfBytes)
}
