package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jcastano/retail-ops-api/internal/application/attendance"
	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/domain"
	"github.com/jcastano/retail-ops-api/internal/domain/entity"
)

// AttendanceHandler maneja el registro y consulta de asistencia (protegido).
type AttendanceHandler struct {
	uc *attendance.AttendanceUseCase
}

// NewAttendanceHandler construye el handler.
func NewAttendanceHandler(uc *attendance.AttendanceUseCase) *AttendanceHandler {
	return &AttendanceHandler{uc: uc}
}

// CheckIn registra la asistencia de la persona autenticada en su sede,
// por geocerca (lat/lng) o por QR (qr_token).
// POST /api/attendance/checkin
func (h *AttendanceHandler) CheckIn(c *fiber.Ctx) error {
	var in dto.CheckinRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	checkin, err := h.uc.CheckIn(GetPersonID(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOutOfFence):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "OUT_OF_FENCE", Message: "fuera del radio de la sede"})
		case errors.Is(err, domain.ErrInvalidQR):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_QR", Message: "QR inválido o de otro día"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sede no encontrada"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "almacén no disponible, intente más tarde"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toCheckinResponse(checkin))
}

// SiteQR emite el token QR del día para una sede (coordinación y admin).
// GET /api/attendance/qr/:siteId
func (h *AttendanceHandler) SiteQR(c *fiber.Ctx) error {
	siteID := c.Params("siteId")
	if siteID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "siteId requerido"})
	}
	out, err := h.uc.IssueSiteQR(siteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sede no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List asistencia de una sede en un día.
// GET /api/attendance?site_id=&date=YYYY-MM-DD
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	siteID := c.Query("site_id", GetSiteID(c))
	date := c.Query("date", time.Now().Format("2006-01-02"))
	checkins, err := h.uc.ListBySite(siteID, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]*dto.CheckinResponse, 0, len(checkins))
	for _, ch := range checkins {
		out = append(out, toCheckinResponse(ch))
	}
	return c.JSON(out)
}

func toCheckinResponse(ch *entity.AttendanceCheckin) *dto.CheckinResponse {
	return &dto.CheckinResponse{
		ID:        ch.ID,
		SiteID:    ch.SiteID,
		Method:    string(ch.Method),
		DistanceM: ch.DistanceM,
		CheckedAt: ch.CheckedAt,
	}
}
