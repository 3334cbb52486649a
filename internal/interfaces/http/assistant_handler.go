package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/application/usecase"
	"github.com/jcastano/retail-ops-api/internal/domain"
)

// AssistantHandler maneja el asistente de consultas de operación (protegido).
type AssistantHandler struct {
	uc *usecase.AssistantUseCase
}

// NewAssistantHandler construye el handler.
func NewAssistantHandler(uc *usecase.AssistantUseCase) *AssistantHandler {
	return &AssistantHandler{uc: uc}
}

// AssistantQueryRequest pregunta libre del usuario.
type AssistantQueryRequest struct {
	Question string `json:"question"`
}

// Interpret godoc
// @Summary      Interpretar una pregunta de operación con IA
// @Description  Traduce una pregunta libre ("¿cuántas entregas hizo Juan ayer?")
//               a un filtro estructurado de métricas. Timeout interno de 10 s.
// @Tags         assistant
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  AssistantQueryRequest  true  "question (obligatorio)"
// @Success      200   {object}  dto.OpsQueryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/assistant/interpret [post]
func (h *AssistantHandler) Interpret(c *fiber.Ctx) error {
	var req AssistantQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo de la petición inválido",
		})
	}

	result, err := h.uc.InterpretQuery(c.Context(), req.Question)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "VALIDATION", Message: "question es obligatorio",
			})
		}
		if isTimeout(err) {
			return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{
				Code: "TIMEOUT", Message: "el servicio de IA tardó demasiado; intenta de nuevo",
			})
		}
		if strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "AI_UNAVAILABLE", Message: "el asistente IA no está configurado",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}

	return c.JSON(result)
}

// isTimeout detecta errores de timeout/cancelación de contexto en el mensaje de error.
func isTimeout(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "cancelación")
}
