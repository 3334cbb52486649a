package ports

import (
	"context"

	"github.com/jcastano/retail-ops-api/internal/application/dto"
)

// LLMService define el puerto de salida hacia el modelo de lenguaje.
// Cualquier adaptador (Anthropic, mock) debe implementar esta interfaz; la
// aplicación solo conoce este contrato (DIP).
type LLMService interface {
	// InterpretOpsQuery convierte una pregunta libre del operador
	// ("¿cuántas entregas hizo Juan ayer?") en un filtro estructurado.
	// El contexto debe llevar timeout: es una llamada externa no crítica.
	InterpretOpsQuery(ctx context.Context, question string) (*dto.OpsQueryDTO, error)
}
