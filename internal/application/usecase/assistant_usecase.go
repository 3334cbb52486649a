package usecase

import (
	"context"
	"time"

	"github.com/jcastano/retail-ops-api/internal/application/dto"
	"github.com/jcastano/retail-ops-api/internal/application/ports"
	"github.com/jcastano/retail-ops-api/internal/domain"
)

// AssistantUseCase interpreta preguntas libres de operación vía LLM.
type AssistantUseCase struct {
	llm ports.LLMService
}

// NewAssistantUseCase construye el caso de uso.
func NewAssistantUseCase(llm ports.LLMService) *AssistantUseCase {
	return &AssistantUseCase{llm: llm}
}

// InterpretQuery traduce la pregunta a un filtro estructurado con timeout acotado.
// No es una dependencia de corrección: un fallo solo afecta a este endpoint.
func (uc *AssistantUseCase) InterpretQuery(ctx context.Context, question string) (*dto.OpsQueryDTO, error) {
	if question == "" {
		return nil, domain.ErrInvalidInput
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return uc.llm.InterpretOpsQuery(ctx, question)
}
