package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/restaurante-inventario/internal/application/dto"
	"github.com/jhoicas/restaurante-inventario/internal/application/ports"
	"github.com/jhoicas/restaurante-inventario/internal/application/usecase"
)

// AIHandler asistente de inventario. Las acciones se proponen en /chat y solo se
// aplican cuando el cliente las confirma en /execute.
type AIHandler struct {
	uc     *usecase.AssistantUseCase
	logger zerolog.Logger
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AssistantUseCase, logger zerolog.Logger) *AIHandler {
	return &AIHandler{uc: uc, logger: logger}
}

// Chat godoc
// @Summary      Conversar con el asistente
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChatRequest  true  "Mensaje"
// @Success      200   {object}  dto.ChatResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ai/chat [post]
func (h *AIHandler) Chat(c *fiber.Ctx) error {
	var in dto.ChatRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	reply, err := h.uc.Chat(c.UserContext(), in.Message)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	out := dto.ChatResponse{Text: reply.Text}
	if reply.Action != nil {
		out.Action = &dto.ActionDTO{Name: reply.Action.Name, Args: reply.Action.Args}
	}
	return c.JSON(out)
}

// Execute godoc
// @Summary      Confirmar acción del asistente
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ActionDTO  true  "Acción devuelta por /chat"
// @Success      200   {object}  dto.ExecuteActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ai/execute [post]
func (h *AIHandler) Execute(c *fiber.Ctx) error {
	var in dto.ActionDTO
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	msg, err := h.uc.Execute(c.UserContext(), GetCaller(c), ports.ToolCall{Name: in.Name, Args: in.Args})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.ExecuteActionResponse{Message: msg})
}

// Recommend godoc
// @Summary      Recomendación de compras
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecommendationRequest  true  "Días a cubrir"
// @Success      200   {object}  dto.RecommendationResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ai/recommendations [post]
func (h *AIHandler) Recommend(c *fiber.Ctx) error {
	var in dto.RecommendationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	text, err := h.uc.Recommend(c.UserContext(), in.Days)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.RecommendationResponse{Text: text})
}
