package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/restaurante-inventario/internal/application/dto"
	appinv "github.com/jhoicas/restaurante-inventario/internal/application/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
)

// ProductionHandler transformaciones de materia prima (protegido).
type ProductionHandler struct {
	uc     *appinv.ProductionUseCase
	logger zerolog.Logger
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *appinv.ProductionUseCase, logger zerolog.Logger) *ProductionHandler {
	return &ProductionHandler{uc: uc, logger: logger}
}

// Create godoc
// @Summary      Registrar producción
// @Tags         productions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionRequest  true  "Materia prima, productos resultantes y merma"
// @Success      201   {object}  dto.ProductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productions [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductionRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	p, err := h.uc.Create(c.UserContext(), GetCaller(c), appinv.CreateProductionInput{
		RawMaterialID: in.RawMaterialID,
		QuantityUsed:  in.QuantityUsed,
		Outputs:       dto.ToProductionOutputs(in.Outputs),
		Waste:         entity.Waste{Quantity: in.Waste.Quantity, Unit: in.Waste.Unit},
		Notes:         in.Notes,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromProduction(p))
}

// List godoc
// @Summary      Listar producciones
// @Tags         productions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductionResponse
// @Router       /api/productions [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	out := make([]dto.ProductionResponse, len(list))
	for i, p := range list {
		out[i] = dto.FromProduction(p)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producción
// @Tags         productions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la producción"
// @Success      200  {object}  dto.ProductionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productions/{id} [get]
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.FromProduction(p))
}
