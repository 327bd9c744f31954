package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/restaurante-inventario/internal/application/dto"
	appinv "github.com/jhoicas/restaurante-inventario/internal/application/inventory"
)

// RequisitionHandler requisiciones de los departamentos (protegido).
type RequisitionHandler struct {
	uc     *appinv.RequisitionUseCase
	logger zerolog.Logger
}

// NewRequisitionHandler construye el handler.
func NewRequisitionHandler(uc *appinv.RequisitionUseCase, logger zerolog.Logger) *RequisitionHandler {
	return &RequisitionHandler{uc: uc, logger: logger}
}

// Create godoc
// @Summary      Crear requisición
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequisitionRequest  true  "Pedido del departamento"
// @Success      201   {object}  dto.RequisitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequisitionRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	items := make([]appinv.RequisitionItemInput, len(in.Items))
	for i, it := range in.Items {
		items[i] = appinv.RequisitionItemInput{ProductName: it.ProductName, Quantity: it.Quantity, Unit: it.Unit}
	}
	r, err := h.uc.Create(c.UserContext(), GetCaller(c), appinv.CreateRequisitionInput{Department: in.Department, Items: items})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRequisition(r))
}

// List godoc
// @Summary      Listar requisiciones
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | completed"
// @Success      200  {array}  dto.RequisitionResponse
// @Router       /api/requisitions [get]
func (h *RequisitionHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	out := make([]dto.RequisitionResponse, len(list))
	for i, r := range list {
		out[i] = dto.FromRequisition(r)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener requisición
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id} [get]
func (h *RequisitionHandler) GetByID(c *fiber.Ctx) error {
	r, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.FromRequisition(r))
}

// Process godoc
// @Summary      Despachar requisición
// @Description  Todas las salidas se aplican juntas o ninguna.
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.ProcessRequisitionRequest  true  "Entregas por ID de producto"
// @Success      200   {object}  dto.RequisitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/process [post]
func (h *RequisitionHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessRequisitionRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	deliveries := make(map[string]appinv.Delivery, len(in.Deliveries))
	for productID, d := range in.Deliveries {
		deliveries[productID] = appinv.Delivery{Quantity: d.DeliveredQuantity, Observation: d.Observation}
	}
	r, err := h.uc.Process(c.UserContext(), GetCaller(c), c.Params("id"), deliveries)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.FromRequisition(r))
}
