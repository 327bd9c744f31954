package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/restaurante-inventario/internal/application/dto"
	appinv "github.com/jhoicas/restaurante-inventario/internal/application/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
)

// ProductHandler maneja las peticiones HTTP del libro de inventario (protegido).
type ProductHandler struct {
	ledger   *appinv.LedgerUseCase
	shopping *appinv.ReplenishmentUseCase
	logger   zerolog.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(ledger *appinv.LedgerUseCase, shopping *appinv.ReplenishmentUseCase, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{ledger: ledger, shopping: shopping, logger: logger}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	p, err := h.ledger.CreateProduct(c.UserContext(), GetCaller(c), inventory.NewProductInput{
		Name:            in.Name,
		InitialQuantity: in.InitialQuantity.NullDecimal,
		Unit:            in.Unit,
		MinStock:        in.MinStock.NullDecimal,
		Category:        in.Category,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromProduct(p, p.History))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.ledger.ListProducts(c.UserContext(), c.Query("category"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	out := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		out[i] = dto.FromProduct(p, nil)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto con su historial
// @Description  Sin permiso de historial completo se devuelven los últimos 10 movimientos.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, history, err := h.ledger.ProductHistory(c.UserContext(), GetCaller(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.FromProduct(p, history))
}

// History godoc
// @Summary      Historial de movimientos (más reciente primero)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/history [get]
func (h *ProductHandler) History(c *fiber.Ctx) error {
	_, history, err := h.ledger.ProductHistory(c.UserContext(), GetCaller(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.FromMovements(history))
}

// Delete godoc
// @Summary      Eliminar producto y su historial
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.ledger.DeleteProduct(c.UserContext(), GetCaller(c), c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// QuickUpdate godoc
// @Summary      Ajuste rápido de stock
// @Description  amount positivo registra una entrada (requiere permiso de ajuste manual); negativo una salida.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.QuickUpdateRequest  true  "Ajuste"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/quick-update [post]
func (h *ProductHandler) QuickUpdate(c *fiber.Ctx) error {
	var in dto.QuickUpdateRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	res, err := h.ledger.QuickUpdate(c.UserContext(), GetCaller(c), appinv.QuickUpdateInput{
		ProductID: c.Params("id"),
		Amount:    in.Amount,
		Unit:      in.Unit,
		Reason:    in.Reason,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.AdjustmentResponse{
		Product:  dto.FromProduct(res.Product, nil),
		Movement: dto.FromMovement(res.Movement),
		Notify:   res.Notify,
		Message:  res.Message,
	})
}

// CancelMovement godoc
// @Summary      Anular un movimiento
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id          path  string  true  "ID del producto"
// @Param        movementId  path  string  true  "ID del movimiento"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements/{movementId}/cancel [post]
func (h *ProductHandler) CancelMovement(c *fiber.Ctx) error {
	p, rev, err := h.ledger.CancelMovement(c.UserContext(), GetCaller(c), c.Params("id"), c.Params("movementId"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.AdjustmentResponse{
		Product:  dto.FromProduct(p, nil),
		Movement: dto.FromMovement(rev),
		Notify:   true,
		Message:  "Movimiento anulado.",
	})
}

// Audit godoc
// @Summary      Recalcular saldo desde el historial
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.AuditResponse
// @Router       /api/products/{id}/audit [get]
func (h *ProductHandler) Audit(c *fiber.Ctx) error {
	res, err := h.ledger.AuditProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.AuditResponse{
		ProductID:  res.Product.ID,
		Name:       res.Product.Name,
		Recorded:   res.Recorded,
		Replayed:   res.Replayed,
		Consistent: res.Consistent,
	})
}

// ShoppingList godoc
// @Summary      Lista de compras (productos en o bajo el mínimo)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ShoppingItemResponse
// @Router       /api/shopping-list [get]
func (h *ProductHandler) ShoppingList(c *fiber.Ctx) error {
	items, err := h.shopping.ShoppingList(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	out := make([]dto.ShoppingItemResponse, len(items))
	for i, it := range items {
		out[i] = dto.ShoppingItemResponse{
			ProductID:    it.ProductID,
			Name:         it.Name,
			Category:     it.Category,
			Unit:         it.Unit,
			CurrentStock: it.CurrentStock,
			MinStock:     it.MinStock,
			SuggestedQty: it.SuggestedQty,
			Status:       string(it.Status),
		}
	}
	return c.JSON(out)
}
