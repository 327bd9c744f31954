package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/restaurante-inventario/internal/application/billing"
	"github.com/jhoicas/restaurante-inventario/internal/application/dto"
)

// InvoiceHandler facturas de proveedor y agenda de proveedores (protegido).
type InvoiceHandler struct {
	invoices  *billing.InvoiceUseCase
	providers *billing.ProviderUseCase
	logger    zerolog.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *billing.InvoiceUseCase, providers *billing.ProviderUseCase, logger zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, providers: providers, logger: logger}
}

// Create godoc
// @Summary      Registrar factura de proveedor
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	var date time.Time
	if in.Date != nil {
		date = *in.Date
	}
	inv, err := h.invoices.Create(c.UserContext(), billing.CreateInvoiceInput{
		InvoiceNumber: in.InvoiceNumber,
		Provider:      in.Provider,
		Date:          date,
		Status:        in.Status,
		Source:        in.Source,
		RawText:       in.RawText,
		Items:         dto.ToInvoiceItems(in.Items),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromInvoice(inv))
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | paid"
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	list, err := h.invoices.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	out := make([]dto.InvoiceResponse, len(list))
	for i, inv := range list {
		out[i] = dto.FromInvoice(inv)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.invoices.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.FromInvoice(inv))
}

// UpdateStatus godoc
// @Summary      Marcar factura pagada o pendiente
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceStatusRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	inv, err := h.invoices.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.FromInvoice(inv))
}

// ListProviders godoc
// @Summary      Proveedores recientes
// @Tags         providers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProviderResponse
// @Router       /api/providers [get]
func (h *InvoiceHandler) ListProviders(c *fiber.Ctx) error {
	list, err := h.providers.Recent(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	out := make([]dto.ProviderResponse, len(list))
	for i, p := range list {
		out[i] = dto.FromProvider(p)
	}
	return c.JSON(out)
}

// PurchaseOrder godoc
// @Summary      Armar pedido para WhatsApp
// @Description  Registra o actualiza el proveedor y devuelve el mensaje y el enlace wa.me.
// @Tags         providers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseOrderRequest  true  "Proveedor e ítems"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/providers/orders [post]
func (h *InvoiceHandler) PurchaseOrder(c *fiber.Ctx) error {
	var in dto.PurchaseOrderRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.logger, err)
	}
	items := make([]billing.OrderItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = billing.OrderItem{ProductName: it.ProductName, Quantity: it.Quantity, Unit: it.Unit}
	}
	order, err := h.providers.ComposeOrder(c.UserContext(), in.ProviderName, in.ProviderPhone, items)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(dto.PurchaseOrderResponse{
		Provider:    dto.FromProvider(order.Provider),
		Message:     order.Message,
		WhatsAppURL: order.WhatsAppURL,
	})
}
