package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemDTO línea de factura de proveedor.
type InvoiceItemDTO struct {
	ProductName string          `json:"product_name" validate:"required,max=200"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit" validate:"omitempty,max=30"`
	Price       decimal.Decimal `json:"price"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Date vacío usa la fecha actual; el total se calcula desde los ítems.
type CreateInvoiceRequest struct {
	InvoiceNumber string           `json:"invoice_number" validate:"required,max=60"`
	Provider      string           `json:"provider" validate:"required,max=200"`
	Date          *time.Time       `json:"date,omitempty"`
	Status        string           `json:"status" validate:"omitempty,oneof=pending paid"`
	Source        string           `json:"source" validate:"omitempty,oneof=manual whatsapp ia_chatbot"`
	RawText       string           `json:"raw_text,omitempty"`
	Items         []InvoiceItemDTO `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid"`
}

// InvoiceResponse factura de proveedor.
type InvoiceResponse struct {
	ID            string           `json:"id"`
	InvoiceNumber string           `json:"invoice_number"`
	Provider      string           `json:"provider"`
	Date          time.Time        `json:"date"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	Status        string           `json:"status"`
	Source        string           `json:"source"`
	RawText       string           `json:"raw_text,omitempty"`
	Items         []InvoiceItemDTO `json:"items"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ProviderResponse proveedor de la agenda.
type ProviderResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	LastUsed time.Time `json:"last_used"`
	UseCount int       `json:"use_count"`
}

// OrderItemDTO línea de un pedido a proveedor.
type OrderItemDTO struct {
	ProductName string          `json:"product_name" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// PurchaseOrderRequest body para POST /api/providers/orders.
type PurchaseOrderRequest struct {
	ProviderName  string         `json:"provider_name" validate:"required,max=200"`
	ProviderPhone string         `json:"provider_phone" validate:"required,max=30"`
	Items         []OrderItemDTO `json:"items" validate:"required,min=1,dive"`
}

// PurchaseOrderResponse mensaje y enlace listos para WhatsApp.
type PurchaseOrderResponse struct {
	Provider    ProviderResponse `json:"provider"`
	Message     string           `json:"message"`
	WhatsAppURL string           `json:"whatsapp_url"`
}
