package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados y orígenes de una factura de proveedor.
const (
	InvoicePending = "pending"
	InvoicePaid    = "paid"

	InvoiceSourceManual    = "manual"
	InvoiceSourceWhatsApp  = "whatsapp"
	InvoiceSourceIAChatbot = "ia_chatbot"
)

// InvoiceItem línea de factura.
type InvoiceItem struct {
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
	Price       decimal.Decimal
}

// Invoice factura de proveedor. No mueve stock.
type Invoice struct {
	ID            string
	InvoiceNumber string
	Provider      string
	Date          time.Time
	TotalAmount   decimal.Decimal
	Status        string
	Source        string
	RawText       string
	Items         []InvoiceItem
	CreatedAt     time.Time
}

// Provider proveedor identificado por teléfono.
type Provider struct {
	ID       string
	Name     string
	Phone    string
	LastUsed time.Time
	UseCount int
}
