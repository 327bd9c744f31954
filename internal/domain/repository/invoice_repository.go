package repository

import (
	"context"
	"time"

	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
)

// InvoiceRepository persistencia de facturas de proveedor.
type InvoiceRepository interface {
	CreateInvoice(ctx context.Context, invoice *entity.Invoice) error
	GetInvoice(ctx context.Context, id string) (*entity.Invoice, error)
	ListInvoices(ctx context.Context) ([]*entity.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id, status string) error
}

// ProviderRepository persistencia de proveedores (clave natural: teléfono).
type ProviderRepository interface {
	// UpsertProviderByPhone crea el proveedor o, si el teléfono existe, actualiza nombre,
	// lastUsed e incrementa useCount.
	UpsertProviderByPhone(ctx context.Context, id, name, phone string, now time.Time) (*entity.Provider, error)
	ListProviders(ctx context.Context) ([]*entity.Provider, error)
}
