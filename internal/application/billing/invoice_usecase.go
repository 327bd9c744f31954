package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// InvoiceUseCase registro de facturas de proveedores. Las facturas no mueven stock.
type InvoiceUseCase struct {
	repo   repository.InvoiceRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(repo repository.InvoiceRepository, logger zerolog.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, logger: logger, now: time.Now}
}

// CreateInvoiceInput datos de una factura nueva. Date cero usa la fecha actual;
// Status vacío queda pendiente y Source vacío queda manual.
type CreateInvoiceInput struct {
	InvoiceNumber string
	Provider      string
	Date          time.Time
	Status        string
	Source        string
	RawText       string
	Items         []entity.InvoiceItem
}

// Create valida y guarda la factura. El total es la suma de cantidad*precio de los ítems.
func (uc *InvoiceUseCase) Create(ctx context.Context, in CreateInvoiceInput) (*entity.Invoice, error) {
	number := strings.TrimSpace(in.InvoiceNumber)
	provider := strings.TrimSpace(in.Provider)
	if number == "" {
		return nil, domain.Invalid("invoiceNumber", "el número de factura es obligatorio")
	}
	if provider == "" {
		return nil, domain.Invalid("provider", "el proveedor es obligatorio")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "la factura necesita al menos un ítem")
	}

	status := in.Status
	if status == "" {
		status = entity.InvoicePending
	}
	if !validStatus(status) {
		return nil, domain.Invalid("status", "estado de factura desconocido: %q", status)
	}
	source := in.Source
	if source == "" {
		source = entity.InvoiceSourceManual
	}
	switch source {
	case entity.InvoiceSourceManual, entity.InvoiceSourceWhatsApp, entity.InvoiceSourceIAChatbot:
	default:
		return nil, domain.Invalid("source", "origen de factura desconocido: %q", source)
	}

	total := decimal.Zero
	items := make([]entity.InvoiceItem, 0, len(in.Items))
	for _, it := range in.Items {
		it.ProductName = strings.TrimSpace(it.ProductName)
		if it.ProductName == "" {
			return nil, domain.Invalid("items", "cada ítem necesita un producto")
		}
		if !it.Price.IsPositive() {
			return nil, domain.Invalid("items", "el precio de %q debe ser mayor que cero", it.ProductName)
		}
		if it.Quantity.IsNegative() {
			return nil, domain.Invalid("items", "la cantidad de %q no puede ser negativa", it.ProductName)
		}
		total = total.Add(it.Quantity.Mul(it.Price))
		items = append(items, it)
	}

	now := uc.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	inv := &entity.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: number,
		Provider:      provider,
		Date:          date,
		TotalAmount:   total.Round(2),
		Status:        status,
		Source:        source,
		RawText:       strings.TrimSpace(in.RawText),
		Items:         items,
		CreatedAt:     now,
	}
	if err := uc.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("guardar factura %s: %w", number, err)
	}
	uc.logger.Info().Str("invoice", number).Str("provider", provider).Str("total", inv.TotalAmount.String()).Msg("factura registrada")
	return inv, nil
}

// Get devuelve una factura.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	return uc.repo.GetInvoice(ctx, id)
}

// List devuelve las facturas por fecha descendente; status vacío devuelve todas.
func (uc *InvoiceUseCase) List(ctx context.Context, status string) ([]*entity.Invoice, error) {
	all, err := uc.repo.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}
	out := make([]*entity.Invoice, 0, len(all))
	for _, inv := range all {
		if inv.Status == status {
			out = append(out, inv)
		}
	}
	return out, nil
}

// UpdateStatus marca la factura como pagada o pendiente.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, id, status string) (*entity.Invoice, error) {
	if !validStatus(status) {
		return nil, domain.Invalid("status", "estado de factura desconocido: %q", status)
	}
	if err := uc.repo.UpdateInvoiceStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return uc.repo.GetInvoice(ctx, id)
}

func validStatus(s string) bool {
	return s == entity.InvoicePending || s == entity.InvoicePaid
}
