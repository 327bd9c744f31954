// Package seed carga el catálogo de ejemplo del restaurante en cualquier almacenamiento.
package seed

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type sampleProduct struct {
	name     string
	qty      string
	unit     string
	minStock string
	category string
}

var sampleProducts = []sampleProduct{
	{"Suprema de Pollo", "25", "kg", "10", entity.CategoryCarnes},
	{"Lomito", "15", "kg", "5", entity.CategoryCarnes},
	{"Lomo de Cerdo", "12", "kg", "5", entity.CategoryCarnes},
	{"Solomo", "18", "kg", "8", entity.CategoryCarnes},
	{"Carne para Hamburguesa", "20.75", "kg", "5", entity.CategoryCarnes},
	{"Chorizo", "15", "kg", "4", entity.CategoryCarnes},
	{"Carne de Parrilla (Punta)", "0", "kg", "5", entity.CategoryCarnes},
	{"Tomate", "15.5", "kg", "4", entity.CategoryVerduras},
	{"Lechuga", "0", "cestas", "2", entity.CategoryVerduras},
	{"Cebolla", "2", "sacos", "1", entity.CategoryVerduras},
	{"Pan de Hamburguesa", "100", "unidades", "20", entity.CategoryDespensa},
	{"Queso Amarillo", "10", "kg", "2", entity.CategoryDespensa},
	{"Papas Fritas Congeladas", "25", "kg", "10", entity.CategoryDespensa},
	{"Refresco 2L", "50", "botellas", "15", entity.CategoryDespensa},
	{"Masa de Pizza", "30", "unidades", "10", entity.CategoryDespensa},
	{"Salsa para Pizza", "10", "litros", "3", entity.CategoryDespensa},
	{"Helado de Chocolate", "4.5", "litros", "2", entity.CategoryDespensa},
	{"Aceite", "10", "litros", "3", entity.CategoryDespensa},
	{"Arroz", "20", "kg", "5", entity.CategoryDespensa},
	{"Harina P.A.N.", "20", "kg", "5", entity.CategoryDespensa},
	{"Cerveza Polar", "120", "unidades", "24", entity.CategoryLicores},
	{"Ron Cacique", "12", "botellas", "3", entity.CategoryLicores},
	{"Whisky Old Parr", "6", "botellas", "2", entity.CategoryLicores},
}

// Target almacenamiento que recibe los datos de ejemplo.
type Target interface {
	repository.ProductReader
	repository.Committer
	CreateInvoice(ctx context.Context, invoice *entity.Invoice) error
}

// Load carga el catálogo de ejemplo, dos requisiciones pendientes y dos facturas.
// Solo siembra si el inventario está vacío; devuelve si sembró.
func Load(ctx context.Context, s Target, now time.Time) (bool, error) {
	existing, err := s.ListProducts(ctx)
	if err != nil || len(existing) > 0 {
		return false, err
	}

	var batch repository.Batch
	byName := make(map[string]*entity.Product, len(sampleProducts))
	for _, sp := range sampleProducts {
		p, err := inventory.NewProduct(uuid.NewString(), inventory.NewProductInput{
			Name:            sp.name,
			InitialQuantity: decimal.NewNullDecimal(decimal.RequireFromString(sp.qty)),
			Unit:            sp.unit,
			MinStock:        decimal.NewNullDecimal(decimal.RequireFromString(sp.minStock)),
			Category:        sp.category,
		}, inventory.Meta{ID: uuid.NewString(), Date: now, Actor: "seed"})
		if err != nil {
			return false, err
		}
		batch.CreateProducts = append(batch.CreateProducts, p)
		byName[sp.name] = p
	}

	item := func(name, qty string) entity.RequisitionItem {
		p := byName[name]
		return entity.RequisitionItem{
			ProductID:         p.ID,
			ProductName:       p.Name,
			RequestedQuantity: decimal.RequireFromString(qty),
			Unit:              p.Unit,
		}
	}
	batch.Requisitions = []repository.RequisitionWrite{
		{Requisition: &entity.Requisition{
			ID: uuid.NewString(), Department: "Cocina", Status: entity.RequisitionPending, CreatedAt: now, CreatedBy: "seed",
			Items: []entity.RequisitionItem{item("Carne para Hamburguesa", "5"), item("Tomate", "2"), item("Pan de Hamburguesa", "20")},
		}},
		{Requisition: &entity.Requisition{
			ID: uuid.NewString(), Department: "Barra", Status: entity.RequisitionPending, CreatedAt: now, CreatedBy: "seed",
			Items: []entity.RequisitionItem{item("Refresco 2L", "10")},
		}},
	}
	if err := s.Commit(ctx, batch); err != nil {
		return false, err
	}

	invoices := []*entity.Invoice{
		{
			ID: uuid.NewString(), InvoiceNumber: "FC-001", Provider: "Carnicería El Toro", Date: now,
			TotalAmount: decimal.RequireFromString("150.75"), Status: entity.InvoicePaid, Source: entity.InvoiceSourceManual,
			Items:     []entity.InvoiceItem{{ProductName: "Carne de Parrilla (Punta)", Quantity: decimal.NewFromInt(10), Unit: "kg", Price: decimal.RequireFromString("15.075")}},
			CreatedAt: now,
		},
		{
			ID: uuid.NewString(), InvoiceNumber: "FC-002", Provider: "Verduras Frescas C.A.", Date: now,
			TotalAmount: decimal.RequireFromString("75.50"), Status: entity.InvoicePending, Source: entity.InvoiceSourceWhatsApp,
			RawText: "Factura de Verduras Frescas: 5 cestas de lechuga, 10kg tomate. Total 75.50",
			Items: []entity.InvoiceItem{
				{ProductName: "Lechuga", Quantity: decimal.NewFromInt(5), Unit: "cestas", Price: decimal.NewFromInt(50)},
				{ProductName: "Tomate", Quantity: decimal.NewFromInt(10), Unit: "kg", Price: decimal.RequireFromString("25.50")},
			},
			CreatedAt: now,
		},
	}
	for _, inv := range invoices {
		if err := s.CreateInvoice(ctx, inv); err != nil {
			return false, err
		}
	}
	return true, nil
}
