package inventory

import (
	"sort"
	"strings"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// DefaultMinStock mínimo que se asigna cuando no llega uno válido.
var DefaultMinStock = decimal.NewFromInt(5)

// NewProductInput datos para sembrar un producto. Los valores nulos o inválidos se coercionan.
type NewProductInput struct {
	Name            string
	InitialQuantity decimal.NullDecimal
	Unit            string
	MinStock        decimal.NullDecimal
	Category        string
}

// NewProduct construye un producto con su historial sembrado por una única entrada igual
// a la cantidad inicial. Cantidad inicial ausente o negativa queda en 0; mínimo ausente,
// negativo o cero queda en DefaultMinStock.
func NewProduct(id string, in NewProductInput, meta Meta) (*entity.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "el nombre del producto es obligatorio")
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		return nil, domain.Invalid("unit", "la unidad de %q es obligatoria", name)
	}
	qty := decimal.Zero
	if in.InitialQuantity.Valid && in.InitialQuantity.Decimal.IsPositive() {
		qty = in.InitialQuantity.Decimal
	}
	minStock := DefaultMinStock
	if in.MinStock.Valid && in.MinStock.Decimal.IsPositive() {
		minStock = in.MinStock.Decimal
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = entity.CategoryDespensa
	}
	return seed(id, name, qty, unit, minStock, category, "", meta), nil
}

// NewProductionOutput crea el producto de una salida de producción que no existía:
// mínimo 0, categoría por defecto "Producción" y entrada sembrada con origen Producción.
func NewProductionOutput(id string, out entity.ProductionOutput, meta Meta) *entity.Product {
	category := strings.TrimSpace(out.Category)
	if category == "" {
		category = entity.CategoryProduccion
	}
	return seed(id, strings.TrimSpace(out.ProductName), out.Quantity, out.Unit, decimal.Zero, category, entity.TagProduccion, meta)
}

func seed(id, name string, qty decimal.Decimal, unit string, minStock decimal.Decimal, category, source string, meta Meta) *entity.Product {
	return &entity.Product{
		ID:       id,
		Name:     name,
		Quantity: qty,
		Unit:     unit,
		MinStock: minStock,
		Category: category,
		History: []entity.Movement{{
			ID:        meta.ID,
			Seq:       1,
			Type:      entity.MovementEntrada,
			Amount:    qty,
			Unit:      unit,
			Date:      meta.Date,
			Source:    source,
			CreatedBy: meta.Actor,
		}},
		CreatedAt: meta.Date,
		UpdatedAt: meta.Date,
	}
}

// NameKey normaliza un nombre para comparaciones sin distinguir mayúsculas.
// Un Caser no es seguro entre goroutines, por eso se crea en cada llamada.
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// FindByName busca un producto por nombre sin distinguir mayúsculas.
func FindByName(products []*entity.Product, name string) *entity.Product {
	key := NameKey(name)
	for _, p := range products {
		if NameKey(p.Name) == key {
			return p
		}
	}
	return nil
}

// SortedHistory devuelve el historial del más reciente al más antiguo.
// La fecha es del cliente, por eso se desempata por Seq.
func SortedHistory(p *entity.Product) []entity.Movement {
	out := make([]entity.Movement, len(p.History))
	copy(out, p.History)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}
