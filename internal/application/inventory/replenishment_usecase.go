package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// idealStockFactor el stock ideal es 1.5 veces el mínimo.
var idealStockFactor = decimal.NewFromFloat(1.5)

// ShoppingItem sugerencia de compra para un producto en o bajo su mínimo.
type ShoppingItem struct {
	ProductID    string
	Name         string
	Category     string
	Unit         string
	CurrentStock decimal.Decimal
	MinStock     decimal.Decimal
	SuggestedQty decimal.Decimal
	Status       entity.StockStatus
}

// ReplenishmentUseCase genera la lista de compras.
type ReplenishmentUseCase struct {
	products repository.ProductReader
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductReader) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products}
}

// ShoppingList devuelve los productos en o bajo su stock mínimo con la cantidad sugerida
// (mínimo*1.5 - actual). Primero los agotados, luego por categoría y nombre.
func (uc *ReplenishmentUseCase) ShoppingList(ctx context.Context) ([]ShoppingItem, error) {
	all, err := uc.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ShoppingItem, 0)
	for _, p := range all {
		if p.Quantity.GreaterThan(p.MinStock) {
			continue
		}
		suggested := p.MinStock.Mul(idealStockFactor).Sub(p.Quantity)
		if !suggested.IsPositive() {
			continue
		}
		items = append(items, ShoppingItem{
			ProductID:    p.ID,
			Name:         p.Name,
			Category:     p.Category,
			Unit:         p.Unit,
			CurrentStock: p.Quantity,
			MinStock:     p.MinStock,
			SuggestedQty: suggested.Round(2),
			Status:       inventory.Status(p),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		ai, aj := items[i].Status == entity.StockAgotado, items[j].Status == entity.StockAgotado
		if ai != aj {
			return ai
		}
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}
