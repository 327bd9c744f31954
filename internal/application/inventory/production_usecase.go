package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductionUseCase transforma materia prima en productos terminados.
type ProductionUseCase struct {
	store repository.LedgerStore
	run   *runner
}

// NewProductionUseCase construye el caso de uso.
func NewProductionUseCase(store repository.LedgerStore, opts Options) *ProductionUseCase {
	return &ProductionUseCase{store: store, run: newRunner(store, opts)}
}

// CreateProductionInput datos de una corrida de producción.
type CreateProductionInput struct {
	RawMaterialID string
	QuantityUsed  decimal.Decimal
	Outputs       []entity.ProductionOutput
	Waste         entity.Waste
	Notes         string
}

func (in CreateProductionInput) validate() error {
	if strings.TrimSpace(in.RawMaterialID) == "" {
		return domain.Invalid("rawMaterialId", "la materia prima es obligatoria")
	}
	if !in.QuantityUsed.IsPositive() {
		return domain.Invalid("quantityUsed", "la cantidad usada debe ser mayor que cero")
	}
	if len(in.Outputs) == 0 {
		return domain.Invalid("outputs", "la producción necesita al menos un producto resultante")
	}
	for _, out := range in.Outputs {
		name := strings.TrimSpace(out.ProductName)
		if name == "" {
			return domain.Invalid("outputs", "cada producto resultante necesita un nombre")
		}
		if !out.Quantity.IsPositive() {
			return domain.Invalid("outputs", "la cantidad de %q debe ser mayor que cero", name)
		}
		if strings.TrimSpace(out.Unit) == "" {
			return domain.Invalid("outputs", "la unidad de %q es obligatoria", name)
		}
	}
	if in.Waste.Quantity.IsNegative() {
		return domain.Invalid("waste", "la merma no puede ser negativa")
	}
	return nil
}

// Create descuenta la materia prima, suma (o crea) cada producto resultante y guarda el
// registro de producción, todo en un único batch. Los nombres de salida se resuelven una
// sola vez sin distinguir mayúsculas; dos salidas con el mismo nombre van al mismo producto.
func (uc *ProductionUseCase) Create(ctx context.Context, caller entity.Caller, in CreateProductionInput) (*entity.Production, error) {
	if !caller.Permissions.CanCreateProductions {
		return nil, forbidden("registrar producciones")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *entity.Production
	err := uc.run.commit(ctx, "create_production", func(ctx context.Context) (repository.Batch, error) {
		raw, err := uc.store.GetProduct(ctx, in.RawMaterialID)
		if err != nil {
			return repository.Batch{}, err
		}
		all, err := uc.store.ListProducts(ctx)
		if err != nil {
			return repository.Batch{}, err
		}
		now := uc.run.opts.Now()
		meta := func() inventory.Meta {
			return inventory.Meta{ID: uc.run.opts.NewID(), Date: now, Actor: caller.ID}
		}

		rawAfter, _, err := inventory.ApplySignedMovement(raw, in.QuantityUsed.Neg(), raw.Unit, entity.TagProduccion, meta())
		if err != nil {
			return repository.Batch{}, err
		}

		// Estado de trabajo por clave de nombre: existentes (before/after) y nuevos.
		before := map[string]*entity.Product{raw.ID: raw}
		working := map[string]*entity.Product{raw.ID: rawAfter}
		updated := []string{raw.ID}
		newByKey := make(map[string]*entity.Product)
		var newOrder []string

		outputs := make([]entity.ProductionOutput, 0, len(in.Outputs))
		for _, out := range in.Outputs {
			out.ProductName = strings.TrimSpace(out.ProductName)
			out.Unit = strings.TrimSpace(out.Unit)
			if strings.TrimSpace(out.Category) == "" {
				out.Category = entity.CategoryProduccion
			}
			outputs = append(outputs, out)

			key := inventory.NameKey(out.ProductName)
			if p, ok := newByKey[key]; ok {
				next, _, err := inventory.ApplySignedMovement(p, out.Quantity, out.Unit, entity.TagProduccion, meta())
				if err != nil {
					return repository.Batch{}, err
				}
				newByKey[key] = next
				continue
			}
			existing := inventory.FindByName(all, out.ProductName)
			if existing == nil {
				newByKey[key] = inventory.NewProductionOutput(uc.run.opts.NewID(), out, meta())
				newOrder = append(newOrder, key)
				continue
			}
			cur, ok := working[existing.ID]
			if !ok {
				before[existing.ID], cur = existing, existing
				updated = append(updated, existing.ID)
			}
			next, _, err := inventory.ApplySignedMovement(cur, out.Quantity, out.Unit, entity.TagProduccion, meta())
			if err != nil {
				return repository.Batch{}, err
			}
			working[existing.ID] = next
		}

		created = &entity.Production{
			ID:                      uc.run.opts.NewID(),
			Date:                    now,
			RawMaterialID:           raw.ID,
			RawMaterialName:         raw.Name,
			RawMaterialUnit:         raw.Unit,
			RawMaterialQuantityUsed: in.QuantityUsed,
			Outputs:                 outputs,
			Waste:                   in.Waste,
			Notes:                   strings.TrimSpace(in.Notes),
			CreatedBy:               caller.ID,
		}

		batch := repository.Batch{CreateProductions: []*entity.Production{created}}
		for _, id := range updated {
			batch.UpdateProducts = append(batch.UpdateProducts, repository.DiffProduct(before[id], working[id]))
		}
		for _, key := range newOrder {
			batch.CreateProducts = append(batch.CreateProducts, newByKey[key])
		}
		return batch, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// List devuelve las producciones de la más reciente a la más antigua.
func (uc *ProductionUseCase) List(ctx context.Context) ([]*entity.Production, error) {
	return uc.store.ListProductions(ctx)
}

// Get devuelve una producción.
func (uc *ProductionUseCase) Get(ctx context.Context, id string) (*entity.Production, error) {
	return uc.store.GetProduction(ctx, id)
}
