package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// RequisitionUseCase alta y despacho de requisiciones de los departamentos.
type RequisitionUseCase struct {
	store repository.LedgerStore
	run   *runner
}

// NewRequisitionUseCase construye el caso de uso.
func NewRequisitionUseCase(store repository.LedgerStore, opts Options) *RequisitionUseCase {
	return &RequisitionUseCase{store: store, run: newRunner(store, opts)}
}

// RequisitionItemInput línea pedida por nombre de producto.
type RequisitionItemInput struct {
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
}

// CreateRequisitionInput pedido de un departamento.
type CreateRequisitionInput struct {
	Department string
	Items      []RequisitionItemInput
}

// Create registra una requisición pendiente. Cada producto se resuelve una sola vez por
// nombre y desde ahí se guarda su ID.
func (uc *RequisitionUseCase) Create(ctx context.Context, caller entity.Caller, in CreateRequisitionInput) (*entity.Requisition, error) {
	department := strings.TrimSpace(in.Department)
	if department == "" {
		return nil, domain.Invalid("department", "el departamento es obligatorio")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "la requisición necesita al menos un producto")
	}
	for _, it := range in.Items {
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid("items", "la cantidad pedida de %q debe ser mayor que cero", strings.TrimSpace(it.ProductName))
		}
	}

	var created *entity.Requisition
	err := uc.run.commit(ctx, "create_requisition", func(ctx context.Context) (repository.Batch, error) {
		all, err := uc.store.ListProducts(ctx)
		if err != nil {
			return repository.Batch{}, err
		}
		items := make([]entity.RequisitionItem, 0, len(in.Items))
		for _, it := range in.Items {
			p := inventory.FindByName(all, it.ProductName)
			if p == nil {
				return repository.Batch{}, domain.NotFound("producto", strings.TrimSpace(it.ProductName))
			}
			unit := strings.TrimSpace(it.Unit)
			if unit == "" {
				unit = p.Unit
			}
			items = append(items, entity.RequisitionItem{
				ProductID:         p.ID,
				ProductName:       p.Name,
				RequestedQuantity: it.Quantity,
				Unit:              unit,
			})
		}
		created = &entity.Requisition{
			ID:         uc.run.opts.NewID(),
			Department: department,
			Status:     entity.RequisitionPending,
			Items:      items,
			CreatedBy:  caller.ID,
			CreatedAt:  uc.run.opts.Now(),
		}
		return repository.Batch{Requisitions: []repository.RequisitionWrite{{Requisition: created}}}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Delivery lo entregado para un producto. Quantity llega como texto; vacío equivale a 0.
type Delivery struct {
	Quantity    string
	Observation string
}

// Process despacha una requisición pendiente. deliveries se indexa por ID de producto;
// los ítems sin entrada se registran con 0.
//
// Se valida todo antes de escribir: cantidades (ValidationError), luego stock
// (InsufficientStockError). Solo si todo pasa se confirma un único batch con las
// salidas de cada producto y la requisición completada.
func (uc *RequisitionUseCase) Process(ctx context.Context, caller entity.Caller, id string, deliveries map[string]Delivery) (*entity.Requisition, error) {
	if !caller.Permissions.CanProcessRequisitions {
		return nil, forbidden("procesar requisiciones")
	}

	var processed *entity.Requisition
	err := uc.run.commit(ctx, "process_requisition", func(ctx context.Context) (repository.Batch, error) {
		req, err := uc.store.GetRequisition(ctx, id)
		if err != nil {
			return repository.Batch{}, err
		}
		if !req.IsPending() {
			return repository.Batch{}, domain.ErrConflict
		}

		// Validación
		delivered := make([]decimal.Decimal, len(req.Items))
		for i, it := range req.Items {
			qty, err := parseDelivered(it, deliveries[it.ProductID].Quantity)
			if err != nil {
				return repository.Batch{}, err
			}
			delivered[i] = qty
		}

		// Stock: las salidas se aplican sobre copias de trabajo para acumular
		// varias líneas del mismo producto.
		meta := uc.run.meta(caller.ID)
		before := make(map[string]*entity.Product)
		working := make(map[string]*entity.Product)
		var order []string
		for i, it := range req.Items {
			if !delivered[i].IsPositive() {
				continue
			}
			cur, ok := working[it.ProductID]
			if !ok {
				p, err := uc.store.GetProduct(ctx, it.ProductID)
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				if err != nil {
					return repository.Batch{}, err
				}
				before[p.ID], cur = p, p
				order = append(order, p.ID)
			}
			unit := it.Unit
			if unit == "" {
				unit = cur.Unit
			}
			next, _, err := inventory.ApplySignedMovement(cur, delivered[i].Neg(), unit, req.Department, inventory.Meta{
				ID: uc.run.opts.NewID(), Date: meta.Date, Actor: meta.Actor,
			})
			if err != nil {
				return repository.Batch{}, err
			}
			working[it.ProductID] = next
		}

		// Escritura
		done := *req
		done.Items = make([]entity.RequisitionItem, len(req.Items))
		for i, it := range req.Items {
			qty := delivered[i]
			it.DeliveredQuantity = &qty
			it.Observation = strings.TrimSpace(deliveries[it.ProductID].Observation)
			done.Items[i] = it
		}
		done.Status = entity.RequisitionCompleted
		processedAt := meta.Date
		done.ProcessedAt = &processedAt
		processed = &done

		batch := repository.Batch{
			Requisitions: []repository.RequisitionWrite{{Requisition: &done, ExpectedStatus: entity.RequisitionPending}},
		}
		for _, pid := range order {
			batch.UpdateProducts = append(batch.UpdateProducts, repository.DiffProduct(before[pid], working[pid]))
		}
		return batch, nil
	})
	if err != nil {
		return nil, err
	}
	return processed, nil
}

func parseDelivered(it entity.RequisitionItem, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	qty, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Zero, domain.Invalid("deliveredQuantity", "cantidad entregada inválida para %q: %q", it.ProductName, raw)
	}
	if qty.IsNegative() {
		return decimal.Zero, domain.Invalid("deliveredQuantity", "la cantidad entregada de %q no puede ser negativa", it.ProductName)
	}
	return qty, nil
}

// Get devuelve una requisición.
func (uc *RequisitionUseCase) Get(ctx context.Context, id string) (*entity.Requisition, error) {
	return uc.store.GetRequisition(ctx, id)
}

// List lista las requisiciones; status vacío devuelve todas.
func (uc *RequisitionUseCase) List(ctx context.Context, status string) ([]*entity.Requisition, error) {
	all, err := uc.store.ListRequisitions(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}
	out := make([]*entity.Requisition, 0, len(all))
	for _, r := range all {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}
