package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// HistoryPreviewLimit movimientos visibles sin el permiso de historial completo.
const HistoryPreviewLimit = 10

// LedgerUseCase operaciones sobre un producto: alta, baja, ajuste rápido y anulación.
type LedgerUseCase struct {
	store repository.LedgerStore
	run   *runner
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(store repository.LedgerStore, opts Options) *LedgerUseCase {
	return &LedgerUseCase{store: store, run: newRunner(store, opts)}
}

// CreateProduct da de alta un producto con su entrada inicial.
// Un nombre ya existente (sin distinguir mayúsculas) devuelve domain.ErrDuplicate.
func (uc *LedgerUseCase) CreateProduct(ctx context.Context, caller entity.Caller, in inventory.NewProductInput) (*entity.Product, error) {
	var created *entity.Product
	err := uc.run.commit(ctx, "create_product", func(ctx context.Context) (repository.Batch, error) {
		all, err := uc.store.ListProducts(ctx)
		if err != nil {
			return repository.Batch{}, err
		}
		if inventory.FindByName(all, in.Name) != nil {
			return repository.Batch{}, fmt.Errorf("%w: ya existe un producto llamado %q", domain.ErrDuplicate, strings.TrimSpace(in.Name))
		}
		p, err := inventory.NewProduct(uc.run.opts.NewID(), in, uc.run.meta(caller.ID))
		if err != nil {
			return repository.Batch{}, err
		}
		created = p
		return repository.Batch{CreateProducts: []*entity.Product{p}}, nil
	})
	if err != nil {
		return nil, err
	}
	created.Version = 1
	return created, nil
}

// DeleteProduct elimina el producto y todo su historial. Es irreversible.
func (uc *LedgerUseCase) DeleteProduct(ctx context.Context, caller entity.Caller, id string) error {
	if !caller.Permissions.CanDeleteProducts {
		return forbidden("eliminar productos")
	}
	return uc.run.commit(ctx, "delete_product", func(ctx context.Context) (repository.Batch, error) {
		p, err := uc.store.GetProduct(ctx, id)
		if err != nil {
			return repository.Batch{}, err
		}
		return repository.Batch{DeleteProducts: []repository.ProductDelete{{ID: p.ID, ExpectedVersion: p.Version}}}, nil
	})
}

// GetProduct devuelve el producto con su historial completo.
func (uc *LedgerUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return uc.store.GetProduct(ctx, id)
}

// ListProducts lista los productos; category vacío devuelve todos.
func (uc *LedgerUseCase) ListProducts(ctx context.Context, category string) ([]*entity.Product, error) {
	all, err := uc.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return all, nil
	}
	out := make([]*entity.Product, 0, len(all))
	for _, p := range all {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// ProductHistory devuelve el producto junto con su historial del más reciente al más
// antiguo, recortado a HistoryPreviewLimit si el llamador no puede ver el historial
// completo. Ambos salen de la misma lectura, así el saldo y el historial coinciden.
func (uc *LedgerUseCase) ProductHistory(ctx context.Context, caller entity.Caller, id string) (*entity.Product, []entity.Movement, error) {
	p, err := uc.store.GetProduct(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	history := inventory.SortedHistory(p)
	if !caller.Permissions.CanViewFullHistory && len(history) > HistoryPreviewLimit {
		history = history[:HistoryPreviewLimit]
	}
	return p, history, nil
}

// AuditResult compara el saldo guardado con el recalculado desde el historial.
type AuditResult struct {
	Product    *entity.Product
	Recorded   decimal.Decimal
	Replayed   decimal.Decimal
	Consistent bool
}

// AuditProduct recalcula el saldo del producto desde su historial.
func (uc *LedgerUseCase) AuditProduct(ctx context.Context, id string) (*AuditResult, error) {
	p, err := uc.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	replayed := inventory.ReplayBalance(p)
	return &AuditResult{
		Product:    p,
		Recorded:   p.Quantity,
		Replayed:   replayed,
		Consistent: replayed.Equal(p.Quantity),
	}, nil
}

// QuickUpdateInput ajuste directo de un producto. Amount lleva el signo:
// positivo es entrada y negativo salida. Unit vacío usa la unidad del producto
// y Reason vacío usa entity.TagAjusteManual.
type QuickUpdateInput struct {
	ProductID string
	Amount    decimal.Decimal
	Unit      string
	Reason    string
}

// AdjustmentResult producto actualizado y aviso para el usuario.
// Notify es falso para los ajustes manuales de rutina.
type AdjustmentResult struct {
	Product  *entity.Product
	Movement entity.Movement
	Notify   bool
	Message  string
}

// QuickUpdate aplica un movimiento con signo sobre un producto.
// Las entradas requieren CanManuallyAdjustStock; las salidas están abiertas a todos.
func (uc *LedgerUseCase) QuickUpdate(ctx context.Context, caller entity.Caller, in QuickUpdateInput) (*AdjustmentResult, error) {
	return uc.adjust(ctx, caller, "quick_update", func(ctx context.Context) (*entity.Product, error) {
		return uc.store.GetProduct(ctx, in.ProductID)
	}, in.Amount, in.Unit, in.Reason)
}

// AdjustByName igual que QuickUpdate pero resuelve el producto por nombre
// (sin distinguir mayúsculas). Lo usa el asistente.
func (uc *LedgerUseCase) AdjustByName(ctx context.Context, caller entity.Caller, name string, amount decimal.Decimal, unit, reason string) (*AdjustmentResult, error) {
	return uc.adjust(ctx, caller, "adjust_by_name", func(ctx context.Context) (*entity.Product, error) {
		all, err := uc.store.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		p := inventory.FindByName(all, name)
		if p == nil {
			return nil, domain.NotFound("producto", strings.TrimSpace(name))
		}
		return p, nil
	}, amount, unit, reason)
}

func (uc *LedgerUseCase) adjust(
	ctx context.Context,
	caller entity.Caller,
	op string,
	load func(ctx context.Context) (*entity.Product, error),
	amount decimal.Decimal,
	unit, reason string,
) (*AdjustmentResult, error) {
	if amount.IsPositive() && !caller.Permissions.CanManuallyAdjustStock {
		return nil, forbidden("registrar entradas manuales")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = entity.TagAjusteManual
	}

	var res AdjustmentResult
	err := uc.run.commit(ctx, op, func(ctx context.Context) (repository.Batch, error) {
		before, err := load(ctx)
		if err != nil {
			return repository.Batch{}, err
		}
		u := strings.TrimSpace(unit)
		if u == "" {
			u = before.Unit
		}
		after, mov, err := inventory.ApplySignedMovement(before, amount, u, reason, uc.run.meta(caller.ID))
		if err != nil {
			return repository.Batch{}, err
		}
		after.Version = before.Version + 1
		res.Product, res.Movement = after, mov
		return repository.Batch{UpdateProducts: []repository.ProductWrite{repository.DiffProduct(before, after)}}, nil
	})
	if err != nil {
		return nil, err
	}
	res.Notify, res.Message = adjustmentNotice(res.Product.Name, res.Movement, reason)
	return &res, nil
}

// adjustmentNotice los ajustes manuales de rutina no generan aviso.
func adjustmentNotice(name string, mov entity.Movement, reason string) (bool, string) {
	if strings.Contains(reason, entity.TagAjusteManual) {
		return false, ""
	}
	kind := "Salida"
	if mov.Type == entity.MovementEntrada {
		kind = "Entrada"
	}
	return true, fmt.Sprintf("%s registrada para %q.", kind, name)
}

// CancelMovement anula un entrada/salida previo del producto.
func (uc *LedgerUseCase) CancelMovement(ctx context.Context, caller entity.Caller, productID, movementID string) (*entity.Product, entity.Movement, error) {
	if !caller.Permissions.CanManuallyAdjustStock {
		return nil, entity.Movement{}, forbidden("anular movimientos")
	}
	var (
		updated  *entity.Product
		reversal entity.Movement
	)
	err := uc.run.commit(ctx, "cancel_movement", func(ctx context.Context) (repository.Batch, error) {
		before, err := uc.store.GetProduct(ctx, productID)
		if err != nil {
			return repository.Batch{}, err
		}
		after, rev, err := inventory.CancelMovement(before, movementID, uc.run.meta(caller.ID))
		if err != nil {
			return repository.Batch{}, err
		}
		after.Version = before.Version + 1
		updated, reversal = after, rev
		return repository.Batch{UpdateProducts: []repository.ProductWrite{repository.DiffProduct(before, after)}}, nil
	})
	if err != nil {
		return nil, entity.Movement{}, err
	}
	return updated, reversal, nil
}
