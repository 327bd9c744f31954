// Package inventory contiene las reglas puras del libro de movimientos de un producto:
// aplicar un movimiento con signo, anular un movimiento previo y sembrar un producto nuevo.
// Ninguna función muta el producto recibido; todas devuelven una copia con el cambio
// completo (saldo + historial) para que el llamador lo confirme como una sola escritura.
package inventory

import (
	"strings"
	"time"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Meta datos que el llamador asigna a cada movimiento nuevo.
type Meta struct {
	ID    string
	Date  time.Time
	Actor string
}

// ApplySignedMovement suma signed al saldo del producto y agrega el movimiento correspondiente.
// signed > 0 genera una entrada con Source = reasonTag; signed < 0 una salida con Destination = reasonTag.
// Si el saldo resultante fuera negativo devuelve *domain.InsufficientStockError y no hay cambios.
func ApplySignedMovement(p *entity.Product, signed decimal.Decimal, unit, reasonTag string, meta Meta) (*entity.Product, entity.Movement, error) {
	if p == nil {
		return nil, entity.Movement{}, domain.ErrNotFound
	}
	if signed.IsZero() {
		return nil, entity.Movement{}, domain.Invalid("amount", "la cantidad para %q no puede ser cero", p.Name)
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return nil, entity.Movement{}, domain.Invalid("unit", "falta la unidad del movimiento de %q", p.Name)
	}
	newQty := p.Quantity.Add(signed)
	if newQty.IsNegative() {
		return nil, entity.Movement{}, &domain.InsufficientStockError{
			Product:   p.Name,
			Unit:      p.Unit,
			Available: p.Quantity,
			Requested: signed.Abs(),
		}
	}

	mov := entity.Movement{
		ID:        meta.ID,
		Amount:    signed.Abs(),
		Unit:      unit,
		Date:      meta.Date,
		CreatedBy: meta.Actor,
	}
	if signed.IsPositive() {
		mov.Type = entity.MovementEntrada
		mov.Source = reasonTag
	} else {
		mov.Type = entity.MovementSalida
		mov.Destination = reasonTag
	}

	out := p.Clone()
	mov.Seq = out.NextSeq()
	out.Quantity = newQty
	out.History = append(out.History, mov)
	out.UpdatedAt = meta.Date
	return out, mov, nil
}

// CancelMovement invierte el efecto de un entrada/salida previo: lo marca como anulado,
// agrega el registro de anulación y ajusta el saldo. Las anulaciones y los movimientos ya
// anulados devuelven domain.ErrAlreadyReversed.
func CancelMovement(p *entity.Product, movementID string, meta Meta) (*entity.Product, entity.Movement, error) {
	if p == nil {
		return nil, entity.Movement{}, domain.ErrNotFound
	}
	idx := p.FindMovement(movementID)
	if idx < 0 {
		return nil, entity.Movement{}, domain.NotFound("movimiento", movementID)
	}
	target := p.History[idx]
	if target.Cancelled || target.Type.IsReversal() || !target.Type.Valid() {
		return nil, entity.Movement{}, domain.ErrAlreadyReversed
	}

	adjustment := target.Signed().Neg()
	newQty := p.Quantity.Add(adjustment)
	if newQty.IsNegative() {
		return nil, entity.Movement{}, &domain.InsufficientStockError{
			Product:   p.Name,
			Unit:      p.Unit,
			Available: p.Quantity,
			Requested: target.Amount,
		}
	}

	originalDate := target.Date
	reversal := entity.Movement{
		ID:                    meta.ID,
		Type:                  entity.ReversalOf(target.Type),
		Amount:                target.Amount,
		Unit:                  target.Unit,
		Date:                  meta.Date,
		Source:                entity.TagAnulacionManual,
		CancelledMovementID:   target.ID,
		CancelledMovementDate: &originalDate,
		CreatedBy:             meta.Actor,
	}

	out := p.Clone()
	reversal.Seq = out.NextSeq()
	out.History[idx].Cancelled = true
	out.History = append(out.History, reversal)
	out.Quantity = newQty
	out.UpdatedAt = meta.Date
	return out, reversal, nil
}

// ReplayBalance recalcula el saldo desde el historial: suma con signo de las entradas y
// salidas no anuladas. Los registros de anulación no cuentan; su efecto ya está en la marca
// Cancelled del original.
func ReplayBalance(p *entity.Product) decimal.Decimal {
	total := decimal.Zero
	for _, m := range p.History {
		if m.Cancelled {
			continue
		}
		total = total.Add(m.Signed())
	}
	return total
}

// Status clasifica el saldo frente al stock mínimo. Es solo informativo.
func Status(p *entity.Product) entity.StockStatus {
	switch {
	case !p.Quantity.IsPositive():
		return entity.StockAgotado
	case p.Quantity.LessThanOrEqual(p.MinStock):
		return entity.StockBajo
	default:
		return entity.StockOptimo
	}
}
