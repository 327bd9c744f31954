package repository

import "github.com/jhoicas/restaurante-inventario/internal/domain/entity"

// ProductWrite actualización condicional de un producto.
// La escritura solo aplica si la versión guardada es ExpectedVersion; la nueva versión es ExpectedVersion+1.
// Appended son los movimientos nuevos y Cancelled los IDs que pasaron a anulados.
type ProductWrite struct {
	Product         *entity.Product
	ExpectedVersion int64
	Appended        []entity.Movement
	Cancelled       []string
}

// ProductDelete borrado condicional de un producto y todo su historial.
type ProductDelete struct {
	ID              string
	ExpectedVersion int64
}

// RequisitionWrite alta (ExpectedStatus vacío) o actualización condicionada al estado actual.
type RequisitionWrite struct {
	Requisition    *entity.Requisition
	ExpectedStatus string
}

// Batch conjunto de escrituras que se confirman juntas.
type Batch struct {
	CreateProducts    []*entity.Product
	UpdateProducts    []ProductWrite
	DeleteProducts    []ProductDelete
	Requisitions      []RequisitionWrite
	CreateProductions []*entity.Production
}

// Empty indica si el batch no tiene escrituras.
func (b Batch) Empty() bool {
	return len(b.CreateProducts) == 0 && len(b.UpdateProducts) == 0 && len(b.DeleteProducts) == 0 &&
		len(b.Requisitions) == 0 && len(b.CreateProductions) == 0
}

// DiffProduct arma la escritura condicional a partir del estado leído (before) y el calculado (after).
func DiffProduct(before, after *entity.Product) ProductWrite {
	known := make(map[string]bool, len(before.History))
	wasCancelled := make(map[string]bool, len(before.History))
	for _, m := range before.History {
		known[m.ID] = true
		wasCancelled[m.ID] = m.Cancelled
	}
	w := ProductWrite{Product: after, ExpectedVersion: before.Version}
	for _, m := range after.History {
		if !known[m.ID] {
			w.Appended = append(w.Appended, m)
			continue
		}
		if m.Cancelled && !wasCancelled[m.ID] {
			w.Cancelled = append(w.Cancelled, m.ID)
		}
	}
	return w
}
