// Package memory implementa el almacenamiento del inventario en memoria.
// Se usa en modo demo (sin DATABASE_URL) y en las pruebas de los casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
)

var (
	_ repository.LedgerStore        = (*Store)(nil)
	_ repository.InvoiceRepository  = (*Store)(nil)
	_ repository.ProviderRepository = (*Store)(nil)
)

// Store guarda copias de las entidades; nunca entrega punteros internos.
type Store struct {
	mu           sync.RWMutex
	products     map[string]*entity.Product
	requisitions map[string]*entity.Requisition
	productions  map[string]*entity.Production
	invoices     map[string]*entity.Invoice
	providers    map[string]*entity.Provider // por teléfono
}

// New construye un Store vacío.
func New() *Store {
	return &Store{
		products:     make(map[string]*entity.Product),
		requisitions: make(map[string]*entity.Requisition),
		productions:  make(map[string]*entity.Production),
		invoices:     make(map[string]*entity.Invoice),
		providers:    make(map[string]*entity.Provider),
	}
}

// GetProduct devuelve una copia del producto.
func (s *Store) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.NotFound("producto", id)
	}
	return p.Clone(), nil
}

// ListProducts devuelve todos los productos ordenados por nombre.
func (s *Store) ListProducts(_ context.Context) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetRequisition devuelve una copia de la requisición.
func (s *Store) GetRequisition(_ context.Context, id string) (*entity.Requisition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requisitions[id]
	if !ok {
		return nil, domain.NotFound("requisición", id)
	}
	return cloneRequisition(r), nil
}

// ListRequisitions devuelve las requisiciones de la más reciente a la más antigua.
func (s *Store) ListRequisitions(_ context.Context) ([]*entity.Requisition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Requisition, 0, len(s.requisitions))
	for _, r := range s.requisitions {
		out = append(out, cloneRequisition(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetProduction devuelve una copia de la producción.
func (s *Store) GetProduction(_ context.Context, id string) (*entity.Production, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.productions[id]
	if !ok {
		return nil, domain.NotFound("producción", id)
	}
	return cloneProduction(p), nil
}

// ListProductions devuelve las producciones de la más reciente a la más antigua.
func (s *Store) ListProductions(_ context.Context) ([]*entity.Production, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Production, 0, len(s.productions))
	for _, p := range s.productions {
		out = append(out, cloneProduction(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// Commit valida todas las precondiciones del batch y luego aplica todas las escrituras
// bajo el mismo lock. Si alguna precondición falla no se aplica nada.
func (s *Store) Commit(_ context.Context, b repository.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validación completa (sin efectos)
	for _, p := range b.CreateProducts {
		if _, exists := s.products[p.ID]; exists {
			return domain.ErrConflict
		}
	}
	for _, w := range b.UpdateProducts {
		cur, ok := s.products[w.Product.ID]
		if !ok || cur.Version != w.ExpectedVersion {
			return domain.ErrConflict
		}
	}
	for _, del := range b.DeleteProducts {
		cur, ok := s.products[del.ID]
		if !ok || cur.Version != del.ExpectedVersion {
			return domain.ErrConflict
		}
	}
	for _, w := range b.Requisitions {
		cur, ok := s.requisitions[w.Requisition.ID]
		if w.ExpectedStatus == "" {
			if ok {
				return domain.ErrConflict
			}
			continue
		}
		if !ok || cur.Status != w.ExpectedStatus {
			return domain.ErrConflict
		}
	}
	for _, p := range b.CreateProductions {
		if _, exists := s.productions[p.ID]; exists {
			return domain.ErrConflict
		}
	}
	if err := s.checkNames(b); err != nil {
		return err
	}

	// Escritura completa
	for _, p := range b.CreateProducts {
		c := p.Clone()
		c.Version = 1
		s.products[c.ID] = c
	}
	for _, w := range b.UpdateProducts {
		c := w.Product.Clone()
		c.Version = w.ExpectedVersion + 1
		s.products[c.ID] = c
	}
	for _, del := range b.DeleteProducts {
		delete(s.products, del.ID)
	}
	for _, w := range b.Requisitions {
		s.requisitions[w.Requisition.ID] = cloneRequisition(w.Requisition)
	}
	for _, p := range b.CreateProductions {
		s.productions[p.ID] = cloneProduction(p)
	}
	return nil
}

// checkNames rechaza con ErrConflict un alta cuyo nombre ya usa otro producto, igual
// que el índice único sobre el nombre en PostgreSQL. Requiere s.mu tomado.
func (s *Store) checkNames(b repository.Batch) error {
	if len(b.CreateProducts) == 0 {
		return nil
	}
	deleted := make(map[string]bool, len(b.DeleteProducts))
	for _, del := range b.DeleteProducts {
		deleted[del.ID] = true
	}
	names := make(map[string]bool, len(s.products))
	for id, p := range s.products {
		if !deleted[id] {
			names[inventory.NameKey(p.Name)] = true
		}
	}
	for _, w := range b.UpdateProducts {
		names[inventory.NameKey(w.Product.Name)] = true
	}
	for _, p := range b.CreateProducts {
		key := inventory.NameKey(p.Name)
		if names[key] {
			return domain.ErrConflict
		}
		names[key] = true
	}
	return nil
}

// CreateInvoice guarda una factura nueva.
func (s *Store) CreateInvoice(_ context.Context, inv *entity.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.invoices[inv.ID]; exists {
		return domain.ErrDuplicate
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

// GetInvoice devuelve una copia de la factura.
func (s *Store) GetInvoice(_ context.Context, id string) (*entity.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, domain.NotFound("factura", id)
	}
	return cloneInvoice(inv), nil
}

// ListInvoices devuelve las facturas por fecha descendente.
func (s *Store) ListInvoices(_ context.Context) ([]*entity.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, cloneInvoice(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// UpdateInvoiceStatus cambia el estado de pago.
func (s *Store) UpdateInvoiceStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return domain.NotFound("factura", id)
	}
	inv.Status = status
	return nil
}

// UpsertProviderByPhone crea o actualiza el proveedor del teléfono indicado.
func (s *Store) UpsertProviderByPhone(_ context.Context, id, name, phone string, now time.Time) (*entity.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.providers[phone]; ok {
		p.Name = name
		p.LastUsed = now
		p.UseCount++
		c := *p
		return &c, nil
	}
	p := &entity.Provider{ID: id, Name: name, Phone: phone, LastUsed: now, UseCount: 1}
	s.providers[phone] = p
	c := *p
	return &c, nil
}

// ListProviders devuelve los proveedores más usados primero.
func (s *Store) ListProviders(_ context.Context) ([]*entity.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Provider, 0, len(s.providers))
	for _, p := range s.providers {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UseCount != out[j].UseCount {
			return out[i].UseCount > out[j].UseCount
		}
		return out[i].LastUsed.After(out[j].LastUsed)
	})
	return out, nil
}

func cloneRequisition(r *entity.Requisition) *entity.Requisition {
	c := *r
	c.Items = make([]entity.RequisitionItem, len(r.Items))
	for i, it := range r.Items {
		if it.DeliveredQuantity != nil {
			dq := *it.DeliveredQuantity
			it.DeliveredQuantity = &dq
		}
		c.Items[i] = it
	}
	if r.ProcessedAt != nil {
		t := *r.ProcessedAt
		c.ProcessedAt = &t
	}
	return &c
}

func cloneProduction(p *entity.Production) *entity.Production {
	c := *p
	c.Outputs = append([]entity.ProductionOutput(nil), p.Outputs...)
	return &c
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	return &c
}
