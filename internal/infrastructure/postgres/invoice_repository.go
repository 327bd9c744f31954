package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
)

// CreateInvoice persiste la factura con sus líneas en una transacción.
func (s *Store) CreateInvoice(ctx context.Context, invoice *entity.Invoice) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (id, invoice_number, provider, date, total_amount, status, source, raw_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		invoice.ID, invoice.InvoiceNumber, invoice.Provider, invoice.Date, invoice.TotalAmount,
		invoice.Status, invoice.Source, invoice.RawText, invoice.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, invoice.ID)
		}
		return mapError("insert invoice", err)
	}

	batch := &pgx.Batch{}
	for i, it := range invoice.Items {
		batch.Queue(`
			INSERT INTO invoice_items (invoice_id, line, product_name, quantity, unit, price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			invoice.ID, i+1, it.ProductName, it.Quantity, it.Unit, it.Price,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapError("insert invoice items", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

// GetInvoice devuelve la factura con sus líneas.
func (s *Store) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	list, err := s.queryInvoices(ctx, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.NotFound("factura", id)
	}
	return list[0], nil
}

// ListInvoices devuelve las facturas por fecha descendente.
func (s *Store) ListInvoices(ctx context.Context) ([]*entity.Invoice, error) {
	return s.queryInvoices(ctx, ``)
}

func (s *Store) queryInvoices(ctx context.Context, where string, args ...any) ([]*entity.Invoice, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, invoice_number, provider, date, total_amount, status, source, raw_text, created_at
		FROM invoices `+where+` ORDER BY date DESC`, args...)
	if err != nil {
		return nil, mapError("list invoices", err)
	}
	defer rows.Close()

	var (
		out  []*entity.Invoice
		byID = make(map[string]*entity.Invoice)
		ids  []string
	)
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.Provider, &inv.Date, &inv.TotalAmount,
			&inv.Status, &inv.Source, &inv.RawText, &inv.CreatedAt); err != nil {
			return nil, mapError("scan invoice", err)
		}
		out = append(out, &inv)
		byID[inv.ID] = &inv
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list invoices", err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := s.pool.Query(ctx, `SELECT invoice_id, product_name, quantity, unit, price
		FROM invoice_items WHERE invoice_id = ANY($1) ORDER BY invoice_id, line`, ids)
	if err != nil {
		return nil, mapError("list invoice items", err)
	}
	defer items.Close()
	for items.Next() {
		var (
			invID string
			it    entity.InvoiceItem
		)
		if err := items.Scan(&invID, &it.ProductName, &it.Quantity, &it.Unit, &it.Price); err != nil {
			return nil, mapError("scan invoice item", err)
		}
		if inv, ok := byID[invID]; ok {
			inv.Items = append(inv.Items, it)
		}
	}
	if err := items.Err(); err != nil {
		return nil, mapError("list invoice items", err)
	}
	return out, nil
}

// UpdateInvoiceStatus cambia el estado de pago.
func (s *Store) UpdateInvoiceStatus(ctx context.Context, id, status string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE invoices SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return mapError("update invoice status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("factura", id)
	}
	return nil
}

// UpsertProviderByPhone crea el proveedor o, si el teléfono ya existe, actualiza su nombre,
// lastUsed e incrementa useCount.
func (s *Store) UpsertProviderByPhone(ctx context.Context, id, name, phone string, now time.Time) (*entity.Provider, error) {
	var p entity.Provider
	err := s.pool.QueryRow(ctx, `
		INSERT INTO providers (id, name, phone, last_used, use_count)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (phone) DO UPDATE
		SET name = EXCLUDED.name, last_used = EXCLUDED.last_used, use_count = providers.use_count + 1
		RETURNING id, name, phone, last_used, use_count`,
		id, name, phone, now,
	).Scan(&p.ID, &p.Name, &p.Phone, &p.LastUsed, &p.UseCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("proveedor", phone)
		}
		return nil, mapError("upsert provider", err)
	}
	return &p, nil
}

// ListProviders devuelve los proveedores más usados primero.
func (s *Store) ListProviders(ctx context.Context) ([]*entity.Provider, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, phone, last_used, use_count
		FROM providers ORDER BY use_count DESC, last_used DESC`)
	if err != nil {
		return nil, mapError("list providers", err)
	}
	defer rows.Close()
	var out []*entity.Provider
	for rows.Next() {
		var p entity.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.LastUsed, &p.UseCount); err != nil {
			return nil, mapError("scan provider", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list providers", err)
	}
	return out, nil
}
