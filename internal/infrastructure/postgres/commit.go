package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
)

// Commit confirma el batch en una sola transacción. Cada actualización está condicionada
// a la versión (productos) o al estado (requisiciones) leídos; si alguna no afecta filas
// se hace rollback y se devuelve domain.ErrConflict.
func (s *Store) Commit(ctx context.Context, b repository.Batch) error {
	if b.Empty() {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := applyBatch(ctx, tx, b); err != nil {
		return mapError("commit batch", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

func applyBatch(ctx context.Context, tx txExecer, b repository.Batch) error {
	ts := now()
	for _, p := range b.CreateProducts {
		if err := insertProduct(ctx, tx, p, ts); err != nil {
			return err
		}
	}
	for _, w := range b.UpdateProducts {
		if err := updateProduct(ctx, tx, w, ts); err != nil {
			return err
		}
	}
	for _, del := range b.DeleteProducts {
		tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1 AND version = $2`, del.ID, del.ExpectedVersion)
		if err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrConflict
		}
	}
	for _, w := range b.Requisitions {
		if err := writeRequisition(ctx, tx, w); err != nil {
			return err
		}
	}
	for _, p := range b.CreateProductions {
		if err := insertProduction(ctx, tx, p); err != nil {
			return err
		}
	}
	return nil
}

func insertProduct(ctx context.Context, tx txExecer, p *entity.Product, ts time.Time) error {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = now()
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO products (id, name, quantity, unit, min_stock, category, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)`,
		p.ID, p.Name, p.Quantity, p.Unit, p.MinStock, p.Category, createdAt, ts,
	)
	if err != nil {
		return err
	}
	return insertMovements(ctx, tx, p.ID, p.History)
}

func updateProduct(ctx context.Context, tx txExecer, w repository.ProductWrite, ts time.Time) error {
	p := w.Product
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET name = $3, quantity = $4, unit = $5, min_stock = $6, category = $7,
		    version = version + 1, updated_at = $8
		WHERE id = $1 AND version = $2`,
		p.ID, w.ExpectedVersion, p.Name, p.Quantity, p.Unit, p.MinStock, p.Category, ts,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	if len(w.Cancelled) > 0 {
		tag, err := tx.Exec(ctx,
			`UPDATE movements SET cancelled = true WHERE product_id = $1 AND id = ANY($2) AND NOT cancelled`,
			p.ID, w.Cancelled)
		if err != nil {
			return fmt.Errorf("cancel movements: %w", err)
		}
		if tag.RowsAffected() != int64(len(w.Cancelled)) {
			return domain.ErrConflict
		}
	}
	return insertMovements(ctx, tx, p.ID, w.Appended)
}

func insertMovements(ctx context.Context, tx txExecer, productID string, movements []entity.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range movements {
		batch.Queue(`
			INSERT INTO movements (id, product_id, seq, type, amount, unit, date, source, destination, cancelled,
				cancelled_movement_id, cancelled_movement_date, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			m.ID, productID, m.Seq, string(m.Type), m.Amount, m.Unit, m.Date,
			nullIfEmpty(m.Source), nullIfEmpty(m.Destination), m.Cancelled,
			nullIfEmpty(m.CancelledMovementID), m.CancelledMovementDate, m.CreatedBy,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}
	return nil
}

func writeRequisition(ctx context.Context, tx txExecer, w repository.RequisitionWrite) error {
	r := w.Requisition
	if w.ExpectedStatus == "" {
		_, err := tx.Exec(ctx, `
			INSERT INTO requisitions (id, department, status, created_by, created_at, processed_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			r.ID, r.Department, r.Status, r.CreatedBy, r.CreatedAt, r.ProcessedAt,
		)
		if err != nil {
			return fmt.Errorf("insert requisition: %w", err)
		}
	} else {
		tag, err := tx.Exec(ctx, `
			UPDATE requisitions SET department = $3, status = $4, processed_at = $5
			WHERE id = $1 AND status = $2`,
			r.ID, w.ExpectedStatus, r.Department, r.Status, r.ProcessedAt,
		)
		if err != nil {
			return fmt.Errorf("update requisition: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrConflict
		}
		if _, err := tx.Exec(ctx, `DELETE FROM requisition_items WHERE requisition_id = $1`, r.ID); err != nil {
			return fmt.Errorf("replace requisition items: %w", err)
		}
	}

	if len(r.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, it := range r.Items {
		batch.Queue(`
			INSERT INTO requisition_items (requisition_id, line, product_id, product_name, requested_quantity, unit,
				delivered_quantity, observation)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			r.ID, i+1, it.ProductID, it.ProductName, it.RequestedQuantity, it.Unit, it.DeliveredQuantity, it.Observation,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert requisition items: %w", err)
	}
	return nil
}

func insertProduction(ctx context.Context, tx txExecer, p *entity.Production) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO productions (id, date, raw_material_id, raw_material_name, raw_material_unit,
			raw_material_quantity_used, waste_quantity, waste_unit, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Date, p.RawMaterialID, p.RawMaterialName, p.RawMaterialUnit,
		p.RawMaterialQuantityUsed, p.Waste.Quantity, p.Waste.Unit, p.Notes, p.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert production: %w", err)
	}
	batch := &pgx.Batch{}
	for i, o := range p.Outputs {
		batch.Queue(`
			INSERT INTO production_outputs (production_id, line, product_name, quantity, unit, category)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, i+1, o.ProductName, o.Quantity, o.Unit, o.Category,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert production outputs: %w", err)
	}
	return nil
}
