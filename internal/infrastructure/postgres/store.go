package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
)

var (
	_ repository.LedgerStore        = (*Store)(nil)
	_ repository.InvoiceRepository  = (*Store)(nil)
	_ repository.ProviderRepository = (*Store)(nil)
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store implementación del almacenamiento del inventario sobre PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore construye el adaptador con el pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate aplica los scripts de migrations/ en orden. Todos son idempotentes.
func (s *Store) Migrate(ctx context.Context) error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("leer migraciones: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		sql, err := migrations.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("leer migración %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			return mapError("migración "+name, err)
		}
	}
	return nil
}

const (
	productColumns  = `id, name, quantity, unit, min_stock, category, version, created_at, updated_at`
	movementColumns = `id, product_id, seq, type, amount, unit, date, source, destination, cancelled,
		cancelled_movement_id, cancelled_movement_date, created_by`
)

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Unit, &p.MinStock, &p.Category, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// queryMovements devuelve los movimientos agrupados por producto y ordenados por seq.
func queryMovements(ctx context.Context, q Querier, where string, args ...any) (map[string][]entity.Movement, error) {
	rows, err := q.Query(ctx, `SELECT `+movementColumns+` FROM movements `+where+` ORDER BY product_id, seq`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]entity.Movement)
	for rows.Next() {
		var (
			m                   entity.Movement
			productID, typ      string
			source, destination *string
			cancelledID         *string
		)
		if err := rows.Scan(&m.ID, &productID, &m.Seq, &typ, &m.Amount, &m.Unit, &m.Date, &source, &destination,
			&m.Cancelled, &cancelledID, &m.CancelledMovementDate, &m.CreatedBy); err != nil {
			return nil, err
		}
		m.Type = entity.MovementType(typ)
		m.Source = derefString(source)
		m.Destination = derefString(destination)
		m.CancelledMovementID = derefString(cancelledID)
		out[productID] = append(out[productID], m)
	}
	return out, rows.Err()
}

// readSnapshot corre fn dentro de una transacción de solo lectura REPEATABLE READ,
// así las consultas de productos y movimientos ven el mismo estado.
func (s *Store) readSnapshot(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return mapError("begin snapshot", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetProduct devuelve el producto con su historial completo.
func (s *Store) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var p *entity.Product
	err := s.readSnapshot(ctx, func(q Querier) error {
		var err error
		p, err = scanProduct(q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.NotFound("producto", id)
			}
			return mapError("get product", err)
		}
		history, err := queryMovements(ctx, q, `WHERE product_id = $1`, id)
		if err != nil {
			return mapError("get movements", err)
		}
		p.History = history[p.ID]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts devuelve todos los productos con su historial, ordenados por nombre.
func (s *Store) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := s.readSnapshot(ctx, func(q Querier) error {
		rows, err := q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
		if err != nil {
			return mapError("list products", err)
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return mapError("scan product", err)
			}
			out = append(out, p)
		}
		if err := rows.Err(); err != nil {
			return mapError("list products", err)
		}
		rows.Close()

		history, err := queryMovements(ctx, q, ``)
		if err != nil {
			return mapError("list movements", err)
		}
		for _, p := range out {
			p.History = history[p.ID]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetRequisition devuelve la requisición con sus ítems.
func (s *Store) GetRequisition(ctx context.Context, id string) (*entity.Requisition, error) {
	reqs, err := s.queryRequisitions(ctx, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, domain.NotFound("requisición", id)
	}
	return reqs[0], nil
}

// ListRequisitions devuelve las requisiciones de la más reciente a la más antigua.
func (s *Store) ListRequisitions(ctx context.Context) ([]*entity.Requisition, error) {
	return s.queryRequisitions(ctx, ``)
}

func (s *Store) queryRequisitions(ctx context.Context, where string, args ...any) ([]*entity.Requisition, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, department, status, created_by, created_at, processed_at
		FROM requisitions `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, mapError("list requisitions", err)
	}
	defer rows.Close()

	var (
		out  []*entity.Requisition
		byID = make(map[string]*entity.Requisition)
		ids  []string
	)
	for rows.Next() {
		var r entity.Requisition
		if err := rows.Scan(&r.ID, &r.Department, &r.Status, &r.CreatedBy, &r.CreatedAt, &r.ProcessedAt); err != nil {
			return nil, mapError("scan requisition", err)
		}
		out = append(out, &r)
		byID[r.ID] = &r
		ids = append(ids, r.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list requisitions", err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := s.pool.Query(ctx, `SELECT requisition_id, product_id, product_name, requested_quantity, unit,
		delivered_quantity, observation
		FROM requisition_items WHERE requisition_id = ANY($1) ORDER BY requisition_id, line`, ids)
	if err != nil {
		return nil, mapError("list requisition items", err)
	}
	defer items.Close()
	for items.Next() {
		var (
			reqID     string
			it        entity.RequisitionItem
			delivered decimal.NullDecimal
		)
		if err := items.Scan(&reqID, &it.ProductID, &it.ProductName, &it.RequestedQuantity, &it.Unit, &delivered, &it.Observation); err != nil {
			return nil, mapError("scan requisition item", err)
		}
		if delivered.Valid {
			q := delivered.Decimal
			it.DeliveredQuantity = &q
		}
		if r, ok := byID[reqID]; ok {
			r.Items = append(r.Items, it)
		}
	}
	if err := items.Err(); err != nil {
		return nil, mapError("list requisition items", err)
	}
	return out, nil
}

// GetProduction devuelve una producción con sus productos resultantes.
func (s *Store) GetProduction(ctx context.Context, id string) (*entity.Production, error) {
	list, err := s.queryProductions(ctx, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.NotFound("producción", id)
	}
	return list[0], nil
}

// ListProductions devuelve las producciones de la más reciente a la más antigua.
func (s *Store) ListProductions(ctx context.Context) ([]*entity.Production, error) {
	return s.queryProductions(ctx, ``)
}

func (s *Store) queryProductions(ctx context.Context, where string, args ...any) ([]*entity.Production, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, date, raw_material_id, raw_material_name, raw_material_unit,
		raw_material_quantity_used, waste_quantity, waste_unit, notes, created_by
		FROM productions `+where+` ORDER BY date DESC`, args...)
	if err != nil {
		return nil, mapError("list productions", err)
	}
	defer rows.Close()

	var (
		out  []*entity.Production
		byID = make(map[string]*entity.Production)
		ids  []string
	)
	for rows.Next() {
		var p entity.Production
		if err := rows.Scan(&p.ID, &p.Date, &p.RawMaterialID, &p.RawMaterialName, &p.RawMaterialUnit,
			&p.RawMaterialQuantityUsed, &p.Waste.Quantity, &p.Waste.Unit, &p.Notes, &p.CreatedBy); err != nil {
			return nil, mapError("scan production", err)
		}
		out = append(out, &p)
		byID[p.ID] = &p
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list productions", err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	outputs, err := s.pool.Query(ctx, `SELECT production_id, product_name, quantity, unit, category
		FROM production_outputs WHERE production_id = ANY($1) ORDER BY production_id, line`, ids)
	if err != nil {
		return nil, mapError("list production outputs", err)
	}
	defer outputs.Close()
	for outputs.Next() {
		var (
			prodID string
			o      entity.ProductionOutput
		)
		if err := outputs.Scan(&prodID, &o.ProductName, &o.Quantity, &o.Unit, &o.Category); err != nil {
			return nil, mapError("scan production output", err)
		}
		if p, ok := byID[prodID]; ok {
			p.Outputs = append(p.Outputs, o)
		}
	}
	if err := outputs.Err(); err != nil {
		return nil, mapError("list production outputs", err)
	}
	return out, nil
}

func now() time.Time { return time.Now().UTC() }
