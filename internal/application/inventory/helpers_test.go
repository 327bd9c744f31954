package inventory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/restaurante-inventario/internal/application/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
	"github.com/jhoicas/restaurante-inventario/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

var (
	jefe        = entity.NewCaller("u-jefe", entity.RoleJefe)
	almacenista = entity.NewCaller("u-alm", entity.RoleAlmacenista)
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// hookStore envuelve el store en memoria para provocar conflictos en Commit.
// failNext hace fallar los próximos Commit con failWith; beforeCommit corre antes de
// cada Commit y permite simular una escritura concurrente. afterGet corre una vez
// tras la próxima lectura de un producto.
type hookStore struct {
	*memory.Store
	commits      int
	failNext     int
	failWith     error
	beforeCommit func()
	afterGet     func()
}

func (s *hookStore) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Store.GetProduct(ctx, id)
	if s.afterGet != nil {
		hook := s.afterGet
		s.afterGet = nil
		hook()
	}
	return p, err
}

func (s *hookStore) Commit(ctx context.Context, b repository.Batch) error {
	s.commits++
	if s.beforeCommit != nil {
		hook := s.beforeCommit
		s.beforeCommit = nil
		hook()
	}
	if s.failNext > 0 {
		s.failNext--
		return s.failWith
	}
	return s.Store.Commit(ctx, b)
}

type fixture struct {
	store       *hookStore
	ledger      *appinv.LedgerUseCase
	reqs        *appinv.RequisitionUseCase
	productions *appinv.ProductionUseCase
	shopping    *appinv.ReplenishmentUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &hookStore{Store: memory.New(), failWith: domain.ErrConflict}
	seq, tick := 0, 0
	opts := appinv.Options{
		Logger: zerolog.Nop(),
		Now: func() time.Time {
			tick++
			return t0.Add(time.Duration(tick) * time.Second)
		},
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		},
	}
	return &fixture{
		store:       store,
		ledger:      appinv.NewLedgerUseCase(store, opts),
		reqs:        appinv.NewRequisitionUseCase(store, opts),
		productions: appinv.NewProductionUseCase(store, opts),
		shopping:    appinv.NewReplenishmentUseCase(store),
	}
}

func (f *fixture) product(t *testing.T, name, qty, unit, minStock string) *entity.Product {
	t.Helper()
	p, err := f.ledger.CreateProduct(context.Background(), jefe, inventory.NewProductInput{
		Name:            name,
		InitialQuantity: decimal.NewNullDecimal(d(qty)),
		Unit:            unit,
		MinStock:        decimal.NewNullDecimal(d(minStock)),
		Category:        entity.CategoryDespensa,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) reload(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.store.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p
}

func assertInvariant(t *testing.T, p *entity.Product) {
	t.Helper()
	assert.True(t, p.Quantity.Equal(inventory.ReplayBalance(p)),
		"saldo %s distinto al historial %s", p.Quantity, inventory.ReplayBalance(p))
	assert.False(t, p.Quantity.IsNegative())
}
