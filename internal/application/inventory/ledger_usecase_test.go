package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/restaurante-inventario/internal/application/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// CreateProduct / DeleteProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_NombreDuplicadoSinDistinguirMayusculas(t *testing.T) {
	f := newFixture(t)
	f.product(t, "Tomate", "15.5", "kg", "4")

	_, err := f.ledger.CreateProduct(context.Background(), jefe, inventory.NewProductInput{Name: "  tomate ", Unit: "kg"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	all, _ := f.ledger.ListProducts(context.Background(), "")
	assert.Len(t, all, 1)
}

func TestCreateProduct_AltaConcurrenteDelMismoNombreEsDuplicado(t *testing.T) {
	f := newFixture(t)
	f.store.beforeCommit = func() {
		p, err := inventory.NewProduct("concurrente", inventory.NewProductInput{Name: "arroz", Unit: "kg"},
			inventory.Meta{ID: "m-concurrente", Date: t0})
		require.NoError(t, err)
		require.NoError(t, f.store.Store.Commit(context.Background(), repository.Batch{CreateProducts: []*entity.Product{p}}))
	}

	_, err := f.ledger.CreateProduct(context.Background(), jefe, inventory.NewProductInput{Name: "Arroz", Unit: "kg"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.Equal(t, 1, f.store.commits)

	all, _ := f.ledger.ListProducts(context.Background(), "")
	require.Len(t, all, 1)
	assert.Equal(t, "concurrente", all[0].ID)
}

func TestCreateProduct_CoercionDeValores(t *testing.T) {
	f := newFixture(t)
	p, err := f.ledger.CreateProduct(context.Background(), almacenista, inventory.NewProductInput{
		Name:            "Sal",
		InitialQuantity: decimal.NewNullDecimal(d("-3")),
		Unit:            "kg",
	})
	require.NoError(t, err)
	assert.True(t, p.Quantity.IsZero())
	assert.True(t, p.MinStock.Equal(inventory.DefaultMinStock))
	assert.Equal(t, entity.CategoryDespensa, p.Category)
	assert.Equal(t, int64(1), p.Version)
}

func TestDeleteProduct_RequierePermiso(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Lechuga", "3", "cestas", "2")

	err := f.ledger.DeleteProduct(context.Background(), almacenista, p.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	require.NoError(t, f.ledger.DeleteProduct(context.Background(), jefe, p.ID))
	_, err = f.ledger.GetProduct(context.Background(), p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = f.ledger.DeleteProduct(context.Background(), jefe, p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListProducts_FiltraPorCategoria(t *testing.T) {
	f := newFixture(t)
	f.product(t, "Arroz", "3", "kg", "1")
	_, err := f.ledger.CreateProduct(context.Background(), jefe, inventory.NewProductInput{
		Name: "Ron", Unit: "botellas", Category: entity.CategoryLicores,
	})
	require.NoError(t, err)

	licores, err := f.ledger.ListProducts(context.Background(), entity.CategoryLicores)
	require.NoError(t, err)
	require.Len(t, licores, 1)
	assert.Equal(t, "Ron", licores[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// QuickUpdate
// ──────────────────────────────────────────────────────────────────────────────

func TestQuickUpdate_StockInsuficienteNoModifica(t *testing.T) {
	f := newFixture(t)
	ron := f.product(t, "Ron", "1", "botella", "1")

	_, err := f.ledger.QuickUpdate(context.Background(), jefe, appinv.QuickUpdateInput{ProductID: ron.ID, Amount: d("-3")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Ron", stockErr.Product)
	assert.True(t, stockErr.Deficit().Equal(d("2")))

	got := f.reload(t, ron.ID)
	assert.True(t, got.Quantity.Equal(d("1")))
	assert.Len(t, got.History, 1)
}

func TestQuickUpdate_AjusteManualEsSilencioso(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Arroz", "10", "kg", "2")

	res, err := f.ledger.QuickUpdate(context.Background(), jefe, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("2.5")})
	require.NoError(t, err)
	assert.False(t, res.Notify)
	assert.Empty(t, res.Message)
	assert.Equal(t, entity.MovementEntrada, res.Movement.Type)
	assert.Equal(t, entity.TagAjusteManual, res.Movement.Source)
	assert.Equal(t, "kg", res.Movement.Unit)
	assert.True(t, res.Product.Quantity.Equal(d("12.5")))
	assertInvariant(t, f.reload(t, p.ID))
}

func TestQuickUpdate_SalidaEtiquetadaNotifica(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Arroz", "10", "kg", "2")

	res, err := f.ledger.QuickUpdate(context.Background(), almacenista, appinv.QuickUpdateInput{
		ProductID: p.ID, Amount: d("-4"), Reason: "Cocina",
	})
	require.NoError(t, err)
	assert.True(t, res.Notify)
	assert.Equal(t, `Salida registrada para "Arroz".`, res.Message)
	assert.Equal(t, "Cocina", res.Movement.Destination)
	assert.True(t, f.reload(t, p.ID).Quantity.Equal(d("6")))
}

func TestQuickUpdate_EntradaRequierePermiso(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Arroz", "10", "kg", "2")

	_, err := f.ledger.QuickUpdate(context.Background(), almacenista, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("1")})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.True(t, f.reload(t, p.ID).Quantity.Equal(d("10")))
}

func TestQuickUpdate_CantidadCeroEsInvalida(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Arroz", "10", "kg", "2")

	_, err := f.ledger.QuickUpdate(context.Background(), jefe, appinv.QuickUpdateInput{ProductID: p.ID, Amount: decimal.Zero})
	var vErr *domain.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestAdjustByName_ResuelveSinDistinguirMayusculas(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Cerveza Polar", "24", "unidades", "6")

	res, err := f.ledger.AdjustByName(context.Background(), jefe, "cerveza polar", d("12"), "", "Proveedor")
	require.NoError(t, err)
	assert.Equal(t, p.ID, res.Product.ID)
	assert.True(t, res.Notify)
	assert.Equal(t, `Entrada registrada para "Cerveza Polar".`, res.Message)

	_, err = f.ledger.AdjustByName(context.Background(), jefe, "Vodka", d("1"), "", "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// CancelMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelMovement_RevierteEntrada(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Queso", "6", "kg", "2")
	res, err := f.ledger.QuickUpdate(context.Background(), jefe, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("4")})
	require.NoError(t, err)
	require.True(t, res.Product.Quantity.Equal(d("10")))

	updated, rev, err := f.ledger.CancelMovement(context.Background(), jefe, p.ID, res.Movement.ID)
	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(d("6")))
	assert.Equal(t, entity.MovementAnulacionEntrada, rev.Type)
	assert.Equal(t, entity.TagAnulacionManual, rev.Source)
	assert.Equal(t, res.Movement.ID, rev.CancelledMovementID)
	require.NotNil(t, rev.CancelledMovementDate)
	assert.Equal(t, res.Movement.Date, *rev.CancelledMovementDate)

	stored := f.reload(t, p.ID)
	assert.True(t, stored.History[stored.FindMovement(res.Movement.ID)].Cancelled)
	assertInvariant(t, stored)

	_, _, err = f.ledger.CancelMovement(context.Background(), jefe, p.ID, res.Movement.ID)
	assert.True(t, errors.Is(err, domain.ErrAlreadyReversed))
	_, _, err = f.ledger.CancelMovement(context.Background(), jefe, p.ID, rev.ID)
	assert.True(t, errors.Is(err, domain.ErrAlreadyReversed))
}

func TestCancelMovement_PisoDeStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Harina", "0", "kg", "2")
	in, err := f.ledger.QuickUpdate(context.Background(), jefe, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("5")})
	require.NoError(t, err)
	_, err = f.ledger.QuickUpdate(context.Background(), jefe, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("-3")})
	require.NoError(t, err)

	_, _, err = f.ledger.CancelMovement(context.Background(), jefe, p.ID, in.Movement.ID)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	got := f.reload(t, p.ID)
	assert.True(t, got.Quantity.Equal(d("2")))
	assert.Len(t, got.History, 3)
}

func TestCancelMovement_RequierePermiso(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Queso", "6", "kg", "2")

	_, _, err := f.ledger.CancelMovement(context.Background(), almacenista, p.ID, p.History[0].ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestCancelMovement_MovimientoInexistente(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Queso", "6", "kg", "2")

	_, _, err := f.ledger.CancelMovement(context.Background(), jefe, p.ID, "no-existe")
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "movimiento", nf.Kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

func TestProductHistory_RecortaSinPermiso(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Pan", "100", "unidades", "20")
	for i := 0; i < 12; i++ {
		_, err := f.ledger.QuickUpdate(context.Background(), almacenista, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("-1")})
		require.NoError(t, err)
	}

	_, short, err := f.ledger.ProductHistory(context.Background(), almacenista, p.ID)
	require.NoError(t, err)
	assert.Len(t, short, appinv.HistoryPreviewLimit)
	assert.Equal(t, int64(13), short[0].Seq)

	_, full, err := f.ledger.ProductHistory(context.Background(), jefe, p.ID)
	require.NoError(t, err)
	assert.Len(t, full, 13)
}

func TestProductHistory_SaldoEHistorialDeLaMismaLectura(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Harina", "10", "kg", "2")

	// Una salida confirma justo después de la lectura del detalle.
	f.store.afterGet = func() {
		_, err := f.ledger.QuickUpdate(context.Background(), almacenista, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("-4")})
		require.NoError(t, err)
	}

	got, history, err := f.ledger.ProductHistory(context.Background(), jefe, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(d("10")))
	require.Len(t, history, 1)
	assert.True(t, history[0].Amount.Equal(d("10")))
	assertInvariant(t, got)

	after := f.reload(t, p.ID)
	assert.True(t, after.Quantity.Equal(d("6")))
	assert.Len(t, after.History, 2)
}

func TestAuditProduct_SaldoConsistente(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Pan", "100", "unidades", "20")
	_, err := f.ledger.QuickUpdate(context.Background(), jefe, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("-30")})
	require.NoError(t, err)

	audit, err := f.ledger.AuditProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.True(t, audit.Replayed.Equal(d("70")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Conflictos de escritura
// ──────────────────────────────────────────────────────────────────────────────

func TestQuickUpdate_ReintentaTrasEscrituraConcurrente(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Aceite", "10", "litros", "3")

	// Otra escritura confirma entre la lectura y el Commit del caso de uso.
	f.store.beforeCommit = func() {
		cur, err := f.store.Store.GetProduct(context.Background(), p.ID)
		require.NoError(t, err)
		next, _, err := inventory.ApplySignedMovement(cur, d("-1"), "litros", "Barra", inventory.Meta{ID: "concurrente", Date: t0})
		require.NoError(t, err)
		require.NoError(t, f.store.Store.Commit(context.Background(), repository.Batch{
			UpdateProducts: []repository.ProductWrite{repository.DiffProduct(cur, next)},
		}))
	}

	res, err := f.ledger.QuickUpdate(context.Background(), almacenista, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("-2")})
	require.NoError(t, err)
	assert.True(t, res.Product.Quantity.Equal(d("7")))

	got := f.reload(t, p.ID)
	assert.True(t, got.Quantity.Equal(d("7")))
	assert.Len(t, got.History, 3)
	assertInvariant(t, got)
}

func TestQuickUpdate_AgotaReintentos(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Aceite", "10", "litros", "3")
	f.store.failNext = appinv.DefaultMaxRetries

	_, err := f.ledger.QuickUpdate(context.Background(), almacenista, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("-2")})
	assert.True(t, errors.Is(err, domain.ErrCommitFailed))
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.True(t, f.reload(t, p.ID).Quantity.Equal(d("10")))
}

func TestQuickUpdate_NoDisponibleNoReintenta(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Aceite", "10", "litros", "3")
	before := f.store.commits
	f.store.failNext, f.store.failWith = 5, domain.ErrUnavailable

	_, err := f.ledger.QuickUpdate(context.Background(), almacenista, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("-2")})
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
	assert.False(t, errors.Is(err, domain.ErrCommitFailed))
	assert.Equal(t, before+1, f.store.commits)
}

func TestQuickUpdate_RechazoDelStoreEsFalloDeCommit(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Aceite", "10", "litros", "3")
	f.store.failNext, f.store.failWith = 1, errors.New("disco lleno")

	_, err := f.ledger.QuickUpdate(context.Background(), almacenista, appinv.QuickUpdateInput{ProductID: p.ID, Amount: d("-2")})
	assert.True(t, errors.Is(err, domain.ErrCommitFailed))
	assert.Contains(t, err.Error(), "disco lleno")
}
