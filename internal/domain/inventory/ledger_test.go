package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func meta(id string, minutes int) inventory.Meta {
	return inventory.Meta{ID: id, Date: t0.Add(time.Duration(minutes) * time.Minute), Actor: "tester"}
}

func newProduct(t *testing.T, name, qty, unit string) *entity.Product {
	t.Helper()
	p, err := inventory.NewProduct("p-"+name, inventory.NewProductInput{
		Name:            name,
		InitialQuantity: decimal.NewNullDecimal(d(qty)),
		Unit:            unit,
		MinStock:        decimal.NewNullDecimal(d("2")),
		Category:        entity.CategoryVerduras,
	}, meta("seed-"+name, 0))
	require.NoError(t, err)
	return p
}

func assertInvariant(t *testing.T, p *entity.Product) {
	t.Helper()
	assert.True(t, p.Quantity.Equal(inventory.ReplayBalance(p)),
		"saldo %s distinto al historial %s", p.Quantity, inventory.ReplayBalance(p))
	assert.False(t, p.Quantity.IsNegative())
}

// ──────────────────────────────────────────────────────────────────────────────
// NewProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestNewProduct_SiembraEntradaInicial(t *testing.T) {
	p := newProduct(t, "Tomate", "15.5", "kg")

	require.Len(t, p.History, 1)
	assert.Equal(t, entity.MovementEntrada, p.History[0].Type)
	assert.True(t, p.History[0].Amount.Equal(d("15.5")))
	assert.Equal(t, int64(1), p.History[0].Seq)
	assert.Equal(t, t0, p.CreatedAt)
	assertInvariant(t, p)
}

func TestNewProduct_CoercionDeValores(t *testing.T) {
	p, err := inventory.NewProduct("p1", inventory.NewProductInput{
		Name:            "  Lomito  ",
		InitialQuantity: decimal.NewNullDecimal(d("-3")),
		Unit:            "kg",
		MinStock:        decimal.NullDecimal{},
	}, meta("m1", 0))
	require.NoError(t, err)

	assert.Equal(t, "Lomito", p.Name)
	assert.True(t, p.Quantity.IsZero(), "cantidad negativa se coerciona a 0")
	assert.True(t, p.MinStock.Equal(inventory.DefaultMinStock), "mínimo ausente queda en 5")
	assert.Equal(t, entity.CategoryDespensa, p.Category)

	p2, err := inventory.NewProduct("p2", inventory.NewProductInput{
		Name: "Arroz", Unit: "kg", MinStock: decimal.NewNullDecimal(decimal.Zero),
	}, meta("m2", 0))
	require.NoError(t, err)
	assert.True(t, p2.MinStock.Equal(inventory.DefaultMinStock), "mínimo cero queda en 5")
}

func TestNewProduct_NombreVacioEsInvalido(t *testing.T) {
	_, err := inventory.NewProduct("p1", inventory.NewProductInput{Name: "   ", Unit: "kg"}, meta("m1", 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplySignedMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestApplySignedMovement_EntradaYSalida(t *testing.T) {
	p := newProduct(t, "Cebolla", "2", "sacos")

	p2, mov, err := inventory.ApplySignedMovement(p, d("3"), "sacos", "Verduras Frescas C.A.", meta("m-in", 1))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementEntrada, mov.Type)
	assert.Equal(t, "Verduras Frescas C.A.", mov.Source)
	assert.Empty(t, mov.Destination)
	assert.True(t, p2.Quantity.Equal(d("5")))

	p3, mov, err := inventory.ApplySignedMovement(p2, d("-1.5"), "sacos", "Cocina", meta("m-out", 2))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementSalida, mov.Type)
	assert.True(t, mov.Amount.Equal(d("1.5")), "el monto se guarda sin signo")
	assert.Equal(t, "Cocina", mov.Destination)
	assert.Equal(t, int64(3), mov.Seq)
	assert.True(t, p3.Quantity.Equal(d("3.5")))
	assertInvariant(t, p3)

	// el original no se toca
	assert.True(t, p.Quantity.Equal(d("2")))
	assert.Len(t, p.History, 1)
}

func TestApplySignedMovement_StockInsuficienteNoMuta(t *testing.T) {
	p := newProduct(t, "Ron", "1", "botellas")

	out, _, err := inventory.ApplySignedMovement(p, d("-3"), "botellas", entity.TagSalidaManual, meta("m1", 1))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var serr *domain.InsufficientStockError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Ron", serr.Product)
	assert.True(t, serr.Deficit().Equal(d("2")))
	assert.Contains(t, serr.Error(), "Ron")

	assert.True(t, p.Quantity.Equal(d("1")))
	assert.Len(t, p.History, 1)
}

func TestApplySignedMovement_CeroOUnidadVaciaEsInvalido(t *testing.T) {
	p := newProduct(t, "Queso", "10", "kg")

	_, _, err := inventory.ApplySignedMovement(p, decimal.Zero, "kg", "", meta("m1", 1))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, _, err = inventory.ApplySignedMovement(p, d("1"), " ", "", meta("m2", 1))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestApplySignedMovement_PuedeDejarEnCero(t *testing.T) {
	p := newProduct(t, "Lechuga", "2", "cestas")
	out, _, err := inventory.ApplySignedMovement(p, d("-2"), "cestas", "Cocina", meta("m1", 1))
	require.NoError(t, err)
	assert.True(t, out.Quantity.IsZero())
	assert.Equal(t, entity.StockAgotado, inventory.Status(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// CancelMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelMovement_AnulaEntrada(t *testing.T) {
	p := newProduct(t, "Solomo", "6", "kg")
	p, entrada, err := inventory.ApplySignedMovement(p, d("4"), "kg", "Carnicería El Toro", meta("m-in", 1))
	require.NoError(t, err)
	require.True(t, p.Quantity.Equal(d("10")))

	out, rev, err := inventory.CancelMovement(p, entrada.ID, meta("m-rev", 5))
	require.NoError(t, err)

	assert.True(t, out.Quantity.Equal(d("6")))
	assert.Equal(t, entity.MovementAnulacionEntrada, rev.Type)
	assert.True(t, rev.Amount.Equal(d("4")))
	assert.Equal(t, entity.TagAnulacionManual, rev.Source)
	assert.Equal(t, entrada.ID, rev.CancelledMovementID)
	require.NotNil(t, rev.CancelledMovementDate)
	assert.Equal(t, entrada.Date, *rev.CancelledMovementDate)

	idx := out.FindMovement(entrada.ID)
	require.GreaterOrEqual(t, idx, 0)
	assert.True(t, out.History[idx].Cancelled)
	assertInvariant(t, out)

	// segundo intento sobre el mismo movimiento (ya marcado)
	_, _, err = inventory.CancelMovement(out, entrada.ID, meta("m-rev2", 6))
	assert.True(t, errors.Is(err, domain.ErrAlreadyReversed))
	// y sobre la propia anulación
	_, _, err = inventory.CancelMovement(out, rev.ID, meta("m-rev3", 7))
	assert.True(t, errors.Is(err, domain.ErrAlreadyReversed))
}

func TestCancelMovement_AnulaSalida(t *testing.T) {
	p := newProduct(t, "Chorizo", "15", "kg")
	p, salida, err := inventory.ApplySignedMovement(p, d("-5"), "kg", "Asador", meta("m-out", 1))
	require.NoError(t, err)

	out, rev, err := inventory.CancelMovement(p, salida.ID, meta("m-rev", 2))
	require.NoError(t, err)
	assert.True(t, out.Quantity.Equal(d("15")))
	assert.Equal(t, entity.MovementAnulacionSalida, rev.Type)
	assertInvariant(t, out)
}

func TestCancelMovement_PisoDeStock(t *testing.T) {
	p := newProduct(t, "Harina", "0", "kg")
	p, entrada, err := inventory.ApplySignedMovement(p, d("5"), "kg", "Proveedor", meta("m-in", 1))
	require.NoError(t, err)
	p, _, err = inventory.ApplySignedMovement(p, d("-3"), "kg", "Cocina", meta("m-out", 2))
	require.NoError(t, err)
	require.True(t, p.Quantity.Equal(d("2")))

	out, _, err := inventory.CancelMovement(p, entrada.ID, meta("m-rev", 3))
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.True(t, p.Quantity.Equal(d("2")))
	assert.False(t, p.History[p.FindMovement(entrada.ID)].Cancelled)
}

func TestCancelMovement_MovimientoInexistente(t *testing.T) {
	p := newProduct(t, "Aceite", "10", "litros")
	_, _, err := inventory.CancelMovement(p, "no-existe", meta("m1", 1))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCancelMovement_IdentidadEstableConFechasIguales(t *testing.T) {
	p := newProduct(t, "Pan", "0", "unidades")
	same := meta("a", 1)
	p, first, err := inventory.ApplySignedMovement(p, d("10"), "unidades", "x", same)
	require.NoError(t, err)
	same.ID = "b"
	p, second, err := inventory.ApplySignedMovement(p, d("10"), "unidades", "x", same)
	require.NoError(t, err)

	out, _, err := inventory.CancelMovement(p, second.ID, meta("rev", 2))
	require.NoError(t, err)
	assert.False(t, out.History[out.FindMovement(first.ID)].Cancelled)
	assert.True(t, out.History[out.FindMovement(second.ID)].Cancelled)
}

// ──────────────────────────────────────────────────────────────────────────────
// Status / SortedHistory / NameKey
// ──────────────────────────────────────────────────────────────────────────────

func TestStatus(t *testing.T) {
	p := newProduct(t, "Refresco", "15", "botellas")
	p.MinStock = d("15")
	assert.Equal(t, entity.StockBajo, inventory.Status(p))
	p.Quantity = d("16")
	assert.Equal(t, entity.StockOptimo, inventory.Status(p))
	p.Quantity = decimal.Zero
	assert.Equal(t, entity.StockAgotado, inventory.Status(p))
}

func TestSortedHistory_DesempataPorSeq(t *testing.T) {
	p := newProduct(t, "Whisky", "6", "botellas")
	p, _, _ = inventory.ApplySignedMovement(p, d("-1"), "botellas", "Barra", meta("m1", 10))
	p, _, _ = inventory.ApplySignedMovement(p, d("-1"), "botellas", "Barra", meta("m2", 10))
	h := inventory.SortedHistory(p)
	require.Len(t, h, 3)
	assert.Equal(t, "m2", h[0].ID)
	assert.Equal(t, "m1", h[1].ID)
	assert.Equal(t, "seed-Whisky", h[2].ID)
}

func TestFindByName_SinDistinguirMayusculas(t *testing.T) {
	list := []*entity.Product{newProduct(t, "Costillas", "1", "kg"), newProduct(t, "Lomo de Cerdo", "1", "kg")}
	require.NotNil(t, inventory.FindByName(list, "  costillas "))
	assert.Equal(t, "Lomo de Cerdo", inventory.FindByName(list, "LOMO DE CERDO").Name)
	assert.Nil(t, inventory.FindByName(list, "Pollo"))
}
