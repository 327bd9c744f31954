package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/restaurante-inventario/internal/infrastructure/seed"
)

func TestLoad_CargaCatalogoUnaVez(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	s := memory.New()

	loaded, err := seed.Load(ctx, s, now)
	require.NoError(t, err)
	assert.True(t, loaded)
	loaded, err = seed.Load(ctx, s, now)
	require.NoError(t, err)
	assert.False(t, loaded)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 23)
	for _, p := range products {
		assert.True(t, p.Quantity.Equal(inventory.ReplayBalance(p)))
		assert.EqualValues(t, 1, p.Version)
	}
	reqs, _ := s.ListRequisitions(ctx)
	assert.Len(t, reqs, 2)
	invs, _ := s.ListInvoices(ctx)
	assert.Len(t, invs, 2)
}
