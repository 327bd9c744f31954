package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/restaurante-inventario/internal/domain"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
)

// runner ejecuta el ciclo leer -> calcular batch -> Commit condicional.
// Ante domain.ErrConflict repite el ciclo completo con estado fresco.
type runner struct {
	store repository.Committer
	opts  Options
}

func newRunner(store repository.Committer, opts Options) *runner {
	return &runner{store: store, opts: opts.withDefaults()}
}

// meta asigna ID, fecha y autor a un movimiento o registro nuevo.
func (r *runner) meta(actor string) inventory.Meta {
	return inventory.Meta{ID: r.opts.NewID(), Date: r.opts.Now(), Actor: actor}
}

// commit llama build en cada intento. build debe releer todo lo que necesita; si devuelve
// error el ciclo termina sin escribir. Un batch vacío no se confirma.
func (r *runner) commit(ctx context.Context, op string, build func(ctx context.Context) (repository.Batch, error)) error {
	var lastErr error
	for attempt := 1; attempt <= r.opts.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := build(ctx)
		if err != nil {
			return err
		}
		if batch.Empty() {
			return nil
		}
		err = r.store.Commit(ctx, batch)
		switch {
		case err == nil:
			r.opts.Logger.Info().Str("op", op).Int("attempt", attempt).Msg("inventario: operación confirmada")
			return nil
		case errors.Is(err, domain.ErrConflict):
			lastErr = err
			r.opts.Logger.Warn().Str("op", op).Int("attempt", attempt).Err(err).Msg("inventario: conflicto de escritura, reintentando")
		case errors.Is(err, domain.ErrUnavailable):
			return err
		default:
			return fmt.Errorf("%w: %s: %w", domain.ErrCommitFailed, op, err)
		}
	}
	return fmt.Errorf("%w: %s tras %d intentos: %w", domain.ErrCommitFailed, op, r.opts.MaxRetries, lastErr)
}

func forbidden(action string) error {
	return fmt.Errorf("%w: sin permiso para %s", domain.ErrForbidden, action)
}
