package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultMaxRetries intentos de leer-calcular-confirmar ante un conflicto de escritura.
const DefaultMaxRetries = 3

// Options dependencias de soporte comunes a los casos de uso del inventario.
// Los campos vacíos toman valores por defecto.
type Options struct {
	Logger     zerolog.Logger
	MaxRetries int
	Now        func() time.Time
	NewID      func() string
}

func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}
