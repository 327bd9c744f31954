package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrAlreadyReversed   = errors.New("el movimiento ya fue anulado o es una anulación")
	ErrCommitFailed      = errors.New("no se pudo confirmar la operación")
	ErrUnavailable       = errors.New("almacenamiento no disponible")
)

// ValidationError describe un dato de entrada inválido. Unwrap devuelve ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError con mensaje formateado.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError indica que una mutación dejaría el stock en negativo.
// Deficit = Requested - Available.
type InsufficientStockError struct {
	Product   string
	Unit      string
	Available decimal.Decimal
	Requested decimal.Decimal
}

// Deficit cantidad que falta para cubrir lo solicitado.
func (e *InsufficientStockError) Deficit() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %s %s, solicitado %s %s (faltan %s)",
		e.Product, e.Available.String(), e.Unit, e.Requested.String(), e.Unit, e.Deficit().String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NotFoundError identifica qué recurso no se encontró. Unwrap devuelve ErrNotFound.
type NotFoundError struct {
	Kind string // producto, movimiento, requisición, producción, factura
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado: %s", e.Kind, e.Ref)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound construye un NotFoundError.
func NotFound(kind, ref string) error {
	return &NotFoundError{Kind: kind, Ref: ref}
}
