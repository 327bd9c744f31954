package repository

import (
	"context"

	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
)

// ProductReader lectura de productos con su historial completo.
// GetProduct devuelve un error que envuelve domain.ErrNotFound si el ID no existe.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	ListProducts(ctx context.Context) ([]*entity.Product, error)
}

// RequisitionReader lectura de requisiciones.
type RequisitionReader interface {
	GetRequisition(ctx context.Context, id string) (*entity.Requisition, error)
	ListRequisitions(ctx context.Context) ([]*entity.Requisition, error)
}

// ProductionReader lectura de producciones.
type ProductionReader interface {
	GetProduction(ctx context.Context, id string) (*entity.Production, error)
	ListProductions(ctx context.Context) ([]*entity.Production, error)
}

// Committer confirma un Batch completo o nada.
// Devuelve domain.ErrConflict si alguna versión o estado esperado no coincide,
// domain.ErrUnavailable si el almacenamiento no responde, y cualquier otro error
// si la escritura fue rechazada. En todos los casos no queda nada aplicado.
type Committer interface {
	Commit(ctx context.Context, batch Batch) error
}

// LedgerStore puerto de almacenamiento que necesita el motor del inventario.
type LedgerStore interface {
	ProductReader
	RequisitionReader
	ProductionReader
	Committer
}
