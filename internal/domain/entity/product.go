package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías fijas del restaurante. Las producciones pueden usar categorías libres.
const (
	CategoryCarnes     = "Carnes"
	CategoryVerduras   = "Verduras"
	CategoryDespensa   = "Despensa"
	CategoryLicores    = "Licores"
	CategoryProduccion = "Producción"
)

// Product es un producto del inventario con su saldo y su historial embebido.
// Version se incrementa en cada escritura y sirve de token de concurrencia optimista.
type Product struct {
	ID        string
	Name      string
	Quantity  decimal.Decimal
	Unit      string
	MinStock  decimal.Decimal
	Category  string
	History   []Movement
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone devuelve una copia con su propio slice de historial.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.History = make([]Movement, len(p.History))
	copy(c.History, p.History)
	return &c
}

// NextSeq devuelve la siguiente secuencia libre del historial.
func (p *Product) NextSeq() int64 {
	var max int64
	for _, m := range p.History {
		if m.Seq > max {
			max = m.Seq
		}
	}
	return max + 1
}

// FindMovement busca un movimiento por ID; devuelve su índice o -1.
func (p *Product) FindMovement(id string) int {
	for i := range p.History {
		if p.History[i].ID == id {
			return i
		}
	}
	return -1
}

// StockStatus clasificación informativa del stock frente al mínimo.
type StockStatus string

const (
	StockOptimo  StockStatus = "optimo"
	StockBajo    StockStatus = "bajo"
	StockAgotado StockStatus = "agotado"
)
