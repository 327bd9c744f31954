package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Cantidad inicial y mínimo se coercionan: inválidos o ausentes quedan en 0 y 5.
type CreateProductRequest struct {
	Name            string       `json:"name" validate:"required,max=200"`
	InitialQuantity LooseDecimal `json:"initial_quantity"`
	Unit            string       `json:"unit" validate:"required,max=30"`
	MinStock        LooseDecimal `json:"min_stock"`
	Category        string       `json:"category" validate:"omitempty,max=60"`
}

// MovementResponse registro del historial de un producto.
type MovementResponse struct {
	ID                    string          `json:"id"`
	Seq                   int64           `json:"seq"`
	Type                  string          `json:"type"`
	Amount                decimal.Decimal `json:"amount"`
	Unit                  string          `json:"unit"`
	Date                  time.Time       `json:"date"`
	Source                string          `json:"source,omitempty"`
	Destination           string          `json:"destination,omitempty"`
	Cancelled             bool            `json:"cancelled"`
	CancelledMovementID   string          `json:"cancelled_movement_id,omitempty"`
	CancelledMovementDate *time.Time      `json:"cancelled_movement_date,omitempty"`
	CreatedBy             string          `json:"created_by,omitempty"`
}

// ProductResponse salida de un producto. History solo se incluye en el detalle.
type ProductResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Quantity  decimal.Decimal    `json:"quantity"`
	Unit      string             `json:"unit"`
	MinStock  decimal.Decimal    `json:"min_stock"`
	Category  string             `json:"category"`
	Status    string             `json:"status"`
	Version   int64              `json:"version"`
	History   []MovementResponse `json:"history,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// QuickUpdateRequest ajuste rápido. Amount positivo es entrada y negativo salida.
type QuickUpdateRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Unit   string          `json:"unit" validate:"omitempty,max=30"`
	Reason string          `json:"reason" validate:"omitempty,max=100"`
}

// AdjustmentResponse resultado de un ajuste rápido o una anulación.
type AdjustmentResponse struct {
	Product  ProductResponse  `json:"product"`
	Movement MovementResponse `json:"movement"`
	Notify   bool             `json:"notify"`
	Message  string           `json:"message,omitempty"`
}

// AuditResponse comparación entre saldo guardado y saldo recalculado.
type AuditResponse struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Recorded   decimal.Decimal `json:"recorded"`
	Replayed   decimal.Decimal `json:"replayed"`
	Consistent bool            `json:"consistent"`
}

// ShoppingItemResponse línea de la lista de compras.
type ShoppingItemResponse struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	SuggestedQty decimal.Decimal `json:"suggested_qty"`
	Status       string          `json:"status"`
}
