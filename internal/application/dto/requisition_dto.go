package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequisitionItemRequest línea pedida por nombre de producto.
type RequisitionItemRequest struct {
	ProductName string          `json:"product_name" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit" validate:"omitempty,max=30"`
}

// CreateRequisitionRequest entrada de POST /api/requisitions.
type CreateRequisitionRequest struct {
	Department string                   `json:"department" validate:"required,max=60"`
	Items      []RequisitionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// DeliveryRequest lo entregado para un producto; la cantidad llega como texto.
type DeliveryRequest struct {
	DeliveredQuantity string `json:"delivered_quantity"`
	Observation       string `json:"observation" validate:"omitempty,max=300"`
}

// ProcessRequisitionRequest entregas indexadas por ID de producto.
type ProcessRequisitionRequest struct {
	Deliveries map[string]DeliveryRequest `json:"deliveries" validate:"dive"`
}

// RequisitionItemResponse línea de requisición.
type RequisitionItemResponse struct {
	ProductID         string           `json:"product_id"`
	ProductName       string           `json:"product_name"`
	RequestedQuantity decimal.Decimal  `json:"requested_quantity"`
	Unit              string           `json:"unit"`
	DeliveredQuantity *decimal.Decimal `json:"delivered_quantity,omitempty"`
	Observation       string           `json:"observation,omitempty"`
}

// RequisitionResponse salida de una requisición.
type RequisitionResponse struct {
	ID          string                    `json:"id"`
	Department  string                    `json:"department"`
	Status      string                    `json:"status"`
	Items       []RequisitionItemResponse `json:"items"`
	CreatedBy   string                    `json:"created_by,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
	ProcessedAt *time.Time                `json:"processed_at,omitempty"`
}
