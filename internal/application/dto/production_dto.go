package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionOutputDTO producto resultante de una producción.
type ProductionOutputDTO struct {
	ProductName string          `json:"product_name" validate:"required,max=200"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit" validate:"required,max=30"`
	Category    string          `json:"category" validate:"omitempty,max=60"`
}

// WasteDTO merma de la corrida (solo auditoría).
type WasteDTO struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// CreateProductionRequest entrada de POST /api/productions.
type CreateProductionRequest struct {
	RawMaterialID string                `json:"raw_material_id" validate:"required"`
	QuantityUsed  decimal.Decimal       `json:"quantity_used"`
	Outputs       []ProductionOutputDTO `json:"outputs" validate:"required,min=1,dive"`
	Waste         WasteDTO              `json:"waste"`
	Notes         string                `json:"notes" validate:"omitempty,max=500"`
}

// ProductionResponse salida de una producción.
type ProductionResponse struct {
	ID                      string                `json:"id"`
	Date                    time.Time             `json:"date"`
	RawMaterialID           string                `json:"raw_material_id"`
	RawMaterialName         string                `json:"raw_material_name"`
	RawMaterialUnit         string                `json:"raw_material_unit"`
	RawMaterialQuantityUsed decimal.Decimal       `json:"raw_material_quantity_used"`
	Outputs                 []ProductionOutputDTO `json:"outputs"`
	Waste                   WasteDTO              `json:"waste"`
	Notes                   string                `json:"notes,omitempty"`
	CreatedBy               string                `json:"created_by,omitempty"`
}
