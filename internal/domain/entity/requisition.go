package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una requisición: pending -> completed, una sola vez.
const (
	RequisitionPending   = "pending"
	RequisitionCompleted = "completed"
)

// Departamentos habituales que solicitan mercancía.
var RequisitionDepartments = []string{"Cocina", "Barra", "Pizzería", "Heladería", "Asador"}

// RequisitionItem línea de una requisición. ProductName es una foto del nombre al crear.
// DeliveredQuantity y Observation solo existen una vez procesada.
type RequisitionItem struct {
	ProductID         string
	ProductName       string
	RequestedQuantity decimal.Decimal
	Unit              string
	DeliveredQuantity *decimal.Decimal
	Observation       string
}

// Requisition pedido interno de un departamento al inventario central.
type Requisition struct {
	ID          string
	Department  string
	Status      string
	Items       []RequisitionItem
	CreatedBy   string
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// IsPending indica si aún puede procesarse.
func (r *Requisition) IsPending() bool { return r.Status == RequisitionPending }
