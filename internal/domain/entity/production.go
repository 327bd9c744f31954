package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionOutput producto terminado que genera una producción.
type ProductionOutput struct {
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
	Category    string
}

// Waste merma registrada solo para auditoría; no afecta ningún saldo.
type Waste struct {
	Quantity decimal.Decimal
	Unit     string
}

// Production registro inmutable de una transformación materia prima -> productos.
type Production struct {
	ID                      string
	Date                    time.Time
	RawMaterialID           string
	RawMaterialName         string
	RawMaterialUnit         string
	RawMaterialQuantityUsed decimal.Decimal
	Outputs                 []ProductionOutput
	Waste                   Waste
	Notes                   string
	CreatedBy               string
}
