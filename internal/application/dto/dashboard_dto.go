package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts       int `json:"total_products"`
	LowStockCount       int `json:"low_stock_count"` // cantidad <= mínimo, incluye agotados
	PendingRequisitions int `json:"pending_requisitions"`

	// Clasificación por estado de stock
	Optimo  int `json:"optimo"`
	Bajo    int `json:"bajo"`
	Agotado int `json:"agotado"`

	// Movimientos del día (fecha local del servidor)
	TodayEntradas decimal.Decimal `json:"today_entradas"`
	TodaySalidas  decimal.Decimal `json:"today_salidas"`

	RecentMovements []RecentMovementDTO `json:"recent_movements"`
	DateLabel       string              `json:"date_label"` // ej: "Mayo 2024"
}

// RecentMovementDTO movimiento del feed con el producto al que pertenece.
type RecentMovementDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	MovementResponse
}

// StatisticsDTO respuesta de GET /api/dashboard/statistics.
type StatisticsDTO struct {
	TopMoved []TopMovedDTO `json:"top_moved"`
	Forecast []ForecastDTO `json:"forecast"`
}

// TopMovedDTO producto con más registros en su historial.
type TopMovedDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Movements   int    `json:"movements"`
}

// ForecastDTO días estimados hasta agotar el stock al ritmo de consumo observado.
type ForecastDTO struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit"`
	DailyConsumption decimal.Decimal `json:"daily_consumption"`
	DaysRemaining    decimal.Decimal `json:"days_remaining"`
}

// WeeklyReportDTO entradas y salidas por categoría y producto en una semana (lunes a domingo).
type WeeklyReportDTO struct {
	Start      time.Time                 `json:"start"`
	End        time.Time                 `json:"end"`
	Categories []WeeklyReportCategoryDTO `json:"categories"`
}

// WeeklyReportCategoryDTO bloque de una categoría.
type WeeklyReportCategoryDTO struct {
	Category string                `json:"category"`
	Products []WeeklyReportLineDTO `json:"products"`
}

// WeeklyReportLineDTO totales de un producto en la semana.
type WeeklyReportLineDTO struct {
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Entradas    decimal.Decimal `json:"entradas"`
	Salidas     decimal.Decimal `json:"salidas"`
}
