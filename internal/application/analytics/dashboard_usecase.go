// Package analytics contiene los casos de uso de reportes del inventario:
// resumen del dashboard, estadísticas de consumo y reporte semanal.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/restaurante-inventario/internal/application/dto"
	"github.com/jhoicas/restaurante-inventario/internal/domain/entity"
	"github.com/jhoicas/restaurante-inventario/internal/domain/inventory"
	"github.com/jhoicas/restaurante-inventario/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	recentMovementsLimit = 10 // movimientos en el feed del dashboard
	topMovedLimit        = 5
	forecastLimit        = 5
)

// Source lecturas que necesita el dashboard.
type Source interface {
	repository.ProductReader
	repository.RequisitionReader
}

// DashboardUseCase calcula los indicadores del inventario a partir de los productos
// y requisiciones actuales. Solo lectura.
type DashboardUseCase struct {
	source Source
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(source Source) *DashboardUseCase {
	return &DashboardUseCase{source: source, now: time.Now}
}

// GetSummary construye el resumen del dashboard.
//
// Dos lecturas en paralelo:
//  1. ListProducts      → conteos por estado, movimientos de hoy, feed reciente
//  2. ListRequisitions  → requisiciones pendientes
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var (
		products     []*entity.Product
		requisitions []*entity.Requisition
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = uc.source.ListProducts(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: productos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		requisitions, err = uc.source.ListRequisitions(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: requisiciones: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := uc.now()
	out := &dto.DashboardSummaryDTO{
		TotalProducts: len(products),
		TodayEntradas: decimal.Zero,
		TodaySalidas:  decimal.Zero,
		DateLabel:     monthLabel(now),
	}

	type feedEntry struct {
		product *entity.Product
		mov     entity.Movement
	}
	var feed []feedEntry

	for _, p := range products {
		switch inventory.Status(p) {
		case entity.StockOptimo:
			out.Optimo++
		case entity.StockBajo:
			out.Bajo++
		case entity.StockAgotado:
			out.Agotado++
		}
		if p.Quantity.LessThanOrEqual(p.MinStock) {
			out.LowStockCount++
		}
		for _, m := range p.History {
			if sameDay(m.Date, now) {
				switch m.Type {
				case entity.MovementEntrada:
					out.TodayEntradas = out.TodayEntradas.Add(m.Amount)
				case entity.MovementSalida:
					out.TodaySalidas = out.TodaySalidas.Add(m.Amount)
				}
			}
			feed = append(feed, feedEntry{product: p, mov: m})
		}
	}
	for _, r := range requisitions {
		if r.IsPending() {
			out.PendingRequisitions++
		}
	}

	sort.SliceStable(feed, func(i, j int) bool {
		if !feed[i].mov.Date.Equal(feed[j].mov.Date) {
			return feed[i].mov.Date.After(feed[j].mov.Date)
		}
		return feed[i].mov.Seq > feed[j].mov.Seq
	})
	if len(feed) > recentMovementsLimit {
		feed = feed[:recentMovementsLimit]
	}
	out.RecentMovements = make([]dto.RecentMovementDTO, len(feed))
	for i, e := range feed {
		out.RecentMovements[i] = dto.RecentMovementDTO{
			ProductID:        e.product.ID,
			ProductName:      e.product.Name,
			MovementResponse: dto.FromMovement(e.mov),
		}
	}
	return out, nil
}

// GetStatistics devuelve los productos más movidos y la proyección de días hasta agotar
// el stock según las salidas no anuladas.
func (uc *DashboardUseCase) GetStatistics(ctx context.Context) (*dto.StatisticsDTO, error) {
	products, err := uc.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("estadísticas: productos: %w", err)
	}

	moved := make([]dto.TopMovedDTO, 0, len(products))
	for _, p := range products {
		moved = append(moved, dto.TopMovedDTO{ProductID: p.ID, ProductName: p.Name, Movements: len(p.History)})
	}
	sort.SliceStable(moved, func(i, j int) bool { return moved[i].Movements > moved[j].Movements })
	if len(moved) > topMovedLimit {
		moved = moved[:topMovedLimit]
	}

	forecast := make([]dto.ForecastDTO, 0)
	for _, p := range products {
		if f, ok := consumptionForecast(p); ok {
			forecast = append(forecast, f)
		}
	}
	sort.SliceStable(forecast, func(i, j int) bool {
		return forecast[i].DaysRemaining.LessThan(forecast[j].DaysRemaining)
	})
	if len(forecast) > forecastLimit {
		forecast = forecast[:forecastLimit]
	}

	return &dto.StatisticsDTO{TopMoved: moved, Forecast: forecast}, nil
}

// consumptionForecast necesita al menos dos salidas no anuladas; el período mínimo es un día.
func consumptionForecast(p *entity.Product) (dto.ForecastDTO, bool) {
	if !p.Quantity.IsPositive() {
		return dto.ForecastDTO{}, false
	}
	var (
		first, last time.Time
		total       = decimal.Zero
		count       int
	)
	for _, m := range p.History {
		if m.Type != entity.MovementSalida || m.Cancelled {
			continue
		}
		if count == 0 || m.Date.Before(first) {
			first = m.Date
		}
		if count == 0 || m.Date.After(last) {
			last = m.Date
		}
		total = total.Add(m.Amount)
		count++
	}
	if count < 2 || !total.IsPositive() {
		return dto.ForecastDTO{}, false
	}
	days := decimal.NewFromFloat(last.Sub(first).Hours() / 24)
	if days.LessThan(decimal.NewFromInt(1)) {
		days = decimal.NewFromInt(1)
	}
	daily := total.Div(days)
	return dto.ForecastDTO{
		ProductID:        p.ID,
		ProductName:      p.Name,
		Quantity:         p.Quantity,
		Unit:             p.Unit,
		DailyConsumption: daily.Round(2),
		DaysRemaining:    p.Quantity.Div(daily).Round(1),
	}, true
}

// GetWeeklyReport totaliza entradas y salidas no anuladas de la semana (lunes a domingo)
// que contiene ref, agrupadas por categoría. Los productos sin movimiento se omiten.
func (uc *DashboardUseCase) GetWeeklyReport(ctx context.Context, ref time.Time) (*dto.WeeklyReportDTO, error) {
	products, err := uc.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte semanal: productos: %w", err)
	}
	if ref.IsZero() {
		ref = uc.now()
	}
	start, end := weekRange(ref)

	byCategory := make(map[string][]dto.WeeklyReportLineDTO)
	for _, p := range products {
		line := dto.WeeklyReportLineDTO{ProductName: p.Name, Unit: p.Unit, Entradas: decimal.Zero, Salidas: decimal.Zero}
		for _, m := range p.History {
			if m.Cancelled || m.Date.Before(start) || m.Date.After(end) {
				continue
			}
			switch m.Type {
			case entity.MovementEntrada:
				line.Entradas = line.Entradas.Add(m.Amount)
			case entity.MovementSalida:
				line.Salidas = line.Salidas.Add(m.Amount)
			}
		}
		if line.Entradas.IsPositive() || line.Salidas.IsPositive() {
			byCategory[p.Category] = append(byCategory[p.Category], line)
		}
	}

	out := &dto.WeeklyReportDTO{Start: start, End: end, Categories: make([]dto.WeeklyReportCategoryDTO, 0, len(byCategory))}
	for cat, lines := range byCategory {
		sort.Slice(lines, func(i, j int) bool { return lines[i].ProductName < lines[j].ProductName })
		out.Categories = append(out.Categories, dto.WeeklyReportCategoryDTO{Category: cat, Products: lines})
	}
	sort.Slice(out.Categories, func(i, j int) bool { return out.Categories[i].Category < out.Categories[j].Category })
	return out, nil
}

// weekRange lunes 00:00 a domingo 23:59:59.999 en la zona de ref.
func weekRange(ref time.Time) (time.Time, time.Time) {
	offset := (int(ref.Weekday()) + 6) % 7 // lunes = 0
	start := time.Date(ref.Year(), ref.Month(), ref.Day()-offset, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
