package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/restaurante-inventario/internal/application/analytics"
	"github.com/jhoicas/restaurante-inventario/internal/domain"
)

// DashboardHandler reportes de solo lectura.
type DashboardHandler struct {
	uc     *analytics.DashboardUseCase
	logger zerolog.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, logger: logger}
}

// Summary godoc
// @Summary      Resumen del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}

// Statistics godoc
// @Summary      Productos más movidos y proyección de agotamiento
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatisticsDTO
// @Router       /api/dashboard/statistics [get]
func (h *DashboardHandler) Statistics(c *fiber.Ctx) error {
	out, err := h.uc.GetStatistics(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}

// Weekly godoc
// @Summary      Reporte semanal por categoría
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Día de la semana a reportar (YYYY-MM-DD); por defecto hoy"
// @Success      200  {object}  dto.WeeklyReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/weekly [get]
func (h *DashboardHandler) Weekly(c *fiber.Ctx) error {
	var ref time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
		if err != nil {
			return writeError(c, h.logger, domain.Invalid("date", "fecha inválida %q, use YYYY-MM-DD", raw))
		}
		ref = d
	}
	out, err := h.uc.GetWeeklyReport(c.UserContext(), ref)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}
