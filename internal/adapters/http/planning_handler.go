package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gardenplan/core/internal/application/services"
	"github.com/gardenplan/core/internal/domain/calendar"
	"github.com/gardenplan/core/internal/infrastructure/logger"
)

// PlanningHandler exposes the task, hint and rotation endpoints. All
// endpoints are read-only derivations over the stored garden.
type PlanningHandler struct {
	planningService *services.PlanningService
	logger          *logger.Logger
}

// NewPlanningHandler creates a new planning handler
func NewPlanningHandler(planningService *services.PlanningService, logger *logger.Logger) *PlanningHandler {
	return &PlanningHandler{
		planningService: planningService,
		logger:          logger,
	}
}

// MonthlyTasks handles the month-scoped task list. Month and year
// default to the current date.
func (h *PlanningHandler) MonthlyTasks(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	now := time.Now()
	month, err := intQueryParam(c, "month", int(now.Month()), 1, 12)
	if err != nil {
		return err
	}
	year, err := intQueryParam(c, "year", now.Year(), 2000, 2200)
	if err != nil {
		return err
	}

	tasks, err := h.planningService.MonthlyTasks(c.Request().Context(), gardenID, month, year)
	if err != nil {
		return notFoundOr(err, "Garden not found")
	}

	return c.JSON(http.StatusOK, tasks)
}

// WeeklyTasks handles the week-scoped, status-filtered task list.
func (h *PlanningHandler) WeeklyTasks(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	week, year, err := weekQueryParams(c)
	if err != nil {
		return err
	}

	tasks, err := h.planningService.WeeklyTasks(c.Request().Context(), gardenID, week, year)
	if err != nil {
		return notFoundOr(err, "Garden not found")
	}

	return c.JSON(http.StatusOK, tasks)
}

// StatusHints handles the lifecycle-transition suggestions.
func (h *PlanningHandler) StatusHints(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	week, year, err := weekQueryParams(c)
	if err != nil {
		return err
	}

	hints, err := h.planningService.StatusHints(c.Request().Context(), gardenID, week, year)
	if err != nil {
		return notFoundOr(err, "Garden not found")
	}

	return c.JSON(http.StatusOK, hints)
}

// Plan handles the combined week-plan view
func (h *PlanningHandler) Plan(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	week, year, err := weekQueryParams(c)
	if err != nil {
		return err
	}

	plan, err := h.planningService.Plan(c.Request().Context(), gardenID, week, year)
	if err != nil {
		return notFoundOr(err, "Garden not found")
	}

	return c.JSON(http.StatusOK, plan)
}

// RotationWarnings handles checking every zone against the archives
func (h *PlanningHandler) RotationWarnings(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	year, err := intQueryParam(c, "year", time.Now().Year(), 2000, 2200)
	if err != nil {
		return err
	}

	warnings, err := h.planningService.RotationWarnings(c.Request().Context(), gardenID, year)
	if err != nil {
		return notFoundOr(err, "Garden not found")
	}

	return c.JSON(http.StatusOK, warnings)
}

// PositionHistory handles listing past plantings at a position
func (h *PlanningHandler) PositionHistory(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	x, err := floatQueryParam(c, "x")
	if err != nil {
		return err
	}
	y, err := floatQueryParam(c, "y")
	if err != nil {
		return err
	}
	width, err := floatQueryParam(c, "width")
	if err != nil {
		return err
	}
	height, err := floatQueryParam(c, "height")
	if err != nil {
		return err
	}

	records, err := h.planningService.PositionHistory(c.Request().Context(), gardenID, x, y, width, height)
	if err != nil {
		return notFoundOr(err, "Garden not found")
	}

	return c.JSON(http.StatusOK, records)
}

// weekQueryParams parses week and year, defaulting to the current ISO
// week.
func weekQueryParams(c echo.Context) (int, int, error) {
	now := time.Now()
	defaultYear, defaultWeek := now.ISOWeek()

	week, err := intQueryParam(c, "week", defaultWeek, 1, 53)
	if err != nil {
		return 0, 0, err
	}
	year, err := intQueryParam(c, "year", defaultYear, 2000, 2200)
	if err != nil {
		return 0, 0, err
	}
	week = calendar.ClampWeek(week)
	return week, year, nil
}

func intQueryParam(c echo.Context, name string, def, min, max int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return v, nil
}

func floatQueryParam(c echo.Context, name string) (float64, error) {
	v, err := strconv.ParseFloat(c.QueryParam(name), 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid or missing "+name)
	}
	return v, nil
}
