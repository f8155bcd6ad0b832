package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gardenplan/core/internal/application/services"
	"github.com/gardenplan/core/internal/infrastructure/logger"
	"github.com/gardenplan/core/internal/ports"
)

// SettingsHandler handles user settings requests
type SettingsHandler struct {
	settingsService *services.SettingsService
	logger          *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetSettings handles getting a user's regional settings. Users
// without stored settings get the defaults back.
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}

	settings, err := h.settingsService.Get(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Get settings failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load settings")
	}

	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles storing a user's regional settings
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return err
	}

	var req ports.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	settings, err := h.settingsService.Update(c.Request().Context(), userID, req)
	if err != nil {
		h.logger.Error("Update settings failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save settings")
	}

	return c.JSON(http.StatusOK, settings)
}
