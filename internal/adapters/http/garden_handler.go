package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gardenplan/core/internal/application/services"
	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/infrastructure/logger"
	"github.com/gardenplan/core/internal/ports"
)

// MessageResponse is a simple message payload
type MessageResponse struct {
	Message string `json:"message"`
}

// GardenHandler handles garden and zone requests
type GardenHandler struct {
	gardenService *services.GardenService
	zoneService   *services.ZoneService
	logger        *logger.Logger
}

// NewGardenHandler creates a new garden handler
func NewGardenHandler(gardenService *services.GardenService, zoneService *services.ZoneService, logger *logger.Logger) *GardenHandler {
	return &GardenHandler{
		gardenService: gardenService,
		zoneService:   zoneService,
		logger:        logger,
	}
}

// CreateGarden handles garden creation
func (h *GardenHandler) CreateGarden(c echo.Context) error {
	var req ports.CreateGardenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	garden, err := h.gardenService.CreateGarden(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create garden failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create garden")
	}

	return c.JSON(http.StatusCreated, garden)
}

// GetGarden handles getting a garden by ID
func (h *GardenHandler) GetGarden(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	garden, err := h.gardenService.GetGarden(c.Request().Context(), gardenID)
	if err != nil {
		return notFoundOr(err, "Garden not found")
	}

	return c.JSON(http.StatusOK, garden)
}

// ListGardens handles listing gardens by owner
func (h *GardenHandler) ListGardens(c echo.Context) error {
	ownerID, err := uuid.Parse(c.QueryParam("owner_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or missing owner_id")
	}

	gardens, err := h.gardenService.ListGardens(c.Request().Context(), ownerID)
	if err != nil {
		h.logger.Error("List gardens failed", "error", err, "owner_id", ownerID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list gardens")
	}

	return c.JSON(http.StatusOK, gardens)
}

// DeleteGarden handles garden deletion
func (h *GardenHandler) DeleteGarden(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.gardenService.DeleteGarden(c.Request().Context(), gardenID); err != nil {
		return notFoundOr(err, "Garden not found")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Garden deleted"})
}

// CreateZone handles planting a new zone in a garden
func (h *GardenHandler) CreateZone(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.CreateZoneRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	zone, err := h.gardenService.CreateZone(c.Request().Context(), gardenID, req)
	if err != nil {
		return notFoundOr(err, "Garden not found")
	}

	return c.JSON(http.StatusCreated, zone)
}

// SetZoneStatus handles zone lifecycle status changes
func (h *GardenHandler) SetZoneStatus(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	zoneID, err := parseIDParam(c, "zoneId")
	if err != nil {
		return err
	}

	var req ports.SetZoneStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	zone, err := h.zoneService.SetStatus(c.Request().Context(), gardenID, zoneID, req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidStatus) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid zone status")
		}
		return notFoundOr(err, "Zone not found")
	}

	return c.JSON(http.StatusOK, zone)
}

// ToggleTask handles flipping a task-template completion on a zone
func (h *GardenHandler) ToggleTask(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	zoneID, err := parseIDParam(c, "zoneId")
	if err != nil {
		return err
	}

	templateID := c.Param("templateId")
	if templateID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing template ID")
	}

	zone, err := h.zoneService.ToggleTask(c.Request().Context(), gardenID, zoneID, templateID)
	if err != nil {
		return notFoundOr(err, "Zone not found")
	}

	return c.JSON(http.StatusOK, zone)
}

// DeleteZone handles removing a zone from a garden
func (h *GardenHandler) DeleteZone(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	zoneID, err := parseIDParam(c, "zoneId")
	if err != nil {
		return err
	}

	if err := h.gardenService.DeleteZone(c.Request().Context(), gardenID, zoneID); err != nil {
		return notFoundOr(err, "Zone not found")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Zone deleted"})
}

func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// notFoundOr maps domain not-found errors to 404 and everything else
// to 500.
func notFoundOr(err error, msg string) error {
	switch {
	case errors.Is(err, entities.ErrGardenNotFound),
		errors.Is(err, entities.ErrZoneNotFound),
		errors.Is(err, entities.ErrArchiveNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msg)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, msg)
	}
}
