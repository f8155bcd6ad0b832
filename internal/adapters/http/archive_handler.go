package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gardenplan/core/internal/application/services"
	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/infrastructure/logger"
	"github.com/gardenplan/core/internal/ports"
)

// ArchiveHandler handles season archive requests
type ArchiveHandler struct {
	archiveService *services.ArchiveService
	logger         *logger.Logger
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(archiveService *services.ArchiveService, logger *logger.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		archiveService: archiveService,
		logger:         logger,
	}
}

// ArchiveSeason handles snapshotting a garden's zones under a season
// year. Re-archiving a year overwrites the earlier snapshot.
func (h *ArchiveHandler) ArchiveSeason(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.ArchiveSeasonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	archive, err := h.archiveService.ArchiveSeason(c.Request().Context(), gardenID, req.SeasonYear)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidSeason) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid season year")
		}
		return notFoundOr(err, "Garden not found")
	}

	return c.JSON(http.StatusCreated, archive)
}

// ListArchives handles listing a garden's season archives
func (h *ArchiveHandler) ListArchives(c echo.Context) error {
	gardenID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	archives, err := h.archiveService.ListArchives(c.Request().Context(), gardenID)
	if err != nil {
		h.logger.Error("List archives failed", "error", err, "garden_id", gardenID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list archives")
	}

	return c.JSON(http.StatusOK, archives)
}
