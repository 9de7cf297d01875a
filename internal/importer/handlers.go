package importer

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for import operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new importer handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers import routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/status", h.Status)
	g.POST("/sync", h.Sync)
	g.POST("/narrators", h.ImportNarrators)
}

// Status reports whether an import is running.
// GET /api/v1/import/status
func (h *Handlers) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"running": h.service.Running()})
}

// Sync starts a Shamela source sync in the background. Progress is
// delivered over the websocket hub.
// POST /api/v1/import/sync
func (h *Handlers) Sync(c echo.Context) error {
	if h.service.Running() {
		return echo.NewHTTPError(http.StatusConflict, ErrImportRunning.Error())
	}

	go func() {
		if err := h.service.SyncSources(context.Background()); err != nil &&
			!errors.Is(err, ErrImportRunning) {
			h.service.logger.Error().Err(err).Msg("source sync failed")
		}
	}()

	return c.JSON(http.StatusAccepted, map[string]string{"status": "started"})
}

// ImportNarrators imports a JSON dump of narrator records.
// POST /api/v1/import/narrators
func (h *Handlers) ImportNarrators(c echo.Context) error {
	imported, err := h.service.ImportNarrators(c.Request().Context(), c.Request().Body)
	if err != nil {
		if errors.Is(err, ErrImportRunning) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"imported": imported})
}
