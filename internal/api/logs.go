package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mwijanarko1/rijal/internal/logger"
)

// LogsProvider exposes the recent-entry buffer of the application logger.
type LogsProvider interface {
	RecentEntries() []logger.Entry
}

// LogsHandlers handles log-related HTTP endpoints.
type LogsHandlers struct {
	provider LogsProvider
}

// NewLogsHandlers creates a new logs handlers instance.
func NewLogsHandlers(provider LogsProvider) *LogsHandlers {
	return &LogsHandlers{provider: provider}
}

// RegisterRoutes registers log routes on the given group.
func (h *LogsHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentLogs)
}

// GetRecentLogs returns recent log entries from the ring buffer.
// GET /api/v1/logs
func (h *LogsHandlers) GetRecentLogs(c echo.Context) error {
	logs := h.provider.RecentEntries()
	if logs == nil {
		logs = []logger.Entry{}
	}
	return c.JSON(http.StatusOK, logs)
}
