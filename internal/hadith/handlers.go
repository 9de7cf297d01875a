package hadith

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for hadith and chain operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new hadith handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers hadith routes on an Echo group. Chain routes
// live on their own group because chains are addressed by chain id.
func (h *Handlers) RegisterRoutes(hadiths, chains *echo.Group) {
	hadiths.GET("", h.List)
	hadiths.POST("", h.Create)
	hadiths.GET("/:id", h.Get)
	hadiths.PUT("/:id", h.Update)
	hadiths.DELETE("/:id", h.Delete)
	hadiths.GET("/:id/chains", h.ListChains)
	hadiths.POST("/:id/chains", h.CreateChain)

	chains.GET("/:id", h.GetChain)
	chains.DELETE("/:id", h.DeleteChain)
	chains.POST("/:id/resolve", h.ResolveChain)
}

// List returns paginated hadiths.
// GET /api/v1/hadiths
func (h *Handlers) List(c echo.Context) error {
	opts := ListOptions{
		Collection: c.QueryParam("collection"),
		Page:       1,
		PageSize:   50,
	}
	if p := c.QueryParam("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			opts.Page = v
		}
	}
	if ps := c.QueryParam("pageSize"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 {
			opts.PageSize = v
		}
	}

	result, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// Create stores a hadith.
// POST /api/v1/hadiths
func (h *Handlers) Create(c echo.Context) error {
	var input CreateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	created, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, ErrInvalidHadith) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

// Get returns a hadith with its chains.
// GET /api/v1/hadiths/:id
func (h *Handlers) Get(c echo.Context) error {
	found, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrHadithNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Hadith not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, found)
}

// Update applies a partial update.
// PUT /api/v1/hadiths/:id
func (h *Handlers) Update(c echo.Context) error {
	var input UpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrHadithNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Hadith not found")
		case errors.Is(err, ErrInvalidHadith):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a hadith.
// DELETE /api/v1/hadiths/:id
func (h *Handlers) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrHadithNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Hadith not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ListChains returns a hadith's chains.
// GET /api/v1/hadiths/:id/chains
func (h *Handlers) ListChains(c echo.Context) error {
	chains, err := h.service.ListChains(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, chains)
}

// CreateChain records an isnad for a hadith.
// POST /api/v1/hadiths/:id/chains
func (h *Handlers) CreateChain(c echo.Context) error {
	var input CreateChainInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	chain, err := h.service.CreateChain(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrHadithNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Hadith not found")
		case errors.Is(err, ErrEmptyChain):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, chain)
}

// GetChain returns a chain with its links.
// GET /api/v1/chains/:id
func (h *Handlers) GetChain(c echo.Context) error {
	chain, err := h.service.GetChain(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrChainNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Chain not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, chain)
}

// DeleteChain removes a chain.
// DELETE /api/v1/chains/:id
func (h *Handlers) DeleteChain(c echo.Context) error {
	if err := h.service.DeleteChain(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrChainNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Chain not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ResolveChain resolves a chain's raw names against the registry.
// POST /api/v1/chains/:id/resolve
func (h *Handlers) ResolveChain(c echo.Context) error {
	result, err := h.service.ResolveChain(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrChainNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Chain not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
