package narrator

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for narrator registry operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new narrator handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers narrator routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/search", h.Search)
	g.POST("/match", h.Match)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/names", h.ListNames)
	g.POST("/:id/names", h.AddName)
	g.DELETE("/:id/names/:nameId", h.DeleteName)
	g.GET("/:id/opinions", h.ListOpinions)
	g.POST("/:id/opinions", h.AddOpinion)
}

// List returns all narrators.
// GET /api/v1/narrators
func (h *Handlers) List(c echo.Context) error {
	narrators, err := h.service.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if narrators == nil {
		narrators = []*Narrator{}
	}
	return c.JSON(http.StatusOK, narrators)
}

// Create adds a narrator to the registry.
// POST /api/v1/narrators
func (h *Handlers) Create(c echo.Context) error {
	var input CreateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	n, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, ErrInvalidNarrator) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, n)
}

// Get returns a single narrator with alternate names.
// GET /api/v1/narrators/:id
func (h *Handlers) Get(c echo.Context) error {
	n, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNarratorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Narrator not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, n)
}

// Update applies a partial update.
// PUT /api/v1/narrators/:id
func (h *Handlers) Update(c echo.Context) error {
	var input UpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	n, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrNarratorNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Narrator not found")
		case errors.Is(err, ErrInvalidNarrator):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, n)
}

// Delete removes a narrator.
// DELETE /api/v1/narrators/:id
func (h *Handlers) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNarratorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Narrator not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// Search scores the registry against free-text terms.
// GET /api/v1/narrators/search?q=...&taqribRank=...&generation=...&residence=...
func (h *Handlers) Search(c echo.Context) error {
	opts := SearchOptions{
		Query:    c.QueryParam("q"),
		Page:     1,
		PageSize: 50,
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
	opts.Filters.TaqribRanks = splitParam(c.QueryParam("taqribRank"))
	opts.Filters.Generations = splitParam(c.QueryParam("generation"))
	opts.Filters.Residences = splitParam(c.QueryParam("residence"))

	result, err := h.service.Search(c.Request().Context(), opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// Match resolves a free-text name to ranked registry candidates.
// POST /api/v1/narrators/match
func (h *Handlers) Match(c echo.Context) error {
	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	candidates, err := h.service.Match(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"candidates": candidates})
}

// ListNames returns a narrator's alternate names.
// GET /api/v1/narrators/:id/names
func (h *Handlers) ListNames(c echo.Context) error {
	n, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNarratorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Narrator not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if n.AlternateNames == nil {
		n.AlternateNames = []NameVariant{}
	}
	return c.JSON(http.StatusOK, n.AlternateNames)
}

// AddName records an alternate name variant.
// POST /api/v1/narrators/:id/names
func (h *Handlers) AddName(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Language string `json:"language"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	v, err := h.service.AddName(c.Request().Context(), c.Param("id"), req.Name, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, ErrNarratorNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Narrator not found")
		case errors.Is(err, ErrNameRequired):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

// DeleteName removes an alternate name variant.
// DELETE /api/v1/narrators/:id/names/:nameId
func (h *Handlers) DeleteName(c echo.Context) error {
	nameID, err := strconv.ParseInt(c.Param("nameId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid name ID")
	}

	if err := h.service.DeleteName(c.Request().Context(), c.Param("id"), nameID); err != nil {
		if errors.Is(err, ErrNarratorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Name not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ListOpinions returns a narrator's grading opinions.
// GET /api/v1/narrators/:id/opinions
func (h *Handlers) ListOpinions(c echo.Context) error {
	opinions, err := h.service.ListOpinions(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, opinions)
}

// AddOpinion records a scholar's grading opinion.
// POST /api/v1/narrators/:id/opinions
func (h *Handlers) AddOpinion(c echo.Context) error {
	var req struct {
		Scholar string `json:"scholar"`
		Opinion string `json:"opinion"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	o, err := h.service.AddOpinion(c.Request().Context(), c.Param("id"), req.Scholar, req.Opinion)
	if err != nil {
		switch {
		case errors.Is(err, ErrNarratorNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Narrator not found")
		case errors.Is(err, ErrNameRequired):
			return echo.NewHTTPError(http.StatusBadRequest, "Opinion text is required")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, o)
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
