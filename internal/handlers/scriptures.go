package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/services"
)

// ScriptureHandler handles scripture import endpoints
type ScriptureHandler struct {
	imports *services.ImportService
}

// NewScriptureHandler creates a new scripture handler
func NewScriptureHandler(imports *services.ImportService) *ScriptureHandler {
	return &ScriptureHandler{
		imports: imports,
	}
}

// Preview handles POST /competition-years/:yearId/scriptures/preview
func (h *ScriptureHandler) Preview(c echo.Context) error {
	var req models.PreviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	preview, err := h.imports.PreviewImport(c.Request().Context(), req.Rows, req.Bundle)
	if err != nil {
		return serviceError("Preview", err)
	}
	return c.JSON(http.StatusOK, preview)
}

// Commit handles POST /competition-years/:yearId/scriptures/commit
func (h *ScriptureHandler) Commit(c echo.Context) error {
	var req models.CommitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.imports.CommitCsvRowsToYear(c.Request().Context(), req.Rows, c.Param("yearId"))
	if err != nil {
		return serviceError("Commit", err)
	}
	return c.JSON(http.StatusOK, result)
}

// MergeTexts handles POST /competition-years/:yearId/scriptures/texts
func (h *ScriptureHandler) MergeTexts(c echo.Context) error {
	var upload models.JsonTextUpload
	if err := c.Bind(&upload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	opts := services.MergeOptions{}
	if v := c.QueryParam("create_missing"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "create_missing must be a boolean")
		}
		opts.CreateMissing = b
	}

	result, err := h.imports.MergeJsonTexts(c.Request().Context(), &upload, c.Param("yearId"), opts)
	if err != nil {
		return serviceError("Merge", err)
	}
	return c.JSON(http.StatusOK, result)
}

// Lookup handles GET /competition-years/:yearId/scriptures/lookup
func (h *ScriptureHandler) Lookup(c echo.Context) error {
	ref := c.QueryParam("reference")
	if ref == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reference is required")
	}

	lookup, err := h.imports.FindScripture(c.Request().Context(), c.Param("yearId"), ref)
	if err != nil {
		return serviceError("Lookup", err)
	}
	return c.JSON(http.StatusOK, lookup)
}

// RegisterRoutes registers scripture import routes
func (h *ScriptureHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/competition-years/:yearId/scriptures/preview", h.Preview)
	g.POST("/competition-years/:yearId/scriptures/commit", h.Commit)
	g.POST("/competition-years/:yearId/scriptures/texts", h.MergeTexts)
	g.GET("/competition-years/:yearId/scriptures/lookup", h.Lookup)
}
