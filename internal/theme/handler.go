package theme

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bdgscotland/openchart-styles/internal/catalog"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

// GenerateRequest carries the seed color for palette generation.
// @Description Request body for generating a palette from a seed color.
type GenerateRequest struct {
	Seed string `json:"seed" example:"#3b82f6"`
}

// ExtractRequest names the presets to sample for palette extraction. An
// empty list samples the whole catalog.
// @Description Request body for extracting a palette from presets.
type ExtractRequest struct {
	PresetIDs []string `json:"presetIds"`
}

// PaletteResponse wraps a derived palette with its validation findings.
// @Description Response containing a palette and any accessibility problems.
type PaletteResponse struct {
	Colors   models.ThemeColors `json:"colors"`
	Problems []string           `json:"problems,omitempty"`
}

// CurrentThemeRequest selects the active theme.
// @Description Request body for setting the active theme.
type CurrentThemeRequest struct {
	ID string `json:"id" example:"builtin-openchart-light"`
}

// PresetFromThemeRequest names the preset generated from a theme.
// @Description Request body for generating a preset from a theme.
type PresetFromThemeRequest struct {
	Name string `json:"name" example:"Brand Base"`
}

// ProblemDetail represents an RFC 7807 error response for theme endpoints.
// @Description RFC 7807 Problem Details error response.
type ProblemDetail struct {
	Type   string `json:"type" example:"https://openchart.dev/problems/theme-error"`
	Title  string `json:"title" example:"Not Found"`
	Status int    `json:"status" example:"404"`
	Detail string `json:"detail" example:"theme \"nope\": not found"`
}

// Handler provides HTTP handlers for theme endpoints.
type Handler struct {
	manager *Manager
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewHandler creates a theme Handler.
func NewHandler(m *Manager, c *catalog.Catalog, logger *zap.Logger) *Handler {
	return &Handler{manager: m, catalog: c, logger: logger}
}

// RegisterRoutes registers theme routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Literal paths before wildcards.
	mux.HandleFunc("GET /api/v1/themes/current", h.handleGetCurrent)
	mux.HandleFunc("PUT /api/v1/themes/current", h.handleSetCurrent)
	mux.HandleFunc("POST /api/v1/themes/generate", h.handleGenerate)
	mux.HandleFunc("POST /api/v1/themes/extract", h.handleExtract)
	mux.HandleFunc("GET /api/v1/themes", h.handleList)
	mux.HandleFunc("POST /api/v1/themes", h.handleCreate)
	mux.HandleFunc("GET /api/v1/themes/{id}", h.handleGet)
	mux.HandleFunc("PUT /api/v1/themes/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/v1/themes/{id}", h.handleDelete)
	mux.HandleFunc("POST /api/v1/themes/{id}/preset", h.handlePresetFromTheme)
}

// handleList returns all themes, built-in and custom.
//
//	@Summary		List themes
//	@Tags			themes
//	@Produce		json
//	@Success		200	{array}	models.StyleTheme	"List of themes"
//	@Router			/themes [get]
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.ListThemes(r.Context()))
}

// handleGet returns a single theme by id.
//
//	@Summary		Get theme
//	@Tags			themes
//	@Produce		json
//	@Param			id	path		string				true	"Theme id"
//	@Success		200	{object}	models.StyleTheme	"Theme"
//	@Failure		404	{object}	ProblemDetail		"Theme not found"
//	@Router			/themes/{id} [get]
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	th, err := h.catalog.GetTheme(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeMapped(w, err, "get theme")
		return
	}
	writeJSON(w, http.StatusOK, th)
}

// handleCreate creates a custom theme.
//
//	@Summary		Create theme
//	@Tags			themes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.StyleTheme	true	"Theme to create"
//	@Success		201		{object}	models.StyleTheme	"Created theme"
//	@Failure		400		{object}	ProblemDetail		"Validation error"
//	@Router			/themes [post]
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var th models.StyleTheme
	if err := json.NewDecoder(r.Body).Decode(&th); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.catalog.CreateTheme(r.Context(), th)
	if err != nil {
		h.writeMapped(w, err, "create theme")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdate replaces a custom theme.
//
//	@Summary		Update theme
//	@Description	Update a custom theme. Built-in themes cannot be modified.
//	@Tags			themes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Theme id"
//	@Param			request	body		models.StyleTheme	true	"Replacement theme"
//	@Success		200		{object}	models.StyleTheme	"Updated theme"
//	@Failure		403		{object}	ProblemDetail		"Built-in theme"
//	@Failure		404		{object}	ProblemDetail		"Theme not found"
//	@Router			/themes/{id} [put]
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var th models.StyleTheme
	if err := json.NewDecoder(r.Body).Decode(&th); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	th.ID = r.PathValue("id")

	updated, err := h.catalog.UpdateTheme(r.Context(), th)
	if err != nil {
		h.writeMapped(w, err, "update theme")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDelete deletes a custom theme.
//
//	@Summary		Delete theme
//	@Description	Delete a custom theme. Built-in themes cannot be deleted.
//	@Tags			themes
//	@Param			id	path	string	true	"Theme id"
//	@Success		204	"Theme deleted"
//	@Failure		403	{object}	ProblemDetail	"Built-in theme"
//	@Failure		404	{object}	ProblemDetail	"Theme not found"
//	@Router			/themes/{id} [delete]
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteTheme(r.Context(), r.PathValue("id")); err != nil {
		h.writeMapped(w, err, "delete theme")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetCurrent returns the active theme.
//
//	@Summary		Get active theme
//	@Tags			themes
//	@Produce		json
//	@Success		200	{object}	models.StyleTheme	"Active theme"
//	@Router			/themes/current [get]
func (h *Handler) handleGetCurrent(w http.ResponseWriter, r *http.Request) {
	th, err := h.catalog.CurrentTheme(r.Context())
	if err != nil {
		h.writeMapped(w, err, "get current theme")
		return
	}
	writeJSON(w, http.StatusOK, th)
}

// handleSetCurrent activates a theme.
//
//	@Summary		Set active theme
//	@Tags			themes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CurrentThemeRequest	true	"Theme to activate"
//	@Success		200		{object}	models.StyleTheme	"Activated theme"
//	@Failure		404		{object}	ProblemDetail		"Theme not found"
//	@Router			/themes/current [put]
func (h *Handler) handleSetCurrent(w http.ResponseWriter, r *http.Request) {
	var req CurrentThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalog.SetCurrentTheme(r.Context(), req.ID); err != nil {
		h.writeMapped(w, err, "set current theme")
		return
	}

	th, err := h.catalog.GetTheme(r.Context(), req.ID)
	if err != nil {
		h.writeMapped(w, err, "set current theme")
		return
	}
	writeJSON(w, http.StatusOK, th)
}

// handleGenerate derives a palette from a seed color.
//
//	@Summary		Generate palette
//	@Description	Derive a full palette from a single seed color.
//	@Tags			themes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GenerateRequest	true	"Seed color"
//	@Success		200		{object}	PaletteResponse	"Derived palette"
//	@Failure		400		{object}	ProblemDetail	"Invalid seed color"
//	@Router			/themes/generate [post]
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	colors, err := GenerateColorPalette(req.Seed)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, PaletteResponse{
		Colors:   colors,
		Problems: ValidateThemeColors(colors),
	})
}

// handleExtract derives a palette from stored presets.
//
//	@Summary		Extract palette
//	@Description	Derive a palette from the named presets, or from the whole catalog.
//	@Tags			themes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ExtractRequest	true	"Preset ids to sample"
//	@Success		200		{object}	PaletteResponse	"Derived palette"
//	@Failure		404		{object}	ProblemDetail	"Unknown preset id"
//	@Router			/themes/extract [post]
func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	colors, err := h.manager.ExtractFromCatalog(r.Context(), req.PresetIDs)
	if err != nil {
		h.writeMapped(w, err, "extract palette")
		return
	}

	writeJSON(w, http.StatusOK, PaletteResponse{
		Colors:   colors,
		Problems: ValidateThemeColors(colors),
	})
}

// handlePresetFromTheme builds and stores a preset from a theme.
//
//	@Summary		Generate preset from theme
//	@Tags			themes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Theme id"
//	@Param			request	body		PresetFromThemeRequest	true	"Preset name"
//	@Success		201		{object}	models.StylePreset		"Created preset"
//	@Failure		404		{object}	ProblemDetail			"Theme not found"
//	@Router			/themes/{id}/preset [post]
func (h *Handler) handlePresetFromTheme(w http.ResponseWriter, r *http.Request) {
	var req PresetFromThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.manager.PresetFromTheme(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		h.writeMapped(w, err, "preset from theme")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) writeMapped(w http.ResponseWriter, err error, op string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, models.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrImmutable):
		h.writeError(w, http.StatusForbidden, err.Error())
	default:
		h.logger.Error("theme request failed", zap.String("op", op), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an RFC 7807 problem response.
func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://openchart.dev/problems/theme-error",
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
