package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bdgscotland/openchart-styles/internal/search"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

// ApplyRequest carries an element's current style and the requested
// application mode.
// @Description Request body for applying a preset to an element style.
type ApplyRequest struct {
	Current models.ElementStyle    `json:"current"`
	Mode    models.ApplicationMode `json:"mode" example:"merge"`
}

// ApplyResponse is the merged style resulting from a preset application.
// @Description Response containing the merged element style.
type ApplyResponse struct {
	Style models.ElementStyle `json:"style"`
}

// FavoriteResponse reports a preset's favorite state after a toggle.
// @Description Response containing the new favorite state.
type FavoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

// FavoritesRequest replaces the favorites list wholesale.
// @Description Request body carrying the full ordered favorites list.
type FavoritesRequest struct {
	IDs []string `json:"ids"`
}

// BackupResponse identifies a freshly created backup.
// @Description Response containing the new backup's key.
type BackupResponse struct {
	Key string `json:"key"`
}

// ProblemDetail represents an RFC 7807 error response for catalog endpoints.
// @Description RFC 7807 Problem Details error response.
type ProblemDetail struct {
	Type   string `json:"type" example:"https://openchart.dev/problems/catalog-error"`
	Title  string `json:"title" example:"Bad Request"`
	Status int    `json:"status" example:"400"`
	Detail string `json:"detail" example:"a custom preset named \"Brand\" already exists"`
}

// Handler provides HTTP handlers for preset, collection, favorites, and
// settings endpoints.
type Handler struct {
	catalog *Catalog
	logger  *zap.Logger
}

// NewHandler creates a catalog Handler.
func NewHandler(c *Catalog, logger *zap.Logger) *Handler {
	return &Handler{catalog: c, logger: logger}
}

// RegisterRoutes registers catalog routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Literal paths before wildcards.
	mux.HandleFunc("GET /api/v1/presets/search", h.handleSearchPresets)
	mux.HandleFunc("GET /api/v1/presets", h.handleListPresets)
	mux.HandleFunc("POST /api/v1/presets", h.handleCreatePreset)
	mux.HandleFunc("GET /api/v1/presets/{id}", h.handleGetPreset)
	mux.HandleFunc("PUT /api/v1/presets/{id}", h.handleUpdatePreset)
	mux.HandleFunc("DELETE /api/v1/presets/{id}", h.handleDeletePreset)
	mux.HandleFunc("POST /api/v1/presets/{id}/apply", h.handleApplyPreset)
	mux.HandleFunc("POST /api/v1/presets/{id}/favorite", h.handleToggleFavorite)

	mux.HandleFunc("GET /api/v1/collections", h.handleListCollections)
	mux.HandleFunc("POST /api/v1/collections", h.handleCreateCollection)
	mux.HandleFunc("GET /api/v1/collections/{id}", h.handleGetCollection)
	mux.HandleFunc("PUT /api/v1/collections/{id}", h.handleUpdateCollection)
	mux.HandleFunc("DELETE /api/v1/collections/{id}", h.handleDeleteCollection)

	mux.HandleFunc("GET /api/v1/favorites", h.handleListFavorites)
	mux.HandleFunc("PUT /api/v1/favorites", h.handleSetFavorites)
	mux.HandleFunc("GET /api/v1/recent", h.handleListRecent)

	mux.HandleFunc("GET /api/v1/settings", h.handleGetSettings)
	mux.HandleFunc("PUT /api/v1/settings", h.handleUpdateSettings)

	mux.HandleFunc("GET /api/v1/backups", h.handleListBackups)
	mux.HandleFunc("POST /api/v1/backups", h.handleCreateBackup)
	mux.HandleFunc("POST /api/v1/backups/{key}/restore", h.handleRestoreBackup)
}

// handleListPresets returns all presets, built-in and custom.
//
//	@Summary		List presets
//	@Description	Get all style presets, built-in first.
//	@Tags			presets
//	@Produce		json
//	@Success		200	{array}	models.StylePreset	"List of presets"
//	@Router			/presets [get]
func (h *Handler) handleListPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.ListPresets(r.Context()))
}

// handleSearchPresets filters presets by query parameters.
//
//	@Summary		Search presets
//	@Description	Filter presets by term, category, tags, author, flags, and rating.
//	@Tags			presets
//	@Produce		json
//	@Param			q			query		string	false	"Search term (name, description, tags, category)"
//	@Param			category	query		string	false	"Exact category"
//	@Param			tags		query		string	false	"Comma-separated tags (all must match)"
//	@Param			author		query		string	false	"Author substring"
//	@Param			custom		query		bool	false	"Only custom (true) or built-in (false)"
//	@Param			shared		query		bool	false	"Only shared"
//	@Param			min_rating	query		number	false	"Minimum rating"
//	@Success		200			{array}		models.StylePreset	"Matching presets"
//	@Failure		400			{object}	ProblemDetail		"Invalid filter value"
//	@Router			/presets/search [get]
func (h *Handler) handleSearchPresets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := search.PresetFilters{
		SearchTerm: q.Get("q"),
		Author:     q.Get("author"),
	}

	if v := q.Get("category"); v != "" {
		cat := models.PresetCategory(v)
		filters.Category = &cat
	}
	if v := q.Get("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filters.Tags = append(filters.Tags, tag)
			}
		}
	}
	for name, dst := range map[string]**bool{"custom": &filters.IsCustom, "shared": &filters.IsShared} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				h.writeError(w, http.StatusBadRequest, "invalid boolean for "+name)
				return
			}
			*dst = &b
		}
	}
	if v := q.Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid min_rating")
			return
		}
		filters.MinRating = &f
	}

	writeJSON(w, http.StatusOK, h.catalog.SearchPresets(r.Context(), filters))
}

// handleGetPreset returns a single preset by id.
//
//	@Summary		Get preset
//	@Description	Get a preset by its id.
//	@Tags			presets
//	@Produce		json
//	@Param			id	path		string				true	"Preset id"
//	@Success		200	{object}	models.StylePreset	"Preset"
//	@Failure		404	{object}	ProblemDetail		"Preset not found"
//	@Router			/presets/{id} [get]
func (h *Handler) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetPreset(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeMapped(w, err, "get preset")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleCreatePreset creates a custom preset.
//
//	@Summary		Create preset
//	@Description	Create a new custom preset. Id and timestamps are assigned by the server.
//	@Tags			presets
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.StylePreset	true	"Preset to create"
//	@Success		201		{object}	models.StylePreset	"Created preset"
//	@Failure		400		{object}	ProblemDetail		"Validation error"
//	@Router			/presets [post]
func (h *Handler) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var p models.StylePreset
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.catalog.CreatePreset(r.Context(), p)
	if err != nil {
		h.writeMapped(w, err, "create preset")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdatePreset replaces a custom preset.
//
//	@Summary		Update preset
//	@Description	Update a custom preset. Built-in presets cannot be modified.
//	@Tags			presets
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Preset id"
//	@Param			request	body		models.StylePreset	true	"Replacement preset"
//	@Success		200		{object}	models.StylePreset	"Updated preset"
//	@Failure		400		{object}	ProblemDetail		"Validation error"
//	@Failure		403		{object}	ProblemDetail		"Built-in preset"
//	@Failure		404		{object}	ProblemDetail		"Preset not found"
//	@Router			/presets/{id} [put]
func (h *Handler) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	var p models.StylePreset
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = r.PathValue("id")

	updated, err := h.catalog.UpdatePreset(r.Context(), p)
	if err != nil {
		h.writeMapped(w, err, "update preset")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeletePreset deletes a custom preset.
//
//	@Summary		Delete preset
//	@Description	Delete a custom preset and purge references to it. Built-in presets cannot be deleted.
//	@Tags			presets
//	@Param			id	path	string	true	"Preset id"
//	@Success		204	"Preset deleted"
//	@Failure		403	{object}	ProblemDetail	"Built-in preset"
//	@Failure		404	{object}	ProblemDetail	"Preset not found"
//	@Router			/presets/{id} [delete]
func (h *Handler) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeletePreset(r.Context(), r.PathValue("id")); err != nil {
		h.writeMapped(w, err, "delete preset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleApplyPreset merges a preset into a current element style.
//
//	@Summary		Apply preset
//	@Description	Merge the preset into the supplied element style using the given mode.
//	@Tags			presets
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Preset id"
//	@Param			request	body		ApplyRequest	true	"Current style and mode"
//	@Success		200		{object}	ApplyResponse	"Merged style"
//	@Failure		400		{object}	ProblemDetail	"Invalid request"
//	@Failure		404		{object}	ProblemDetail	"Preset not found"
//	@Router			/presets/{id}/apply [post]
func (h *Handler) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	merged, err := h.catalog.ApplyPreset(r.Context(), req.Current, r.PathValue("id"), req.Mode)
	if err != nil {
		h.writeMapped(w, err, "apply preset")
		return
	}
	writeJSON(w, http.StatusOK, ApplyResponse{Style: merged})
}

// handleToggleFavorite flips a preset's favorite state.
//
//	@Summary		Toggle favorite
//	@Description	Mark or unmark a preset as a favorite.
//	@Tags			favorites
//	@Produce		json
//	@Param			id	path		string				true	"Preset id"
//	@Success		200	{object}	FavoriteResponse	"New favorite state"
//	@Failure		404	{object}	ProblemDetail		"Preset not found"
//	@Router			/presets/{id}/favorite [post]
func (h *Handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	on, err := h.catalog.ToggleFavorite(r.Context(), id)
	if err != nil {
		h.writeMapped(w, err, "toggle favorite")
		return
	}
	writeJSON(w, http.StatusOK, FavoriteResponse{ID: id, Favorite: on})
}

// handleListCollections returns all collections.
//
//	@Summary		List collections
//	@Tags			collections
//	@Produce		json
//	@Success		200	{array}	models.PresetCollection	"List of collections"
//	@Router			/collections [get]
func (h *Handler) handleListCollections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.ListCollections(r.Context()))
}

// handleGetCollection returns a single collection by id.
//
//	@Summary		Get collection
//	@Tags			collections
//	@Produce		json
//	@Param			id	path		string					true	"Collection id"
//	@Success		200	{object}	models.PresetCollection	"Collection"
//	@Failure		404	{object}	ProblemDetail			"Collection not found"
//	@Router			/collections/{id} [get]
func (h *Handler) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	col, err := h.catalog.GetCollection(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeMapped(w, err, "get collection")
		return
	}
	writeJSON(w, http.StatusOK, col)
}

// handleCreateCollection creates a collection.
//
//	@Summary		Create collection
//	@Tags			collections
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.PresetCollection	true	"Collection to create"
//	@Success		201		{object}	models.PresetCollection	"Created collection"
//	@Failure		400		{object}	ProblemDetail			"Validation error"
//	@Router			/collections [post]
func (h *Handler) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var col models.PresetCollection
	if err := json.NewDecoder(r.Body).Decode(&col); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.catalog.CreateCollection(r.Context(), col)
	if err != nil {
		h.writeMapped(w, err, "create collection")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateCollection replaces a collection.
//
//	@Summary		Update collection
//	@Tags			collections
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Collection id"
//	@Param			request	body		models.PresetCollection	true	"Replacement collection"
//	@Success		200		{object}	models.PresetCollection	"Updated collection"
//	@Failure		400		{object}	ProblemDetail			"Validation error"
//	@Failure		404		{object}	ProblemDetail			"Collection not found"
//	@Router			/collections/{id} [put]
func (h *Handler) handleUpdateCollection(w http.ResponseWriter, r *http.Request) {
	var col models.PresetCollection
	if err := json.NewDecoder(r.Body).Decode(&col); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	col.ID = r.PathValue("id")

	updated, err := h.catalog.UpdateCollection(r.Context(), col)
	if err != nil {
		h.writeMapped(w, err, "update collection")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteCollection deletes a collection.
//
//	@Summary		Delete collection
//	@Tags			collections
//	@Param			id	path	string	true	"Collection id"
//	@Success		204	"Collection deleted"
//	@Failure		404	{object}	ProblemDetail	"Collection not found"
//	@Router			/collections/{id} [delete]
func (h *Handler) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCollection(r.Context(), r.PathValue("id")); err != nil {
		h.writeMapped(w, err, "delete collection")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListFavorites returns the favorite presets in order.
//
//	@Summary		List favorites
//	@Tags			favorites
//	@Produce		json
//	@Success		200	{array}	models.StylePreset	"Favorite presets"
//	@Router			/favorites [get]
func (h *Handler) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.ListFavorites(r.Context()))
}

// handleSetFavorites replaces the favorites list.
//
//	@Summary		Set favorites
//	@Tags			favorites
//	@Accept			json
//	@Produce		json
//	@Param			request	body	FavoritesRequest	true	"Ordered preset ids"
//	@Success		204		"Favorites replaced"
//	@Failure		400		{object}	ProblemDetail	"Invalid request"
//	@Router			/favorites [put]
func (h *Handler) handleSetFavorites(w http.ResponseWriter, r *http.Request) {
	var req FavoritesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.catalog.SetFavorites(r.Context(), req.IDs); err != nil {
		h.writeMapped(w, err, "set favorites")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListRecent returns the recently applied presets, most recent first.
//
//	@Summary		List recently used
//	@Tags			favorites
//	@Produce		json
//	@Success		200	{array}	models.StylePreset	"Recently used presets"
//	@Router			/recent [get]
func (h *Handler) handleListRecent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.ListRecentlyUsed(r.Context()))
}

// handleGetSettings returns the store settings.
//
//	@Summary		Get settings
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	models.StoreSettings	"Current settings"
//	@Router			/settings [get]
func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.GetSettings(r.Context()))
}

// handleUpdateSettings replaces the store settings.
//
//	@Summary		Update settings
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.StoreSettings	true	"New settings"
//	@Success		200		{object}	models.StoreSettings	"Stored settings"
//	@Failure		400		{object}	ProblemDetail			"Validation error"
//	@Router			/settings [put]
func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var s models.StoreSettings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.catalog.UpdateSettings(r.Context(), s); err != nil {
		h.writeMapped(w, err, "update settings")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// handleListBackups lists available backups, newest first.
//
//	@Summary		List backups
//	@Tags			backups
//	@Produce		json
//	@Success		200	{array}		preset.BackupInfo	"Available backups"
//	@Failure		500	{object}	ProblemDetail		"Storage failure"
//	@Router			/backups [get]
func (h *Handler) handleListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.catalog.ListBackups(r.Context())
	if err != nil {
		h.writeMapped(w, err, "list backups")
		return
	}
	writeJSON(w, http.StatusOK, backups)
}

// handleCreateBackup snapshots the catalog state.
//
//	@Summary		Create backup
//	@Tags			backups
//	@Produce		json
//	@Success		201	{object}	BackupResponse	"Backup created"
//	@Failure		500	{object}	ProblemDetail	"Storage failure"
//	@Router			/backups [post]
func (h *Handler) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	key, err := h.catalog.CreateBackup(r.Context())
	if err != nil {
		h.writeMapped(w, err, "create backup")
		return
	}
	writeJSON(w, http.StatusCreated, BackupResponse{Key: key})
}

// handleRestoreBackup restores custom state from a backup.
//
//	@Summary		Restore backup
//	@Tags			backups
//	@Param			key	path	string	true	"Backup key"
//	@Success		204	"State restored"
//	@Failure		400	{object}	ProblemDetail	"Backup missing required fields"
//	@Failure		404	{object}	ProblemDetail	"Backup not found"
//	@Router			/backups/{key}/restore [post]
func (h *Handler) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.RestoreBackup(r.Context(), r.PathValue("key")); err != nil {
		h.writeMapped(w, err, "restore backup")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeMapped translates domain errors into problem responses.
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
		h.logger.Error("catalog request failed", zap.String("op", op), zap.Error(err))
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
		"type":   "https://openchart.dev/problems/catalog-error",
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
