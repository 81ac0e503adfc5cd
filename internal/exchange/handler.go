package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/bdgscotland/openchart-styles/pkg/models"
)

// Export formats.
const (
	FormatJSON   = "json"
	FormatCSS    = "css"
	FormatTokens = "tokens"
)

// maxImportBytes caps import payloads. Preset batches are small; anything
// bigger is a mistake.
const maxImportBytes = 4 << 20

// ExportRequest selects what to export and how.
// @Description Request body for exporting presets, a collection, or a theme.
type ExportRequest struct {
	Type   string   `json:"type" example:"preset"`
	IDs    []string `json:"ids"`
	Format string   `json:"format" example:"json"`
}

// ProblemDetail represents an RFC 7807 error response for exchange endpoints.
// @Description RFC 7807 Problem Details error response.
type ProblemDetail struct {
	Type   string `json:"type" example:"https://openchart.dev/problems/exchange-error"`
	Title  string `json:"title" example:"Bad Request"`
	Status int    `json:"status" example:"400"`
	Detail string `json:"detail" example:"unknown export format \"yaml\""`
}

// Handler provides HTTP handlers for import and export endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates an exchange Handler.
func NewHandler(s *Service, logger *zap.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

// RegisterRoutes registers exchange routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/export", h.handleExport)
	mux.HandleFunc("POST /api/v1/import", h.handleImport)
}

// handleExport serializes presets, a collection, or a theme.
//
//	@Summary		Export
//	@Description	Export presets (json, css, or tokens format), a collection, or a theme.
//	@Tags			exchange
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ExportRequest	true	"What to export"
//	@Success		200		{object}	Envelope		"Export envelope (json format)"
//	@Failure		400		{object}	ProblemDetail	"Unknown type or format"
//	@Failure		404		{object}	ProblemDetail	"Unknown id"
//	@Router			/export [post]
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Format == "" {
		req.Format = FormatJSON
	}

	switch req.Type {
	case TypePreset:
		h.exportPresets(w, r, req)
	case TypeCollection:
		if len(req.IDs) != 1 {
			h.writeError(w, http.StatusBadRequest, "collection export takes exactly one id")
			return
		}
		env, err := h.service.ExportCollection(r.Context(), req.IDs[0])
		if err != nil {
			h.writeMapped(w, err, "export collection")
			return
		}
		writeJSON(w, http.StatusOK, env)
	case TypeTheme:
		if len(req.IDs) != 1 {
			h.writeError(w, http.StatusBadRequest, "theme export takes exactly one id")
			return
		}
		env, err := h.service.ExportTheme(r.Context(), req.IDs[0])
		if err != nil {
			h.writeMapped(w, err, "export theme")
			return
		}
		writeJSON(w, http.StatusOK, env)
	default:
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown export type %q", req.Type))
	}
}

func (h *Handler) exportPresets(w http.ResponseWriter, r *http.Request, req ExportRequest) {
	switch req.Format {
	case FormatJSON:
		env, err := h.service.ExportPresets(r.Context(), req.IDs)
		if err != nil {
			h.writeMapped(w, err, "export presets")
			return
		}
		writeJSON(w, http.StatusOK, env)
	case FormatCSS:
		css, err := h.service.ExportCSS(r.Context(), req.IDs)
		if err != nil {
			h.writeMapped(w, err, "export css")
			return
		}
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write([]byte(css))
	case FormatTokens:
		doc, err := h.service.ExportTokens(r.Context(), req.IDs)
		if err != nil {
			h.writeMapped(w, err, "export tokens")
			return
		}
		writeJSON(w, http.StatusOK, doc)
	default:
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", req.Format))
	}
}

// handleImport imports presets from a bare array or an export envelope.
//
//	@Summary		Import
//	@Description	Import presets. Valid records are imported even when others in the batch fail.
//	@Tags			exchange
//	@Accept			json
//	@Produce		json
//	@Param			request	body		[]models.StylePreset	true	"Bare preset array or export envelope"
//	@Success		200		{object}	ImportResult			"Imported presets and per-record errors"
//	@Failure		400		{object}	ProblemDetail			"Malformed payload"
//	@Router			/import [post]
func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "read import payload: "+err.Error())
		return
	}

	result, err := h.service.ImportPresets(r.Context(), raw)
	if err != nil {
		h.writeMapped(w, err, "import presets")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeMapped(w http.ResponseWriter, err error, op string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, models.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("exchange request failed", zap.String("op", op), zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
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
		"type":   "https://openchart.dev/problems/exchange-error",
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
