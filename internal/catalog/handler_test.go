package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/bdgscotland/openchart-styles/internal/event"
	"github.com/bdgscotland/openchart-styles/internal/kvstore"
	"github.com/bdgscotland/openchart-styles/internal/preset"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

func newTestMux(t *testing.T) (*http.ServeMux, *Catalog) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := preset.NewStore(kvstore.NewMemory(), logger)
	cat := New(store, event.NewBus(logger), logger)

	mux := http.NewServeMux()
	NewHandler(cat, logger).RegisterRoutes(mux)
	return mux, cat
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleListPresets(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/presets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var presets []models.StylePreset
	if err := json.NewDecoder(rec.Body).Decode(&presets); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(presets) == 0 {
		t.Error("expected built-in presets in a fresh catalog")
	}
}

func TestHandleCreatePreset_Lifecycle(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/presets", models.StylePreset{
		Name:     "Handler Test",
		Style:    models.ElementStyle{Fill: models.String("#123456")},
		Category: models.CategoryCustom,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created models.StylePreset
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected server-assigned id")
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/presets/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 on get, got %d", rec.Code)
	}

	created.Description = "updated"
	rec = doJSON(t, mux, http.MethodPut, "/api/v1/presets/"+created.ID, created)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 on update, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/v1/presets/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204 on delete, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/presets/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", rec.Code)
	}
}

func TestHandleCreatePreset_ValidationProblem(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/presets", models.StylePreset{
		Style:    models.ElementStyle{Opacity: models.Float(2)},
		Category: "bogus",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem content type, got %q", ct)
	}
}

func TestHandleUpdatePreset_BuiltInForbidden(t *testing.T) {
	mux, cat := newTestMux(t)

	id := cat.ListPresets(t.Context())[0].ID
	rec := doJSON(t, mux, http.MethodPut, "/api/v1/presets/"+id, models.StylePreset{
		Name:     "Hijack",
		Style:    models.ElementStyle{Fill: models.String("#000000")},
		Category: models.CategoryBasic,
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/v1/presets/"+id, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403 on delete, got %d", rec.Code)
	}
}

func TestHandleApplyPreset(t *testing.T) {
	mux, cat := newTestMux(t)

	created, err := cat.CreatePreset(t.Context(), models.StylePreset{
		Name:     "Apply Me",
		Style:    models.ElementStyle{Fill: models.String("#112233")},
		Category: models.CategoryCustom,
	})
	if err != nil {
		t.Fatalf("create preset: %v", err)
	}

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/presets/"+created.ID+"/apply", ApplyRequest{
		Current: models.ElementStyle{Opacity: models.Float(0.5)},
		Mode:    models.ModeMerge,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ApplyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Style.Fill == nil || *resp.Style.Fill != "#112233" {
		t.Errorf("expected merged fill #112233, got %v", resp.Style.Fill)
	}
	if resp.Style.Opacity == nil || *resp.Style.Opacity != 0.5 {
		t.Errorf("expected current opacity preserved, got %v", resp.Style.Opacity)
	}
}

func TestHandleSearchPresets(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/presets/search?category=professional", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var presets []models.StylePreset
	if err := json.NewDecoder(rec.Body).Decode(&presets); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(presets) == 0 {
		t.Fatal("expected professional built-ins")
	}
	for _, p := range presets {
		if p.Category != models.CategoryProfessional {
			t.Errorf("preset %q has category %q", p.Name, p.Category)
		}
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/presets/search?custom=maybe", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for bad boolean, got %d", rec.Code)
	}
}

func TestHandleFavoritesAndRecent(t *testing.T) {
	mux, cat := newTestMux(t)

	id := cat.ListPresets(t.Context())[0].ID

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/presets/"+id+"/favorite", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var fav FavoriteResponse
	if err := json.NewDecoder(rec.Body).Decode(&fav); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !fav.Favorite {
		t.Error("expected favorite=true after first toggle")
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/favorites", nil)
	var favorites []models.StylePreset
	if err := json.NewDecoder(rec.Body).Decode(&favorites); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(favorites) != 1 || favorites[0].ID != id {
		t.Errorf("expected the toggled preset in favorites, got %v", favorites)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/v1/presets/"+id+"/apply", ApplyRequest{Mode: models.ModeMerge})
	if rec.Code != http.StatusOK {
		t.Fatalf("apply failed: %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/recent", nil)
	var recent []models.StylePreset
	if err := json.NewDecoder(rec.Body).Decode(&recent); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != id {
		t.Errorf("expected the applied preset in recent, got %v", recent)
	}
}

func TestHandleSettings(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/settings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var settings models.StoreSettings
	if err := json.NewDecoder(rec.Body).Decode(&settings); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if settings.MaxRecentlyUsed != 10 {
		t.Errorf("expected default max recently used 10, got %d", settings.MaxRecentlyUsed)
	}

	settings.MaxRecentlyUsed = 4
	rec = doJSON(t, mux, http.MethodPut, "/api/v1/settings", settings)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	settings.MaxRecentlyUsed = 0
	rec = doJSON(t, mux, http.MethodPut, "/api/v1/settings", settings)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for invalid settings, got %d", rec.Code)
	}
}

func TestHandleBackups(t *testing.T) {
	mux, cat := newTestMux(t)

	created, err := cat.CreatePreset(t.Context(), models.StylePreset{
		Name:     "Backed Up",
		Style:    models.ElementStyle{Fill: models.String("#abcdef")},
		Category: models.CategoryCustom,
	})
	if err != nil {
		t.Fatalf("create preset: %v", err)
	}

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/backups", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	var backup BackupResponse
	if err := json.NewDecoder(rec.Body).Decode(&backup); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if err := cat.DeletePreset(t.Context(), created.ID); err != nil {
		t.Fatalf("delete preset: %v", err)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/v1/backups/"+backup.Key+"/restore", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 on restore, got %d: %s", rec.Code, rec.Body.String())
	}

	if _, err := cat.GetPreset(t.Context(), created.ID); err != nil {
		t.Errorf("expected preset back after restore, got %v", err)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/v1/backups/backup:nope/restore", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown backup, got %d", rec.Code)
	}
}
