package exchange

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bdgscotland/openchart-styles/internal/catalog"
	"github.com/bdgscotland/openchart-styles/internal/event"
	"github.com/bdgscotland/openchart-styles/internal/kvstore"
	"github.com/bdgscotland/openchart-styles/internal/preset"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

func testService(t *testing.T) (*Service, *catalog.Catalog) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := preset.NewStore(kvstore.NewMemory(), logger)
	cat := catalog.New(store, event.NewBus(logger), logger)
	return NewService(cat, []byte("test-signing-key"), "1.2.3", logger), cat
}

func mustCreate(t *testing.T, cat *catalog.Catalog, p models.StylePreset) models.StylePreset {
	t.Helper()
	created, err := cat.CreatePreset(context.Background(), p)
	require.NoError(t, err)
	return created
}

func TestExportPresets_EnvelopeShape(t *testing.T) {
	svc, cat := testService(t)
	ctx := context.Background()

	created := mustCreate(t, cat, models.StylePreset{
		Name:     "Envelope Me",
		Style:    models.ElementStyle{Fill: models.String("#112233")},
		Category: models.CategoryCustom,
	})

	env, err := svc.ExportPresets(ctx, []string{created.ID})
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", env.Version)
	assert.Equal(t, TypePreset, env.Type)
	assert.Equal(t, "openchart-styles", env.Metadata.Application)
	assert.Equal(t, "1.2.3", env.Metadata.Version)
	assert.False(t, env.Metadata.ExportedAt.IsZero())
	assert.Empty(t, env.Metadata.ShareToken, "no token without shared presets")

	var presets []models.StylePreset
	require.NoError(t, json.Unmarshal(env.Data, &presets))
	require.Len(t, presets, 1)
	assert.Equal(t, "Envelope Me", presets[0].Name)
}

func TestExportPresets_SharedBatchCarriesToken(t *testing.T) {
	svc, cat := testService(t)
	ctx := context.Background()

	created := mustCreate(t, cat, models.StylePreset{
		Name:     "Shared",
		Style:    models.ElementStyle{Fill: models.String("#112233")},
		Category: models.CategoryCustom,
		Author:   "dale",
		IsShared: true,
	})

	env, err := svc.ExportPresets(ctx, []string{created.ID})
	require.NoError(t, err)
	require.NotEmpty(t, env.Metadata.ShareToken)

	claims, err := svc.VerifyShareToken(env.Metadata.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, claims.PresetIDs)
	assert.Equal(t, "dale", claims.Author)
}

func TestVerifyShareToken_RejectsTampering(t *testing.T) {
	svc, _ := testService(t)

	token, err := svc.MintShareToken([]string{"p1"}, "dale")
	require.NoError(t, err)

	_, err = svc.VerifyShareToken(token + "x")
	assert.Error(t, err)

	other := NewService(nil, []byte("different-key"), "1.2.3", zaptest.NewLogger(t))
	_, err = other.VerifyShareToken(token)
	assert.Error(t, err)
}

func TestRenderCSS_FixedDeclarationOrder(t *testing.T) {
	presets := []models.StylePreset{{
		Name: "Full House",
		Style: models.ElementStyle{
			Fill:         models.String("#112233"),
			Stroke:       models.String("#445566"),
			StrokeWidth:  models.Float(2),
			Opacity:      models.Float(0.9),
			FontSize:     models.Float(14),
			FontFamily:   models.String("Arial, sans-serif"),
			FontWeight:   models.String("bold"),
			Color:        models.String("#ffffff"),
			CornerRadius: models.Float(8),
		},
	}}

	css := RenderCSS(presets)

	want := `.preset-full-house {
  background-color: #112233;
  border-color: #445566;
  border-width: 2px;
  opacity: 0.9;
  font-size: 14px;
  font-family: Arial, sans-serif;
  font-weight: bold;
  color: #ffffff;
  border-radius: 8px;
}
`
	assert.Equal(t, want, css)
}

func TestRenderCSS_SkipsAbsentFields(t *testing.T) {
	css := RenderCSS([]models.StylePreset{{
		Name:  "Sparse",
		Style: models.ElementStyle{Fill: models.String("#112233")},
	}})

	assert.Contains(t, css, "background-color: #112233;")
	assert.NotContains(t, css, "border-color")
	assert.NotContains(t, css, "font-size")
}

func TestRenderTokens(t *testing.T) {
	doc := RenderTokens([]models.StylePreset{{
		Name: "Tokened",
		Style: models.ElementStyle{
			Fill:       models.String("#112233"),
			Stroke:     models.String("#445566"),
			FontSize:   models.Float(14),
			FontFamily: models.String("Arial"),
		},
	}})

	fill, ok := doc.Colors["tokened-fill"]
	require.True(t, ok)
	assert.Equal(t, "#112233", fill.Value)
	assert.Equal(t, "color", fill.Type)

	stroke := doc.Colors["tokened-stroke"]
	assert.Equal(t, "#445566", stroke.Value)

	typ, ok := doc.Typography["tokened"]
	require.True(t, ok)
	assert.Equal(t, "typography", typ.Type)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Clean White", "clean-white"},
		{"  Spaced  Out  ", "spaced-out"},
		{"Ünïcode & Symbols!", "n-code-symbols"},
		{"already-slugged", "already-slugged"},
		{"123 Go", "123-go"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), "slug of %q", tt.in)
	}
}

func TestImportPresets_BareArray(t *testing.T) {
	svc, cat := testService(t)
	ctx := context.Background()

	payload := `[
		{"name": "Imported A", "style": {"fill": "#111111"}, "category": "custom", "tags": ["a"]},
		{"name": "Imported B", "style": {"stroke": "#222222"}, "category": "basic"}
	]`
	result, err := svc.ImportPresets(ctx, []byte(payload))
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	require.Len(t, result.Imported, 2)
	for _, p := range result.Imported {
		assert.NotEmpty(t, p.ID)
		assert.True(t, p.IsCustom)
		assert.False(t, p.IsShared)
		assert.False(t, p.Created.IsZero())
	}

	_, err = cat.GetPreset(ctx, result.Imported[0].ID)
	assert.NoError(t, err, "imported preset is retrievable from the catalog")
}

func TestImportPresets_PartialBatch(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	payload := `[
		{"name": "Good", "style": {"fill": "#111111"}, "category": "custom"},
		{"style": {"fill": "#222222"}},
		{"name": "No Style"},
		{"name": "Bad Color", "style": {"fill": "nope"}, "category": "custom"}
	]`
	result, err := svc.ImportPresets(ctx, []byte(payload))
	require.NoError(t, err)

	require.Len(t, result.Imported, 1)
	assert.Equal(t, "Good", result.Imported[0].Name)

	require.Len(t, result.Errors, 3)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Contains(t, result.Errors[0].Message, "name")
	assert.Equal(t, 2, result.Errors[1].Index)
	assert.Contains(t, result.Errors[1].Message, "style")
	assert.Equal(t, 3, result.Errors[2].Index)
}

func TestImportPresets_EnvelopeSchemaRejection(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.ImportPresets(context.Background(), []byte(`{"type": "preset"}`))
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.ImportPresets(context.Background(), []byte(`{not json`))
	assert.Error(t, err)

	_, err = svc.ImportPresets(context.Background(),
		[]byte(`{"version": "1.0.0", "type": "theme", "data": {}}`))
	assert.ErrorAs(t, err, &verr)
}

func TestRoundTrip_ExportThenImport(t *testing.T) {
	svc, cat := testService(t)
	ctx := context.Background()

	originals := []models.StylePreset{
		mustCreate(t, cat, models.StylePreset{
			Name:     "Round One",
			Style:    models.ElementStyle{Fill: models.String("#112233"), StrokeWidth: models.Float(3)},
			Category: models.CategoryCustom,
			Tags:     []string{"t1", "t2"},
		}),
		mustCreate(t, cat, models.StylePreset{
			Name:     "Round Two",
			Style:    models.ElementStyle{Stroke: models.String("#445566")},
			Category: models.CategoryBold,
			Tags:     []string{"loud"},
		}),
	}

	env, err := svc.ExportPresets(ctx, []string{originals[0].ID, originals[1].ID})
	require.NoError(t, err)
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	// Import into a fresh catalog, as a different user would.
	svc2, _ := testService(t)
	result, err := svc2.ImportPresets(ctx, raw)
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Imported, 2)

	for i, got := range result.Imported {
		want := originals[i]
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Style, got.Style)
		assert.Equal(t, want.Category, got.Category)
		assert.Equal(t, want.Tags, got.Tags)
		assert.NotEqual(t, want.ID, got.ID, "import assigns fresh ids")
	}
}

func TestImportPresets_CollectionEnvelope(t *testing.T) {
	svc, cat := testService(t)
	ctx := context.Background()

	p := mustCreate(t, cat, models.StylePreset{
		Name:     "In Collection",
		Style:    models.ElementStyle{Fill: models.String("#112233")},
		Category: models.CategoryCustom,
	})
	col, err := cat.CreateCollection(ctx, models.PresetCollection{
		Name:    "Kit",
		Presets: []models.StylePreset{p},
	})
	require.NoError(t, err)

	env, err := svc.ExportCollection(ctx, col.ID)
	require.NoError(t, err)
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	svc2, _ := testService(t)
	result, err := svc2.ImportPresets(ctx, raw)
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, "In Collection", result.Imported[0].Name)
}
