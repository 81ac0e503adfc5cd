// Package testutil provides test fixtures for the catalog data model.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/bdgscotland/openchart-styles/pkg/models"
)

// NewPreset returns a StylePreset with sensible defaults, suitable for test
// fixtures. Override individual fields through options or after creation.
func NewPreset(opts ...func(*models.StylePreset)) models.StylePreset {
	p := models.StylePreset{
		ID:   uuid.New().String(),
		Name: "Test Preset",
		Style: models.ElementStyle{
			Fill:        models.String("#3b82f6"),
			Stroke:      models.String("#1e40af"),
			StrokeWidth: models.Float(2),
			Opacity:     models.Float(1),
		},
		Category: models.CategoryCustom,
		Tags:     []string{"test"},
		Created:  time.Now().UTC(),
		Modified: time.Now().UTC(),
		IsCustom: true,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithName sets the preset name.
func WithName(name string) func(*models.StylePreset) {
	return func(p *models.StylePreset) { p.Name = name }
}

// WithCategory sets the preset category.
func WithCategory(c models.PresetCategory) func(*models.StylePreset) {
	return func(p *models.StylePreset) { p.Category = c }
}

// WithTags sets the preset's tag list.
func WithTags(tags ...string) func(*models.StylePreset) {
	return func(p *models.StylePreset) { p.Tags = tags }
}

// WithFill sets the preset's fill color.
func WithFill(hex string) func(*models.StylePreset) {
	return func(p *models.StylePreset) { p.Style.Fill = models.String(hex) }
}

// WithAuthor sets the preset author.
func WithAuthor(author string) func(*models.StylePreset) {
	return func(p *models.StylePreset) { p.Author = author }
}

// WithShared marks the preset as shared.
func WithShared() func(*models.StylePreset) {
	return func(p *models.StylePreset) { p.IsShared = true }
}

// NewTheme returns a StyleTheme with a complete light palette.
func NewTheme(opts ...func(*models.StyleTheme)) models.StyleTheme {
	t := models.StyleTheme{
		ID:   uuid.New().String(),
		Name: "Test Theme",
		Colors: models.ThemeColors{
			Primary:    "#3b82f6",
			Secondary:  "#64748b",
			Accent:     "#8b5cf6",
			Background: "#ffffff",
			Text:       "#1f2937",
			Success:    "#10b981",
			Warning:    "#f59e0b",
			Error:      "#ef4444",
		},
		Typography: models.ThemeTypography{
			HeadingFont: "Inter, sans-serif",
			BodyFont:    "Inter, sans-serif",
			MonoFont:    "JetBrains Mono, monospace",
		},
		Created: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// WithThemeName sets the theme name.
func WithThemeName(name string) func(*models.StyleTheme) {
	return func(t *models.StyleTheme) { t.Name = name }
}

// WithPrimary sets the theme's primary color.
func WithPrimary(hex string) func(*models.StyleTheme) {
	return func(t *models.StyleTheme) { t.Colors.Primary = hex }
}

// NewCollection returns a PresetCollection embedding the given presets.
func NewCollection(presets ...models.StylePreset) models.PresetCollection {
	return models.PresetCollection{
		ID:      uuid.New().String(),
		Name:    "Test Collection",
		Presets: presets,
		Created: time.Now().UTC(),
	}
}
