// Package theme derives and validates theme color palettes.
package theme

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bdgscotland/openchart-styles/internal/catalog"
	"github.com/bdgscotland/openchart-styles/internal/colormath"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

// Fallbacks when a preset sample carries no usable color of a kind.
const (
	fallbackPrimary   = "#3b82f6"
	fallbackSecondary = "#64748b"
	fallbackText      = "#1f2937"
)

// Fixed palette entries. Background stays white so derived text colors can
// be checked for legibility against a known surface.
const (
	fixedBackground = "#ffffff"
	fixedSuccess    = "#10b981"
	fixedWarning    = "#f59e0b"
	fixedError      = "#ef4444"
)

// Neutral text colors picked by seed lightness during generation.
const (
	lightNeutral = "#f1f5f9"
	darkNeutral  = "#1f2937"
)

// minTextContrast is the WCAG AA threshold the text/background pair must meet.
const minTextContrast = 4.5

// Manager derives palettes from catalog samples and builds presets from
// themes.
type Manager struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewManager creates a theme Manager backed by the given catalog.
func NewManager(c *catalog.Catalog, logger *zap.Logger) *Manager {
	return &Manager{catalog: c, logger: logger}
}

// ExtractColorsFromPresets derives a palette from a preset sample. The most
// frequent fill becomes primary, the most frequent stroke secondary, and
// the most frequent text color becomes text; the accent hue sits 60 degrees
// from primary.
func ExtractColorsFromPresets(presets []models.StylePreset) models.ThemeColors {
	fills := make(map[string]int)
	strokes := make(map[string]int)
	texts := make(map[string]int)

	for _, p := range presets {
		tally(fills, p.Style.Fill)
		tally(strokes, p.Style.Stroke)
		tally(texts, p.Style.Color)
	}

	primary := modal(fills, fallbackPrimary)
	secondary := modal(strokes, fallbackSecondary)
	text := modal(texts, fallbackText)

	hsl := colormath.RGBAToHSLA(colormath.ParseColor(primary))
	accent := colormath.Hex(colormath.HSLAToRGBA(colormath.HSLA{
		H: math.Mod(hsl.H+60, 360),
		S: hsl.S,
		L: hsl.L,
		A: 1,
	}))

	return models.ThemeColors{
		Primary:    primary,
		Secondary:  secondary,
		Accent:     accent,
		Background: fixedBackground,
		Text:       text,
		Success:    fixedSuccess,
		Warning:    fixedWarning,
		Error:      fixedError,
	}
}

// GenerateColorPalette builds a palette from a single seed color. The
// secondary sits opposite the seed on the hue wheel; the accent a third of
// the way around. Text is a light or dark neutral depending on the seed's
// lightness.
func GenerateColorPalette(seed string) (models.ThemeColors, error) {
	rgba, err := colormath.Parse(seed)
	if err != nil {
		return models.ThemeColors{}, fmt.Errorf("seed color: %w", err)
	}
	hsl := colormath.RGBAToHSLA(rgba)

	secondary := colormath.Hex(colormath.HSLAToRGBA(colormath.HSLA{
		H: math.Mod(hsl.H+180, 360),
		S: hsl.S * 0.7,
		L: hsl.L * 0.8,
		A: 1,
	}))
	accent := colormath.Hex(colormath.HSLAToRGBA(colormath.HSLA{
		H: math.Mod(hsl.H+120, 360),
		S: hsl.S,
		L: math.Min(hsl.L*0.9, 1),
		A: 1,
	}))

	text := darkNeutral
	if hsl.L <= 0.5 {
		text = lightNeutral
	}

	return models.ThemeColors{
		Primary:    colormath.Hex(rgba),
		Secondary:  secondary,
		Accent:     accent,
		Background: fixedBackground,
		Text:       text,
		Success:    fixedSuccess,
		Warning:    fixedWarning,
		Error:      fixedError,
	}, nil
}

// ValidateThemeColors checks each palette entry for syntactic validity and
// the text/background pair for legibility. It returns one message per
// violation; an empty slice means the palette is sound.
func ValidateThemeColors(colors models.ThemeColors) []string {
	var errs []string

	entries := []struct {
		name  string
		value string
	}{
		{"primary", colors.Primary},
		{"secondary", colors.Secondary},
		{"accent", colors.Accent},
		{"background", colors.Background},
		{"text", colors.Text},
		{"success", colors.Success},
		{"warning", colors.Warning},
		{"error", colors.Error},
	}
	for _, e := range entries {
		if !colormath.Valid(e.value) {
			errs = append(errs, fmt.Sprintf("%s is not a valid color: %q", e.name, e.value))
		}
	}

	if colormath.Valid(colors.Text) && colormath.Valid(colors.Background) {
		ratio := colormath.ContrastRatio(
			colormath.ParseColor(colors.Text),
			colormath.ParseColor(colors.Background),
		)
		if ratio < minTextContrast {
			errs = append(errs, fmt.Sprintf(
				"text/background contrast %.2f is below %.1f", ratio, minTextContrast))
		}
	}

	return errs
}

// GeneratePresetFromTheme builds a preset whose style reflects the theme's
// palette and body typography.
func GeneratePresetFromTheme(theme models.StyleTheme, name string) models.StylePreset {
	style := models.ElementStyle{
		Fill:        models.String(theme.Colors.Primary),
		Stroke:      models.String(theme.Colors.Secondary),
		StrokeWidth: models.Float(2),
		Opacity:     models.Float(1),
		FontSize:    models.Float(14),
		Color:       models.String(theme.Colors.Text),
	}
	if theme.Typography.BodyFont != "" {
		style.FontFamily = models.String(theme.Typography.BodyFont)
	}

	if strings.TrimSpace(name) == "" {
		name = theme.Name + " Preset"
	}
	now := time.Now().UTC()
	return models.StylePreset{
		Name:        name,
		Description: "Generated from theme " + theme.Name,
		Style:       style,
		Category:    models.CategoryCustom,
		Tags:        []string{"generated", "theme"},
		Created:     now,
		Modified:    now,
		IsCustom:    true,
	}
}

// ExtractFromCatalog resolves preset ids through the catalog and derives a
// palette from them. With no ids the whole catalog is sampled.
func (m *Manager) ExtractFromCatalog(ctx context.Context, ids []string) (models.ThemeColors, error) {
	var sample []models.StylePreset
	if len(ids) == 0 {
		sample = m.catalog.ListPresets(ctx)
	} else {
		for _, id := range ids {
			p, err := m.catalog.GetPreset(ctx, id)
			if err != nil {
				return models.ThemeColors{}, err
			}
			sample = append(sample, p)
		}
	}
	return ExtractColorsFromPresets(sample), nil
}

// PresetFromTheme looks up the theme, builds its preset, and stores it in
// the catalog.
func (m *Manager) PresetFromTheme(ctx context.Context, themeID, name string) (models.StylePreset, error) {
	th, err := m.catalog.GetTheme(ctx, themeID)
	if err != nil {
		return models.StylePreset{}, err
	}

	p := GeneratePresetFromTheme(th, name)
	created, err := m.catalog.CreatePreset(ctx, p)
	if err != nil {
		return models.StylePreset{}, err
	}

	m.logger.Info("preset generated from theme",
		zap.String("theme", themeID),
		zap.String("preset", created.ID),
	)
	return created, nil
}

func tally(counts map[string]int, v *string) {
	if v == nil || *v == "" {
		return
	}
	counts[strings.ToLower(*v)]++
}

// modal returns the most frequent key, with ties broken lexicographically
// so extraction is deterministic.
func modal(counts map[string]int, fallback string) string {
	best := ""
	bestCount := 0
	for k, n := range counts {
		if n > bestCount || (n == bestCount && k < best) {
			best = k
			bestCount = n
		}
	}
	if best == "" {
		return fallback
	}
	return best
}
