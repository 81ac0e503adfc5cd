// Package merge computes merged element styles from a current style, a
// preset style, and an application mode. All functions are pure and total.
package merge

import (
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

// Canonical default values for every style field. Overlay mode treats a
// preset field equal to its default as "not actually specified".
const (
	DefaultFill         = "#ffffff"
	DefaultStroke       = "#000000"
	DefaultStrokeWidth  = 2.0
	DefaultOpacity      = 1.0
	DefaultFontSize     = 14.0
	DefaultFontFamily   = "Arial, sans-serif"
	DefaultFontWeight   = "normal"
	DefaultFontStyle    = "normal"
	DefaultTextAlign    = "center"
	DefaultCornerRadius = 0.0
)

// DefaultStyle returns an ElementStyle with every field set to its canonical
// default.
func DefaultStyle() models.ElementStyle {
	return models.ElementStyle{
		Fill:         models.String(DefaultFill),
		Stroke:       models.String(DefaultStroke),
		StrokeWidth:  models.Float(DefaultStrokeWidth),
		Opacity:      models.Float(DefaultOpacity),
		FontSize:     models.Float(DefaultFontSize),
		FontFamily:   models.String(DefaultFontFamily),
		FontWeight:   models.String(DefaultFontWeight),
		FontStyle:    models.String(DefaultFontStyle),
		TextAlign:    models.String(DefaultTextAlign),
		CornerRadius: models.Float(DefaultCornerRadius),
	}
}

// MergeStyle combines the preset style with the current style under the
// given application mode. Unknown modes behave like merge.
func MergeStyle(current, preset models.ElementStyle, mode models.ApplicationMode) models.ElementStyle {
	switch mode {
	case models.ModeReplace:
		return preset.Clone()
	case models.ModeOverlay:
		return overlay(current, preset)
	case models.ModeSmart:
		return smart(current, preset)
	default:
		return shallowMerge(current, preset)
	}
}

// shallowMerge overrides every field the preset defines; absent preset
// fields retain the current value.
func shallowMerge(current, preset models.ElementStyle) models.ElementStyle {
	out := current.Clone()
	p := preset.Clone()

	if p.Fill != nil {
		out.Fill = p.Fill
	}
	if p.Stroke != nil {
		out.Stroke = p.Stroke
	}
	if p.StrokeWidth != nil {
		out.StrokeWidth = p.StrokeWidth
	}
	if p.Opacity != nil {
		out.Opacity = p.Opacity
	}
	if p.FontSize != nil {
		out.FontSize = p.FontSize
	}
	if p.FontFamily != nil {
		out.FontFamily = p.FontFamily
	}
	if p.FontWeight != nil {
		out.FontWeight = p.FontWeight
	}
	if p.FontStyle != nil {
		out.FontStyle = p.FontStyle
	}
	if p.TextAlign != nil {
		out.TextAlign = p.TextAlign
	}
	if p.Color != nil {
		out.Color = p.Color
	}
	if p.CornerRadius != nil {
		out.CornerRadius = p.CornerRadius
	}
	return out
}

// overlay behaves like merge, but a preset field is applied only when its
// value differs from the canonical default for that field. A preset value
// equal to the default is left untouched, even if the preset author did mean
// to set it; the comparison is against the global table, not the current
// style.
func overlay(current, preset models.ElementStyle) models.ElementStyle {
	out := current.Clone()
	p := preset.Clone()

	if p.Fill != nil && *p.Fill != DefaultFill {
		out.Fill = p.Fill
	}
	if p.Stroke != nil && *p.Stroke != DefaultStroke {
		out.Stroke = p.Stroke
	}
	if p.StrokeWidth != nil && *p.StrokeWidth != DefaultStrokeWidth {
		out.StrokeWidth = p.StrokeWidth
	}
	if p.Opacity != nil && *p.Opacity != DefaultOpacity {
		out.Opacity = p.Opacity
	}
	if p.FontSize != nil && *p.FontSize != DefaultFontSize {
		out.FontSize = p.FontSize
	}
	if p.FontFamily != nil && *p.FontFamily != DefaultFontFamily {
		out.FontFamily = p.FontFamily
	}
	if p.FontWeight != nil && *p.FontWeight != DefaultFontWeight {
		out.FontWeight = p.FontWeight
	}
	if p.FontStyle != nil && *p.FontStyle != DefaultFontStyle {
		out.FontStyle = p.FontStyle
	}
	if p.TextAlign != nil && *p.TextAlign != DefaultTextAlign {
		out.TextAlign = p.TextAlign
	}
	if p.Color != nil {
		// Color has no canonical default; always applied when present.
		out.Color = p.Color
	}
	if p.CornerRadius != nil && *p.CornerRadius != DefaultCornerRadius {
		out.CornerRadius = p.CornerRadius
	}
	return out
}

// smart always applies shape fields (fill, stroke, strokeWidth, opacity,
// cornerRadius) when the preset defines them, and applies typography fields
// only when the element already participates in text styling: either the
// current style has a fontSize or the preset defines one.
func smart(current, preset models.ElementStyle) models.ElementStyle {
	out := current.Clone()
	p := preset.Clone()

	if p.Fill != nil {
		out.Fill = p.Fill
	}
	if p.Stroke != nil {
		out.Stroke = p.Stroke
	}
	if p.StrokeWidth != nil {
		out.StrokeWidth = p.StrokeWidth
	}
	if p.Opacity != nil {
		out.Opacity = p.Opacity
	}
	if p.CornerRadius != nil {
		out.CornerRadius = p.CornerRadius
	}

	textual := current.FontSize != nil || p.FontSize != nil
	if !textual {
		return out
	}

	if p.FontSize != nil {
		out.FontSize = p.FontSize
	}
	if p.FontFamily != nil {
		out.FontFamily = p.FontFamily
	}
	if p.FontWeight != nil {
		out.FontWeight = p.FontWeight
	}
	if p.FontStyle != nil {
		out.FontStyle = p.FontStyle
	}
	if p.TextAlign != nil {
		out.TextAlign = p.TextAlign
	}
	if p.Color != nil {
		out.Color = p.Color
	}
	return out
}
