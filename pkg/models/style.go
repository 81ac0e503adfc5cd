package models

// ApplicationMode governs how a preset's fields combine with an element's
// current style when the preset is applied.
type ApplicationMode string

const (
	// ModeReplace discards the current style entirely.
	ModeReplace ApplicationMode = "replace"
	// ModeMerge overrides every field the preset defines.
	ModeMerge ApplicationMode = "merge"
	// ModeOverlay applies only preset fields that differ from the canonical defaults.
	ModeOverlay ApplicationMode = "overlay"
	// ModeSmart applies shape fields always and typography fields only for text-bearing elements.
	ModeSmart ApplicationMode = "smart"
)

// ValidApplicationModes is the set of recognized application mode strings.
var ValidApplicationModes = map[ApplicationMode]bool{
	ModeReplace: true,
	ModeMerge:   true,
	ModeOverlay: true,
	ModeSmart:   true,
}

// ElementStyle is the closed set of visual properties a diagram element can
// carry. Every field is optional; nil means "not specified". The canonical
// default for each field lives in the merge package's default table.
type ElementStyle struct {
	Fill         *string  `json:"fill,omitempty" example:"#3b82f6"`
	Stroke       *string  `json:"stroke,omitempty" example:"#1e40af"`
	StrokeWidth  *float64 `json:"strokeWidth,omitempty" example:"2"`
	Opacity      *float64 `json:"opacity,omitempty" example:"1"`
	FontSize     *float64 `json:"fontSize,omitempty" example:"14"`
	FontFamily   *string  `json:"fontFamily,omitempty" example:"Arial, sans-serif"`
	FontWeight   *string  `json:"fontWeight,omitempty" example:"bold"`
	FontStyle    *string  `json:"fontStyle,omitempty" example:"italic"`
	TextAlign    *string  `json:"textAlign,omitempty" example:"center"`
	Color        *string  `json:"color,omitempty" example:"#1f2937"`
	CornerRadius *float64 `json:"cornerRadius,omitempty" example:"4"`
}

// Clone returns a deep copy of the style. Mutating the copy never affects
// the original.
func (s ElementStyle) Clone() ElementStyle {
	out := ElementStyle{}
	out.Fill = cloneString(s.Fill)
	out.Stroke = cloneString(s.Stroke)
	out.StrokeWidth = cloneFloat(s.StrokeWidth)
	out.Opacity = cloneFloat(s.Opacity)
	out.FontSize = cloneFloat(s.FontSize)
	out.FontFamily = cloneString(s.FontFamily)
	out.FontWeight = cloneString(s.FontWeight)
	out.FontStyle = cloneString(s.FontStyle)
	out.TextAlign = cloneString(s.TextAlign)
	out.Color = cloneString(s.Color)
	out.CornerRadius = cloneFloat(s.CornerRadius)
	return out
}

// String returns a pointer to s. Convenience for building ElementStyle literals.
func String(s string) *string { return &s }

// Float returns a pointer to f. Convenience for building ElementStyle literals.
func Float(f float64) *float64 { return &f }

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
