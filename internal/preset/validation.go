package preset

import (
	"fmt"
	"strings"

	"github.com/bdgscotland/openchart-styles/internal/colormath"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

const maxNameLen = 255

// Soft-warning ranges. Values outside these bounds are accepted but flagged.
const (
	maxReasonableStrokeWidth  = 50.0
	maxReasonableFontSize     = 200.0
	maxReasonableCornerRadius = 100.0
)

// ValidatePreset checks a preset for hard errors (aggregated into a single
// ValidationError) and soft warnings. Hard errors: missing name/style/
// category, unknown category, opacity outside [0,1], malformed color
// strings, rating outside [0,5]. Soft warnings cover implausible but legal
// numeric ranges.
func ValidatePreset(p *models.StylePreset) (warnings []string, err error) {
	var problems []string

	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "name is required")
	} else if len(p.Name) > maxNameLen {
		problems = append(problems, fmt.Sprintf("name exceeds %d characters", maxNameLen))
	}

	if styleEmpty(&p.Style) {
		problems = append(problems, "style must define at least one property")
	}

	if p.Category == "" {
		problems = append(problems, "category is required")
	} else if !models.ValidCategories[p.Category] {
		problems = append(problems, fmt.Sprintf("unknown category %q", p.Category))
	}

	problems = append(problems, validateStyle(&p.Style)...)

	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		problems = append(problems, fmt.Sprintf("rating %v outside [0, 5]", *p.Rating))
	}

	warnings = styleWarnings(&p.Style)
	return warnings, models.NewValidationError(problems)
}

// validateStyle returns hard errors for out-of-range or malformed style values.
func validateStyle(s *models.ElementStyle) []string {
	var problems []string

	if s.Opacity != nil && (*s.Opacity < 0 || *s.Opacity > 1) {
		problems = append(problems, fmt.Sprintf("opacity %v outside [0, 1]", *s.Opacity))
	}

	for field, v := range map[string]*string{
		"fill":   s.Fill,
		"stroke": s.Stroke,
		"color":  s.Color,
	} {
		if v != nil && !colormath.Valid(*v) {
			problems = append(problems, fmt.Sprintf("%s is not a valid color: %q", field, *v))
		}
	}

	if s.StrokeWidth != nil && *s.StrokeWidth < 0 {
		problems = append(problems, "strokeWidth must not be negative")
	}
	if s.FontSize != nil && *s.FontSize <= 0 {
		problems = append(problems, "fontSize must be positive")
	}
	if s.CornerRadius != nil && *s.CornerRadius < 0 {
		problems = append(problems, "cornerRadius must not be negative")
	}

	return problems
}

// styleWarnings returns soft warnings for legal but implausible values.
func styleWarnings(s *models.ElementStyle) []string {
	var warnings []string
	if s.StrokeWidth != nil && *s.StrokeWidth > maxReasonableStrokeWidth {
		warnings = append(warnings, fmt.Sprintf("strokeWidth %v is unusually large", *s.StrokeWidth))
	}
	if s.FontSize != nil && *s.FontSize > maxReasonableFontSize {
		warnings = append(warnings, fmt.Sprintf("fontSize %v is unusually large", *s.FontSize))
	}
	if s.CornerRadius != nil && *s.CornerRadius > maxReasonableCornerRadius {
		warnings = append(warnings, fmt.Sprintf("cornerRadius %v is unusually large", *s.CornerRadius))
	}
	return warnings
}

func styleEmpty(s *models.ElementStyle) bool {
	return s.Fill == nil && s.Stroke == nil && s.StrokeWidth == nil &&
		s.Opacity == nil && s.FontSize == nil && s.FontFamily == nil &&
		s.FontWeight == nil && s.FontStyle == nil && s.TextAlign == nil &&
		s.Color == nil && s.CornerRadius == nil
}

// ValidateCollection checks a collection for hard errors.
func ValidateCollection(c *models.PresetCollection) error {
	var problems []string
	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, "name is required")
	} else if len(c.Name) > maxNameLen {
		problems = append(problems, fmt.Sprintf("name exceeds %d characters", maxNameLen))
	}
	return models.NewValidationError(problems)
}

// ValidateTheme checks a theme for hard errors: missing name and
// syntactically invalid palette colors.
func ValidateTheme(t *models.StyleTheme) error {
	var problems []string
	if strings.TrimSpace(t.Name) == "" {
		problems = append(problems, "name is required")
	}

	for field, v := range map[string]string{
		"primary":    t.Colors.Primary,
		"secondary":  t.Colors.Secondary,
		"accent":     t.Colors.Accent,
		"background": t.Colors.Background,
		"text":       t.Colors.Text,
		"success":    t.Colors.Success,
		"warning":    t.Colors.Warning,
		"error":      t.Colors.Error,
	} {
		if v != "" && !colormath.Valid(v) {
			problems = append(problems, fmt.Sprintf("colors.%s is not a valid color: %q", field, v))
		}
	}

	return models.NewValidationError(problems)
}
