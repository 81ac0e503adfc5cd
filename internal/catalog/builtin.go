package catalog

import (
	"time"

	"github.com/bdgscotland/openchart-styles/pkg/models"
)

// seedTime stamps built-in records so their timestamps are stable across
// restarts and never sort ahead of user-created data.
var seedTime = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// builtInPresets returns the presets shipped with the catalog. Ids carry a
// "builtin-" prefix so they can never collide with generated uuids.
func builtInPresets() []models.StylePreset {
	return []models.StylePreset{
		{
			ID:          "builtin-clean-white",
			Name:        "Clean White",
			Description: "Plain white fill with a thin dark border.",
			Style: models.ElementStyle{
				Fill:        models.String("#ffffff"),
				Stroke:      models.String("#1f2937"),
				StrokeWidth: models.Float(1),
				FontFamily:  models.String("Arial, sans-serif"),
				FontSize:    models.Float(14),
				Color:       models.String("#1f2937"),
			},
			Category: models.CategoryBasic,
			Tags:     []string{"light", "border", "default"},
			Created:  seedTime,
			Modified: seedTime,
			Author:   "OpenChart",
		},
		{
			ID:          "builtin-slate-outline",
			Name:        "Slate Outline",
			Description: "Transparent fill with a slate outline.",
			Style: models.ElementStyle{
				Fill:        models.String("#f8fafc"),
				Stroke:      models.String("#64748b"),
				StrokeWidth: models.Float(2),
				Color:       models.String("#334155"),
			},
			Category: models.CategoryBasic,
			Tags:     []string{"outline", "slate"},
			Created:  seedTime,
			Modified: seedTime,
			Author:   "OpenChart",
		},
		{
			ID:          "builtin-corporate-blue",
			Name:        "Corporate Blue",
			Description: "Solid blue used for primary process steps.",
			Style: models.ElementStyle{
				Fill:        models.String("#3b82f6"),
				Stroke:      models.String("#1d4ed8"),
				StrokeWidth: models.Float(2),
				FontFamily:  models.String("Helvetica, Arial, sans-serif"),
				FontWeight:  models.String("bold"),
				Color:       models.String("#ffffff"),
			},
			Category: models.CategoryProfessional,
			Tags:     []string{"blue", "primary", "business"},
			Created:  seedTime,
			Modified: seedTime,
			Author:   "OpenChart",
		},
		{
			ID:          "builtin-boardroom-gray",
			Name:        "Boardroom Gray",
			Description: "Muted gray with generous corner rounding.",
			Style: models.ElementStyle{
				Fill:         models.String("#e5e7eb"),
				Stroke:       models.String("#6b7280"),
				StrokeWidth:  models.Float(1),
				CornerRadius: models.Float(8),
				Color:        models.String("#111827"),
			},
			Category: models.CategoryProfessional,
			Tags:     []string{"gray", "rounded", "business"},
			Created:  seedTime,
			Modified: seedTime,
			Author:   "OpenChart",
		},
		{
			ID:          "builtin-sunset-pop",
			Name:        "Sunset Pop",
			Description: "Warm orange gradient stand-in for highlights.",
			Style: models.ElementStyle{
				Fill:         models.String("#f97316"),
				Stroke:       models.String("#c2410c"),
				StrokeWidth:  models.Float(2),
				CornerRadius: models.Float(12),
				FontWeight:   models.String("bold"),
				Color:        models.String("#ffffff"),
			},
			Category: models.CategoryCreative,
			Tags:     []string{"orange", "warm", "highlight"},
			Created:  seedTime,
			Modified: seedTime,
			Author:   "OpenChart",
		},
		{
			ID:          "builtin-mint-card",
			Name:        "Mint Card",
			Description: "Soft mint card with a faint border.",
			Style: models.ElementStyle{
				Fill:         models.String("#d1fae5"),
				Stroke:       models.String("#10b981"),
				StrokeWidth:  models.Float(1),
				CornerRadius: models.Float(6),
				Color:        models.String("#065f46"),
			},
			Category: models.CategoryCreative,
			Tags:     []string{"green", "mint", "card"},
			Created:  seedTime,
			Modified: seedTime,
			Author:   "OpenChart",
		},
		{
			ID:          "builtin-hairline",
			Name:        "Hairline",
			Description: "No fill, hairline border, small type.",
			Style: models.ElementStyle{
				Stroke:      models.String("#94a3b8"),
				StrokeWidth: models.Float(0.5),
				FontSize:    models.Float(12),
				Color:       models.String("#475569"),
			},
			Category: models.CategoryMinimal,
			Tags:     []string{"thin", "subtle"},
			Created:  seedTime,
			Modified: seedTime,
			Author:   "OpenChart",
		},
		{
			ID:          "builtin-ink-block",
			Name:        "Ink Block",
			Description: "High-contrast black block with white text.",
			Style: models.ElementStyle{
				Fill:        models.String("#111827"),
				Stroke:      models.String("#000000"),
				StrokeWidth: models.Float(2),
				FontWeight:  models.String("bold"),
				Color:       models.String("#ffffff"),
			},
			Category: models.CategoryBold,
			Tags:     []string{"black", "contrast"},
			Created:  seedTime,
			Modified: seedTime,
			Author:   "OpenChart",
		},
		{
			ID:          "builtin-serif-note",
			Name:        "Serif Note",
			Description: "Cream note with serif typography.",
			Style: models.ElementStyle{
				Fill:         models.String("#fef3c7"),
				Stroke:       models.String("#d97706"),
				StrokeWidth:  models.Float(1),
				FontFamily:   models.String("Georgia, serif"),
				FontStyle:    models.String("italic"),
				CornerRadius: models.Float(4),
				Color:        models.String("#78350f"),
			},
			Category: models.CategoryElegant,
			Tags:     []string{"serif", "note", "cream"},
			Created:  seedTime,
			Modified: seedTime,
			Author:   "OpenChart",
		},
	}
}

// builtInThemes returns the themes shipped with the catalog.
func builtInThemes() []models.StyleTheme {
	return []models.StyleTheme{
		{
			ID:          "builtin-openchart-light",
			Name:        "OpenChart Light",
			Description: "Default light palette.",
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
			Created:   seedTime,
			IsBuiltIn: true,
		},
		{
			ID:          "builtin-openchart-dark",
			Name:        "OpenChart Dark",
			Description: "Dark palette for low-light editing.",
			Colors: models.ThemeColors{
				Primary:    "#60a5fa",
				Secondary:  "#94a3b8",
				Accent:     "#a78bfa",
				Background: "#0f172a",
				Text:       "#f1f5f9",
				Success:    "#34d399",
				Warning:    "#fbbf24",
				Error:      "#f87171",
			},
			Typography: models.ThemeTypography{
				HeadingFont: "Inter, sans-serif",
				BodyFont:    "Inter, sans-serif",
				MonoFont:    "JetBrains Mono, monospace",
			},
			Created:   seedTime,
			IsBuiltIn: true,
		},
	}
}
