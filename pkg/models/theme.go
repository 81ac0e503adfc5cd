package models

import "time"

// ThemeColors is the fixed palette record every theme carries.
type ThemeColors struct {
	Primary    string `json:"primary" example:"#3b82f6"`
	Secondary  string `json:"secondary" example:"#64748b"`
	Accent     string `json:"accent" example:"#8b5cf6"`
	Background string `json:"background" example:"#ffffff"`
	Text       string `json:"text" example:"#1f2937"`
	Success    string `json:"success" example:"#10b981"`
	Warning    string `json:"warning" example:"#f59e0b"`
	Error      string `json:"error" example:"#ef4444"`
}

// ThemeTypography names the font stacks a theme uses.
type ThemeTypography struct {
	HeadingFont string `json:"headingFont" example:"Inter, sans-serif"`
	BodyFont    string `json:"bodyFont" example:"Arial, sans-serif"`
	MonoFont    string `json:"monoFont" example:"JetBrains Mono, monospace"`
}

// StyleTheme is a coordinated color/typography palette, optionally with
// associated presets.
type StyleTheme struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" example:"Slate"`
	Description string          `json:"description,omitempty"`
	Presets     []StylePreset   `json:"presets,omitempty"`
	Colors      ThemeColors     `json:"colors"`
	Typography  ThemeTypography `json:"typography"`
	Created     time.Time       `json:"created"`
	IsBuiltIn   bool            `json:"isBuiltIn"`
}

// Clone returns a deep copy of the theme.
func (t StyleTheme) Clone() StyleTheme {
	out := t
	out.Presets = make([]StylePreset, len(t.Presets))
	for i := range t.Presets {
		out.Presets[i] = t.Presets[i].Clone()
	}
	return out
}
