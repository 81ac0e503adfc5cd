package models

import (
	"strings"
	"time"
)

// PresetCategory groups presets in the editor's style panel.
type PresetCategory string

const (
	CategoryBasic        PresetCategory = "basic"
	CategoryProfessional PresetCategory = "professional"
	CategoryCreative     PresetCategory = "creative"
	CategoryMinimal      PresetCategory = "minimal"
	CategoryBold         PresetCategory = "bold"
	CategoryElegant      PresetCategory = "elegant"
	CategoryCustom       PresetCategory = "custom"
)

// ValidCategories is the closed set of recognized preset categories.
var ValidCategories = map[PresetCategory]bool{
	CategoryBasic:        true,
	CategoryProfessional: true,
	CategoryCreative:     true,
	CategoryMinimal:      true,
	CategoryBold:         true,
	CategoryElegant:      true,
	CategoryCustom:       true,
}

// StylePreset is a named, reusable style definition applicable to a diagram
// element.
type StylePreset struct {
	ID          string         `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name        string         `json:"name" example:"Ocean Blue"`
	Description string         `json:"description,omitempty" example:"Cool blue fill with navy stroke"`
	Style       ElementStyle   `json:"style"`
	Category    PresetCategory `json:"category" example:"professional"`
	Tags        []string       `json:"tags,omitempty"`
	Thumbnail   string         `json:"thumbnail,omitempty"`
	Created     time.Time      `json:"created" example:"2026-02-10T09:00:00Z"`
	Modified    time.Time      `json:"modified" example:"2026-02-11T14:30:00Z"`
	Author      string         `json:"author,omitempty" example:"design-team"`
	IsCustom    bool           `json:"isCustom"`
	IsShared    bool           `json:"isShared"`
	UsageCount  int            `json:"usageCount,omitempty"`
	Rating      *float64       `json:"rating,omitempty" example:"4.5"`
}

// Clone returns a deep copy of the preset.
func (p StylePreset) Clone() StylePreset {
	out := p
	out.Style = p.Style.Clone()
	out.Tags = append([]string(nil), p.Tags...)
	out.Rating = cloneFloat(p.Rating)
	return out
}

// NormalizeTags lowercases, trims, and deduplicates the preset's tags in place,
// preserving first-occurrence order.
func (p *StylePreset) NormalizeTags() {
	seen := make(map[string]bool, len(p.Tags))
	out := p.Tags[:0]
	for _, t := range p.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	p.Tags = out
}

// PresetCollection is a named, ordered group of presets. Presets are embedded
// by value: deleting a preset from the catalog removes it from collections by
// id match, but exported collections stay self-contained.
type PresetCollection struct {
	ID            string        `json:"id"`
	Name          string        `json:"name" example:"Brand Kit"`
	Description   string        `json:"description,omitempty"`
	Presets       []StylePreset `json:"presets"`
	Tags          []string      `json:"tags,omitempty"`
	Created       time.Time     `json:"created"`
	Modified      time.Time     `json:"modified"`
	Author        string        `json:"author,omitempty"`
	IsPublic      bool          `json:"isPublic"`
	DownloadCount int           `json:"downloadCount,omitempty"`
}

// Clone returns a deep copy of the collection.
func (c PresetCollection) Clone() PresetCollection {
	out := c
	out.Presets = make([]StylePreset, len(c.Presets))
	for i := range c.Presets {
		out.Presets[i] = c.Presets[i].Clone()
	}
	out.Tags = append([]string(nil), c.Tags...)
	return out
}
