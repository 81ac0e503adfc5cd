// Package search evaluates filter predicates over a preset catalog. The
// engine is pure and order-preserving; sorting is the caller's concern.
package search

import (
	"strings"

	"github.com/bdgscotland/openchart-styles/pkg/models"
)

// PresetFilters describes an AND-combined set of optional constraints.
// A zero-valued (nil) field imposes no constraint.
type PresetFilters struct {
	SearchTerm string                 `json:"searchTerm,omitempty"`
	Category   *models.PresetCategory `json:"category,omitempty"`
	Tags       []string               `json:"tags,omitempty"`
	Author     string                 `json:"author,omitempty"`
	IsCustom   *bool                  `json:"isCustom,omitempty"`
	IsShared   *bool                  `json:"isShared,omitempty"`
	MinRating  *float64               `json:"minRating,omitempty"`
}

// SearchPresets returns the presets matching every provided filter, in the
// catalog's original order.
func SearchPresets(catalog []models.StylePreset, filters PresetFilters) []models.StylePreset {
	matches := make([]models.StylePreset, 0, len(catalog))
	for i := range catalog {
		if Matches(&catalog[i], filters) {
			matches = append(matches, catalog[i])
		}
	}
	return matches
}

// Matches reports whether a single preset satisfies the filters.
func Matches(p *models.StylePreset, f PresetFilters) bool {
	if f.SearchTerm != "" && !matchesTerm(p, f.SearchTerm) {
		return false
	}
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if len(f.Tags) > 0 && !matchesTags(p, f.Tags) {
		return false
	}
	if f.Author != "" && !strings.Contains(strings.ToLower(p.Author), strings.ToLower(f.Author)) {
		return false
	}
	if f.IsCustom != nil && p.IsCustom != *f.IsCustom {
		return false
	}
	if f.IsShared != nil && p.IsShared != *f.IsShared {
		return false
	}
	if f.MinRating != nil {
		rating := 0.0
		if p.Rating != nil {
			rating = *p.Rating
		}
		if rating < *f.MinRating {
			return false
		}
	}
	return true
}

// matchesTerm checks the search term case-insensitively against the preset's
// name, description, each tag, and category.
func matchesTerm(p *models.StylePreset, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(string(p.Category)), term)
}

// matchesTags requires every filter tag to substring-match at least one
// preset tag, case-insensitively.
func matchesTags(p *models.StylePreset, tags []string) bool {
	for _, want := range tags {
		want = strings.ToLower(want)
		found := false
		for _, have := range p.Tags {
			if strings.Contains(strings.ToLower(have), want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
