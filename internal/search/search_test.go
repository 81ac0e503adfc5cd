package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bdgscotland/openchart-styles/internal/testutil"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

func catalogFixture() []models.StylePreset {
	rating := func(v float64) *float64 { return &v }
	return []models.StylePreset{
		{
			ID: "p1", Name: "Ocean Blue", Description: "Cool blue fill",
			Category: models.CategoryProfessional, Tags: []string{"blue", "cool"},
			Author: "Design Team", IsCustom: false, Rating: rating(4.5),
		},
		{
			ID: "p2", Name: "Sunset", Description: "Warm orange gradient",
			Category: models.CategoryCreative, Tags: []string{"orange", "warm"},
			Author: "alice", IsCustom: true, IsShared: true, Rating: rating(3),
		},
		{
			ID: "p3", Name: "Mono", Description: "",
			Category: models.CategoryMinimal, Tags: []string{"grayscale"},
			Author: "alice", IsCustom: true,
		},
	}
}

func TestSearchPresets_NoFiltersReturnsAll(t *testing.T) {
	got := SearchPresets(catalogFixture(), PresetFilters{})
	assert.Len(t, got, 3)
	assert.Equal(t, "p1", got[0].ID, "order must be preserved")
	assert.Equal(t, "p3", got[2].ID)
}

func TestSearchPresets_SearchTerm(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{"matches name", "ocean", []string{"p1"}},
		{"matches description", "gradient", []string{"p2"}},
		{"matches tag", "grayscale", []string{"p3"}},
		{"matches category", "creative", []string{"p2"}},
		{"case insensitive", "OCEAN", []string{"p1"}},
		{"no match", "zebra", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchPresets(catalogFixture(), PresetFilters{SearchTerm: tt.term})
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearchPresets_CategoryExact(t *testing.T) {
	for _, cat := range []models.PresetCategory{
		models.CategoryProfessional, models.CategoryCreative, models.CategoryMinimal,
	} {
		got := SearchPresets(catalogFixture(), PresetFilters{Category: &cat})
		for _, p := range got {
			assert.Equal(t, cat, p.Category)
		}
	}

	other := models.CategoryBold
	assert.Empty(t, SearchPresets(catalogFixture(), PresetFilters{Category: &other}))
}

func TestSearchPresets_TagsAllMustMatch(t *testing.T) {
	got := SearchPresets(catalogFixture(), PresetFilters{Tags: []string{"blue", "cool"}})
	assert.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)

	// One matching, one not: excluded.
	got = SearchPresets(catalogFixture(), PresetFilters{Tags: []string{"blue", "warm"}})
	assert.Empty(t, got)

	// Substring match counts.
	got = SearchPresets(catalogFixture(), PresetFilters{Tags: []string{"gray"}})
	assert.Len(t, got, 1)
	assert.Equal(t, "p3", got[0].ID)
}

func TestSearchPresets_AuthorSubstring(t *testing.T) {
	got := SearchPresets(catalogFixture(), PresetFilters{Author: "design"})
	assert.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)

	got = SearchPresets(catalogFixture(), PresetFilters{Author: "ALICE"})
	assert.Len(t, got, 2)
}

func TestSearchPresets_BooleansAndRating(t *testing.T) {
	custom := true
	got := SearchPresets(catalogFixture(), PresetFilters{IsCustom: &custom})
	assert.Len(t, got, 2)

	shared := true
	got = SearchPresets(catalogFixture(), PresetFilters{IsShared: &shared})
	assert.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)

	min := 3.5
	got = SearchPresets(catalogFixture(), PresetFilters{MinRating: &min})
	assert.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID, "nil rating counts as 0")
}

func TestSearchPresets_FiltersAreANDCombined(t *testing.T) {
	custom := true
	got := SearchPresets(catalogFixture(), PresetFilters{
		Author:   "alice",
		IsCustom: &custom,
		Tags:     []string{"warm"},
	})
	assert.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
}

func TestSearchPresets_GeneratedFixtures(t *testing.T) {
	presets := []models.StylePreset{
		testutil.NewPreset(testutil.WithName("Brand Blue"), testutil.WithAuthor("dale"), testutil.WithTags("brand")),
		testutil.NewPreset(testutil.WithName("Warm Gray"), testutil.WithCategory(models.CategoryMinimal)),
		testutil.NewPreset(testutil.WithName("Loud Red"), testutil.WithShared()),
	}

	got := SearchPresets(presets, PresetFilters{SearchTerm: "brand"})
	assert.Len(t, got, 1)
	assert.Equal(t, "Brand Blue", got[0].Name)

	shared := true
	got = SearchPresets(presets, PresetFilters{IsShared: &shared})
	assert.Len(t, got, 1)
	assert.Equal(t, "Loud Red", got[0].Name)
}
