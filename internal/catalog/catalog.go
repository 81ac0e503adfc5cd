// Package catalog combines the immutable built-in presets and themes with
// custom data persisted through the preset store, and enforces the business
// rules around them.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/bdgscotland/openchart-styles/internal/event"
	"github.com/bdgscotland/openchart-styles/internal/merge"
	"github.com/bdgscotland/openchart-styles/internal/preset"
	"github.com/bdgscotland/openchart-styles/internal/search"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

const eventSource = "catalog"

// Catalog is the aggregate over built-in and custom presets, collections,
// and themes. Built-ins live in memory and never change shape; usage counts
// for built-ins are tracked in memory only.
type Catalog struct {
	store  *preset.Store
	bus    *event.Bus
	logger *zap.Logger

	mu            sync.RWMutex
	builtins      map[string]*models.StylePreset
	builtinOrder  []string
	builtinThemes map[string]*models.StyleTheme
	themeOrder    []string
}

// New seeds the built-in presets and themes and wires the catalog to the
// store and event bus.
func New(store *preset.Store, bus *event.Bus, logger *zap.Logger) *Catalog {
	c := &Catalog{
		store:         store,
		bus:           bus,
		logger:        logger,
		builtins:      make(map[string]*models.StylePreset),
		builtinThemes: make(map[string]*models.StyleTheme),
	}
	for _, p := range builtInPresets() {
		cp := p
		c.builtins[cp.ID] = &cp
		c.builtinOrder = append(c.builtinOrder, cp.ID)
	}
	for _, t := range builtInThemes() {
		ct := t
		c.builtinThemes[ct.ID] = &ct
		c.themeOrder = append(c.themeOrder, ct.ID)
	}
	logger.Info("catalog seeded",
		zap.Int("builtin_presets", len(c.builtinOrder)),
		zap.Int("builtin_themes", len(c.themeOrder)),
	)
	return c
}

// IsBuiltIn reports whether id names a built-in preset.
func (c *Catalog) IsBuiltIn(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.builtins[id]
	return ok
}

// --- Presets ---

// ListPresets returns built-in presets followed by custom presets.
func (c *Catalog) ListPresets(ctx context.Context) []models.StylePreset {
	c.mu.RLock()
	out := make([]models.StylePreset, 0, len(c.builtinOrder))
	for _, id := range c.builtinOrder {
		out = append(out, c.builtins[id].Clone())
	}
	c.mu.RUnlock()

	return append(out, c.store.GetPresets(ctx)...)
}

// GetPreset returns the preset with the given id, built-in or custom.
func (c *Catalog) GetPreset(ctx context.Context, id string) (models.StylePreset, error) {
	c.mu.RLock()
	if b, ok := c.builtins[id]; ok {
		p := b.Clone()
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	return c.store.GetPresetByID(ctx, id)
}

// CreatePreset adds a custom preset. Names must be unique among custom
// presets (case-insensitive); built-ins don't constrain naming.
func (c *Catalog) CreatePreset(ctx context.Context, p models.StylePreset) (models.StylePreset, error) {
	if c.IsBuiltIn(p.ID) {
		return models.StylePreset{}, fmt.Errorf("preset id %q: %w", p.ID, models.ErrImmutable)
	}
	if err := c.checkNameUnique(ctx, p.Name, p.ID); err != nil {
		return models.StylePreset{}, err
	}

	p.IsCustom = true
	created, err := c.store.CreatePreset(ctx, p)
	if err != nil {
		return models.StylePreset{}, err
	}

	c.bus.Publish(ctx, event.Event{
		Topic:   event.TopicPresetCreated,
		Source:  eventSource,
		Payload: created,
	})
	return created, nil
}

// UpdatePreset replaces a custom preset. Built-ins are immutable.
func (c *Catalog) UpdatePreset(ctx context.Context, p models.StylePreset) (models.StylePreset, error) {
	if c.IsBuiltIn(p.ID) {
		return models.StylePreset{}, fmt.Errorf("preset %q is built-in: %w", p.ID, models.ErrImmutable)
	}
	if err := c.checkNameUnique(ctx, p.Name, p.ID); err != nil {
		return models.StylePreset{}, err
	}

	p.IsCustom = true
	updated, err := c.store.UpdatePreset(ctx, p)
	if err != nil {
		return models.StylePreset{}, err
	}

	c.bus.Publish(ctx, event.Event{
		Topic:   event.TopicPresetUpdated,
		Source:  eventSource,
		Payload: updated,
	})
	return updated, nil
}

// DeletePreset removes a custom preset and all references to it. Built-ins
// are immutable.
func (c *Catalog) DeletePreset(ctx context.Context, id string) error {
	if c.IsBuiltIn(id) {
		return fmt.Errorf("preset %q is built-in: %w", id, models.ErrImmutable)
	}

	if err := c.store.DeletePreset(ctx, id); err != nil {
		return err
	}

	c.bus.Publish(ctx, event.Event{
		Topic:   event.TopicPresetDeleted,
		Source:  eventSource,
		Payload: map[string]string{"id": id},
	})
	return nil
}

// ApplyPreset merges the preset into the current style using the given
// application mode, bumps the preset's usage count, and records it as
// recently used. An empty mode falls back to the configured default.
func (c *Catalog) ApplyPreset(ctx context.Context, current models.ElementStyle, presetID string, mode models.ApplicationMode) (models.ElementStyle, error) {
	p, err := c.GetPreset(ctx, presetID)
	if err != nil {
		return models.ElementStyle{}, err
	}

	if mode == "" {
		mode = c.store.GetSettings(ctx).DefaultMode
	}

	merged := merge.MergeStyle(current, p.Style, mode)

	c.mu.Lock()
	if b, ok := c.builtins[presetID]; ok {
		b.UsageCount++
		c.mu.Unlock()
	} else {
		c.mu.Unlock()
		if err := c.store.IncrementUsage(ctx, presetID); err != nil {
			c.logger.Warn("usage count not recorded", zap.String("id", presetID), zap.Error(err))
		}
	}

	if err := c.store.PushRecentlyUsed(ctx, presetID); err != nil {
		c.logger.Warn("recently-used not recorded", zap.String("id", presetID), zap.Error(err))
	}

	c.bus.Publish(ctx, event.Event{
		Topic:  event.TopicPresetApplied,
		Source: eventSource,
		Payload: map[string]any{
			"id":   presetID,
			"mode": mode,
		},
	})
	return merged, nil
}

// SearchPresets filters the full catalog (built-in and custom).
func (c *Catalog) SearchPresets(ctx context.Context, filters search.PresetFilters) []models.StylePreset {
	return search.SearchPresets(c.ListPresets(ctx), filters)
}

func (c *Catalog) checkNameUnique(ctx context.Context, name, excludeID string) error {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil // validation reports the missing name
	}
	for _, existing := range c.store.GetPresets(ctx) {
		if existing.ID == excludeID {
			continue
		}
		if strings.ToLower(existing.Name) == want {
			return models.NewValidationError([]string{
				fmt.Sprintf("a custom preset named %q already exists", existing.Name),
			})
		}
	}
	return nil
}

// --- Collections ---

func (c *Catalog) ListCollections(ctx context.Context) []models.PresetCollection {
	return c.store.GetCollections(ctx)
}

func (c *Catalog) GetCollection(ctx context.Context, id string) (models.PresetCollection, error) {
	return c.store.GetCollectionByID(ctx, id)
}

func (c *Catalog) CreateCollection(ctx context.Context, col models.PresetCollection) (models.PresetCollection, error) {
	return c.store.CreateCollection(ctx, col)
}

func (c *Catalog) UpdateCollection(ctx context.Context, col models.PresetCollection) (models.PresetCollection, error) {
	return c.store.UpdateCollection(ctx, col)
}

func (c *Catalog) DeleteCollection(ctx context.Context, id string) error {
	return c.store.DeleteCollection(ctx, id)
}

// --- Themes ---

// ListThemes returns built-in themes followed by custom themes.
func (c *Catalog) ListThemes(ctx context.Context) []models.StyleTheme {
	c.mu.RLock()
	out := make([]models.StyleTheme, 0, len(c.themeOrder))
	for _, id := range c.themeOrder {
		out = append(out, c.builtinThemes[id].Clone())
	}
	c.mu.RUnlock()

	return append(out, c.store.GetThemes(ctx)...)
}

// GetTheme returns the theme with the given id, built-in or custom.
func (c *Catalog) GetTheme(ctx context.Context, id string) (models.StyleTheme, error) {
	c.mu.RLock()
	if t, ok := c.builtinThemes[id]; ok {
		th := t.Clone()
		c.mu.RUnlock()
		return th, nil
	}
	c.mu.RUnlock()

	return c.store.GetThemeByID(ctx, id)
}

// CreateTheme adds a custom theme.
func (c *Catalog) CreateTheme(ctx context.Context, t models.StyleTheme) (models.StyleTheme, error) {
	c.mu.RLock()
	_, clash := c.builtinThemes[t.ID]
	c.mu.RUnlock()
	if clash {
		return models.StyleTheme{}, fmt.Errorf("theme id %q: %w", t.ID, models.ErrImmutable)
	}

	t.IsBuiltIn = false
	created, err := c.store.CreateTheme(ctx, t)
	if err != nil {
		return models.StyleTheme{}, err
	}

	c.bus.Publish(ctx, event.Event{
		Topic:   event.TopicThemeChanged,
		Source:  eventSource,
		Payload: created,
	})
	return created, nil
}

// UpdateTheme replaces a custom theme. Built-ins are immutable.
func (c *Catalog) UpdateTheme(ctx context.Context, t models.StyleTheme) (models.StyleTheme, error) {
	c.mu.RLock()
	_, isBuiltIn := c.builtinThemes[t.ID]
	c.mu.RUnlock()
	if isBuiltIn {
		return models.StyleTheme{}, fmt.Errorf("theme %q is built-in: %w", t.ID, models.ErrImmutable)
	}

	t.IsBuiltIn = false
	updated, err := c.store.UpdateTheme(ctx, t)
	if err != nil {
		return models.StyleTheme{}, err
	}

	c.bus.Publish(ctx, event.Event{
		Topic:   event.TopicThemeChanged,
		Source:  eventSource,
		Payload: updated,
	})
	return updated, nil
}

// DeleteTheme removes a custom theme. Built-ins are immutable.
func (c *Catalog) DeleteTheme(ctx context.Context, id string) error {
	c.mu.RLock()
	_, isBuiltIn := c.builtinThemes[id]
	c.mu.RUnlock()
	if isBuiltIn {
		return fmt.Errorf("theme %q is built-in: %w", id, models.ErrImmutable)
	}

	if err := c.store.DeleteTheme(ctx, id); err != nil {
		return err
	}

	c.bus.Publish(ctx, event.Event{
		Topic:   event.TopicThemeChanged,
		Source:  eventSource,
		Payload: map[string]string{"deleted": id},
	})
	return nil
}

// CurrentTheme returns the active theme. With no explicit selection it falls
// back to the first built-in.
func (c *Catalog) CurrentTheme(ctx context.Context) (models.StyleTheme, error) {
	id := c.store.GetCurrentTheme(ctx)
	if id == "" {
		id = c.themeOrder[0]
	}
	return c.GetTheme(ctx, id)
}

// SetCurrentTheme activates the theme with the given id.
func (c *Catalog) SetCurrentTheme(ctx context.Context, id string) error {
	if _, err := c.GetTheme(ctx, id); err != nil {
		return err
	}
	if err := c.store.SetCurrentTheme(ctx, id); err != nil {
		return err
	}

	c.bus.Publish(ctx, event.Event{
		Topic:   event.TopicThemeChanged,
		Source:  eventSource,
		Payload: map[string]string{"current": id},
	})
	return nil
}

// --- Favorites and recently used ---

// ToggleFavorite flips the preset's favorite flag and reports the new state.
func (c *Catalog) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if _, err := c.GetPreset(ctx, id); err != nil {
		return false, err
	}

	favorites := c.store.GetFavorites(ctx)
	for i, f := range favorites {
		if f == id {
			return false, c.store.SetFavorites(ctx, append(favorites[:i], favorites[i+1:]...))
		}
	}
	return true, c.store.SetFavorites(ctx, append(favorites, id))
}

// ListFavorites resolves favorite ids to presets, skipping danglers.
func (c *Catalog) ListFavorites(ctx context.Context) []models.StylePreset {
	return c.resolve(ctx, c.store.GetFavorites(ctx))
}

// SetFavorites replaces the favorites list wholesale.
func (c *Catalog) SetFavorites(ctx context.Context, ids []string) error {
	return c.store.SetFavorites(ctx, ids)
}

// ListRecentlyUsed resolves the recently-used ids to presets, most recent
// first, skipping danglers.
func (c *Catalog) ListRecentlyUsed(ctx context.Context) []models.StylePreset {
	return c.resolve(ctx, c.store.GetRecentlyUsed(ctx))
}

func (c *Catalog) resolve(ctx context.Context, ids []string) []models.StylePreset {
	out := make([]models.StylePreset, 0, len(ids))
	for _, id := range ids {
		p, err := c.GetPreset(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// --- Settings and maintenance ---

func (c *Catalog) GetSettings(ctx context.Context) models.StoreSettings {
	return c.store.GetSettings(ctx)
}

func (c *Catalog) UpdateSettings(ctx context.Context, s models.StoreSettings) error {
	return c.store.UpdateSettings(ctx, s)
}

func (c *Catalog) CreateBackup(ctx context.Context) (string, error) {
	return c.store.CreateBackup(ctx)
}

func (c *Catalog) ListBackups(ctx context.Context) ([]preset.BackupInfo, error) {
	return c.store.ListBackups(ctx)
}

// RestoreBackup restores custom state from a backup and announces the reset.
func (c *Catalog) RestoreBackup(ctx context.Context, key string) error {
	if err := c.store.RestoreFromBackup(ctx, key); err != nil {
		return err
	}

	c.bus.Publish(ctx, event.Event{
		Topic:   event.TopicCatalogRestored,
		Source:  eventSource,
		Payload: map[string]string{"backup": key},
	})
	return nil
}

// Cleanup prunes dangling references and old backups. Built-in ids are
// passed through as known so favorites and recent history pointing at them
// survive.
func (c *Catalog) Cleanup(ctx context.Context) error {
	c.mu.RLock()
	builtin := make([]string, len(c.builtinOrder))
	copy(builtin, c.builtinOrder)
	c.mu.RUnlock()

	return c.store.Cleanup(ctx, builtin...)
}
