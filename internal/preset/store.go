// Package preset implements the durable preset store: presets, collections,
// themes, favorites, the recently-used list, the current-theme pointer,
// settings, and versioned backups — all persisted as JSON blobs under
// namespaced keys in a KeyValueStore.
package preset

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bdgscotland/openchart-styles/internal/kvstore"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

// Logical keys in the key-value store.
const (
	keyPresets      = "presets"
	keyCollections  = "collections"
	keyThemes       = "themes"
	keyFavorites    = "favorites"
	keyRecent       = "recently_used"
	keyCurrentTheme = "current_theme"
	keySettings     = "settings"

	backupKeyPrefix = "backup:"
)

// backupRetention is how many backup snapshots Cleanup keeps by default.
const backupRetention = 5

// Store provides validated CRUD over the key-value persistence boundary.
// Mutating calls are serialized internally; reads are safe at any time.
type Store struct {
	kv         kvstore.KeyValueStore
	logger     *zap.Logger
	mu         sync.Mutex
	backupKeep int
	defaults   models.StoreSettings
}

// Option configures a Store.
type Option func(*Store)

// WithBackupRetention overrides how many backup snapshots Cleanup keeps.
// Values below one are ignored.
func WithBackupRetention(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.backupKeep = n
		}
	}
}

// WithDefaultSettings overrides the settings returned when none have been
// stored yet.
func WithDefaultSettings(defaults models.StoreSettings) Option {
	return func(s *Store) {
		if defaults.MaxRecentlyUsed > 0 && models.ValidApplicationModes[defaults.DefaultMode] {
			s.defaults = defaults
		}
	}
}

// NewStore creates a Store on top of the given key-value store.
func NewStore(kv kvstore.KeyValueStore, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		logger:     logger,
		backupKeep: backupRetention,
		defaults:   models.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// readList loads a JSON array under key into dst. A missing key or an
// unreadable/unparsable blob degrades to the empty state: the error is
// logged and dst is left at its zero value, so a corrupt blob never fails
// catalog construction.
func (s *Store) readList(ctx context.Context, key string, dst any) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if err != kvstore.ErrKeyNotFound {
			s.logger.Warn("unreadable blob, falling back to empty",
				zap.String("key", key), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		serr := &models.StorageError{Key: key, Err: err}
		s.logger.Warn("unparsable blob, falling back to empty",
			zap.String("key", key), zap.Error(serr))
	}
}

func (s *Store) writeJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// --- Presets ---

// GetPresets returns all stored presets. Never fails; storage problems
// degrade to an empty list.
func (s *Store) GetPresets(ctx context.Context) []models.StylePreset {
	var presets []models.StylePreset
	s.readList(ctx, keyPresets, &presets)
	return presets
}

// GetPresetByID returns the stored preset with the given id.
func (s *Store) GetPresetByID(ctx context.Context, id string) (models.StylePreset, error) {
	for _, p := range s.GetPresets(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return models.StylePreset{}, fmt.Errorf("preset %q: %w", id, models.ErrNotFound)
}

// CreatePreset validates the preset, assigns an id and timestamps, and
// persists it. Validation failures are raised before any write.
func (s *Store) CreatePreset(ctx context.Context, p models.StylePreset) (models.StylePreset, error) {
	if err := s.validateAndWarn(&p); err != nil {
		return models.StylePreset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Created = now
	p.Modified = now
	p.NormalizeTags()

	presets := s.GetPresets(ctx)
	for _, existing := range presets {
		if existing.ID == p.ID {
			return models.StylePreset{}, &models.ValidationError{
				Problems: []string{fmt.Sprintf("preset id %q already exists", p.ID)},
			}
		}
	}

	presets = append(presets, p)
	if err := s.writeJSON(ctx, keyPresets, presets); err != nil {
		return models.StylePreset{}, err
	}
	return p, nil
}

// UpdatePreset revalidates and persists changes to an existing preset.
// The id and creation timestamp are preserved; modified is refreshed.
func (s *Store) UpdatePreset(ctx context.Context, p models.StylePreset) (models.StylePreset, error) {
	if err := s.validateAndWarn(&p); err != nil {
		return models.StylePreset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	presets := s.GetPresets(ctx)
	for i := range presets {
		if presets[i].ID != p.ID {
			continue
		}
		p.Created = presets[i].Created
		p.Modified = time.Now().UTC()
		p.NormalizeTags()
		presets[i] = p
		if err := s.writeJSON(ctx, keyPresets, presets); err != nil {
			return models.StylePreset{}, err
		}
		return p, nil
	}
	return models.StylePreset{}, fmt.Errorf("preset %q: %w", p.ID, models.ErrNotFound)
}

// IncrementUsage bumps the preset's usage counter without touching its
// modified timestamp.
func (s *Store) IncrementUsage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	presets := s.GetPresets(ctx)
	for i := range presets {
		if presets[i].ID == id {
			presets[i].UsageCount++
			return s.writeJSON(ctx, keyPresets, presets)
		}
	}
	return fmt.Errorf("preset %q: %w", id, models.ErrNotFound)
}

// DeletePreset removes the preset and purges its id from favorites, the
// recently-used list, and any collection embedding it.
func (s *Store) DeletePreset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	presets := s.GetPresets(ctx)
	found := false
	out := presets[:0]
	for _, p := range presets {
		if p.ID == id {
			found = true
			continue
		}
		out = append(out, p)
	}
	if !found {
		return fmt.Errorf("preset %q: %w", id, models.ErrNotFound)
	}
	if err := s.writeJSON(ctx, keyPresets, out); err != nil {
		return err
	}

	if err := s.purgePresetRefs(ctx, id); err != nil {
		return err
	}
	return nil
}

// purgePresetRefs removes a deleted preset's id from favorites, the
// recently-used list, and collections. Caller holds the mutation lock.
func (s *Store) purgePresetRefs(ctx context.Context, id string) error {
	favorites := s.getStringList(ctx, keyFavorites)
	if filtered, changed := removeString(favorites, id); changed {
		if err := s.writeJSON(ctx, keyFavorites, filtered); err != nil {
			return err
		}
	}

	recent := s.getStringList(ctx, keyRecent)
	if filtered, changed := removeString(recent, id); changed {
		if err := s.writeJSON(ctx, keyRecent, filtered); err != nil {
			return err
		}
	}

	var collections []models.PresetCollection
	s.readList(ctx, keyCollections, &collections)
	collectionsChanged := false
	for i := range collections {
		kept := collections[i].Presets[:0]
		for _, p := range collections[i].Presets {
			if p.ID == id {
				collectionsChanged = true
				continue
			}
			kept = append(kept, p)
		}
		collections[i].Presets = kept
	}
	if collectionsChanged {
		if err := s.writeJSON(ctx, keyCollections, collections); err != nil {
			return err
		}
	}
	return nil
}

// --- Collections ---

// GetCollections returns all stored collections.
func (s *Store) GetCollections(ctx context.Context) []models.PresetCollection {
	var collections []models.PresetCollection
	s.readList(ctx, keyCollections, &collections)
	return collections
}

// GetCollectionByID returns the stored collection with the given id.
func (s *Store) GetCollectionByID(ctx context.Context, id string) (models.PresetCollection, error) {
	for _, c := range s.GetCollections(ctx) {
		if c.ID == id {
			return c, nil
		}
	}
	return models.PresetCollection{}, fmt.Errorf("collection %q: %w", id, models.ErrNotFound)
}

// CreateCollection validates and persists a new collection.
func (s *Store) CreateCollection(ctx context.Context, c models.PresetCollection) (models.PresetCollection, error) {
	if err := ValidateCollection(&c); err != nil {
		return models.PresetCollection{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.Created = now
	c.Modified = now

	collections := s.GetCollections(ctx)
	for _, existing := range collections {
		if existing.ID == c.ID {
			return models.PresetCollection{}, &models.ValidationError{
				Problems: []string{fmt.Sprintf("collection id %q already exists", c.ID)},
			}
		}
	}

	collections = append(collections, c)
	if err := s.writeJSON(ctx, keyCollections, collections); err != nil {
		return models.PresetCollection{}, err
	}
	return c, nil
}

// UpdateCollection revalidates and persists changes to an existing collection.
func (s *Store) UpdateCollection(ctx context.Context, c models.PresetCollection) (models.PresetCollection, error) {
	if err := ValidateCollection(&c); err != nil {
		return models.PresetCollection{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collections := s.GetCollections(ctx)
	for i := range collections {
		if collections[i].ID != c.ID {
			continue
		}
		c.Created = collections[i].Created
		c.Modified = time.Now().UTC()
		collections[i] = c
		if err := s.writeJSON(ctx, keyCollections, collections); err != nil {
			return models.PresetCollection{}, err
		}
		return c, nil
	}
	return models.PresetCollection{}, fmt.Errorf("collection %q: %w", c.ID, models.ErrNotFound)
}

// DeleteCollection removes a collection by id.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections := s.GetCollections(ctx)
	out := collections[:0]
	found := false
	for _, c := range collections {
		if c.ID == id {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		return fmt.Errorf("collection %q: %w", id, models.ErrNotFound)
	}
	return s.writeJSON(ctx, keyCollections, out)
}

// --- Themes ---

// GetThemes returns all stored themes.
func (s *Store) GetThemes(ctx context.Context) []models.StyleTheme {
	var themes []models.StyleTheme
	s.readList(ctx, keyThemes, &themes)
	return themes
}

// GetThemeByID returns the stored theme with the given id.
func (s *Store) GetThemeByID(ctx context.Context, id string) (models.StyleTheme, error) {
	for _, t := range s.GetThemes(ctx) {
		if t.ID == id {
			return t, nil
		}
	}
	return models.StyleTheme{}, fmt.Errorf("theme %q: %w", id, models.ErrNotFound)
}

// CreateTheme validates and persists a new theme.
func (s *Store) CreateTheme(ctx context.Context, t models.StyleTheme) (models.StyleTheme, error) {
	if err := ValidateTheme(&t); err != nil {
		return models.StyleTheme{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.Created = time.Now().UTC()

	themes := s.GetThemes(ctx)
	for _, existing := range themes {
		if existing.ID == t.ID {
			return models.StyleTheme{}, &models.ValidationError{
				Problems: []string{fmt.Sprintf("theme id %q already exists", t.ID)},
			}
		}
	}

	themes = append(themes, t)
	if err := s.writeJSON(ctx, keyThemes, themes); err != nil {
		return models.StyleTheme{}, err
	}
	return t, nil
}

// UpdateTheme revalidates and persists changes to an existing theme.
func (s *Store) UpdateTheme(ctx context.Context, t models.StyleTheme) (models.StyleTheme, error) {
	if err := ValidateTheme(&t); err != nil {
		return models.StyleTheme{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	themes := s.GetThemes(ctx)
	for i := range themes {
		if themes[i].ID != t.ID {
			continue
		}
		t.Created = themes[i].Created
		themes[i] = t
		if err := s.writeJSON(ctx, keyThemes, themes); err != nil {
			return models.StyleTheme{}, err
		}
		return t, nil
	}
	return models.StyleTheme{}, fmt.Errorf("theme %q: %w", t.ID, models.ErrNotFound)
}

// DeleteTheme removes a theme by id. If it was the current theme, the
// pointer is cleared.
func (s *Store) DeleteTheme(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	themes := s.GetThemes(ctx)
	out := themes[:0]
	found := false
	for _, t := range themes {
		if t.ID == id {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		return fmt.Errorf("theme %q: %w", id, models.ErrNotFound)
	}
	if err := s.writeJSON(ctx, keyThemes, out); err != nil {
		return err
	}

	if current, _ := s.getString(ctx, keyCurrentTheme); current == id {
		if err := s.kv.Delete(ctx, keyCurrentTheme); err != nil {
			return fmt.Errorf("clear current theme: %w", err)
		}
	}
	return nil
}

// --- Favorites ---

// GetFavorites returns the list of favorite preset ids.
func (s *Store) GetFavorites(ctx context.Context) []string {
	return s.getStringList(ctx, keyFavorites)
}

// SetFavorites replaces the favorites list.
func (s *Store) SetFavorites(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(ctx, keyFavorites, dedupe(ids))
}

// --- Recently used ---

// GetRecentlyUsed returns recently applied preset ids, most recent first.
func (s *Store) GetRecentlyUsed(ctx context.Context) []string {
	return s.getStringList(ctx, keyRecent)
}

// SetRecentlyUsed replaces the recently-used list after deduplicating and
// truncating it to the configured maximum.
func (s *Store) SetRecentlyUsed(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setRecentLocked(ctx, ids)
}

// PushRecentlyUsed records that a preset was just applied: it moves (or
// inserts) the id at the front of the list.
func (s *Store) PushRecentlyUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setRecentLocked(ctx, append([]string{id}, s.getStringList(ctx, keyRecent)...))
}

func (s *Store) setRecentLocked(ctx context.Context, ids []string) error {
	max := s.GetSettings(ctx).MaxRecentlyUsed
	if max <= 0 {
		max = s.defaults.MaxRecentlyUsed
	}
	deduped := dedupe(ids)
	if len(deduped) > max {
		deduped = deduped[:max]
	}
	return s.writeJSON(ctx, keyRecent, deduped)
}

// --- Current theme ---

// GetCurrentTheme returns the active theme id, or empty when none is set.
func (s *Store) GetCurrentTheme(ctx context.Context) string {
	id, _ := s.getString(ctx, keyCurrentTheme)
	return id
}

// SetCurrentTheme records the active theme id.
func (s *Store) SetCurrentTheme(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(ctx, keyCurrentTheme, id)
}

// --- Settings ---

// GetSettings returns the stored settings, falling back to defaults for a
// missing or unreadable blob.
func (s *Store) GetSettings(ctx context.Context) models.StoreSettings {
	settings := s.defaults
	raw, err := s.kv.Get(ctx, keySettings)
	if err != nil {
		return settings
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logger.Warn("unparsable settings, using defaults", zap.Error(err))
		return s.defaults
	}
	return settings
}

// UpdateSettings validates and persists new settings.
func (s *Store) UpdateSettings(ctx context.Context, settings models.StoreSettings) error {
	var problems []string
	if settings.MaxRecentlyUsed <= 0 {
		problems = append(problems, "maxRecentlyUsed must be positive")
	}
	if !models.ValidApplicationModes[settings.DefaultMode] {
		problems = append(problems, fmt.Sprintf("unknown application mode %q", settings.DefaultMode))
	}
	if err := models.NewValidationError(problems); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(ctx, keySettings, settings)
}

// --- helpers ---

func (s *Store) getStringList(ctx context.Context, key string) []string {
	var list []string
	s.readList(ctx, key, &list)
	return list
}

func (s *Store) getString(ctx context.Context, key string) (string, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", &models.StorageError{Key: key, Err: err}
	}
	return v, nil
}

func (s *Store) validateAndWarn(p *models.StylePreset) error {
	warnings, err := ValidatePreset(p)
	for _, w := range warnings {
		s.logger.Warn("preset validation warning",
			zap.String("preset", p.Name), zap.String("warning", w))
	}
	return err
}

func removeString(list []string, target string) ([]string, bool) {
	out := list[:0]
	changed := false
	for _, v := range list {
		if v == target {
			changed = true
			continue
		}
		out = append(out, v)
	}
	return out, changed
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
