package preset

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/bdgscotland/openchart-styles/internal/kvstore"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

// SchemaVersion identifies the backup snapshot format.
const SchemaVersion = "1.0.0"

// Backup is a complete snapshot of the store's state. Fields are pointers
// so a restore can distinguish "absent from the backup" (left untouched)
// from "present but empty" (overwritten).
type Backup struct {
	Version      string                     `json:"version"`
	Timestamp    time.Time                  `json:"timestamp"`
	Presets      *[]models.StylePreset      `json:"presets,omitempty"`
	Collections  *[]models.PresetCollection `json:"collections,omitempty"`
	Themes       *[]models.StyleTheme       `json:"themes,omitempty"`
	Favorites    *[]string                  `json:"favorites,omitempty"`
	RecentlyUsed *[]string                  `json:"recentlyUsed,omitempty"`
	CurrentTheme *string                    `json:"currentTheme,omitempty"`
	Settings     *models.StoreSettings      `json:"settings,omitempty"`
}

// BackupInfo summarizes a stored backup for listing.
type BackupInfo struct {
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
	Presets   int       `json:"presets"`
	Version   string    `json:"version"`
}

// CreateBackup snapshots all store state into a single versioned object
// persisted under a time-stamped key, and returns that key.
func (s *Store) CreateBackup(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	presets := s.GetPresets(ctx)
	collections := s.GetCollections(ctx)
	themes := s.GetThemes(ctx)
	favorites := s.GetFavorites(ctx)
	recent := s.GetRecentlyUsed(ctx)
	current := s.GetCurrentTheme(ctx)
	settings := s.GetSettings(ctx)

	b := Backup{
		Version:      SchemaVersion,
		Timestamp:    now,
		Presets:      &presets,
		Collections:  &collections,
		Themes:       &themes,
		Favorites:    &favorites,
		RecentlyUsed: &recent,
		CurrentTheme: &current,
		Settings:     &settings,
	}

	key := backupKeyPrefix + now.Format(time.RFC3339Nano)
	if err := s.writeJSON(ctx, key, b); err != nil {
		return "", err
	}

	s.logger.Info("backup created",
		zap.String("key", key), zap.Int("presets", len(presets)))
	return key, nil
}

// ListBackups returns stored backups, newest first.
func (s *Store) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	keys, err := s.kv.Keys(ctx, backupKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	infos := make([]BackupInfo, 0, len(keys))
	for _, key := range keys {
		raw, err := s.kv.Get(ctx, key)
		if err != nil {
			s.logger.Warn("unreadable backup", zap.String("key", key), zap.Error(err))
			continue
		}
		var b Backup
		if err := json.Unmarshal(raw, &b); err != nil {
			s.logger.Warn("unparsable backup", zap.String("key", key), zap.Error(err))
			continue
		}
		info := BackupInfo{Key: key, Timestamp: b.Timestamp, Version: b.Version}
		if b.Presets != nil {
			info.Presets = len(*b.Presets)
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp.After(infos[j].Timestamp)
	})
	return infos, nil
}

// RestoreFromBackup overwrites current state field-by-field from the backup
// stored under key. The backup must carry a version and a presets field;
// fields absent from the backup leave the corresponding state untouched.
func (s *Store) RestoreFromBackup(ctx context.Context, key string) error {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if err == kvstore.ErrKeyNotFound {
			return fmt.Errorf("backup %q: %w", key, models.ErrNotFound)
		}
		return fmt.Errorf("read backup %q: %w", key, err)
	}

	var b Backup
	if err := json.Unmarshal(raw, &b); err != nil {
		return &models.StorageError{Key: key, Err: err}
	}

	var problems []string
	if b.Version == "" {
		problems = append(problems, "backup has no version")
	}
	if b.Presets == nil {
		problems = append(problems, "backup has no presets field")
	}
	if err := models.NewValidationError(problems); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writes := []struct {
		key   string
		value any
		skip  bool
	}{
		{keyPresets, b.Presets, false},
		{keyCollections, b.Collections, b.Collections == nil},
		{keyThemes, b.Themes, b.Themes == nil},
		{keyFavorites, b.Favorites, b.Favorites == nil},
		{keyRecent, b.RecentlyUsed, b.RecentlyUsed == nil},
		{keyCurrentTheme, b.CurrentTheme, b.CurrentTheme == nil},
		{keySettings, b.Settings, b.Settings == nil},
	}
	for _, w := range writes {
		if w.skip {
			continue
		}
		if err := s.writeJSON(ctx, w.key, w.value); err != nil {
			return err
		}
	}

	s.logger.Info("state restored from backup", zap.String("key", key))
	return nil
}

// Cleanup removes favorite and recently-used ids with no matching preset and
// retains only the most recent backups. The store only knows its own custom
// presets, so callers tracking presets elsewhere (built-ins) pass those ids
// as knownIDs to keep references to them. It is idempotent and safe to
// invoke repeatedly.
func (s *Store) Cleanup(ctx context.Context, knownIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}
	for _, p := range s.GetPresets(ctx) {
		known[p.ID] = true
	}

	for _, key := range []string{keyFavorites, keyRecent} {
		ids := s.getStringList(ctx, key)
		kept := ids[:0]
		changed := false
		for _, id := range ids {
			if known[id] {
				kept = append(kept, id)
			} else {
				changed = true
			}
		}
		if changed {
			if err := s.writeJSON(ctx, key, kept); err != nil {
				return err
			}
		}
	}

	return s.pruneBackups(ctx)
}

// pruneBackups discards all but the newest snapshots, ordered by the
// timestamp embedded in each backup. Caller holds the lock.
func (s *Store) pruneBackups(ctx context.Context) error {
	keys, err := s.kv.Keys(ctx, backupKeyPrefix)
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}
	if len(keys) <= s.backupKeep {
		return nil
	}

	type stamped struct {
		key string
		ts  time.Time
	}
	entries := make([]stamped, 0, len(keys))
	for _, key := range keys {
		raw, err := s.kv.Get(ctx, key)
		if err != nil {
			continue
		}
		var b Backup
		if err := json.Unmarshal(raw, &b); err != nil {
			// An unparsable backup is useless: discard it.
			entries = append(entries, stamped{key: key})
			continue
		}
		entries = append(entries, stamped{key: key, ts: b.Timestamp})
	}

	if len(entries) <= s.backupKeep {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ts.After(entries[j].ts)
	})

	for _, e := range entries[s.backupKeep:] {
		if err := s.kv.Delete(ctx, e.key); err != nil {
			return fmt.Errorf("prune backup %q: %w", e.key, err)
		}
		s.logger.Debug("pruned old backup", zap.String("key", e.key))
	}
	return nil
}
