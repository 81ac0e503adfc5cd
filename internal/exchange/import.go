package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/bdgscotland/openchart-styles/pkg/models"
)

// envelopeSchema is the structural gate for enveloped imports. Records
// themselves are checked per-index afterwards so one bad record can't sink
// a batch.
const envelopeSchema = `{
	"type": "object",
	"required": ["version", "type", "data"],
	"properties": {
		"version": {"type": "string", "minLength": 1},
		"type": {"type": "string", "enum": ["preset", "collection", "theme"]},
		"data": {},
		"metadata": {"type": "object"}
	}
}`

var envelopeSchemaLoader = gojsonschema.NewStringLoader(envelopeSchema)

// ImportError reports why one record in a batch was rejected.
type ImportError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ImportResult is the outcome of an import batch. Valid records are
// imported even when others fail.
type ImportResult struct {
	Imported []models.StylePreset `json:"imported"`
	Errors   []ImportError        `json:"errors,omitempty"`
}

// ImportPresets accepts either a bare JSON array of preset-like records or
// an export envelope, validates each record, and stores the valid ones as
// new custom presets.
func (s *Service) ImportPresets(ctx context.Context, raw []byte) (ImportResult, error) {
	records, err := s.extractRecords(raw)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Imported: make([]models.StylePreset, 0, len(records))}
	for i, rec := range records {
		var p models.StylePreset
		if err := json.Unmarshal(rec, &p); err != nil {
			result.Errors = append(result.Errors, ImportError{Index: i, Message: "record is not a preset object"})
			continue
		}
		if msg := checkRecord(p); msg != "" {
			result.Errors = append(result.Errors, ImportError{Index: i, Message: msg})
			continue
		}

		normalizeImported(&p)
		created, err := s.catalog.CreatePreset(ctx, p)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Index: i, Message: err.Error()})
			continue
		}
		result.Imported = append(result.Imported, created)
	}

	s.logger.Info("import finished",
		zap.Int("imported", len(result.Imported)),
		zap.Int("rejected", len(result.Errors)),
	)
	return result, nil
}

// extractRecords turns the raw payload into individual preset records. A
// bare array is taken as-is; an envelope is schema-checked first and its
// data unwrapped. A collection envelope contributes its embedded presets.
func (s *Service) extractRecords(raw []byte) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, fmt.Errorf("empty import payload")
	}

	if strings.HasPrefix(trimmed, "[") {
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("parse import array: %w", err)
		}
		return records, nil
	}

	check, err := gojsonschema.Validate(envelopeSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse import envelope: %w", err)
	}
	if !check.Valid() {
		problems := make([]string, 0, len(check.Errors()))
		for _, e := range check.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		return nil, models.NewValidationError(problems)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parse import envelope: %w", err)
	}

	switch env.Type {
	case TypePreset:
		// Data may hold one preset or a list of them.
		if strings.HasPrefix(strings.TrimSpace(string(env.Data)), "[") {
			var records []json.RawMessage
			if err := json.Unmarshal(env.Data, &records); err != nil {
				return nil, fmt.Errorf("parse envelope data: %w", err)
			}
			return records, nil
		}
		return []json.RawMessage{env.Data}, nil
	case TypeCollection:
		var col models.PresetCollection
		if err := json.Unmarshal(env.Data, &col); err != nil {
			return nil, fmt.Errorf("parse collection data: %w", err)
		}
		records := make([]json.RawMessage, 0, len(col.Presets))
		for _, p := range col.Presets {
			rec, err := json.Marshal(p)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		return records, nil
	default:
		return nil, models.NewValidationError([]string{
			fmt.Sprintf("cannot import presets from a %q envelope", env.Type),
		})
	}
}

// checkRecord enforces the minimal record contract: a name and at least one
// style property.
func checkRecord(p models.StylePreset) string {
	if strings.TrimSpace(p.Name) == "" {
		return "record has no name"
	}
	if p.Style == (models.ElementStyle{}) {
		return "record has no style"
	}
	return ""
}

// normalizeImported strips identity that must not survive an import.
func normalizeImported(p *models.StylePreset) {
	p.ID = ""
	p.IsCustom = true
	p.IsShared = false
	p.UsageCount = 0
	if p.Category == "" {
		p.Category = models.CategoryCustom
	}
}
