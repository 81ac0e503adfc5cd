// Package exchange serializes presets, collections, and themes to a
// versioned JSON envelope, CSS text, and a design-token shape, and imports
// them back.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bdgscotland/openchart-styles/internal/catalog"
	"github.com/bdgscotland/openchart-styles/pkg/models"
)

const (
	// EnvelopeVersion is the wire format version stamped on every export.
	EnvelopeVersion = "1.0.0"

	application = "openchart-styles"
)

// Envelope types.
const (
	TypePreset     = "preset"
	TypeCollection = "collection"
	TypeTheme      = "theme"
)

// Metadata describes an export's provenance.
type Metadata struct {
	ExportedAt  time.Time `json:"exportedAt"`
	Application string    `json:"application"`
	Version     string    `json:"version"`
	ShareToken  string    `json:"shareToken,omitempty"`
}

// Envelope is the versioned wrapper around exported data.
type Envelope struct {
	Version  string          `json:"version"`
	Type     string          `json:"type"`
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"metadata"`
}

// Service exports from and imports into the catalog.
type Service struct {
	catalog *catalog.Catalog
	signKey []byte
	version string
	logger  *zap.Logger
}

// NewService creates an exchange Service. signKey signs share tokens on
// exported shared presets; version is the application version stamped into
// envelope metadata.
func NewService(c *catalog.Catalog, signKey []byte, version string, logger *zap.Logger) *Service {
	return &Service{catalog: c, signKey: signKey, version: version, logger: logger}
}

func (s *Service) envelope(typ string, data any, token string) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s export: %w", typ, err)
	}
	return Envelope{
		Version: EnvelopeVersion,
		Type:    typ,
		Data:    raw,
		Metadata: Metadata{
			ExportedAt:  time.Now().UTC(),
			Application: application,
			Version:     s.version,
			ShareToken:  token,
		},
	}, nil
}

// ExportPresets wraps the named presets in an envelope. If any exported
// preset is shared, a share token covering the batch is attached.
func (s *Service) ExportPresets(ctx context.Context, ids []string) (Envelope, error) {
	presets, err := s.resolvePresets(ctx, ids)
	if err != nil {
		return Envelope{}, err
	}

	token := ""
	if author, shared := sharedAuthor(presets); shared {
		token, err = s.MintShareToken(presetIDs(presets), author)
		if err != nil {
			return Envelope{}, err
		}
	}
	return s.envelope(TypePreset, presets, token)
}

// ExportCollection wraps a single collection in an envelope.
func (s *Service) ExportCollection(ctx context.Context, id string) (Envelope, error) {
	col, err := s.catalog.GetCollection(ctx, id)
	if err != nil {
		return Envelope{}, err
	}
	return s.envelope(TypeCollection, col, "")
}

// ExportTheme wraps a single theme in an envelope.
func (s *Service) ExportTheme(ctx context.Context, id string) (Envelope, error) {
	th, err := s.catalog.GetTheme(ctx, id)
	if err != nil {
		return Envelope{}, err
	}
	return s.envelope(TypeTheme, th, "")
}

// ExportCSS renders the named presets as CSS rule blocks.
func (s *Service) ExportCSS(ctx context.Context, ids []string) (string, error) {
	presets, err := s.resolvePresets(ctx, ids)
	if err != nil {
		return "", err
	}
	return RenderCSS(presets), nil
}

// ExportTokens renders the named presets as a design-token document.
func (s *Service) ExportTokens(ctx context.Context, ids []string) (TokenDocument, error) {
	presets, err := s.resolvePresets(ctx, ids)
	if err != nil {
		return TokenDocument{}, err
	}
	return RenderTokens(presets), nil
}

// resolvePresets returns the named presets, or every preset when ids is
// empty.
func (s *Service) resolvePresets(ctx context.Context, ids []string) ([]models.StylePreset, error) {
	if len(ids) == 0 {
		return s.catalog.ListPresets(ctx), nil
	}
	out := make([]models.StylePreset, 0, len(ids))
	for _, id := range ids {
		p, err := s.catalog.GetPreset(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// RenderCSS emits one rule block per preset. Declarations follow a fixed
// order so exports diff cleanly.
func RenderCSS(presets []models.StylePreset) string {
	var b strings.Builder
	for i, p := range presets {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(".preset-" + Slug(p.Name) + " {\n")
		writeDecl(&b, "background-color", p.Style.Fill)
		writeDecl(&b, "border-color", p.Style.Stroke)
		writePxDecl(&b, "border-width", p.Style.StrokeWidth)
		if p.Style.Opacity != nil {
			b.WriteString("  opacity: " + formatNumber(*p.Style.Opacity) + ";\n")
		}
		writePxDecl(&b, "font-size", p.Style.FontSize)
		writeDecl(&b, "font-family", p.Style.FontFamily)
		writeDecl(&b, "font-weight", p.Style.FontWeight)
		writeDecl(&b, "color", p.Style.Color)
		writePxDecl(&b, "border-radius", p.Style.CornerRadius)
		b.WriteString("}\n")
	}
	return b.String()
}

// TokenValue is a single design token.
type TokenValue struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// TypographyValue groups a preset's text properties into one token value.
type TypographyValue struct {
	FontSize   *float64 `json:"fontSize,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
	FontWeight *string  `json:"fontWeight,omitempty"`
}

// TokenDocument is the design-token export shape.
type TokenDocument struct {
	Colors     map[string]TokenValue `json:"colors"`
	Typography map[string]TokenValue `json:"typography"`
}

// RenderTokens emits color and typography tokens per preset, keyed by the
// preset's slug.
func RenderTokens(presets []models.StylePreset) TokenDocument {
	doc := TokenDocument{
		Colors:     make(map[string]TokenValue),
		Typography: make(map[string]TokenValue),
	}
	for _, p := range presets {
		slug := Slug(p.Name)
		if p.Style.Fill != nil {
			doc.Colors[slug+"-fill"] = TokenValue{Value: *p.Style.Fill, Type: "color"}
		}
		if p.Style.Stroke != nil {
			doc.Colors[slug+"-stroke"] = TokenValue{Value: *p.Style.Stroke, Type: "color"}
		}
		if p.Style.FontSize != nil || p.Style.FontFamily != nil || p.Style.FontWeight != nil {
			doc.Typography[slug] = TokenValue{
				Value: TypographyValue{
					FontSize:   p.Style.FontSize,
					FontFamily: p.Style.FontFamily,
					FontWeight: p.Style.FontWeight,
				},
				Type: "typography",
			}
		}
	}
	return doc
}

// Slug lowercases the name and replaces runs of non-alphanumerics with a
// single hyphen.
func Slug(name string) string {
	var b strings.Builder
	lastHyphen := true // trim leading hyphens
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func writeDecl(b *strings.Builder, prop string, v *string) {
	if v == nil {
		return
	}
	b.WriteString("  " + prop + ": " + *v + ";\n")
}

func writePxDecl(b *strings.Builder, prop string, v *float64) {
	if v == nil {
		return
	}
	b.WriteString("  " + prop + ": " + formatNumber(*v) + "px;\n")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sharedAuthor(presets []models.StylePreset) (string, bool) {
	for _, p := range presets {
		if p.IsShared {
			return p.Author, true
		}
	}
	return "", false
}

func presetIDs(presets []models.StylePreset) []string {
	ids := make([]string, len(presets))
	for i, p := range presets {
		ids[i] = p.ID
	}
	return ids
}
