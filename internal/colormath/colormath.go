// Package colormath provides pure color-space conversions, parsing, and
// WCAG contrast math. Everything here is side-effect-free and safe for
// concurrent use.
package colormath

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RGBA is the canonical internal color form. Channels are 0-255; alpha is a
// 0-1 fraction.
type RGBA struct {
	R int     `json:"r"`
	G int     `json:"g"`
	B int     `json:"b"`
	A float64 `json:"a"`
}

// HSLA is hue (0-360), saturation/lightness/alpha (0-1).
type HSLA struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
	A float64 `json:"a"`
}

// HSVA is hue (0-360), saturation/value/alpha (0-1).
type HSVA struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
	A float64 `json:"a"`
}

// Format selects the textual rendering of a color.
type Format string

const (
	FormatHex Format = "hex"
	FormatRGB Format = "rgb"
	FormatHSL Format = "hsl"
)

// Black is the fallback for unparsable color strings.
var Black = RGBA{R: 0, G: 0, B: 0, A: 1}

// RGBAToHSLA converts using the standard max/min/diff formulation.
func RGBAToHSLA(c RGBA) HSLA {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	diff := max - min
	l := (max + min) / 2

	var h, s float64
	if diff != 0 {
		if l > 0.5 {
			s = diff / (2 - max - min)
		} else {
			s = diff / (max + min)
		}
		switch max {
		case r:
			h = (g - b) / diff
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/diff + 2
		default:
			h = (r-g)/diff + 4
		}
		h *= 60
	}

	return HSLA{H: h, S: s, L: l, A: c.A}
}

// HSLAToRGBA converts via sector interpolation.
func HSLAToRGBA(c HSLA) RGBA {
	if c.S == 0 {
		v := clamp255(c.L * 255)
		return RGBA{R: v, G: v, B: v, A: c.A}
	}

	var q float64
	if c.L < 0.5 {
		q = c.L * (1 + c.S)
	} else {
		q = c.L + c.S - c.L*c.S
	}
	p := 2*c.L - q
	h := c.H / 360

	return RGBA{
		R: clamp255(hueToChannel(p, q, h+1.0/3) * 255),
		G: clamp255(hueToChannel(p, q, h) * 255),
		B: clamp255(hueToChannel(p, q, h-1.0/3) * 255),
		A: c.A,
	}
}

// RGBAToHSVA converts using the standard max/min/diff formulation.
func RGBAToHSVA(c RGBA) HSVA {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	diff := max - min

	var h, s float64
	if max != 0 {
		s = diff / max
	}
	if diff != 0 {
		switch max {
		case r:
			h = (g - b) / diff
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/diff + 2
		default:
			h = (r-g)/diff + 4
		}
		h *= 60
	}

	return HSVA{H: h, S: s, V: max, A: c.A}
}

// HSVAToRGBA converts via sector interpolation.
func HSVAToRGBA(c HSVA) RGBA {
	h := c.H / 60
	i := int(math.Floor(h)) % 6
	f := h - math.Floor(h)
	p := c.V * (1 - c.S)
	q := c.V * (1 - f*c.S)
	t := c.V * (1 - (1-f)*c.S)

	var r, g, b float64
	switch i {
	case 0:
		r, g, b = c.V, t, p
	case 1:
		r, g, b = q, c.V, p
	case 2:
		r, g, b = p, c.V, t
	case 3:
		r, g, b = p, q, c.V
	case 4:
		r, g, b = t, p, c.V
	default:
		r, g, b = c.V, p, q
	}

	return RGBA{R: clamp255(r * 255), G: clamp255(g * 255), B: clamp255(b * 255), A: c.A}
}

// ParseHex parses 3-, 6-, and 8-digit hex color strings with or without a
// leading '#'. 3-digit forms expand by doubling each nibble; an 8-digit
// form's trailing byte is alpha stored as a 0-1 fraction of 255.
func ParseHex(s string) (RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(h) {
	case 3:
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[2*i] = h[i]
			expanded[2*i+1] = h[i]
		}
		h = string(expanded)
	case 6, 8:
	default:
		return RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	if len(h) == 8 {
		return RGBA{
			R: int(v >> 24 & 0xff),
			G: int(v >> 16 & 0xff),
			B: int(v >> 8 & 0xff),
			A: float64(v&0xff) / 255,
		}, nil
	}
	return RGBA{
		R: int(v >> 16 & 0xff),
		G: int(v >> 8 & 0xff),
		B: int(v & 0xff),
		A: 1,
	}, nil
}

// Hex renders the color as a hex string, appending the alpha byte only when
// alpha is not fully opaque.
func Hex(c RGBA) string {
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, int(math.Round(c.A*255)))
}

var (
	rgbRe = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*([0-9.]+)\s*)?\)$`)
	hslRe = regexp.MustCompile(`^hsla?\(\s*([0-9.]+)\s*,\s*([0-9.]+)%\s*,\s*([0-9.]+)%\s*(?:,\s*([0-9.]+)\s*)?\)$`)
)

// ParseColor recognizes #hex, rgb()/rgba(), and hsl()/hsla() strings.
// Unrecognized input parses to opaque black rather than returning an error;
// use Valid to distinguish.
func ParseColor(s string) RGBA {
	c, err := parseColorStrict(s)
	if err != nil {
		return Black
	}
	return c
}

// Valid reports whether s is a syntactically valid color string.
func Valid(s string) bool {
	_, err := parseColorStrict(s)
	return err == nil
}

// Parse is the strict counterpart of ParseColor: unrecognized input returns
// an error instead of black.
func Parse(s string) (RGBA, error) {
	return parseColorStrict(s)
}

func parseColorStrict(s string) (RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if strings.HasPrefix(s, "#") {
		return ParseHex(s)
	}

	if m := rgbRe.FindStringSubmatch(s); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r > 255 || g > 255 || b > 255 {
			return RGBA{}, fmt.Errorf("rgb channel out of range in %q", s)
		}
		a := 1.0
		if m[4] != "" {
			var err error
			if a, err = strconv.ParseFloat(m[4], 64); err != nil || a < 0 || a > 1 {
				return RGBA{}, fmt.Errorf("invalid alpha in %q", s)
			}
		}
		return RGBA{R: r, G: g, B: b, A: a}, nil
	}

	if m := hslRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		sat, _ := strconv.ParseFloat(m[2], 64)
		l, _ := strconv.ParseFloat(m[3], 64)
		if sat > 100 || l > 100 {
			return RGBA{}, fmt.Errorf("hsl component out of range in %q", s)
		}
		a := 1.0
		if m[4] != "" {
			var err error
			if a, err = strconv.ParseFloat(m[4], 64); err != nil || a < 0 || a > 1 {
				return RGBA{}, fmt.Errorf("invalid alpha in %q", s)
			}
		}
		return HSLAToRGBA(HSLA{H: math.Mod(h, 360), S: sat / 100, L: l / 100, A: a}), nil
	}

	return RGBA{}, fmt.Errorf("unrecognized color %q", s)
}

// FormatColor renders the color in the requested textual form. The alpha
// channel is omitted when it equals 1.
func FormatColor(c RGBA, f Format) string {
	switch f {
	case FormatRGB:
		if c.A >= 1 {
			return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
		}
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, trimFloat(c.A))
	case FormatHSL:
		h := RGBAToHSLA(c)
		hh := math.Round(h.H)
		ss := math.Round(h.S * 100)
		ll := math.Round(h.L * 100)
		if c.A >= 1 {
			return fmt.Sprintf("hsl(%g, %g%%, %g%%)", hh, ss, ll)
		}
		return fmt.Sprintf("hsla(%g, %g%%, %g%%, %s)", hh, ss, ll, trimFloat(c.A))
	default:
		return Hex(c)
	}
}

// relativeLuminance implements the WCAG sRGB luminance transform.
func relativeLuminance(c RGBA) float64 {
	lin := func(v int) float64 {
		ch := float64(v) / 255
		if ch <= 0.03928 {
			return ch / 12.92
		}
		return math.Pow((ch+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio returns the WCAG contrast ratio between two colors,
// ranging from 1 (identical) to 21 (black on white).
func ContrastRatio(c1, c2 RGBA) float64 {
	l1 := relativeLuminance(c1)
	l2 := relativeLuminance(c2)
	return (math.Max(l1, l2) + 0.05) / (math.Min(l1, l2) + 0.05)
}

// WCAG conformance levels for MeetsContrastRequirements.
const (
	LevelAA  = "AA"
	LevelAAA = "AAA"
)

// MeetsContrastRequirements reports whether foreground text on the given
// background satisfies the WCAG level (AA: 4.5, AAA: 7).
func MeetsContrastRequirements(fg, bg RGBA, level string) bool {
	threshold := 4.5
	if level == LevelAAA {
		threshold = 7
	}
	return ContrastRatio(fg, bg) >= threshold
}

// ColorSimilarity returns 1 minus the euclidean RGB distance normalized by
// 441 (the distance from black to white), clamped to >= 0.
func ColorSimilarity(c1, c2 RGBA) float64 {
	dr := float64(c1.R - c2.R)
	dg := float64(c1.G - c2.G)
	db := float64(c1.B - c2.B)
	dist := math.Sqrt(dr*dr + dg*dg + db*db)
	sim := 1 - dist/441
	if sim < 0 {
		return 0
	}
	return sim
}

// Darken scales each channel of a hex color by (1-amount), clamped to 0,
// and returns the result as hex. The amount is a 0-1 fraction.
func Darken(hex string, amount float64) string {
	c := ParseColor(hex)
	scale := func(v int) int {
		d := int(math.Round(float64(v) * (1 - amount)))
		if d < 0 {
			return 0
		}
		return d
	}
	return Hex(RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A})
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func clamp255(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return r
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 3, 64)
}
