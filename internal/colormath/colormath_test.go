package colormath

import (
	"math"
	"testing"
)

func TestParseHex_Forms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want RGBA
	}{
		{"six digit", "#112233", RGBA{R: 0x11, G: 0x22, B: 0x33, A: 1}},
		{"three digit expands", "#abc", RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 1}},
		{"eight digit alpha", "#11223380", RGBA{R: 0x11, G: 0x22, B: 0x33, A: 128.0 / 255}},
		{"no hash", "ffcc00", RGBA{R: 0xff, G: 0xcc, B: 0x00, A: 1}},
		{"white", "#fff", RGBA{R: 255, G: 255, B: 255, A: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if err != nil {
				t.Fatalf("ParseHex(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#12345", "#gggggg", "#123456789"} {
		if _, err := ParseHex(in); err == nil {
			t.Errorf("ParseHex(%q) expected error", in)
		}
	}
}

func TestHex_RoundTrip(t *testing.T) {
	for _, in := range []string{"#112233", "#abcdef", "#000000", "#ffffff", "#11223380"} {
		c, err := ParseHex(in)
		if err != nil {
			t.Fatalf("ParseHex(%q) error = %v", in, err)
		}
		back, err := ParseHex(Hex(c))
		if err != nil {
			t.Fatalf("re-parse %q: %v", Hex(c), err)
		}
		if back.R != c.R || back.G != c.G || back.B != c.B {
			t.Errorf("round trip %q: got %+v, want %+v", in, back, c)
		}
		if math.Abs(back.A-c.A) > 1.0/255 {
			t.Errorf("round trip %q alpha: got %v, want %v", in, back.A, c.A)
		}
	}
}

func TestParseColor_Functional(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"rgb(255, 128, 0)", RGBA{R: 255, G: 128, B: 0, A: 1}},
		{"rgba(10, 20, 30, 0.5)", RGBA{R: 10, G: 20, B: 30, A: 0.5}},
		{"hsl(0, 100%, 50%)", RGBA{R: 255, G: 0, B: 0, A: 1}},
		{"hsl(120, 100%, 50%)", RGBA{R: 0, G: 255, B: 0, A: 1}},
		{"hsla(240, 100%, 50%, 0.25)", RGBA{R: 0, G: 0, B: 255, A: 0.25}},
	}

	for _, tt := range tests {
		got := ParseColor(tt.in)
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseColor_UnrecognizedFallsBackToBlack(t *testing.T) {
	for _, in := range []string{"", "not-a-color", "rgb(300, 0, 0)", "cmyk(0,0,0,0)"} {
		if got := ParseColor(in); got != Black {
			t.Errorf("ParseColor(%q) = %+v, want opaque black", in, got)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("#3b82f6") || !Valid("rgb(1, 2, 3)") || !Valid("hsl(10, 50%, 50%)") {
		t.Error("expected well-formed colors to be valid")
	}
	if Valid("blue-ish") || Valid("#12345") {
		t.Error("expected malformed colors to be invalid")
	}
}

func TestHSLRoundTrip(t *testing.T) {
	for _, in := range []string{"#3b82f6", "#10b981", "#f59e0b", "#808080", "#000000", "#ffffff"} {
		c, _ := ParseHex(in)
		back := HSLAToRGBA(RGBAToHSLA(c))
		if abs(back.R-c.R) > 1 || abs(back.G-c.G) > 1 || abs(back.B-c.B) > 1 {
			t.Errorf("HSL round trip %q: got %+v, want %+v", in, back, c)
		}
	}
}

func TestHSVRoundTrip(t *testing.T) {
	for _, in := range []string{"#3b82f6", "#ef4444", "#64748b", "#ffffff"} {
		c, _ := ParseHex(in)
		back := HSVAToRGBA(RGBAToHSVA(c))
		if abs(back.R-c.R) > 1 || abs(back.G-c.G) > 1 || abs(back.B-c.B) > 1 {
			t.Errorf("HSV round trip %q: got %+v, want %+v", in, back, c)
		}
	}
}

func TestFormatColor(t *testing.T) {
	opaque := RGBA{R: 17, G: 34, B: 51, A: 1}
	if got := FormatColor(opaque, FormatHex); got != "#112233" {
		t.Errorf("hex format = %q", got)
	}
	if got := FormatColor(opaque, FormatRGB); got != "rgb(17, 34, 51)" {
		t.Errorf("rgb format = %q", got)
	}

	translucent := RGBA{R: 17, G: 34, B: 51, A: 0.5}
	if got := FormatColor(translucent, FormatRGB); got != "rgba(17, 34, 51, 0.5)" {
		t.Errorf("rgba format = %q", got)
	}
}

func TestContrastRatio_BlackOnWhite(t *testing.T) {
	white := RGBA{R: 255, G: 255, B: 255, A: 1}
	ratio := ContrastRatio(Black, white)
	if math.Abs(ratio-21) > 0.01 {
		t.Errorf("ContrastRatio(black, white) = %v, want 21", ratio)
	}
	if !MeetsContrastRequirements(Black, white, LevelAAA) {
		t.Error("black on white should meet AAA")
	}
}

func TestMeetsContrastRequirements_Thresholds(t *testing.T) {
	white := RGBA{R: 255, G: 255, B: 255, A: 1}
	midGray := RGBA{R: 128, G: 128, B: 128, A: 1}

	// Mid gray on white is ~3.95: fails AA and AAA.
	if MeetsContrastRequirements(midGray, white, LevelAA) {
		t.Error("mid gray on white should fail AA")
	}

	darkGray := RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 1}
	if !MeetsContrastRequirements(darkGray, white, LevelAA) {
		t.Error("#1f2937 on white should meet AA")
	}
}

func TestColorSimilarity(t *testing.T) {
	white := RGBA{R: 255, G: 255, B: 255, A: 1}

	if sim := ColorSimilarity(white, white); sim != 1 {
		t.Errorf("identical colors similarity = %v, want 1", sim)
	}
	if sim := ColorSimilarity(Black, white); sim > 0.001 {
		t.Errorf("black/white similarity = %v, want ~0", sim)
	}

	near := RGBA{R: 250, G: 250, B: 250, A: 1}
	if sim := ColorSimilarity(white, near); sim < 0.9 {
		t.Errorf("near-identical similarity = %v, want > 0.9", sim)
	}
}

func TestDarken(t *testing.T) {
	if got := Darken("#ffffff", 0.5); got != "#808080" {
		t.Errorf("Darken(#ffffff, 0.5) = %q, want #808080", got)
	}
	if got := Darken("#000000", 0.3); got != "#000000" {
		t.Errorf("Darken(#000000, 0.3) = %q, want #000000", got)
	}
	if got := Darken("#646464", 1); got != "#000000" {
		t.Errorf("Darken(#646464, 1) = %q, want #000000", got)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
