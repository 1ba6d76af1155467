package sandsim

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#FFFF00", color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}},
		{"ffff00", color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}},
		{"#f80", color.RGBA{R: 0xFF, G: 0x88, B: 0x00, A: 0xFF}},
		{"#f808", color.RGBA{R: 0xFF, G: 0x88, B: 0x00, A: 0x88}},
		{"#10203040", color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{"#000", color.RGBA{A: 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#GGGGGG", "yellow"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) error = nil", in)
		}
	}
}

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette("", "")
	if err != nil || p != DefaultPalette {
		t.Errorf("ParsePalette(\"\", \"\") = %v, %v; want DefaultPalette", p, err)
	}

	p, err = ParsePalette("#C2B280", "#202020")
	if err != nil {
		t.Fatalf("ParsePalette() error = %v", err)
	}
	if p.Sand != (color.RGBA{R: 0xC2, G: 0xB2, B: 0x80, A: 0xFF}) || p.Empty != (color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}) {
		t.Errorf("ParsePalette() = %v", p)
	}

	if _, err := ParsePalette("#C2B280", "nope"); err == nil {
		t.Error("ParsePalette() with bad empty color: error = nil")
	}
}
