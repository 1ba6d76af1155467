package sandsim

import (
	"fmt"
	"image/color"
)

// ParseColor parses a hex color in one of the forms "RGB", "RGBA",
// "RRGGBB" or "RRGGBBAA", with or without a leading '#'. Short forms
// repeat each digit; alpha defaults to opaque.
func ParseColor(hex string) (color.RGBA, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var v [4]uint8
	v[3] = 0xFF
	switch len(s) {
	case 3, 4:
		for i := 0; i < len(s); i++ {
			d, ok := hexDigit(s[i])
			if !ok {
				return color.RGBA{}, fmt.Errorf("invalid color %q", hex)
			}
			v[i] = d * 17
		}
	case 6, 8:
		for i := 0; i < len(s); i += 2 {
			hi, ok1 := hexDigit(s[i])
			lo, ok2 := hexDigit(s[i+1])
			if !ok1 || !ok2 {
				return color.RGBA{}, fmt.Errorf("invalid color %q", hex)
			}
			v[i/2] = hi<<4 | lo
		}
	default:
		return color.RGBA{}, fmt.Errorf("invalid color %q: want 3, 4, 6 or 8 hex digits", hex)
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// ParsePalette builds a palette from two hex colors. An empty string keeps
// the DefaultPalette color.
func ParsePalette(sand, empty string) (Palette, error) {
	p := DefaultPalette
	var err error
	if sand != "" {
		if p.Sand, err = ParseColor(sand); err != nil {
			return DefaultPalette, fmt.Errorf("sand color: %w", err)
		}
	}
	if empty != "" {
		if p.Empty, err = ParseColor(empty); err != nil {
			return DefaultPalette, fmt.Errorf("empty color: %w", err)
		}
	}
	return p, nil
}
