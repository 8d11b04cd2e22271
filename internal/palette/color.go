// Package palette holds overlay colours and the three-bucket threshold mapping
// shared by the load and fps widgets.
package palette

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"codeberg.org/mutker/hudstats/internal/errors"
)

// Color is a normalized RGBA colour, each channel in [0,1].
type Color struct {
	R, G, B, A float32
}

// ParseHex parses "RRGGBB", optionally prefixed with '#' or "0x".
func ParseHex(s string) (Color, error) {
	errFactory := errors.New()

	hex := strings.TrimSpace(s)
	hex = strings.TrimPrefix(hex, "#")
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")
	if len(hex) != 6 {
		return Color{}, errFactory.WithData(ErrInvalidHex, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, errFactory.Wrap(ErrInvalidHex, err)
	}

	return FromUint32(uint32(v)), nil
}

// MustParseHex is ParseHex for constants known to be valid.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromUint32 unpacks 0xRRGGBB into an opaque colour.
func FromUint32(rgb uint32) Color {
	return Color{
		R: float32((rgb>>16)&0xff) / 255,
		G: float32((rgb>>8)&0xff) / 255,
		B: float32(rgb&0xff) / 255,
		A: 1,
	}
}

// Hex formats the colour as "RRGGBB", ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}

// SRGBToLinear converts the colour channels from sRGB to linear space. Alpha
// is unchanged.
func (c Color) SRGBToLinear() Color {
	return Color{R: toLinear(c.R), G: toLinear(c.G), B: toLinear(c.B), A: c.A}
}

// LinearToSRGB is the inverse of SRGBToLinear.
func (c Color) LinearToSRGB() Color {
	return Color{R: toSRGB(c.R), G: toSRGB(c.G), B: toSRGB(c.B), A: c.A}
}

func toLinear(v float32) float32 {
	f := float64(v)
	if f <= 0.04045 {
		return float32(f / 12.92)
	}
	return float32(math.Pow((f+0.055)/1.055, 2.4))
}

func toSRGB(v float32) float32 {
	f := float64(v)
	if f <= 0.0031308 {
		return float32(f * 12.92)
	}
	return float32(1.055*math.Pow(f, 1/2.4) - 0.055)
}
