// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package antennamap

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	goldenAngle = 137.508

	groupSaturation = 70
	groupLightness  = 60
)

// Color is an HSL colour. Hue is in degrees, Saturation and Lightness in percent.
type Color struct {
	Hue        float64
	Saturation float64
	Lightness  float64
}

// ColorFor returns the colour of the group at ordinal index i.
// Consecutive indices are spaced by the golden angle so hues never cycle quickly.
func ColorFor(i int) Color {
	if i < 0 {
		i = -i
	}
	return Color{
		Hue:        math.Mod(float64(i)*goldenAngle, 360),
		Saturation: groupSaturation,
		Lightness:  groupLightness,
	}
}

// String returns the CSS hsl() form of c.
func (c Color) String() string {
	return fmt.Sprintf("hsl(%s, %s%%, %s%%)",
		strconv.FormatFloat(c.Hue, 'f', -1, 64),
		strconv.FormatFloat(c.Saturation, 'f', -1, 64),
		strconv.FormatFloat(c.Lightness, 'f', -1, 64))
}

// Hex returns c as #rrggbb.
func (c Color) Hex() string {
	return colorful.Hsl(c.Hue, c.Saturation/100, c.Lightness/100).Clamped().Hex()
}

// ParseColor reads the hsl() form produced by String.
func ParseColor(s string) (Color, error) {
	var c Color
	if _, err := fmt.Sscanf(s, "hsl(%g, %g%%, %g%%)", &c.Hue, &c.Saturation, &c.Lightness); err != nil {
		return Color{}, fmt.Errorf("antennamap: parse colour %q: %w", s, err)
	}
	return c, nil
}

// HexOf returns a CSS colour in hsl() or #rrggbb form as #rrggbb.
func HexOf(css string) (string, error) {
	if c, err := ParseColor(css); err == nil {
		return c.Hex(), nil
	}
	c, err := colorful.Hex(css)
	if err != nil {
		return "", fmt.Errorf("antennamap: unsupported colour %q", css)
	}
	return c.Hex(), nil
}
