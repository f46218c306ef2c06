// Package palette holds the highlight colors and hands them out in turn.
package palette

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is one selectable highlight color.
type Color struct {
	Name  string
	Value string
	Icon  string
}

// Label is the text shown for the color in choice lists.
func (c Color) Label() string {
	return c.Icon + " " + c.Name
}

// Palette is an ordered, non-empty list of colors.
type Palette []Color

var builtin = Palette{
	{Name: "Jungle Getaway", Value: "rgba(125, 225, 152, 0.2)", Icon: "🟢"},
	{Name: "Orange", Value: "rgba(255, 140, 0, 0.2)", Icon: "🟠"},
	{Name: "Purple", Value: "rgba(138, 43, 226, 0.2)", Icon: "🟣"},
	{Name: "Blue", Value: "rgba(70, 130, 180, 0.2)", Icon: "🔵"},
	{Name: "Red", Value: "rgba(220, 20, 60, 0.2)", Icon: "🔴"},
}

// Default returns a copy of the built-in five color palette.
func Default() Palette {
	p := make(Palette, len(builtin))
	copy(p, builtin)
	return p
}

// FromCustom builds a palette from user supplied color values. Names are
// numbered and icons are picked from the hue of each value.
func FromCustom(values []string) Palette {
	p := make(Palette, 0, len(values))
	for i, v := range values {
		p = append(p, Color{
			Name:  fmt.Sprintf("Custom Color %d", i+1),
			Value: v,
			Icon:  Icon(v),
		})
	}
	return p
}

// New returns the custom palette when any custom values are configured and
// the built-in one otherwise.
func New(custom []string) Palette {
	if len(custom) == 0 {
		return Default()
	}
	return FromCustom(custom)
}

// Icon picks a colored circle emoji that resembles value.
func Icon(value string) string {
	c, ok := ParseColor(value)
	if !ok {
		return "🎨"
	}

	h, s, v := c.Hsv()
	switch {
	case s < 0.15 && v < 0.5:
		return "⚫"
	case s < 0.15:
		return "⚪"
	case h < 15 || h >= 330:
		return "🔴"
	case h < 45:
		return "🟠"
	case h < 70:
		return "🟡"
	case h < 170:
		return "🟢"
	case h < 250:
		return "🔵"
	default:
		return "🟣"
	}
}

// ParseColor understands the CSS notations editors accept for decoration
// colors: #rgb, #rrggbb, #rrggbbaa, rgb(r, g, b) and rgba(r, g, b, a).
// The alpha component is ignored.
func ParseColor(value string) (colorful.Color, bool) {
	v := strings.ToLower(strings.TrimSpace(value))

	if strings.HasPrefix(v, "#") {
		if len(v) == 9 {
			v = v[:7]
		}
		c, err := colorful.Hex(v)
		if err != nil {
			return colorful.Color{}, false
		}
		return c, true
	}

	var args string
	switch {
	case strings.HasPrefix(v, "rgba(") && strings.HasSuffix(v, ")"):
		args = v[len("rgba(") : len(v)-1]
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		args = v[len("rgb(") : len(v)-1]
	default:
		return colorful.Color{}, false
	}

	parts := strings.Split(args, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return colorful.Color{}, false
	}

	var rgb [3]float64
	for i := range rgb {
		n, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || n < 0 || n > 255 {
			return colorful.Color{}, false
		}
		rgb[i] = n / 255
	}
	return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, true
}
