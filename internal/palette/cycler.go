package palette

// Cycler hands out palette colors in turn, wrapping around at the end.
type Cycler struct {
	palette Palette
	cursor  uint64
}

func NewCycler(p Palette) *Cycler {
	if len(p) == 0 {
		p = Default()
	}
	return &Cycler{palette: p}
}

// Next returns the color under the cursor and advances it.
func (c *Cycler) Next() Color {
	color := c.palette[c.cursor%uint64(len(c.palette))]
	c.cursor++
	return color
}

// Pick returns the first palette entry in single color mode without moving
// the cursor, and the next color in turn otherwise.
func (c *Cycler) Pick(singleColor bool) Color {
	if singleColor {
		return c.palette[0]
	}
	return c.Next()
}

func (c *Cycler) Palette() Palette {
	return c.palette
}

// SetPalette swaps the colors. The cursor keeps counting.
func (c *Cycler) SetPalette(p Palette) {
	if len(p) == 0 {
		p = Default()
	}
	c.palette = p
}
