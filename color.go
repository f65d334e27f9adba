package chromaview

import "image/color"

// RGB represents an 8-bit-per-channel opaque color, the pixel format used
// throughout the pipeline (3 bytes per pixel, no alpha).
type RGB struct {
	R, G, B uint8
}

// Color converts RGB to the standard color.Color interface.
func (c RGB) Color() color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Complement returns the complementary color, obtained by subtracting each
// channel from 255. The complement of a palette color is used for watermark
// ink so it always contrasts with the background.
func (c RGB) Complement() RGB {
	return RGB{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// PaletteColor is a named entry in the generator's color palette.
type PaletteColor struct {
	Name string
	RGB  RGB
}

// Palette is the set of colors the random generator draws from.
// Order is fixed so that index-seeded selection is reproducible.
var Palette = []PaletteColor{
	{"black", RGB{0, 0, 0}},
	{"white", RGB{255, 255, 255}},
	{"red", RGB{255, 0, 0}},
	{"yellow", RGB{255, 255, 0}},
	{"lime", RGB{0, 255, 0}},
	{"aqua", RGB{0, 255, 255}},
	{"blue", RGB{0, 0, 255}},
	{"fuchsia", RGB{255, 0, 255}},
}

// PaletteName returns the name of a palette color, or "" if the color is not
// in the palette. The palette is small enough that a linear scan beats
// maintaining a reverse map.
func PaletteName(c RGB) string {
	for _, p := range Palette {
		if p.RGB == c {
			return p.Name
		}
	}
	return ""
}

// PaletteLookup returns the palette color with the given name.
func PaletteLookup(name string) (RGB, bool) {
	for _, p := range Palette {
		if p.Name == name {
			return p.RGB, true
		}
	}
	return RGB{}, false
}
