package chromaview

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Pixmap represents a rectangular pixel buffer in row-major RGB format,
// 3 bytes per pixel. The buffer size is always width*height*3.
//
// Pixmap implements image.Image and draw.Image, so the standard image
// packages (including golang.org/x/image/font drawing) can read from and
// write into it directly.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGB format, 3 bytes per pixel
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*3),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGB format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel. Out-of-bounds writes are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGB) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 3
	p.data[i+0] = c.R
	p.data[i+1] = c.G
	p.data[i+2] = c.B
}

// GetPixel returns the color of a single pixel.
// Out-of-bounds reads return black.
func (p *Pixmap) GetPixel(x, y int) RGB {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return RGB{}
	}
	i := (y*p.width + x) * 3
	return RGB{R: p.data[i+0], G: p.data[i+1], B: p.data[i+2]}
}

// Fill sets every pixel to the given color.
func (p *Pixmap) Fill(c RGB) {
	for i := 0; i < len(p.data); i += 3 {
		p.data[i+0] = c.R
		p.data[i+1] = c.G
		p.data[i+2] = c.B
	}
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).Color()
}

// Set implements the draw.Image interface, allowing font rasterization and
// other standard image operations to write into the pixmap. Alpha is
// composited over the existing pixel.
func (p *Pixmap) Set(x, y int, c color.Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return
	}
	if a == 0xffff {
		p.SetPixel(x, y, RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
		return
	}
	// Source-over blend of the premultiplied source onto the opaque pixmap.
	dst := p.GetPixel(x, y)
	inv := 0xffff - a
	p.SetPixel(x, y, RGB{
		R: uint8((r + uint32(dst.R)*0x101*inv/0xffff) >> 8),
		G: uint8((g + uint32(dst.G)*0x101*inv/0xffff) >> 8),
		B: uint8((b + uint32(dst.B)*0x101*inv/0xffff) >> 8),
	})
}

// ToImage converts the pixmap to an image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for y := 0; y < p.height; y++ {
		src := y * p.width * 3
		dst := y * img.Stride
		for x := 0; x < p.width; x++ {
			img.Pix[dst+0] = p.data[src+0]
			img.Pix[dst+1] = p.data[src+1]
			img.Pix[dst+2] = p.data[src+2]
			img.Pix[dst+3] = 255
			src += 3
			dst += 4
		}
	}
	return img
}

// FromImage creates a pixmap from an image, dropping any alpha channel.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pm := NewPixmap(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pm.SetPixel(x, y, RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
		}
	}

	return pm
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, p.ToImage())
}
