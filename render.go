package chromaview

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// watermarkFont holds the parsed label font, shared by all workers.
// Faces are created per render because an opentype face is not safe for
// concurrent use; the parsed font itself is.
var (
	fontOnce sync.Once
	fontTTF  *sfnt.Font
	fontErr  error
)

func watermarkFont() (*sfnt.Font, error) {
	fontOnce.Do(func() {
		fontTTF, fontErr = opentype.Parse(goregular.TTF)
	})
	return fontTTF, fontErr
}

// Watermark is the default render function: it fills the image with a random
// palette color and stamps a size-relative watermark in the complementary
// color, namely a filled circle at the center (radius = min(w,h)/4) with the
// color's name above it.
//
// Watermark is deterministic in output size only, never in content. It is
// safe for concurrent use.
func Watermark(job Job) (*Pixmap, error) {
	return WatermarkWith(job, Palette[rand.IntN(len(Palette))])
}

// WatermarkWith renders the watermarked image for a specific palette color.
// It exists so tests and callers can pin the color; Watermark picks one at
// random.
func WatermarkWith(job Job, pc PaletteColor) (*Pixmap, error) {
	if job.Width < 1 || job.Height < 1 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", job.Width, job.Height)
	}

	pm := NewPixmap(job.Width, job.Height)
	pm.Fill(pc.RGB)

	ink := pc.RGB.Complement()
	radius := min(job.Width, job.Height) / 4
	cx, cy := job.Width/2, job.Height/2

	fillCircle(pm, cx, cy, radius, ink)

	// The label scales with the circle; on tiny images it would degrade
	// into unreadable smudge, so it is skipped below a minimum face size.
	size := float64(radius) * 0.4
	if size >= 6 {
		if err := drawLabel(pm, pc.Name, cx, cy-radius-radius/4, size, ink); err != nil {
			return nil, fmt.Errorf("label %q: %w", pc.Name, err)
		}
	}

	return pm, nil
}

// fillCircle draws a filled circle by horizontal spans. Spans that fall
// outside the pixmap are clipped by SetPixel.
func fillCircle(pm *Pixmap, cx, cy, r int, c RGB) {
	for dy := -r; dy <= r; dy++ {
		span := int(math.Sqrt(float64(r*r - dy*dy)))
		for dx := -span; dx <= span; dx++ {
			pm.SetPixel(cx+dx, cy+dy, c)
		}
	}
}

// drawLabel renders text centered horizontally at x with its baseline at y.
// The label is dropped (not an error) when it would overflow the image width.
func drawLabel(pm *Pixmap, text string, x, y int, size float64, c RGB) error {
	fnt, err := watermarkFont()
	if err != nil {
		return err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = face.Close()
	}()

	d := font.Drawer{
		Dst:  pm,
		Src:  image.NewUniform(c.Color()),
		Face: face,
	}
	width := d.MeasureString(text)
	if width.Ceil() > pm.Width() {
		return nil
	}
	d.Dot = fixed.Point26_6{
		X: fixed.I(x) - width/2,
		Y: fixed.I(y),
	}
	d.DrawString(text)
	return nil
}
