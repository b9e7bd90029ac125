package imaging

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	captionMargin      = 20
	captionStrokeWidth = 2
)

var (
	captionFill   = color.NRGBA{R: 255, G: 255, B: 255, A: 230}
	captionStroke = color.NRGBA{R: 0, G: 0, B: 0, A: 160}
)

// drawCaption renders the text near-bottom-center, light fill over a dark
// stroke so it stays readable on any background. Drawn on the flattened
// frame, stroke alpha has to blend against final pixels.
func (c *Compositor) drawCaption(frame *image.RGBA, text string) {
	if text == "" {
		return
	}

	face := basicfont.Face7x13
	metrics := face.Metrics()
	tw := font.MeasureString(face, text).Ceil()
	th := metrics.Height.Ceil()

	x := (c.width - tw) / 2
	top := c.height - th - captionMargin
	baseline := top + metrics.Ascent.Ceil()

	d := &font.Drawer{
		Dst:  frame,
		Face: face,
		Src:  image.NewUniform(captionStroke),
	}
	for dy := -captionStrokeWidth; dy <= captionStrokeWidth; dy++ {
		for dx := -captionStrokeWidth; dx <= captionStrokeWidth; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.P(x+dx, baseline+dy)
			d.DrawString(text)
		}
	}

	d.Src = image.NewUniform(captionFill)
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}
