// Frame composition: pixel-art safe resizing, letterboxing and captions.
// All scaling is nearest-neighbor, smoothing would blur the tile art.
package imaging

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

type Compositor struct {
	width      int
	height     int
	background image.Image
}

func NewCompositor(width, height int, background image.Image) *Compositor {
	return &Compositor{
		width:      width,
		height:     height,
		background: background,
	}
}

// Render produces one opaque canvas-sized frame: the source contain-fitted
// and centered over the run's background, with the caption burned in.
func (c *Compositor) Render(src image.Image, caption string) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(frame, frame.Bounds(), c.background, c.background.Bounds().Min, draw.Src)

	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == c.width && sh == c.height {
		draw.Draw(frame, frame.Bounds(), src, b.Min, draw.Over)
	} else if sw > 0 && sh > 0 {
		scale := math.Min(float64(c.width)/float64(sw), float64(c.height)/float64(sh))
		nw := int(float64(sw) * scale)
		nh := int(float64(sh) * scale)
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		// remainders floor toward top-left
		x := (c.width - nw) / 2
		y := (c.height - nh) / 2
		draw.NearestNeighbor.Scale(frame, image.Rect(x, y, x+nw, y+nh), src, b, draw.Over, nil)
	}

	c.drawCaption(frame, caption)
	return frame
}
