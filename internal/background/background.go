// Canvas background: a cover-cropped reference image or a solid fill,
// computed at most once per canvas size and reused for every frame.
package background

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	cfg "github.com/wplace-archive/go-tilelapse/internal/config"
	"github.com/wplace-archive/go-tilelapse/internal/logger"
	"github.com/wplace-archive/go-tilelapse/internal/storage"
)

var SolidColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

type sizeKey struct {
	w, h int
}

// Provider is owned by one run. The cache is keyed by canvas size, which is
// fixed for the run, so the reference image is decoded at most once.
type Provider struct {
	cfg   *cfg.Config
	cache map[sizeKey]image.Image
	load  func(path string) (image.Image, error)
}

func NewProvider(c *cfg.Config) *Provider {
	return &Provider{
		cfg:   c,
		cache: make(map[sizeKey]image.Image),
		load:  storage.ReadImage,
	}
}

// Background returns the opaque background for the given canvas size.
func (p *Provider) Background(w, h int) image.Image {
	key := sizeKey{w, h}
	if bg, ok := p.cache[key]; ok {
		return bg
	}
	bg := p.build(w, h)
	p.cache[key] = bg
	return bg
}

func (p *Provider) build(w, h int) image.Image {
	log := logger.Log.WithField("scope", "background")

	if p.cfg.NoBackground || p.cfg.BackgroundImage == "" {
		log.Debugf("Using solid background %dx%d", w, h)
		return solid(w, h)
	}

	ref, err := p.load(p.cfg.BackgroundImage)
	if err != nil {
		log.Warnf("Background image unusable, falling back to solid fill: %v", err)
		return solid(w, h)
	}
	log.Infof("Using background image %s", p.cfg.BackgroundImage)
	return coverCrop(ref, w, h)
}

func solid(w, h int) image.Image {
	bg := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(bg, bg.Bounds(), image.NewUniform(SolidColor), image.Point{}, draw.Src)
	return bg
}

// coverCrop scales ref up until it fully covers w x h (nearest-neighbor),
// then center-crops, remainders floored toward top-left.
func coverCrop(ref image.Image, w, h int) image.Image {
	b := ref.Bounds()
	rw, rh := b.Dx(), b.Dy()
	if rw <= 0 || rh <= 0 {
		return solid(w, h)
	}

	scale := math.Max(float64(w)/float64(rw), float64(h)/float64(rh))
	sw := int(float64(rw) * scale)
	sh := int(float64(rh) * scale)
	if sw < w {
		sw = w
	}
	if sh < h {
		sh = h
	}
	cx := (sw - w) / 2
	cy := (sh - h) / 2

	// flatten over solid fill so a reference with alpha still yields an
	// opaque background
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(SolidColor), image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(dst, image.Rect(-cx, -cy, -cx+sw, -cy+sh), ref, b, draw.Over, nil)
	return dst
}
