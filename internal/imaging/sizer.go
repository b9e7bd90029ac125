package imaging

import (
	cfg "github.com/wplace-archive/go-tilelapse/internal/config"
	"github.com/wplace-archive/go-tilelapse/internal/logger"
	"github.com/wplace-archive/go-tilelapse/internal/storage"
)

// DetermineSize picks the canvas size for the whole run.
//
//  1. forced VIDEO_WIDTH/VIDEO_HEIGHT
//  2. first image size divided by DOWNSCALE_FACTOR when it divides evenly
//  3. auto half-size for very wide captures (>= 4000px, even dims)
//  4. first image size as is
//  5. fallback default when there is nothing to inspect
func DetermineSize(c *cfg.Config, images []string) (int, int) {
	log := logger.Log.WithField("scope", "sizer")

	if c.VideoWidth > 0 && c.VideoHeight > 0 {
		log.Infof("Using forced video size %dx%d", c.VideoWidth, c.VideoHeight)
		return c.VideoWidth, c.VideoHeight
	}

	if len(images) > 0 {
		sw, sh, err := storage.ReadImageSize(images[0])
		switch {
		case err != nil:
			log.Warnf("Size inspect failed: %v", err)
		case sw <= 0 || sh <= 0:
			log.Warnf("Size inspect failed: bogus dimensions %dx%d", sw, sh)
		default:
			if f := c.Downscale; f > 1 {
				if sw%f == 0 && sh%f == 0 {
					log.Infof("Downscale factor %d: %dx%d -> %dx%d", f, sw, sh, sw/f, sh/f)
					return sw / f, sh / f
				}
				log.Warn("DOWNSCALE_FACTOR is not a divisor of the source size; ignoring")
			}
			if sw >= cfg.AutoHalfMinWidth && sw%2 == 0 && sh%2 == 0 {
				log.Infof("Auto half-size %dx%d -> %dx%d", sw, sh, sw/2, sh/2)
				return sw / 2, sh / 2
			}
			log.Infof("Using original size %dx%d", sw, sh)
			return sw, sh
		}
	}

	log.Infof("Fallback default %dx%d", cfg.DefaultVideoWidth, cfg.DefaultVideoHeight)
	return cfg.DefaultVideoWidth, cfg.DefaultVideoHeight
}
