package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wplace-archive/go-tilelapse/internal/logger"
)

const (
	// fallback canvas size when no source image can be inspected
	DefaultVideoWidth  = 3000
	DefaultVideoHeight = 3000

	// large captures get auto-halved above this width
	AutoHalfMinWidth = 4000

	FPS = 9

	DefaultCodec  = "libx264"
	DefaultCRF    = "15"
	DefaultPreset = "slow"
	// yuv444p keeps chroma crisp on pixel-art
	DefaultPixFmt = "yuv444p"
	DefaultFFmpeg = "ffmpeg"

	PathOutputDir    = "output"
	PathTimelapseDir = "timelapse"

	// merged_tiles_<YYYYMMDD>_<HHMMSS>.<ext>
	ImagePrefix  = "merged_tiles_"
	FramePattern = "frame_%05d.png"
)

// capture timezone, WIB (UTC+7)
var CaptureTZ = time.FixedZone("WIB", 7*60*60)

// Config is resolved from the environment once at startup and passed
// explicitly into every stage of the run.
type Config struct {
	// forced output size, 0 = auto-detect from the first image
	VideoWidth  int
	VideoHeight int
	// integer divisor applied to the detected source size, 0 = off
	Downscale int

	Codec     string
	CRF       string
	Preset    string
	PixFmt    string
	ExtraArgs []string
	FFmpegBin string

	KeepFrames bool
	SkipLatest bool

	// optional reference image used as the canvas background
	BackgroundImage string
	NoBackground    bool

	OutputDir    string
	TimelapseDir string
}

func FromEnv() *Config {
	log := logger.Log.WithField("scope", "config")

	c := &Config{
		Codec:           envOr("VIDEO_CODEC", DefaultCodec),
		CRF:             envOr("CRF", DefaultCRF),
		Preset:          envOr("PRESET", DefaultPreset),
		PixFmt:          envOr("PIX_FMT", DefaultPixFmt),
		FFmpegBin:       envOr("FFMPEG", DefaultFFmpeg),
		KeepFrames:      os.Getenv("KEEP_FRAMES") != "",
		SkipLatest:      os.Getenv("SKIP_LATEST_COPY") != "",
		BackgroundImage: os.Getenv("BACKGROUND_IMAGE"),
		NoBackground:    os.Getenv("DISABLE_BACKGROUND") != "",
		OutputDir:       envOr("OUTPUT_DIR", PathOutputDir),
		TimelapseDir:    envOr("TIMELAPSE_DIR", PathTimelapseDir),
	}

	if extra := os.Getenv("EXTRA_FFMPEG"); extra != "" {
		c.ExtraArgs = strings.Fields(extra)
	}

	envW := os.Getenv("VIDEO_WIDTH")
	envH := os.Getenv("VIDEO_HEIGHT")
	if envW != "" && envH != "" {
		w, errW := strconv.Atoi(envW)
		h, errH := strconv.Atoi(envH)
		if errW == nil && errH == nil && w > 0 && h > 0 {
			c.VideoWidth = w
			c.VideoHeight = h
		} else {
			log.Warn("Invalid VIDEO_WIDTH/VIDEO_HEIGHT; ignoring")
		}
	}

	if ds := os.Getenv("DOWNSCALE_FACTOR"); ds != "" {
		f, err := strconv.Atoi(ds)
		if err != nil || f < 1 {
			log.Warn("Invalid DOWNSCALE_FACTOR; ignoring")
		} else {
			c.Downscale = f
		}
	}

	return c
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
