package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wplace-archive/go-tilelapse/internal/background"
	cfg "github.com/wplace-archive/go-tilelapse/internal/config"
	"github.com/wplace-archive/go-tilelapse/internal/imaging"
	"github.com/wplace-archive/go-tilelapse/internal/logger"
	"github.com/wplace-archive/go-tilelapse/internal/progress"
	"github.com/wplace-archive/go-tilelapse/internal/storage"
	"github.com/wplace-archive/go-tilelapse/internal/video"
)

// 1. collect the date's capture images, sorted by capture time
// 2. decide the canvas size once, build the background once
// 3. render every image into a numbered frame file
// 4. hand the frame sequence to ffmpeg, then clean up / update latest.mp4
func (c *Core) CreateTimelapse(date string) error {
	log := logger.Log.WithField("scope", "core")
	log.Infof("Creating timelapse for %s", date)

	images, err := storage.ImagesForDate(c.cfg.OutputDir, date)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return fmt.Errorf("no images found for %s", date)
	}

	width, height := imaging.DetermineSize(c.cfg, images)
	bg := background.NewProvider(c.cfg).Background(width, height)
	comp := imaging.NewCompositor(width, height, bg)

	framesDir, err := storage.CreateFramesDir()
	if err != nil {
		return err
	}
	log.Infof("Generating frames in %s", framesDir)

	written := c.renderFrames(images, framesDir, comp)
	if written == 0 {
		log.Warnf("Keeping frames dir for debugging: %s", framesDir)
		return fmt.Errorf("no frames rendered for %s", date)
	}

	err = os.MkdirAll(c.cfg.TimelapseDir, os.ModePerm)
	if err != nil {
		return fmt.Errorf("Error creating timelapse dir: %w", err)
	}
	outPath := filepath.Join(c.cfg.TimelapseDir, fmt.Sprintf("timelapse_%s.mp4", date))

	// spinner while ffmpeg runs, otherwise it won't animate
	progress.Spinner("Encoding video... ")
	done := make(chan bool)
	go func() {
		ticker := time.NewTicker(time.Millisecond * 300)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				progress.Add(1) // spin
			case <-done:
				return
			}
		}
	}()

	err = video.EncodeFrames(c.ctx, c.cfg, framesDir, cfg.FramePattern, outPath)
	close(done)
	progress.Finish()
	if err != nil {
		log.Warnf("Keeping frames for debugging: %s", framesDir)
		return err
	}

	if c.cfg.KeepFrames {
		log.Infof("Frames kept at %s", framesDir)
	} else {
		storage.RemoveFrames(framesDir)
	}
	log.Infof("Timelapse created: %s", outPath)

	if !c.cfg.SkipLatest {
		latest := filepath.Join(c.cfg.TimelapseDir, "latest.mp4")
		err = storage.CopyFile(outPath, latest)
		if err != nil {
			log.Warnf("Failed to update latest.mp4: %v", err)
		} else {
			log.Info("Updated latest.mp4")
		}
	}

	c.writeManifest(date, images, written, outPath)
	return nil
}

// renderFrames writes one frame file per readable source image and returns
// how many were written. Output numbering counts written frames, not source
// indexes, so a skipped image never leaves a gap in the ffmpeg input
// sequence. A bad image is logged and skipped, it must not kill the run.
func (c *Core) renderFrames(images []string, framesDir string, comp *imaging.Compositor) int {
	log := logger.Log.WithField("scope", "core")

	progress.Reset(len(images), "Rendering frames... ")
	written := 0
	for i, path := range images {
		img, err := storage.ReadImage(path)
		if err != nil {
			log.Errorf("Frame %s failed: %v", path, err)
			progress.Add(1)
			continue
		}

		ts := imaging.Timestamp(filepath.Base(path), i)
		frame := comp.Render(img, ts)

		err = storage.SaveFrame(framesDir, written, frame)
		if err != nil {
			log.Errorf("Frame %s failed: %v", path, err)
			progress.Add(1)
			continue
		}
		written++

		progress.Add(1)
		if (i+1)%20 == 0 {
			log.Infof("%d/%d frames prepared", i+1, len(images))
		}
	}
	progress.Finish()
	return written
}
