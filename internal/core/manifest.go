package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	cfg "github.com/wplace-archive/go-tilelapse/internal/config"
	"github.com/wplace-archive/go-tilelapse/internal/imaging"
	"github.com/wplace-archive/go-tilelapse/internal/logger"
)

type manifest struct {
	Date         string `json:"date"`
	TotalFrames  int    `json:"total_frames"`
	SourceImages int    `json:"source_images"`
	GeneratedAt  string `json:"generated_at"`
	Video        string `json:"video"`
	FirstCapture string `json:"first_capture,omitempty"`
	LastCapture  string `json:"last_capture,omitempty"`
}

// writeManifest drops a small timelapse_info.json next to the video.
// Purely informational, a write failure never fails the run.
func (c *Core) writeManifest(date string, images []string, written int, outPath string) {
	log := logger.Log.WithField("scope", "core")

	m := manifest{
		Date:         date,
		TotalFrames:  written,
		SourceImages: len(images),
		GeneratedAt:  time.Now().In(cfg.CaptureTZ).Format(time.RFC3339),
		Video:        outPath,
	}
	if len(images) > 0 {
		if ts, ok := imaging.CaptureTime(filepath.Base(images[0])); ok {
			m.FirstCapture = ts
		}
		if ts, ok := imaging.CaptureTime(filepath.Base(images[len(images)-1])); ok {
			m.LastCapture = ts
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		log.Warnf("Failed to build timelapse_info.json: %v", err)
		return
	}
	path := filepath.Join(c.cfg.TimelapseDir, "timelapse_info.json")
	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		log.Warnf("Failed to write %s: %v", path, err)
		return
	}
	log.Debugf("Wrote %s", path)
}
