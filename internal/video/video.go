package video

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	cfg "github.com/wplace-archive/go-tilelapse/internal/config"
	"github.com/wplace-archive/go-tilelapse/internal/logger"
)

// how much ffmpeg stderr to keep on failure
const stderrTail = 4000

// EncodeFrames calls ffmpeg to encode the numbered frame sequence in dir
// into outPath. Exit 0 means success, anything else (including a missing
// binary) fails the run.
func EncodeFrames(ctx context.Context, c *cfg.Config, dir, pattern, outPath string) error {
	log := logger.Log.WithField("scope", "video")

	args := buildArgs(c, dir, pattern, outPath)
	log.Infof("Running ffmpeg: %s %s", c.FFmpegBin, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, c.FFmpegBin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		out := stderr.Bytes()
		if len(out) > stderrTail {
			out = out[len(out)-stderrTail:]
		}
		if len(out) > 0 {
			log.Error(string(out))
		}
		return fmt.Errorf("Error running ffmpeg: %w", err)
	}

	log.Info("ffmpeg encode complete")
	return nil
}

func buildArgs(c *cfg.Config, dir, pattern, outPath string) []string {
	args := []string{
		"-y",
		"-framerate", strconv.Itoa(cfg.FPS),
		"-f", "image2",
		"-i", filepath.Join(dir, pattern),
		"-c:v", c.Codec,
		"-preset", c.Preset,
		"-crf", c.CRF,
		"-pix_fmt", c.PixFmt,
	}
	args = append(args, c.ExtraArgs...)
	args = append(args, "-movflags", "+faststart", outPath)
	return args
}
