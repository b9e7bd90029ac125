// Image discovery and all frame/video file IO.
package storage

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/google/uuid"

	cfg "github.com/wplace-archive/go-tilelapse/internal/config"
	"github.com/wplace-archive/go-tilelapse/internal/logger"
)

// ImagesForDate returns the date's capture images sorted ascending by the
// <date>_<time> key embedded in the filename. A missing folder or an empty
// folder is not an error, just nothing to do.
func ImagesForDate(root, date string) ([]string, error) {
	log := logger.Log.WithField("scope", "storage")

	dir := filepath.Join(root, date)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("No folder for date %s: %s", date, dir)
			return nil, nil
		}
		return nil, fmt.Errorf("Error reading images dir: %w", err)
	}

	images := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, cfg.ImagePrefix) {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".png", ".jpg", ".jpeg":
			images = append(images, filepath.Join(dir, name))
		}
	}

	sort.Slice(images, func(i, j int) bool {
		return captureKey(images[i]) < captureKey(images[j])
	})
	log.Infof("Found %d images for %s", len(images), date)
	return images, nil
}

// captureKey extracts "<YYYYMMDD>_<HHMMSS>" from a capture filename.
// Non-matching names fall back to the raw filename so they still sort
// deterministically and are not dropped.
func captureKey(path string) string {
	name := filepath.Base(path)
	parts := strings.Split(name, "_")
	if len(parts) >= 4 {
		d := parts[2]
		t := strings.SplitN(parts[3], ".", 2)[0]
		return d + "_" + t
	}
	return name
}

// CreateFramesDir makes a process-unique temp directory for one run's frames.
func CreateFramesDir() (string, error) {
	dir := filepath.Join(os.TempDir(), "frames_"+uuid.NewString())
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return "", fmt.Errorf("Error creating frames dir: %w", err)
	}
	return dir, nil
}

// SaveFrame writes one finished frame under the run's numbering pattern.
func SaveFrame(dir string, num int, img image.Image) error {
	path := filepath.Join(dir, fmt.Sprintf(cfg.FramePattern, num))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Error creating frame file: %w", err)
	}
	defer file.Close()

	err = png.Encode(file, img)
	if err != nil {
		return fmt.Errorf("Error encoding frame: %w", err)
	}
	return nil
}

func RemoveFrames(dir string) {
	err := os.RemoveAll(dir)
	if err != nil {
		logger.Log.WithField("scope", "storage").Warnf("Error removing frames dir %s: %v", dir, err)
	}
}

// ReadImage decodes a source image from disk.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("Error decoding %s: %w", path, err)
	}
	return img, nil
}

// ReadImageSize reads only the header, no pixel data.
func ReadImageSize(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	conf, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("Error reading size of %s: %w", path, err)
	}
	return conf.Width, conf.Height, nil
}

// CopyFile replaces dst with a copy of src. Used for the latest.mp4 alias.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	if err != nil {
		return err
	}
	return out.Sync()
}
