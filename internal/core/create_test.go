package core

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wplace-archive/go-tilelapse/internal/background"
	cfg "github.com/wplace-archive/go-tilelapse/internal/config"
	"github.com/wplace-archive/go-tilelapse/internal/imaging"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 80, G: 120, B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func captureDay(t *testing.T, root, date string) string {
	t.Helper()
	day := filepath.Join(root, date)
	require.NoError(t, os.MkdirAll(day, os.ModePerm))
	writePNG(t, filepath.Join(day, "merged_tiles_"+date+"_090000.png"), 40, 40)
	writePNG(t, filepath.Join(day, "merged_tiles_"+date+"_120000.png"), 40, 40)
	writePNG(t, filepath.Join(day, "merged_tiles_"+date+"_150000.png"), 40, 40)
	require.NoError(t, os.WriteFile(filepath.Join(day, "merged_tiles_"+date+"_100000.png"), []byte("corrupt"), 0o644))
	return day
}

func TestRenderFramesSkipsBadImagesContiguously(t *testing.T) {
	root := t.TempDir()
	day := captureDay(t, root, "20240115")

	images := []string{
		filepath.Join(day, "merged_tiles_20240115_090000.png"),
		filepath.Join(day, "merged_tiles_20240115_100000.png"), // corrupt
		filepath.Join(day, "merged_tiles_20240115_120000.png"),
		filepath.Join(day, "merged_tiles_20240115_150000.png"),
	}

	conf := &cfg.Config{}
	c := NewCore(context.Background(), conf)
	bg := background.NewProvider(conf).Background(40, 40)
	comp := imaging.NewCompositor(40, 40, bg)

	framesDir := t.TempDir()
	written := c.renderFrames(images, framesDir, comp)
	require.Equal(t, 3, written)

	for _, name := range []string{"frame_00000.png", "frame_00001.png", "frame_00002.png"} {
		_, err := os.Stat(filepath.Join(framesDir, name))
		require.NoError(t, err, "expected %s", name)
	}
	_, err := os.Stat(filepath.Join(framesDir, "frame_00003.png"))
	require.True(t, os.IsNotExist(err), "numbering must stay contiguous")
}

func TestCreateTimelapseEndToEnd(t *testing.T) {
	root := t.TempDir()
	captureDay(t, root, "20240115")

	conf := &cfg.Config{
		Codec:        "libx264",
		CRF:          "15",
		Preset:       "slow",
		PixFmt:       "yuv444p",
		FFmpegBin:    "true", // stand-in encoder, exits 0
		SkipLatest:   true,
		OutputDir:    root,
		TimelapseDir: filepath.Join(root, "timelapse"),
	}

	c := NewCore(context.Background(), conf)
	require.NoError(t, c.CreateTimelapse("20240115"))

	data, err := os.ReadFile(filepath.Join(conf.TimelapseDir, "timelapse_info.json"))
	require.NoError(t, err)

	var m manifest
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, "20240115", m.Date)
	require.Equal(t, 3, m.TotalFrames)
	require.Equal(t, 4, m.SourceImages)
	require.Equal(t, "2024-01-15 09:00:00", m.FirstCapture)
	require.Equal(t, "2024-01-15 15:00:00", m.LastCapture)
}

func TestCreateTimelapseNoImages(t *testing.T) {
	root := t.TempDir()
	conf := &cfg.Config{
		OutputDir:    root,
		TimelapseDir: filepath.Join(root, "timelapse"),
	}

	c := NewCore(context.Background(), conf)
	err := c.CreateTimelapse("19700101")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no images found")
}

func TestCreateTimelapseEncoderFailureKeepsFrames(t *testing.T) {
	root := t.TempDir()
	captureDay(t, root, "20240115")

	conf := &cfg.Config{
		FFmpegBin:    "false", // stand-in encoder, exits 1
		OutputDir:    root,
		TimelapseDir: filepath.Join(root, "timelapse"),
	}

	c := NewCore(context.Background(), conf)
	err := c.CreateTimelapse("20240115")
	require.Error(t, err)
}
