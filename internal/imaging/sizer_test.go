package imaging

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	cfg "github.com/wplace-archive/go-tilelapse/internal/config"
)

func writeGrayPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, w, h))))
	return path
}

func TestDetermineSize(t *testing.T) {
	dir := t.TempDir()
	big := writeGrayPNG(t, dir, "merged_tiles_20240115_120000.png", 4000, 3000)
	huge := writeGrayPNG(t, dir, "merged_tiles_20240115_130000.png", 5000, 5000)
	small := writeGrayPNG(t, dir, "merged_tiles_20240115_140000.png", 1000, 900)

	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a png"), 0o644))

	testCases := []struct {
		name   string
		conf   *cfg.Config
		images []string
		wantW  int
		wantH  int
	}{
		{
			name:   "forced size wins over everything",
			conf:   &cfg.Config{VideoWidth: 800, VideoHeight: 600, Downscale: 2},
			images: []string{huge},
			wantW:  800,
			wantH:  600,
		},
		{
			name:   "downscale factor divides evenly",
			conf:   &cfg.Config{Downscale: 2},
			images: []string{big},
			wantW:  2000,
			wantH:  1500,
		},
		{
			name:   "non-divisor downscale falls through to auto half",
			conf:   &cfg.Config{Downscale: 3},
			images: []string{big},
			wantW:  2000,
			wantH:  1500,
		},
		{
			name:   "auto half-size for wide even captures",
			conf:   &cfg.Config{},
			images: []string{huge},
			wantW:  2500,
			wantH:  2500,
		},
		{
			name:   "native size below threshold",
			conf:   &cfg.Config{},
			images: []string{small},
			wantW:  1000,
			wantH:  900,
		},
		{
			name:  "no images falls back to default",
			conf:  &cfg.Config{},
			wantW: cfg.DefaultVideoWidth,
			wantH: cfg.DefaultVideoHeight,
		},
		{
			name:   "unreadable first image falls back to default",
			conf:   &cfg.Config{},
			images: []string{corrupt},
			wantW:  cfg.DefaultVideoWidth,
			wantH:  cfg.DefaultVideoHeight,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := DetermineSize(tc.conf, tc.images)
			require.Equal(t, tc.wantW, w)
			require.Equal(t, tc.wantH, h)
		})
	}
}
