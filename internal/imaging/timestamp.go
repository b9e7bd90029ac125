package imaging

import (
	"fmt"
	"strings"
)

// CaptureTime extracts the capture timestamp embedded in a
// merged_tiles_<YYYYMMDD>_<HHMMSS>.<ext> filename.
func CaptureTime(filename string) (string, bool) {
	parts := strings.Split(filename, "_")
	if len(parts) < 4 {
		return "", false
	}
	d := parts[2]
	t := strings.SplitN(parts[3], ".", 2)[0]
	if len(d) != 8 || len(t) != 6 {
		return "", false
	}
	ts := fmt.Sprintf("%s-%s-%s %s:%s:%s", d[:4], d[4:6], d[6:8], t[:2], t[2:4], t[4:6])
	return ts, true
}

// Timestamp returns the caption text for one frame. Filenames that don't
// carry a capture time get a 1-based frame counter instead.
func Timestamp(filename string, index int) string {
	if ts, ok := CaptureTime(filename); ok {
		return ts
	}
	return fmt.Sprintf("Frame %d", index+1)
}
