// Package images builds output filenames and paths for captured
// photos.
package images

import (
	"fmt"
	"path/filepath"
	"time"
)

// DefaultDir is where photos land when IMAGES_DIR is unconfigured.
const DefaultDir = "/tmp/images"

// RotatedPrefix marks files that went through orientation correction.
const RotatedPrefix = "rotated_"

// Filename returns the timestamp-derived name for a capture taken at
// t. Whole seconds keep names collision-resistant across runs without
// promising uniqueness within one second.
func Filename(t time.Time) string {
	return fmt.Sprintf("%d.jpg", t.Unix())
}

// Path joins name to the output directory, falling back to DefaultDir
// when dir is empty.
func Path(dir, name string) string {
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, name)
}
