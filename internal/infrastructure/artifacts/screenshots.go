package artifacts

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"gurney/internal/application/port/output"
	"gurney/internal/domain/entity"
)

var _ output.ScreenshotStore = (*Store)(nil)

const previewWidth = 1024

// Store persists screenshots into a directory, one full-size image plus a
// downscaled JPEG preview per capture, with timestamped file names.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	if dir == "" {
		dir = "screenshots"
	}
	return &Store{dir: dir}
}

func (s *Store) Save(shot *entity.Screenshot, label string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create screenshots dir: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	base := fmt.Sprintf("%s_%s", label, timestamp)

	fullPath := filepath.Join(s.dir, base+"."+ext(shot.Format))
	if err := os.WriteFile(fullPath, shot.Data, 0644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}

	if err := s.writePreview(shot, filepath.Join(s.dir, base+"_preview.jpg")); err != nil {
		// The full image is already on disk; a missing preview is not
		// worth failing the run over.
		return fullPath, nil
	}

	return fullPath, nil
}

func (s *Store) writePreview(shot *entity.Screenshot, path string) error {
	img, _, err := image.Decode(bytes.NewReader(shot.Data))
	if err != nil {
		return fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > previewWidth {
		img = imaging.Resize(img, previewWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return fmt.Errorf("jpeg encode failed: %w", err)
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

func ext(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	case "":
		return "png"
	default:
		return format
	}
}
