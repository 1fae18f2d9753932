package output

import "gurney/internal/domain/entity"

// ScreenshotStore persists the final-page screenshot. Returns the path of
// the stored full-size image.
type ScreenshotStore interface {
	Save(shot *entity.Screenshot, label string) (string, error)
}
