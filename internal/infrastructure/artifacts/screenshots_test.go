package artifacts

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gurney/internal/domain/entity"
)

func encodeImage(t *testing.T, width, height int, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	buf := new(bytes.Buffer)
	switch format {
	case "jpeg":
		require.NoError(t, jpeg.Encode(buf, img, nil))
	case "png":
		require.NoError(t, png.Encode(buf, img))
	}
	return buf.Bytes()
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	shot := &entity.Screenshot{Data: encodeImage(t, 8, 4, "jpeg"), Format: "jpeg", Width: 8, Height: 4}

	path, err := store.Save(shot, "exit")
	require.NoError(t, err)

	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "exit_"), "name carries the label: %s", base)
	assert.True(t, strings.HasSuffix(base, ".jpg"), "jpeg saves as .jpg: %s", base)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, shot.Data, data, "full image is written unmodified")

	preview := strings.TrimSuffix(path, ".jpg") + "_preview.jpg"
	_, err = os.Stat(preview)
	assert.NoError(t, err, "preview sits next to the full image")
}

func TestSave_PNGExtension(t *testing.T) {
	store := NewStore(t.TempDir())
	shot := &entity.Screenshot{Data: encodeImage(t, 4, 4, "png"), Format: "png", Width: 4, Height: 4}

	path, err := store.Save(shot, "fatal")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".png"))
}

func TestSave_UndecodableDataStillStoresFull(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	shot := &entity.Screenshot{Data: []byte("not an image"), Format: "jpeg"}

	path, err := store.Save(shot, "exit")
	require.NoError(t, err, "a broken preview must not fail the save")

	_, err = os.Stat(path)
	assert.NoError(t, err)

	preview := strings.TrimSuffix(path, ".jpg") + "_preview.jpg"
	_, err = os.Stat(preview)
	assert.True(t, os.IsNotExist(err))
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "shots")
	store := NewStore(dir)

	shot := &entity.Screenshot{Data: encodeImage(t, 2, 2, "png"), Format: "png"}
	_, err := store.Save(shot, "exit")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
