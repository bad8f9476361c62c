package upload

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func TestImageSaverSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	saver := NewImageSaver(dir, 1<<20, 64)

	url, err := saver.Save(bytes.NewReader(pngBytes(t, 32, 16)), "poster.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, PublicPrefix))
	assert.True(t, strings.HasSuffix(url, ".png"))

	_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(url, PublicPrefix)))
	assert.NoError(t, err)
}

func TestImageSaverDownscales(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	saver := NewImageSaver(dir, 1<<20, 50)

	url, err := saver.Save(bytes.NewReader(pngBytes(t, 200, 100)), "wide.png")
	require.NoError(t, err)

	img, err := imaging.Open(filepath.Join(dir, strings.TrimPrefix(url, PublicPrefix)))
	require.NoError(t, err)

	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestImageSaverRejects(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := NewImageSaver(dir, 1<<20, 0).Save(strings.NewReader("just some text"), "notes.png")
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = NewImageSaver(dir, 10, 0).Save(bytes.NewReader(pngBytes(t, 8, 8)), "tiny.png")
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
