package storage

import (
	"bytes"
	"errors"
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
	"go.uber.org/zap/zaptest"
)

func pngBytes(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf
}

func TestImageStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir, 5, zaptest.NewLogger(t))

	url, err := store.Save("venues/pool/abc", pngBytes(t, 600, 400))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/venues/pool/abc/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	name := filepath.Base(url)
	original := filepath.Join(dir, "venues", "pool", "abc", name)
	thumb := filepath.Join(dir, "venues", "pool", "abc", "thumb", name)
	require.FileExists(t, original)
	require.FileExists(t, thumb)

	img, err := imaging.Open(thumb)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	n, err := store.Remove([]string{url, "https://cdn.example.com/x.jpg", "/uploads/venues/pool/abc/missing.jpg"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = os.Stat(original)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(thumb)
	assert.True(t, os.IsNotExist(err))
}

func TestImageStoreCleansUpWhenThumbnailFails(t *testing.T) {
	orig := saveImage
	t.Cleanup(func() { saveImage = orig })
	saveImage = func(img image.Image, filename string) error {
		if filepath.Base(filepath.Dir(filename)) == "thumb" {
			return errors.New("disk full")
		}
		return orig(img, filename)
	}

	dir := t.TempDir()
	store := NewImageStore(dir, 5, zaptest.NewLogger(t))

	_, err := store.Save("venues/pool/abc", pngBytes(t, 40, 40))
	require.Error(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "venues", "pool", "abc", "*.jpg"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestImageStoreRejectsGarbage(t *testing.T) {
	store := NewImageStore(t.TempDir(), 5, zaptest.NewLogger(t))

	_, err := store.Save("venues/pool/abc", strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestImageStoreRejectsLargeFile(t *testing.T) {
	store := NewImageStore(t.TempDir(), 0, zaptest.NewLogger(t))

	_, err := store.Save("venues/pool/abc", pngBytes(t, 10, 10))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLocalPathStaysInsideDir(t *testing.T) {
	store := NewImageStore("/srv/uploads", 5, zaptest.NewLogger(t))

	p, ok := store.localPath("/uploads/../../etc/passwd")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("/srv/uploads", "etc", "passwd"), p)

	_, ok = store.localPath("/static/x.jpg")
	assert.False(t, ok)
	assert.Equal(t, "/uploads/a/thumb/b.jpg", ThumbURL("/uploads/a/b.jpg"))
}
