package storage

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PublicPrefix is the URL prefix under which stored images are served.
const PublicPrefix = "/uploads/"

const thumbWidth = 300

// saveImage is imaging.Save; tests swap it to simulate disk failures.
var saveImage = func(img image.Image, filename string) error {
	return imaging.Save(img, filename)
}

var (
	ErrInvalidImage = errors.New("invalid image")
	ErrFileTooLarge = errors.New("file size exceeds limit")
)

// ImageStore writes venue images and their thumbnails under a local directory.
type ImageStore struct {
	dir      string
	maxBytes int64
	log      *zap.Logger
}

func NewImageStore(dir string, maxSizeMB int64, log *zap.Logger) *ImageStore {
	return &ImageStore{
		dir:      dir,
		maxBytes: maxSizeMB << 20,
		log:      log.With(zap.String("component", "image_store")),
	}
}

func (s *ImageStore) Dir() string {
	return s.dir
}

// Save decodes src, writes it as JPEG with a 300px wide thumbnail next to it, and
// returns the public URL of the original.
func (s *ImageStore) Save(folder string, src io.Reader) (string, error) {
	limited := io.LimitReader(src, s.maxBytes+1)
	counter := &countingReader{r: limited}

	img, err := imaging.Decode(counter)
	if counter.n > s.maxBytes {
		return "", ErrFileTooLarge
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	name := uuid.NewString() + ".jpg"
	originalDir := filepath.Join(s.dir, filepath.FromSlash(folder))
	thumbDir := filepath.Join(originalDir, "thumb")

	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	originalPath := filepath.Join(originalDir, name)
	if err := saveImage(img, originalPath); err != nil {
		return "", fmt.Errorf("save original image: %w", err)
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := saveImage(thumb, filepath.Join(thumbDir, name)); err != nil {
		if rmErr := os.Remove(originalPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.log.Warn("Failed to remove original after thumbnail error", zap.String("path", originalPath), zap.Error(rmErr))
		}
		return "", fmt.Errorf("save thumbnail: %w", err)
	}

	url := PublicPrefix + path.Join(folder, name)
	s.log.Info("Image stored", zap.String("url", url))
	return url, nil
}

// ThumbURL maps an image URL to its thumbnail URL.
func ThumbURL(url string) string {
	dir, file := path.Split(url)
	return dir + "thumb/" + file
}

// Remove deletes the files behind urls. URLs outside PublicPrefix are skipped and
// missing files are not an error. It returns how many originals were removed.
func (s *ImageStore) Remove(urls []string) (int, error) {
	removed := 0
	var errs []error

	for _, url := range urls {
		local, ok := s.localPath(url)
		if !ok {
			continue
		}
		thumb, _ := s.localPath(ThumbURL(url))

		if err := os.Remove(local); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Errorf("remove %s: %w", url, err))
			}
			continue
		}
		removed++

		if err := os.Remove(thumb); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("Failed to remove thumbnail", zap.String("url", url), zap.Error(err))
		}
	}

	return removed, errors.Join(errs...)
}

func (s *ImageStore) localPath(url string) (string, bool) {
	if !strings.HasPrefix(url, PublicPrefix) {
		return "", false
	}
	rel := path.Clean("/" + strings.TrimPrefix(url, PublicPrefix))
	return filepath.Join(s.dir, filepath.FromSlash(rel)), true
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
