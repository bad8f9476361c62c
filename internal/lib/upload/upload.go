package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const PublicPrefix = "/uploads/"

var (
	ErrTooLarge = errors.New("image is too large")
	ErrNotImage = errors.New("only image files are allowed")
)

type ImageSaver struct {
	dir          string
	maxSize      int64
	maxDimension int
}

func NewImageSaver(dir string, maxSize int64, maxDimension int) *ImageSaver {
	return &ImageSaver{
		dir:          dir,
		maxSize:      maxSize,
		maxDimension: maxDimension,
	}
}

func (s *ImageSaver) Dir() string {
	return s.dir
}

func (s *ImageSaver) MaxSize() int64 {
	return s.maxSize
}

// Save stores an uploaded image and returns the URL it is served under.
// Raster images larger than the configured dimension are downscaled first.
func (s *ImageSaver) Save(src io.Reader, originalName string) (string, error) {
	const op = "lib.upload.Save"

	data, err := io.ReadAll(io.LimitReader(src, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("%s: failed to read upload: %w", op, err)
	}

	if int64(len(data)) > s.maxSize {
		return "", ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrNotImage
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(originalName))
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String(), ext)
	path := filepath.Join(s.dir, name)

	if err = os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: failed to create upload dir: %w", op, err)
	}

	if resized, ok := s.downscale(data); ok {
		if _, ferr := imaging.FormatFromFilename(name); ferr == nil {
			if err = imaging.Save(resized, path); err != nil {
				return "", fmt.Errorf("%s: failed to save image: %w", op, err)
			}
			return PublicPrefix + name, nil
		}
	}

	if err = os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%s: failed to save image: %w", op, err)
	}

	return PublicPrefix + name, nil
}

func (s *ImageSaver) downscale(data []byte) (image.Image, bool) {
	if s.maxDimension <= 0 {
		return nil, false
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, false
	}

	b := img.Bounds()
	if b.Dx() <= s.maxDimension && b.Dy() <= s.maxDimension {
		return nil, false
	}

	return imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos), true
}
