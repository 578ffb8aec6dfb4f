// Package photos manages the out-of-band lifecycle of route photos in the
// blob store. The key is always recomputed from the current route title, so
// two routes that ever share a title share (and overwrite) one photo.
package photos

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"

	_ "image/gif"
	_ "image/png"

	"github.com/sirupsen/logrus"

	"trailpost/internal/blob"
)

const (
	keyPrefix = "RoutePhotos/"
	keySuffix = ".jpeg"

	// jpegQuality matches the fixed compression level photos were always
	// uploaded with.
	jpegQuality = 50

	// MaxFetchBytes caps a photo download.
	MaxFetchBytes = 10_000_000
)

// Key derives the blob key for a route title.
func Key(title string) string {
	return keyPrefix + title + keySuffix
}

// Service uploads and fetches route photos.
type Service struct {
	Blobs blob.Store
}

func NewService(blobs blob.Store) *Service {
	return &Service{Blobs: blobs}
}

// Upload re-encodes the submitted image as JPEG at the fixed quality level
// and writes it under the title-derived key, overwriting whatever was there.
func (s *Service) Upload(ctx context.Context, title string, photo []byte) error {
	img, _, err := image.Decode(bytes.NewReader(photo))
	if err != nil {
		return fmt.Errorf("photos: decode submitted image: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("photos: encode jpeg: %w", err)
	}
	return s.Blobs.Put(ctx, Key(title), buf.Bytes(), "image/jpeg")
}

// Fetch returns the photo stored under the title-derived key. A corrupt blob
// is non-fatal: the blank placeholder is substituted and the failure only
// logged, so the rest of the route display is unaffected. A missing blob is
// reported as blob.ErrNotFound.
func (s *Service) Fetch(ctx context.Context, title string) ([]byte, error) {
	data, err := s.Blobs.Get(ctx, Key(title), MaxFetchBytes)
	if err != nil {
		return nil, err
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		logrus.WithError(err).WithField("key", Key(title)).
			Warn("photo blob did not decode, substituting placeholder")
		return Placeholder(), nil
	}
	return data, nil
}

var (
	placeholderOnce sync.Once
	placeholder     []byte
)

// Placeholder is the blank image shown when a photo cannot be decoded.
func Placeholder() []byte {
	placeholderOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 320, 240))
		white := color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
		for y := 0; y < 240; y++ {
			for x := 0; x < 320; x++ {
				img.Set(x, y, white)
			}
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			// A fixed-size RGBA image always encodes.
			panic(err)
		}
		placeholder = buf.Bytes()
	})
	return placeholder
}
