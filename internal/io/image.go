package ioutils

import (
	"bytes"
	"context"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"

	"golang.org/x/image/draw"
)

// DefaultThumbnailSize is the bounding box used when a caller passes 0.
const DefaultThumbnailSize = 320

// ImageService provides image processing for media previews.
//
// Example usage:
//
//	svc := NewImageService()
//
//	thumb, err := svc.ThumbnailFile(ctx, "/memories/2024-03-05_10-15-30.jpg", 320)
//	os.WriteFile("/memories/.thumbnails/2024-03-05_10-15-30.jpg", thumb, 0644)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Thumbnail scales an image to fit a maxSize×maxSize box and returns it as JPEG.
//
// The aspect ratio is preserved and images smaller than the box keep their
// size. Videos are not decodable and return an error.
func (s *ImageService) Thumbnail(ctx context.Context, data []byte, maxSize int) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultThumbnailSize
	}
	return s.ResizeImage(ctx, data, maxSize, maxSize)
}

// ThumbnailFile reads an image from disk and returns its thumbnail.
func (s *ImageService) ThumbnailFile(ctx context.Context, path string, maxSize int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Thumbnail(ctx, data, maxSize)
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// Returns the resized image as JPEG-encoded bytes. The Catmull-Rom
// algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 1500x1000 image becomes 320x213
//	resized, err := svc.ResizeImage(ctx, imageData, 320, 320)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			// Width is the limiting factor
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
