package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	"github.com/bbrks/go-blurhash"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// blurHashSize is the longest side of the thumbnail the hash is computed from.
	blurHashSize = 64

	// MaxDimension bounds either side of an accepted image.
	MaxDimension = 4096
)

// CheckDimensions decodes only the image header and rejects images whose
// width or height exceeds MaxDimension, before any pixels are allocated.
func CheckDimensions(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("image has no pixels")
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return fmt.Errorf("image is %dx%d, limit is %dx%d", cfg.Width, cfg.Height, MaxDimension, MaxDimension)
	}
	return nil
}

// ComputeBlurHash decodes an image and returns its BlurHash using
// 4x3 components, computed from a small thumbnail.
func ComputeBlurHash(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	hash, err := blurhash.Encode(4, 3, thumbnail(img))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// thumbnail nearest-neighbour scales img so its longest side is blurHashSize.
func thumbnail(img image.Image) image.Image {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	if srcW <= blurHashSize && srcH <= blurHashSize {
		return img
	}

	dstW, dstH := blurHashSize, blurHashSize
	if srcW > srcH {
		dstH = max(1, srcH*blurHashSize/srcW)
	} else {
		dstW = max(1, srcW*blurHashSize/srcH)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	for y := range dstH {
		sy := bounds.Min.Y + y*srcH/dstH
		for x := range dstW {
			dst.Set(x, y, img.At(bounds.Min.X+x*srcW/dstW, sy))
		}
	}
	return dst
}
