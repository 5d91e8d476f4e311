// Package texture decodes image files to RGBA8 and describes the material
// properties attached to an uploaded texture.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("texture: image has zero size")

// Decode decodes image bytes to a tightly packed RGBA8 image with its origin
// at (0,0). TGA is sniffed first; everything else goes through image.Decode.
func Decode(data []byte) (*image.RGBA, error) {
	if IsTGA(data) {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decode tga: %w", err)
		}
		return img, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	rgba := ToRGBA(img)
	if rgba.Rect.Empty() {
		return nil, fmt.Errorf("decode %s: %w", format, ErrEmptyImage)
	}
	return rgba, nil
}

// ToRGBA converts any image to *image.RGBA rebased at the origin. Images that
// are already packed RGBA at the origin are returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}
