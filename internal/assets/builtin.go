package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
)

// CheckerPath names the built-in checkerboard texture.
const CheckerPath = "builtin:checker"

const (
	checkerSize = 64
	checkerCell = 8
)

var (
	checkerOnce sync.Once
	checkerPNG  []byte
	checkerErr  error
)

// Builtin serves textures generated in memory, so the viewer runs without
// any files on disk.
type Builtin struct{}

// Name returns "builtin".
func (Builtin) Name() string { return "builtin" }

// Read returns the PNG bytes of a built-in texture.
func (Builtin) Read(path string) ([]byte, error) {
	if path != CheckerPath {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	checkerOnce.Do(func() {
		checkerPNG, checkerErr = encodeChecker()
	})
	return checkerPNG, checkerErr
}

func encodeChecker() ([]byte, error) {
	light := color.RGBA{R: 230, G: 230, B: 230, A: 255}
	dark := color.RGBA{R: 200, G: 40, B: 160, A: 255}

	img := image.NewRGBA(image.Rect(0, 0, checkerSize, checkerSize))
	for y := 0; y < checkerSize; y++ {
		for x := 0; x < checkerSize; x++ {
			c := light
			if (x/checkerCell+y/checkerCell)%2 == 1 {
				c = dark
			}
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode checker: %w", err)
	}
	return buf.Bytes(), nil
}
