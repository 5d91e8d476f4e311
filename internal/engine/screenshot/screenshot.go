// Package screenshot writes rendered frames to PNG files.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Capturer names and writes screenshot files.
type Capturer struct {
	dir    string
	prefix string
	now    func() time.Time
	seq    int
}

// New returns a Capturer writing "<prefix>_<timestamp>.png" files into dir.
// An empty dir means the working directory.
func New(dir, prefix string) *Capturer {
	return &Capturer{dir: dir, prefix: prefix, now: time.Now}
}

// Dir returns the output directory.
func (c *Capturer) Dir() string { return c.dir }

// Filename returns the path the next capture would be written to.
func (c *Capturer) Filename() string {
	name := fmt.Sprintf("%s_%s", c.prefix, c.now().Format("2006-01-02_15-04-05"))
	if c.seq > 0 {
		name = fmt.Sprintf("%s_%d", name, c.seq)
	}
	return filepath.Join(c.dir, name+".png")
}

// FromPixels saves bottom-up RGBA rows, as read back from the framebuffer,
// flipping them so the file is top-down. It returns the written path.
func (c *Capturer) FromPixels(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("screenshot: invalid size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("screenshot: pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return c.Save(img)
}

// Save writes img as PNG and returns the written path. Captures within the
// same second get a numeric suffix instead of overwriting each other.
func (c *Capturer) Save(img image.Image) (string, error) {
	if c.dir != "" {
		if err := os.MkdirAll(c.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	c.seq = 0
	filename := c.Filename()
	for {
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			break
		}
		c.seq++
		filename = c.Filename()
	}
	c.seq = 0

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}
	return filename, nil
}
