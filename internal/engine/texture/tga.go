package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// ErrTGATruncated is returned when pixel data ends before the image is full.
var ErrTGATruncated = errors.New("tga: data truncated")

// IsTGA reports whether data starts with a true-color TGA header this package
// can decode. TGA has no magic number; every other registered format has a
// non-zero second byte, so the color-map byte separates them.
func IsTGA(data []byte) bool {
	if len(data) < tgaHeaderSize {
		return false
	}
	imageType := data[2]
	bpp := data[16]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	return data[1] == 0 &&
		(imageType == TGATypeUncompressed || imageType == TGATypeRLE) &&
		(bpp == 24 || bpp == 32) &&
		width > 0 && height > 0
}

// DecodeTGA decodes an uncompressed (type 2) or RLE (type 10) true-color TGA.
// Rows are stored top-down in the result regardless of the file's origin bit.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: header", ErrTGATruncated)
	}

	idLength := int(data[0])
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if data[1] != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: id field", ErrTGATruncated)
	}

	d := tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		bpp:         bpp / 8,
		width:       width,
		height:      height,
		topToBottom: topToBottom,
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = d.decodeRaw()
	} else {
		err = d.decodeRLE()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.RGBA
	src         []byte
	pos         int
	bpp         int
	width       int
	height      int
	topToBottom bool
}

// readPixel reads one BGR(A) pixel and returns it as RGBA.
func (d *tgaDecoder) readPixel() ([4]byte, error) {
	if d.pos+d.bpp > len(d.src) {
		return [4]byte{}, fmt.Errorf("%w: pixel data", ErrTGATruncated)
	}
	p := d.src[d.pos:]
	px := [4]byte{p[2], p[1], p[0], 255}
	if d.bpp == 4 {
		px[3] = p[3]
	}
	d.pos += d.bpp
	return px, nil
}

// put stores the n-th pixel in file order.
func (d *tgaDecoder) put(n int, px [4]byte) {
	x := n % d.width
	y := n / d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	copy(d.img.Pix[d.img.PixOffset(x, y):], px[:])
}

func (d *tgaDecoder) decodeRaw() error {
	total := d.width * d.height
	for n := 0; n < total; n++ {
		px, err := d.readPixel()
		if err != nil {
			return err
		}
		d.put(n, px)
	}
	return nil
}

func (d *tgaDecoder) decodeRLE() error {
	total := d.width * d.height
	n := 0
	for n < total {
		if d.pos >= len(d.src) {
			return fmt.Errorf("%w: rle packet", ErrTGATruncated)
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			px, err := d.readPixel()
			if err != nil {
				return err
			}
			for i := 0; i < count && n < total; i++ {
				d.put(n, px)
				n++
			}
			continue
		}

		for i := 0; i < count && n < total; i++ {
			px, err := d.readPixel()
			if err != nil {
				return err
			}
			d.put(n, px)
			n++
		}
	}
	return nil
}
