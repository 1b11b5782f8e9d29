package blockdct

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF decoder.
	_ "image/jpeg" // Register JPEG decoder.
	_ "image/png"  // Register PNG decoder.
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // Register BMP decoder.
	_ "golang.org/x/image/tiff" // Register TIFF decoder.
	_ "golang.org/x/image/webp" // Register WebP decoder.
)

// LoadPlane reads and decodes the image at path into a grayscale plane.
func LoadPlane(path string) (*Plane, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	p, _, err := DecodePlane(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// DecodePlane decodes an image from r into a grayscale plane and returns the
// format name. 8-bit and 16-bit gray images keep their sample values, any other
// color model is reduced to 8-bit luma.
func DecodePlane(r io.Reader) (*Plane, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode: %w", ErrIO, err)
	}
	p, err := PlaneFromImage(img)
	if err != nil {
		return nil, "", err
	}
	return p, format, nil
}

// PlaneFromImage converts img into a grayscale plane.
func PlaneFromImage(img image.Image) (*Plane, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: invalid image dimensions %dx%d", ErrShape, w, h)
	}
	p := NewPlane(w, h)

	switch src := img.(type) {
	case *image.Gray:
		p.BitDepth = 8
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w]
			for x, v := range row {
				p.Pix[y*w+x] = float64(v)
			}
		}
	case *image.Gray16:
		p.BitDepth = 16
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+2*w]
			for x := 0; x < w; x++ {
				p.Pix[y*w+x] = float64(uint16(row[2*x])<<8 | uint16(row[2*x+1]))
			}
		}
	default:
		p.BitDepth = 8
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				p.Pix[y*w+x] = float64(grayAt(img, x, y))
			}
		}
	}
	return p, nil
}

func grayAt(img image.Image, x, y int) uint8 {
	c := color.GrayModel.Convert(img.At(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)).(color.Gray)
	return c.Y
}
