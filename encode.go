package blockdct

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Image converts p to a raster without rescaling: samples are rounded and
// clamped to [0, 255], or to [0, 65535] as *image.Gray16 when p.BitDepth is 16.
func (p *Plane) Image() image.Image {
	r := image.Rect(0, 0, p.Width, p.Height)
	if p.BitDepth == 16 {
		dst := image.NewGray16(r)
		for y := 0; y < p.Height; y++ {
			row := dst.Pix[y*dst.Stride:]
			for x := 0; x < p.Width; x++ {
				v := clampToUint16(p.Pix[y*p.Width+x])
				row[2*x] = uint8(v >> 8)
				row[2*x+1] = uint8(v)
			}
		}
		return dst
	}
	dst := image.NewGray(r)
	for y := 0; y < p.Height; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+p.Width]
		for x := range row {
			row[x] = clampToByte(p.Pix[y*p.Width+x])
		}
	}
	return dst
}

// Gray renders p with its own value range stretched to [0, 255], the way an
// autoscaled grayscale plot shows it. A constant plane renders black.
func (p *Plane) Gray() *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	if len(p.Pix) == 0 {
		return dst
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range p.Pix {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span <= 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		return dst
	}
	for y := 0; y < p.Height; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+p.Width]
		for x := range row {
			row[x] = clampToByte((p.Pix[y*p.Width+x] - lo) * 255 / span)
		}
	}
	return dst
}

// EncodePlane writes p to w in the given format: "png", "jpeg"/"jpg", "tiff"/"tif" or "bmp".
// quality applies to JPEG only.
func EncodePlane(w io.Writer, p *Plane, format string, quality int) error {
	if err := p.validate(); err != nil {
		return err
	}
	img := p.Image()

	var err error
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "png", "image/png":
		err = png.Encode(w, img)
	case "jpg", "jpeg", "image/jpeg":
		if quality <= 0 {
			quality = defaultJPEGQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "tif", "tiff", "image/tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "bmp", "image/bmp":
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported format: %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// SavePlane encodes p into the file at path, choosing the format from the extension.
func SavePlane(path string, p *Plane, quality int) (err error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return errors.New("missing file extension")
	}
	if !encodable[ext] {
		return fmt.Errorf("unsupported format: %q", ext)
	}
	if err := p.validate(); err != nil {
		return err
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
	}()
	return EncodePlane(f, p, ext, quality)
}

var encodable = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true, "bmp": true,
}

func clampToByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampToUint16(v float64) uint16 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 65535 {
		return 65535
	}
	return uint16(v + 0.5)
}
