package blockdct

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/golang/freetype/truetype"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Layout selects how several panels are rendered.
type Layout string

const (
	// LayoutSideBySide renders all panels in one row of a single figure.
	LayoutSideBySide Layout = "side_by_side"
	// LayoutSeparate renders every panel as its own figure.
	LayoutSeparate Layout = "separate"
)

// FigureOptions controls figure rendering.
type FigureOptions struct {
	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
	DPI          int     `yaml:"dpi"`
	// TitleSize is the title font size in points.
	TitleSize float64 `yaml:"title_size"`
	Layout    Layout  `yaml:"layout"`
}

// DefaultFigureOptions returns a 20x7 inch side-by-side figure at 100 DPI.
func DefaultFigureOptions() FigureOptions {
	return FigureOptions{
		WidthInches:  defaultFigureWidthInches,
		HeightInches: defaultFigureHeightInches,
		DPI:          defaultDPI,
		TitleSize:    defaultTitleSize,
		Layout:       LayoutSideBySide,
	}
}

func (o FigureOptions) withDefaults() FigureOptions {
	d := DefaultFigureOptions()
	if o.WidthInches <= 0 {
		o.WidthInches = d.WidthInches
	}
	if o.HeightInches <= 0 {
		o.HeightInches = d.HeightInches
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	if o.TitleSize <= 0 {
		o.TitleSize = d.TitleSize
	}
	if o.Layout == "" {
		o.Layout = d.Layout
	}
	return o
}

// Pixels returns the figure size in pixels.
func (o FigureOptions) Pixels() (int, int) {
	o = o.withDefaults()
	return int(o.WidthInches * float64(o.DPI)), int(o.HeightInches * float64(o.DPI))
}

// Panel is a titled plane to render.
type Panel struct {
	Title string
	Plane *Plane
}

// NewPanels pairs planes with titles.
func NewPanels(planes []*Plane, titles []string) ([]Panel, error) {
	if len(planes) == 0 {
		return nil, errors.New("no images to display")
	}
	if len(planes) != len(titles) {
		return nil, fmt.Errorf("%d images but %d titles", len(planes), len(titles))
	}
	panels := make([]Panel, len(planes))
	for i, p := range planes {
		panels[i] = Panel{Title: titles[i], Plane: p}
	}
	return panels, nil
}

var (
	titleFontOnce sync.Once
	titleFont     *truetype.Font
	titleFontErr  error
)

func loadTitleFont() (*truetype.Font, error) {
	titleFontOnce.Do(func() {
		titleFont, titleFontErr = truetype.Parse(goregular.TTF)
	})
	return titleFont, titleFontErr
}

// RenderFigure draws all panels side by side on a white figure, each
// autoscaled to gray and fitted into its cell under its title.
func RenderFigure(panels []Panel, opts FigureOptions) (*image.RGBA, error) {
	if len(panels) == 0 {
		return nil, errors.New("no images to display")
	}
	opts = opts.withDefaults()
	w, h := opts.Pixels()
	if w < len(panels) || h <= 0 {
		return nil, fmt.Errorf("figure %dx%d too small for %d panels", w, h, len(panels))
	}

	f, err := loadTitleFont()
	if err != nil {
		return nil, fmt.Errorf("load title font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    opts.TitleSize,
		DPI:     float64(opts.DPI),
		Hinting: font.HintingFull,
	})
	defer face.Close()

	fig := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(fig, fig.Bounds(), image.White, image.Point{}, draw.Src)

	metrics := face.Metrics()
	band := (metrics.Height.Ceil() * 3) / 2
	margin := max(w/100, 2)
	cellW := w / len(panels)

	for i, panel := range panels {
		if err := panel.Plane.validate(); err != nil {
			return nil, fmt.Errorf("panel %d (%q): %w", i, panel.Title, err)
		}
		cell := image.Rect(i*cellW, 0, (i+1)*cellW, h)
		drawTitle(fig, face, panel.Title, cell.Min.X, cell.Dx(), band)

		area := image.Rect(cell.Min.X+margin, band, cell.Max.X-margin, h-margin)
		if area.Dx() <= 0 || area.Dy() <= 0 {
			return nil, fmt.Errorf("figure %dx%d too small for panel %d", w, h, i)
		}
		img := fitImage(panel.Plane.Gray(), area.Dx(), area.Dy())
		ib := img.Bounds()
		at := image.Pt(
			area.Min.X+(area.Dx()-ib.Dx())/2,
			area.Min.Y+(area.Dy()-ib.Dy())/2,
		)
		draw.Draw(fig, image.Rectangle{Min: at, Max: at.Add(ib.Size())}, img, ib.Min, draw.Src)
	}

	return fig, nil
}

// RenderPanel draws a single titled panel as its own figure.
func RenderPanel(panel Panel, opts FigureOptions) (*image.RGBA, error) {
	return RenderFigure([]Panel{panel}, opts)
}

// WriteFigure renders panels side by side and writes the figure to w as PNG.
func WriteFigure(w io.Writer, panels []Panel, opts FigureOptions) error {
	fig, err := RenderFigure(panels, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, fig)
}

// WritePanels renders every panel as its own PNG figure in dir and returns
// the written paths.
func WritePanels(dir, prefix string, panels []Panel, opts FigureOptions) ([]string, error) {
	if len(panels) == 0 {
		return nil, errors.New("no images to display")
	}
	if err := os.MkdirAll(filepath.Clean(dir), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	paths := make([]string, 0, len(panels))
	for i, panel := range panels {
		fig, err := RenderPanel(panel, opts)
		if err != nil {
			return paths, err
		}
		name := fmt.Sprintf("%s%02d-%s.png", prefix, i, slug(panel.Title))
		path := filepath.Join(dir, name)
		if err := writePNG(path, fig); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SaveFigure renders panels according to opts.Layout. Side-by-side figures are
// written to path; separate panels are written next to it, named after path.
func SaveFigure(path string, panels []Panel, opts FigureOptions) ([]string, error) {
	opts = opts.withDefaults()
	if opts.Layout == LayoutSeparate {
		ext := filepath.Ext(path)
		prefix := strings.TrimSuffix(filepath.Base(path), ext) + "-"
		return WritePanels(filepath.Dir(path), prefix, panels, opts)
	}
	fig, err := RenderFigure(panels, opts)
	if err != nil {
		return nil, err
	}
	if err := writePNG(path, fig); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrIO, path, err)
	}
	return nil
}

// fitImage scales img to the largest size fitting maxW x maxH with the same
// aspect ratio. Upscaling uses nearest neighbour so tiles stay crisp.
func fitImage(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return img
	}
	dw := maxW
	dh := sh * maxW / sw
	if dh > maxH {
		dh = maxH
		dw = sw * maxH / sh
	}
	dw, dh = max(dw, 1), max(dh, 1)
	if dw == sw && dh == sh {
		return img
	}
	interp := resize.Lanczos3
	if dw > sw {
		interp = resize.NearestNeighbor
	}
	return resize.Resize(uint(dw), uint(dh), img, interp)
}

func drawTitle(dst draw.Image, face font.Face, title string, x0, width, band int) {
	if title == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	tw := d.MeasureString(title).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	x := x0 + (width-tw)/2
	if x < x0 {
		x = x0
	}
	y := (band-face.Metrics().Height.Ceil())/2 + ascent
	d.Dot = fixed.P(x, y)
	d.DrawString(title)
}

func slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
