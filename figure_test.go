package blockdct

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func testPanels(t *testing.T) []Panel {
	t.Helper()
	orig := randomPlane(40, 24, 1)
	res, err := Compress(orig)
	if err != nil {
		t.Fatal(err)
	}
	panels, err := NewPanels(
		[]*Plane{res.Original, res.Reconstructed},
		[]string{"Original Image", "DCT Compressed Image"},
	)
	if err != nil {
		t.Fatal(err)
	}
	return panels
}

func smallFigure() FigureOptions {
	return FigureOptions{WidthInches: 4, HeightInches: 2, DPI: 50, TitleSize: 10}
}

func TestRenderFigureSideBySide(t *testing.T) {
	fig, err := RenderFigure(testPanels(t), FigureOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if b := fig.Bounds(); b.Dx() != 2000 || b.Dy() != 700 {
		t.Fatalf("default figure is %dx%d, want 2000x700", b.Dx(), b.Dy())
	}

	// Both halves must contain non-white pixels: a title and an image each.
	for half := 0; half < 2; half++ {
		dark := 0
		for y := 0; y < 700; y++ {
			for x := half * 1000; x < (half+1)*1000; x++ {
				if c := fig.RGBAAt(x, y); c.R < 128 {
					dark++
				}
			}
		}
		if dark == 0 {
			t.Fatalf("panel %d is blank", half)
		}
	}
}

func TestRenderFigureTitleDrawn(t *testing.T) {
	p := constantPlane(8, 8, 255)
	withTitle, err := RenderPanel(Panel{Title: "Title", Plane: p}, smallFigure())
	if err != nil {
		t.Fatal(err)
	}
	noTitle, err := RenderPanel(Panel{Plane: p}, smallFigure())
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(withTitle.Pix, noTitle.Pix) {
		t.Fatal("title did not change the figure")
	}
}

func TestRenderFigureErrors(t *testing.T) {
	if _, err := RenderFigure(nil, FigureOptions{}); err == nil {
		t.Fatal("expected error for no panels")
	}
	if _, err := RenderFigure([]Panel{{Title: "empty", Plane: NewPlane(0, 0)}}, smallFigure()); err == nil {
		t.Fatal("expected error for empty plane")
	}
	if _, err := NewPanels([]*Plane{NewPlane(1, 1)}, []string{"a", "b"}); err == nil {
		t.Fatal("expected error for mismatched titles")
	}
	if _, err := NewPanels(nil, nil); err == nil {
		t.Fatal("expected error for no images")
	}
}

func TestWritePanelsSeparate(t *testing.T) {
	dir := t.TempDir()
	paths, err := WritePanels(dir, "cmp-", testPanels(t), smallFigure())
	if err != nil {
		t.Fatalf("write panels: %v", err)
	}
	want := []string{
		filepath.Join(dir, "cmp-00-original-image.png"),
		filepath.Join(dir, "cmp-01-dct-compressed-image.png"),
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i, p := range paths {
		if p != want[i] {
			t.Fatalf("path %d = %s, want %s", i, p, want[i])
		}
		f, err := os.Open(p)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", p, err)
		}
		if cfg.Width != 200 || cfg.Height != 100 {
			t.Fatalf("%s is %dx%d, want 200x100", p, cfg.Width, cfg.Height)
		}
	}
}

func TestSaveFigureLayouts(t *testing.T) {
	dir := t.TempDir()
	panels := testPanels(t)

	opts := smallFigure()
	paths, err := SaveFigure(filepath.Join(dir, "fig.png"), panels, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("side by side wrote %v", paths)
	}

	opts.Layout = LayoutSeparate
	paths, err = SaveFigure(filepath.Join(dir, "fig.png"), panels, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "fig-00-original-image.png" {
		t.Fatalf("separate wrote %v", paths)
	}
}

func TestWriteFigure(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFigure(&buf, testPanels(t), smallFigure()); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 200, 100) {
		t.Fatalf("bounds %v", img.Bounds())
	}
}

func TestFitImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 16, 8))

	if b := fitImage(src, 100, 100).Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("upscale to %v", b)
	}
	if b := fitImage(src, 8, 100).Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Fatalf("downscale to %v", b)
	}
	if got := fitImage(src, 16, 8); got != image.Image(src) {
		t.Fatal("same size should not resample")
	}
}

func TestSlug(t *testing.T) {
	for in, want := range map[string]string{
		"Original Image":       "original-image",
		"DCT Compressed Image": "dct-compressed-image",
		"  a--b  ":             "a-b",
		"":                     "",
	} {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
