package blockdct

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTestPNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return path
}

func TestLoadPlaneGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 9))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 2)
	}

	p, err := LoadPlane(writeTestPNG(t, img))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Width != 10 || p.Height != 9 || p.BitDepth != 8 {
		t.Fatalf("got %dx%d depth %d, want 10x9 depth 8", p.Width, p.Height, p.BitDepth)
	}
	for i, v := range img.Pix {
		if p.Pix[i] != float64(v) {
			t.Fatalf("sample %d = %v, want %d", i, p.Pix[i], v)
		}
	}
}

func TestLoadPlaneGray16(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 4, 3))
	img.SetGray16(1, 2, color.Gray16{Y: 40000})
	img.SetGray16(3, 0, color.Gray16{Y: 513})

	p, err := LoadPlane(writeTestPNG(t, img))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.BitDepth != 16 {
		t.Fatalf("bit depth %d, want 16", p.BitDepth)
	}
	if p.At(1, 2) != 40000 || p.At(3, 0) != 513 || p.At(0, 0) != 0 {
		t.Fatalf("unexpected samples %v", p.Pix)
	}
}

func TestLoadPlaneColorToLuma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, A: 255})

	p, err := LoadPlane(writeTestPNG(t, img))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []float64{
		255,
		float64(color.GrayModel.Convert(color.RGBA{R: 255, A: 255}).(color.Gray).Y),
	}
	if diff := cmp.Diff(want, p.Pix); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestLoadPlaneErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadPlane(filepath.Join(dir, "missing.tif"))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("missing file error = %v, want ErrIO", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadPlane(garbage)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("garbage file error = %v, want ErrIO", err)
	}
}

func TestSavePlaneRoundTrip(t *testing.T) {
	p := NewPlane(11, 7)
	for i := range p.Pix {
		p.Pix[i] = float64(i*3) - 10.4 // exercises clamping and rounding
	}
	want := make([]float64, len(p.Pix))
	for i, v := range p.Pix {
		want[i] = float64(clampToByte(v))
	}

	for _, name := range []string{"out.png", "out.tif", "out.bmp"} {
		path := filepath.Join(t.TempDir(), name)
		if err := SavePlane(path, p, 0); err != nil {
			t.Fatalf("%s save: %v", name, err)
		}
		got, err := LoadPlane(path)
		if err != nil {
			t.Fatalf("%s load: %v", name, err)
		}
		if diff := cmp.Diff(want, got.Pix); diff != "" {
			t.Fatalf("%s round trip (-want +got):\n%s", name, diff)
		}
	}
}

func TestSavePlane16Bit(t *testing.T) {
	p := NewPlane(3, 1)
	p.BitDepth = 16
	p.Pix = []float64{-1, 1000.4, 70000}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := SavePlane(path, p, 0); err != nil {
		t.Fatal(err)
	}
	got, err := LoadPlane(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0, 1000, 65535}, got.Pix); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestSavePlaneErrors(t *testing.T) {
	dir := t.TempDir()
	p := NewPlane(2, 2)

	if err := SavePlane(filepath.Join(dir, "out.xyz"), p, 0); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if err := SavePlane(filepath.Join(dir, "out"), p, 0); err == nil {
		t.Fatal("expected error for missing extension")
	}
	if err := SavePlane(filepath.Join(dir, "no", "such", "dir.png"), p, 0); !errors.Is(err, ErrIO) {
		t.Fatalf("unwritable path error = %v, want ErrIO", err)
	}
	if err := SavePlane(filepath.Join(dir, "empty.png"), NewPlane(0, 0), 0); !errors.Is(err, ErrShape) {
		t.Fatalf("empty plane error = %v, want ErrShape", err)
	}
}

func TestEncodePlaneJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePlane(&buf, constantPlane(16, 16, 128), "jpg", 95); err != nil {
		t.Fatal(err)
	}
	p, format, err := DecodePlane(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if format != "jpeg" || p.Width != 16 || p.Height != 16 {
		t.Fatalf("decoded %s %dx%d", format, p.Width, p.Height)
	}
}

func TestPlaneGray(t *testing.T) {
	p := planeOf(t, []float64{-100, -50, 0})
	g := p.Gray()
	if diff := cmp.Diff([]uint8{0, 128, 255}, g.Pix); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	flat := constantPlane(3, 2, 42).Gray()
	for _, v := range flat.Pix {
		if v != 0 {
			t.Fatalf("constant plane rendered %v", flat.Pix)
		}
	}
}
