package blockdct

import (
	"errors"
	"fmt"
)

var (
	// ErrIO indicates a file could not be read, written or decoded.
	ErrIO = errors.New("io error")
	// ErrShape indicates a nil, empty or inconsistent plane, or mismatched shapes.
	ErrShape = errors.New("shape error")
)

// Anomaly describes a non-fatal numeric condition observed by a stage.
type Anomaly int

const (
	// AnomalyNone means the stage saw nothing unusual.
	AnomalyNone Anomaly = iota
	// NumericAnomaly means the global coefficient maximum was zero or negative,
	// so the threshold cutoff is degenerate or inverted. The cutoff is still
	// applied literally.
	NumericAnomaly
)

func (a Anomaly) String() string {
	switch a {
	case AnomalyNone:
		return "none"
	case NumericAnomaly:
		return "non-positive coefficient maximum"
	default:
		return fmt.Sprintf("anomaly(%d)", int(a))
	}
}

// Plane is a 2D array of real-valued samples in row-major order,
// origin top-left.
type Plane struct {
	Width  int
	Height int
	Pix    []float64
	// BitDepth is the sample depth of the decoded source (8 or 16),
	// 0 for synthetic planes.
	BitDepth int
}

// NewPlane allocates a zeroed width x height plane.
func NewPlane(width, height int) *Plane {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Plane{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// PlaneFromRows builds a plane from a slice of equally long rows.
func PlaneFromRows(rows [][]float64) (*Plane, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty rows", ErrShape)
	}
	w := len(rows[0])
	p := NewPlane(w, len(rows))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrShape, y, len(row), w)
		}
		copy(p.Pix[y*w:], row)
	}
	return p, nil
}

// At returns the sample at column x, row y.
func (p *Plane) At(x, y int) float64 {
	return p.Pix[y*p.Width+x]
}

// Set stores v at column x, row y.
func (p *Plane) Set(x, y int, v float64) {
	p.Pix[y*p.Width+x] = v
}

// Rows returns a copy of the plane as a slice of rows.
func (p *Plane) Rows() [][]float64 {
	rows := make([][]float64, p.Height)
	for y := range rows {
		rows[y] = append([]float64(nil), p.Pix[y*p.Width:(y+1)*p.Width]...)
	}
	return rows
}

// Clone returns a deep copy of p.
func (p *Plane) Clone() *Plane {
	c := *p
	c.Pix = append([]float64(nil), p.Pix...)
	return &c
}

// SameShape reports whether p and o have identical dimensions.
func (p *Plane) SameShape(o *Plane) bool {
	return p != nil && o != nil && p.Width == o.Width && p.Height == o.Height
}

// newLike allocates a zeroed plane with the shape and bit depth of p.
func (p *Plane) newLike() *Plane {
	out := NewPlane(p.Width, p.Height)
	out.BitDepth = p.BitDepth
	return out
}

func (p *Plane) validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil plane", ErrShape)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: empty plane %dx%d", ErrShape, p.Width, p.Height)
	}
	if len(p.Pix) != p.Width*p.Height {
		return fmt.Errorf("%w: %d samples for %dx%d plane", ErrShape, len(p.Pix), p.Width, p.Height)
	}
	return nil
}

// TransformOptions controls the block transforms.
type TransformOptions struct {
	// Workers caps the number of goroutines transforming tiles,
	// 0 means GOMAXPROCS and 1 forces serial execution.
	Workers int
}

// ThresholdReport describes one application of the threshold filter.
type ThresholdReport struct {
	Threshold float64
	// Max is the signed global maximum of the input coefficients.
	Max float64
	// Cutoff is Threshold * Max; elements with abs(c) > Cutoff are kept.
	Cutoff   float64
	Retained int
	Total    int
	Anomaly  Anomaly
}

// Ratio returns the fraction of retained coefficients.
func (r ThresholdReport) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Retained) / float64(r.Total)
}

// Stats compares a reconstruction with its original.
type Stats struct {
	MSE         float64
	PSNR        float64 // dB, +Inf for identical planes
	MaxAbsDiff  float64
	Peak        float64
	SampleCount int
}
