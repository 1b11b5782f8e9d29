package blockdct

import (
	"fmt"
	"math"
)

// Compare measures how far reconstructed is from original.
// PSNR uses a peak of 255, or 65535 when original came from a 16-bit source.
func Compare(original, reconstructed *Plane) (Stats, error) {
	if err := original.validate(); err != nil {
		return Stats{}, err
	}
	if err := reconstructed.validate(); err != nil {
		return Stats{}, err
	}
	if !original.SameShape(reconstructed) {
		return Stats{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShape,
			original.Width, original.Height, reconstructed.Width, reconstructed.Height)
	}

	var sum, maxDiff float64
	for i, v := range original.Pix {
		d := v - reconstructed.Pix[i]
		sum += d * d
		if ad := math.Abs(d); ad > maxDiff {
			maxDiff = ad
		}
	}

	s := Stats{
		MSE:         sum / float64(len(original.Pix)),
		MaxAbsDiff:  maxDiff,
		Peak:        peakFor(original.BitDepth),
		SampleCount: len(original.Pix),
	}
	s.PSNR = psnr(s.MSE, s.Peak)
	return s, nil
}

func peakFor(bitDepth int) float64 {
	if bitDepth == 16 {
		return 65535
	}
	return 255
}

func psnr(mse, peak float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(peak*peak/mse)
}
