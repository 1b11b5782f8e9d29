package blockdct

import (
	"math"
)

// ApplyThreshold zeroes every coefficient c of p with abs(c) <= thresh*M, where
// M is the signed global maximum of p. The returned plane is new; p is not
// modified.
//
// When M <= 0 the cutoff is zero or negative. The comparison is still applied
// literally, so a negative cutoff keeps every element. The report flags this
// with NumericAnomaly.
func ApplyThreshold(p *Plane, thresh float64) (*Plane, ThresholdReport, error) {
	if err := p.validate(); err != nil {
		return nil, ThresholdReport{}, err
	}

	m := math.Inf(-1)
	for _, c := range p.Pix {
		if c > m {
			m = c
		}
	}

	rep := ThresholdReport{
		Threshold: thresh,
		Max:       m,
		Cutoff:    thresh * m,
		Total:     len(p.Pix),
	}
	if m <= 0 {
		rep.Anomaly = NumericAnomaly
	}

	out := p.newLike()
	for i, c := range p.Pix {
		if math.Abs(c) > rep.Cutoff {
			out.Pix[i] = c
			if c != 0 {
				rep.Retained++
			}
		}
	}

	return out, rep, nil
}

// RetainedCount returns the number of non-zero elements of p.
func RetainedCount(p *Plane) int {
	if p == nil {
		return 0
	}
	n := 0
	for _, c := range p.Pix {
		if c != 0 {
			n++
		}
	}
	return n
}
