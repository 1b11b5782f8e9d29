package blockdct

import (
	"errors"
	"fmt"
)

// CompressOptions controls the compression pipeline.
type CompressOptions struct {
	// Threshold is the fraction of the global coefficient maximum below which
	// coefficients are dropped, default 0.012.
	Threshold float64
	// Workers caps tile parallelism, see TransformOptions.
	Workers int
	// OnCoefficients is called with the unfiltered coefficient plane.
	OnCoefficients func(coef *Plane)
	// OnResult is called with the final result before it is returned.
	OnResult func(res *Result)
}

// Result holds every intermediate plane of one pipeline run.
type Result struct {
	Original      *Plane
	Coefficients  *Plane
	Filtered      *Plane
	Reconstructed *Plane
	Report        ThresholdReport
	Stats         Stats
}

// SweepPoint is the outcome of the pipeline at one threshold.
type SweepPoint struct {
	Threshold float64
	Report    ThresholdReport
	Stats     Stats
}

func compressOptions(opts []func(o *CompressOptions)) CompressOptions {
	opt := CompressOptions{
		Threshold: defaultThreshold,
	}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	return opt
}

// Compress runs the forward block DCT, the threshold filter and the inverse
// block DCT on p.
func Compress(p *Plane, opts ...func(o *CompressOptions)) (*Result, error) {
	opt := compressOptions(opts)
	workers := func(o *TransformOptions) { o.Workers = opt.Workers }

	coef, err := ForwardBlocks(p, workers)
	if err != nil {
		return nil, fmt.Errorf("forward transform: %w", err)
	}
	if opt.OnCoefficients != nil {
		opt.OnCoefficients(coef)
	}

	res, err := reconstruct(p, coef, opt.Threshold, workers)
	if err != nil {
		return nil, err
	}

	if opt.OnResult != nil {
		opt.OnResult(res)
	}
	return res, nil
}

// CompressFile loads the image at path and compresses it.
func CompressFile(path string, opts ...func(o *CompressOptions)) (*Result, error) {
	p, err := LoadPlane(path)
	if err != nil {
		return nil, err
	}
	return Compress(p, opts...)
}

// Sweep runs the pipeline for each threshold, sharing one forward transform.
func Sweep(p *Plane, thresholds []float64, opts ...func(o *CompressOptions)) ([]SweepPoint, error) {
	if len(thresholds) == 0 {
		return nil, errors.New("no thresholds")
	}
	opt := compressOptions(opts)
	workers := func(o *TransformOptions) { o.Workers = opt.Workers }

	coef, err := ForwardBlocks(p, workers)
	if err != nil {
		return nil, fmt.Errorf("forward transform: %w", err)
	}

	points := make([]SweepPoint, 0, len(thresholds))
	for _, thresh := range thresholds {
		res, err := reconstruct(p, coef, thresh, workers)
		if err != nil {
			return nil, fmt.Errorf("threshold %g: %w", thresh, err)
		}
		points = append(points, SweepPoint{Threshold: thresh, Report: res.Report, Stats: res.Stats})
	}
	return points, nil
}

func reconstruct(p, coef *Plane, thresh float64, workers func(o *TransformOptions)) (*Result, error) {
	filtered, rep, err := ApplyThreshold(coef, thresh)
	if err != nil {
		return nil, fmt.Errorf("threshold: %w", err)
	}
	rec, err := InverseBlocks(filtered, workers)
	if err != nil {
		return nil, fmt.Errorf("inverse transform: %w", err)
	}
	stats, err := Compare(p, rec)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	return &Result{
		Original:      p,
		Coefficients:  coef,
		Filtered:      filtered,
		Reconstructed: rec,
		Report:        rep,
		Stats:         stats,
	}, nil
}
