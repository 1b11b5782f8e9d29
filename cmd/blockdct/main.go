package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/vearutop/blockdct"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "compress":
		if err := runCompress(os.Args[2:]); err != nil {
			fail(err)
		}
	case "sweep":
		if err := runSweep(os.Args[2:]); err != nil {
			fail(err)
		}
	case "coeffs":
		if err := runCoeffs(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: blockdct <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  compress -in f14.tif [-thresh 0.012] [-out recon.png] [-figure cmp.png] [-coeffs dct.png]")
	fmt.Fprintln(os.Stderr, "           [-separate] [-workers N] [-q 90] [-config cfg.yaml]")
	fmt.Fprintln(os.Stderr, "  sweep    -in f14.tif [-thresholds 0,0.005,0.012,0.05,0.1] [-workers N] [-config cfg.yaml]")
	fmt.Fprintln(os.Stderr, "  coeffs   -in f14.tif -out dct.png [-config cfg.yaml]")
}

func loadConfig(path string) (blockdct.Config, error) {
	if path == "" {
		return blockdct.DefaultConfig(), nil
	}
	return blockdct.LoadConfig(path)
}

// isSet reports whether the flag was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func runCompress(args []string) error {
	fs := flag.NewFlagSet("compress", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	configPath := fs.String("config", "", "YAML config file")
	thresh := fs.Float64("thresh", 0.012, "fraction of the largest coefficient to drop below")
	outPath := fs.String("out", "", "write reconstructed image (png, jpg, tif, bmp)")
	figurePath := fs.String("figure", "", "write original vs. reconstructed figure PNG")
	coeffsPath := fs.String("coeffs", "", "write DCT coefficient figure PNG")
	separate := fs.Bool("separate", false, "write one figure per image instead of side by side")
	workers := fs.Int("workers", 0, "tile workers, 0 for GOMAXPROCS")
	q := fs.Int("q", 90, "JPEG quality for -out")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if isSet(fs, "thresh") {
		cfg.Threshold = *thresh
	}
	if isSet(fs, "workers") {
		cfg.Workers = *workers
	}
	if isSet(fs, "q") {
		cfg.JPEGQuality = *q
	}
	if *separate {
		cfg.Figure.Layout = blockdct.LayoutSeparate
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	res, err := blockdct.CompressFile(*inPath, cfg.CompressOption())
	if err != nil {
		return err
	}
	printResult(res)

	if *coeffsPath != "" {
		panels := []blockdct.Panel{{Title: "DCT Image", Plane: res.Coefficients}}
		if err := writeFigure(*coeffsPath, panels, cfg.Figure); err != nil {
			return fmt.Errorf("write coefficients figure: %w", err)
		}
	}
	if *outPath != "" {
		if err := blockdct.SavePlane(*outPath, res.Reconstructed, cfg.JPEGQuality); err != nil {
			return fmt.Errorf("write reconstructed image: %w", err)
		}
	}
	if *figurePath != "" {
		panels, err := blockdct.NewPanels(
			[]*blockdct.Plane{res.Original, res.Reconstructed},
			[]string{"Original Image", "DCT Compressed Image"},
		)
		if err != nil {
			return err
		}
		if err := writeFigure(*figurePath, panels, cfg.Figure); err != nil {
			return fmt.Errorf("write figure: %w", err)
		}
	}
	return nil
}

func runSweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	configPath := fs.String("config", "", "YAML config file")
	list := fs.String("thresholds", "0,0.005,0.012,0.05,0.1", "comma-separated thresholds")
	workers := fs.Int("workers", 0, "tile workers, 0 for GOMAXPROCS")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	thresholds, err := parseThresholds(*list)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if isSet(fs, "workers") {
		cfg.Workers = *workers
	}

	p, err := blockdct.LoadPlane(*inPath)
	if err != nil {
		return err
	}
	points, err := blockdct.Sweep(p, thresholds, cfg.CompressOption())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%-10s %-12s %-10s %-12s %s\n", "threshold", "retained", "ratio", "mse", "psnr")
	for _, pt := range points {
		fmt.Fprintf(os.Stdout, "%-10g %-12d %-10.4f %-12.4f %s\n",
			pt.Threshold, pt.Report.Retained, pt.Report.Ratio(), pt.Stats.MSE, formatPSNR(pt.Stats.PSNR))
		warnAnomaly(pt.Report)
	}
	return nil
}

func runCoeffs(args []string) error {
	fs := flag.NewFlagSet("coeffs", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	outPath := fs.String("out", "", "output figure PNG")
	configPath := fs.String("config", "", "YAML config file")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	p, err := blockdct.LoadPlane(*inPath)
	if err != nil {
		return err
	}
	coef, err := blockdct.ForwardBlocks(p, func(o *blockdct.TransformOptions) {
		o.Workers = cfg.Workers
	})
	if err != nil {
		return err
	}
	return writeFigure(*outPath, []blockdct.Panel{{Title: "DCT Image", Plane: coef}}, cfg.Figure)
}

func writeFigure(path string, panels []blockdct.Panel, opts blockdct.FigureOptions) error {
	paths, err := blockdct.SaveFigure(path, panels, opts)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(os.Stderr, "wrote", p)
	}
	return nil
}

func parseThresholds(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q: %w", f, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("no thresholds")
	}
	return out, nil
}

func printResult(res *blockdct.Result) {
	rep := res.Report
	fmt.Fprintf(os.Stdout, "size:      %dx%d\n", res.Original.Width, res.Original.Height)
	fmt.Fprintf(os.Stdout, "threshold: %g (cutoff %g of max %g)\n", rep.Threshold, rep.Cutoff, rep.Max)
	fmt.Fprintf(os.Stdout, "retained:  %d of %d coefficients (%.2f%%)\n", rep.Retained, rep.Total, 100*rep.Ratio())
	fmt.Fprintf(os.Stdout, "mse:       %.4f\n", res.Stats.MSE)
	fmt.Fprintf(os.Stdout, "psnr:      %s\n", formatPSNR(res.Stats.PSNR))
	warnAnomaly(rep)
}

func warnAnomaly(rep blockdct.ThresholdReport) {
	if rep.Anomaly != blockdct.AnomalyNone {
		fmt.Fprintf(os.Stderr, "warning: threshold %g: %s %g, cutoff %g applied literally\n",
			rep.Threshold, rep.Anomaly, rep.Max, rep.Cutoff)
	}
}

func formatPSNR(v float64) string {
	if math.IsInf(v, 1) {
		return "inf dB"
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + " dB"
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
