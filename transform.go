package blockdct

import (
	"github.com/vearutop/blockdct/internal/dct"
	"github.com/vearutop/blockdct/internal/tile"
)

// ForwardBlocks applies the orthonormal 2D DCT to every BlockSize x BlockSize
// tile of p and returns the coefficient plane. Edge tiles are clamped to the
// plane extent and transformed at their reduced size.
func ForwardBlocks(p *Plane, opts ...func(o *TransformOptions)) (*Plane, error) {
	return blockTransform(p, dct.Forward2D, opts)
}

// InverseBlocks applies the orthonormal 2D inverse DCT to every tile of a
// coefficient plane produced by ForwardBlocks.
func InverseBlocks(p *Plane, opts ...func(o *TransformOptions)) (*Plane, error) {
	return blockTransform(p, dct.Inverse2D, opts)
}

// DCT2 transforms the whole plane as a single block.
func DCT2(p *Plane) (*Plane, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	out := p.newLike()
	dct.Forward2D(out.Pix, out.Width, p.Pix, p.Width, p.Width, p.Height)
	return out, nil
}

// IDCT2 is the inverse of DCT2.
func IDCT2(p *Plane) (*Plane, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	out := p.newLike()
	dct.Inverse2D(out.Pix, out.Width, p.Pix, p.Width, p.Width, p.Height)
	return out, nil
}

type kernel func(dst []float64, dstStride int, src []float64, srcStride int, w, h int)

func blockTransform(p *Plane, k kernel, opts []func(o *TransformOptions)) (*Plane, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	var opt TransformOptions
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}

	out := p.newLike()
	tiles := tile.Grid(p.Width, p.Height, BlockSize)
	stride := p.Width

	// Tiles write disjoint regions of out.
	parallelFor(len(tiles), opt.Workers, func(start, end int) {
		for _, r := range tiles[start:end] {
			off := r.Min.Y*stride + r.Min.X
			k(out.Pix[off:], stride, p.Pix[off:], stride, r.Dx(), r.Dy())
		}
	})

	return out, nil
}
