// Package dct implements the orthonormal type-II DCT and its inverse
// (type-III) for rectangular blocks of any size.
//
// The 1D forward transform of length n is
//
//	X[k] = scale(k) * sum_{i=0}^{n-1} x[i] * cos(pi * k * (2i+1) / (2n))
//	scale(0) = sqrt(1/n), scale(k>0) = sqrt(2/n)
//
// which makes the forward/inverse pair unitary. The 2D transforms are
// separable: axis 0 (columns) first, then axis 1 (rows).
package dct

import (
	"math"
	"sync"
)

// basis holds the scaled cosine matrix for one transform length,
// c[k*n+i] = scale(k) * cos(pi*k*(2i+1)/(2n)).
type basis struct {
	n int
	c []float64
}

var basisCache sync.Map

var scratchPool = sync.Pool{
	New: func() any {
		buf := make([]float64, 0)
		return &buf
	},
}

func basisFor(n int) *basis {
	if v, ok := basisCache.Load(n); ok {
		return v.(*basis)
	}
	b := &basis{n: n, c: make([]float64, n*n)}
	scale0 := math.Sqrt(1.0 / float64(n))
	scaleK := math.Sqrt(2.0 / float64(n))
	for k := 0; k < n; k++ {
		scale := scaleK
		if k == 0 {
			scale = scale0
		}
		for i := 0; i < n; i++ {
			b.c[k*n+i] = scale * math.Cos(math.Pi*float64(k)*float64(2*i+1)/(2.0*float64(n)))
		}
	}
	v, _ := basisCache.LoadOrStore(n, b)
	return v.(*basis)
}

// Forward1D returns the orthonormal DCT-II of x.
func Forward1D(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	b := basisFor(n)
	for k := 0; k < n; k++ {
		row := b.c[k*n : (k+1)*n]
		sum := 0.0
		for i, v := range x {
			sum += v * row[i]
		}
		out[k] = sum
	}
	return out
}

// Inverse1D returns the orthonormal DCT-III of x, the inverse of Forward1D.
func Inverse1D(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	b := basisFor(n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for k, v := range x {
			sum += v * b.c[k*n+i]
		}
		out[i] = sum
	}
	return out
}

// Forward2D transforms the w x h block at src (row stride srcStride) and
// writes the coefficients to dst (row stride dstStride).
// src and dst may not overlap.
func Forward2D(dst []float64, dstStride int, src []float64, srcStride int, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	bh := basisFor(h)
	bw := basisFor(w)
	tmp := getScratch(w * h)
	defer putScratch(tmp)

	// Axis 0: tmp[k][x] = sum_y bh[k][y] * src[y][x].
	for k := 0; k < h; k++ {
		coef := bh.c[k*h : (k+1)*h]
		out := tmp[k*w : (k+1)*w]
		for y := 0; y < h; y++ {
			c := coef[y]
			in := src[y*srcStride : y*srcStride+w]
			for x, v := range in {
				out[x] += c * v
			}
		}
	}

	// Axis 1: dst[k][l] = sum_x bw[l][x] * tmp[k][x].
	for k := 0; k < h; k++ {
		in := tmp[k*w : (k+1)*w]
		out := dst[k*dstStride : k*dstStride+w]
		for l := 0; l < w; l++ {
			coef := bw.c[l*w : (l+1)*w]
			sum := 0.0
			for x, v := range in {
				sum += coef[x] * v
			}
			out[l] = sum
		}
	}
}

// Inverse2D is the inverse of Forward2D.
func Inverse2D(dst []float64, dstStride int, src []float64, srcStride int, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	bh := basisFor(h)
	bw := basisFor(w)
	tmp := getScratch(w * h)
	defer putScratch(tmp)

	// Axis 0: tmp[y][l] = sum_k bh[k][y] * src[k][l].
	for k := 0; k < h; k++ {
		coef := bh.c[k*h : (k+1)*h]
		in := src[k*srcStride : k*srcStride+w]
		for y := 0; y < h; y++ {
			c := coef[y]
			out := tmp[y*w : (y+1)*w]
			for l, v := range in {
				out[l] += c * v
			}
		}
	}

	// Axis 1: dst[y][x] = sum_l bw[l][x] * tmp[y][l].
	for y := 0; y < h; y++ {
		in := tmp[y*w : (y+1)*w]
		out := dst[y*dstStride : y*dstStride+w]
		for x := 0; x < w; x++ {
			sum := 0.0
			for l, v := range in {
				sum += bw.c[l*w+x] * v
			}
			out[x] = sum
		}
	}
}

// getScratch returns a zeroed buffer of length n.
func getScratch(n int) []float64 {
	bufPtr := scratchPool.Get().(*[]float64)
	buf := *bufPtr
	if cap(buf) < n {
		return make([]float64, n)
	}
	buf = buf[:n]
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

func putScratch(buf []float64) {
	if buf == nil {
		return
	}
	buf = buf[:0]
	scratchPool.Put(&buf)
}
