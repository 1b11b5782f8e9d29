// Package blockdct demonstrates lossy image compression by block-wise DCT thresholding.
//
// A grayscale image is split into 8x8 tiles, each tile is transformed with an orthonormal
// 2D DCT-II, coefficients below a fraction of the global maximum are zeroed, and every tile
// is inverted with the 2D DCT-III. It is an illustrative transform demo, not a codec: there
// is no quantization table, entropy coding or bitstream.
package blockdct
