// Package tile addresses non-overlapping square tiles of a 2D plane.
package tile

import "image"

// Grid returns the tiles covering a width x height plane in row-major order.
// Tile origins step by size on both axes; tiles that would extend past the
// plane are clamped to the remaining rows and columns.
func Grid(width, height, size int) []image.Rectangle {
	if width <= 0 || height <= 0 || size <= 0 {
		return nil
	}
	across := (width + size - 1) / size
	down := (height + size - 1) / size
	tiles := make([]image.Rectangle, 0, across*down)
	for y := 0; y < height; y += size {
		for x := 0; x < width; x += size {
			tiles = append(tiles, image.Rect(x, y, min(x+size, width), min(y+size, height)))
		}
	}
	return tiles
}

// Count returns the number of tiles Grid would produce.
func Count(width, height, size int) int {
	if width <= 0 || height <= 0 || size <= 0 {
		return 0
	}
	return ((width + size - 1) / size) * ((height + size - 1) / size)
}
