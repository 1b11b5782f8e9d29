package blockdct

// BlockSize is the tile edge of the block transforms.
const BlockSize = 8

const (
	defaultThreshold   = 0.012
	defaultJPEGQuality = 90
)

const (
	defaultFigureWidthInches  = 20.0
	defaultFigureHeightInches = 7.0
	defaultDPI                = 100
	defaultTitleSize          = 18.0
)
