package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input is not an AIFF container
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedBitDepth indicates a sample width other than 8 or 16 bits
	ErrUnsupportedBitDepth = errors.New("only 8-bit and 16-bit PCM AIFF is supported")

	// ErrUnsupportedAiffLayout indicates an AIFF file without a usable format
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
