package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrNotPCM               = errors.New("only uncompressed PCM WAV is supported")
	ErrUnsupportedBitDepth  = errors.New("only 8-bit and 16-bit PCM WAV is supported")
)
