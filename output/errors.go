// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	ErrNotInstalled     = errors.New("output not installed")
	ErrUnavailable      = errors.New("sound device support not built in")
	ErrUnsupportedFrame = errors.New("output expects 16-bit mono frames")
	ErrRateMismatch     = errors.New("sound device already opened at another sample rate")
)
