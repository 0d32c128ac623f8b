// SPDX-License-Identifier: EPL-2.0

package storage

import "errors"

var (
	// ErrUnsupportedAsset is returned for containers that are not mono at
	// the engine sample rate.
	ErrUnsupportedAsset = errors.New("asset must be mono 22050 Hz")
	ErrIsDirectory      = errors.New("asset is a directory")
)
