// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrInvalidChannel    = errors.New("invalid channel")
	ErrPeripheralInstall = errors.New("output peripheral install failed")
	ErrStopTimeout       = errors.New("engine did not confirm stop")
	ErrRunning           = errors.New("engine is running")
)
