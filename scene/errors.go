package scene

import "errors"

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidStep   = errors.New("invalid step")
)
