package types

import "errors"

// Sentinel kinds for view errors.
var (
	ErrUnknownFamily = errors.New("unknown widget family")
)
