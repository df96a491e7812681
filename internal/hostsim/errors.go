package hostsim

import "errors"

// Error constants.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrVerify           = errors.New("timeline verification failed")
	ErrDescriptor       = errors.New("invalid widget descriptor")
)
