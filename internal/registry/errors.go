package registry

import "errors"

// Error variables for registry construction.
var (
	ErrNoSources  = errors.New("no application source location could be read")
	ErrNoIdentity = errors.New("descriptor has neither id nor executable")
	ErrNoName     = errors.New("descriptor has no name")
)
