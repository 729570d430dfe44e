package usage

import "errors"

// Error variables for usage persistence.
var (
	ErrCorrupt = errors.New("usage file is corrupt")
	ErrPersist = errors.New("cannot persist usage")
)
