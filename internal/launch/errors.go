package launch

import "errors"

// Error variables for process launching.
var (
	ErrEmptyCommand = errors.New("empty command")
	ErrInvalidExec  = errors.New("invalid Exec value")
	ErrStart        = errors.New("cannot start process")
)
