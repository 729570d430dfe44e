package desktop

import "errors"

// Error variables for descriptor parsing.
var (
	ErrNoDesktopGroup = errors.New("missing [Desktop Entry] group")
	ErrNotApplication = errors.New("not an application entry")
	ErrMissingName    = errors.New("missing required key: Name")
	ErrMissingExec    = errors.New("missing required key: Exec")
	ErrInvalidBool    = errors.New("invalid boolean value")
	ErrInvalidExec    = errors.New("invalid Exec value")
)
