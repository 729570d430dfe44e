package fs

import (
	"errors"
)

// InjectedError marks an error as intentionally injected by [Chaos].
//
// It wraps the underlying error so errors.Is/As continue to work, which
// means os.IsNotExist and errors.Is(err, syscall.EROFS) behave the same
// as for a real failure.
type InjectedError struct {
	Op   string
	Path string
	Err  error
}

// Error returns "<op> <path>: <err>".
func (e *InjectedError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Chaos].
// Returns false if err is nil.
func IsInjected(err error) bool {
	if err == nil {
		return false
	}

	var injected *InjectedError

	return errors.As(err, &injected)
}

func inject(op, path string, err error) error {
	return &InjectedError{Op: op, Path: path, Err: err}
}
