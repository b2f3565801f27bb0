package domain

import "errors"

// ErrNotSupported is returned by passthrough operations (such as file
// reading) that are unavailable while a test session is active.
var ErrNotSupported = errors.New("operation not supported inside a test session")
